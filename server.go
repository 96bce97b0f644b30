package hello

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-barry/hello-lambda/core"
)

const shutdownTimeout = 10 * time.Second

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	ForceLive   bool
	Port        int
	ConfigPath  string
}

// ResolveConfig loads the config file and overlays the environment and the
// runtime flags. A non-zero rc.Port wins over both.
func ResolveConfig(rc RuntimeConfig, lookup func(string) (string, bool)) (core.Config, error) {
	path := rc.ConfigPath
	if path == "" {
		path = core.DefaultConfigPath
	}

	config, err := core.LoadConfig(path)
	if err != nil {
		return core.Config{}, err
	}
	config, err = core.ApplyEnv(config, lookup)
	if err != nil {
		return core.Config{}, err
	}

	config.CacheEnabled = config.CacheEnabled && rc.EnableCache
	if rc.ForceLive {
		config.Live = true
	}
	if rc.Port > 0 {
		config.Port = rc.Port
	}
	return config, nil
}

var Start = func(rc RuntimeConfig) error {
	config, err := ResolveConfig(rc, os.LookupEnv)
	if err != nil {
		return err
	}

	logger := core.NewLogger(os.Stderr, config.DebugLogs)
	logger.Infof("Starting in %s mode...", rc.Env)
	if !config.Secret.Pinned {
		logger.Warnf("SESSION_SECRET not set; sessions will not survive a restart")
	}

	app, err := NewApp(config, core.RuntimeContext{Env: rc.Env, Live: config.Live}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if lr, ok := app.Reloader.(*core.LiveReloader); ok {
		if err := lr.Watch(ctx, config.WatchDirs...); err != nil {
			logger.Warnf("live reload watcher disabled: %v", err)
		} else {
			logger.Infof("🔄 Live reload watching %v", config.WatchDirs)
		}
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", config.Port))
	if err != nil {
		return err
	}
	logger.Infof("✅ Running at http://localhost:%d", config.Port)

	return Serve(ctx, ln, app.Handler(), logger)
}

// Serve runs an HTTP server on ln until ctx is cancelled, then drains
// in-flight requests.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *core.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Infof("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
