package hello

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-barry/hello-lambda/core"
)

// App is a fully wired application. Config is captured at construction and
// never changes afterwards.
type App struct {
	Config   core.Config
	Runtime  core.RuntimeContext
	Router   *core.Router
	Sessions *core.SessionCodec
	Reloader core.LiveReloaderInterface
	Logger   *core.Logger
}

func NewApp(cfg core.Config, rt core.RuntimeContext, logger *core.Logger) (*App, error) {
	if logger == nil {
		logger = core.NewLogger(nil, cfg.DebugLogs)
	}

	sessions, err := core.NewSessionCodec(cfg.Secret.Key, cfg.SessionCookie, time.Duration(cfg.SessionMaxAge)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}

	router, err := core.NewRouter(cfg, rt, logger)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	registerRoutes(router)

	app := &App{
		Config:   cfg,
		Runtime:  rt,
		Router:   router,
		Sessions: sessions,
		Logger:   logger,
	}
	if rt.Live {
		app.Reloader = core.NewLiveReloader(logger)
	}
	return app, nil
}

func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	if a.Reloader != nil {
		mux.HandleFunc(core.LiveReloadPath, a.Reloader.Handler)
	}
	mux.Handle("/", core.RequestLogger(a.Logger, core.SessionMiddleware(a.Sessions, a.Router)))

	return mux
}
