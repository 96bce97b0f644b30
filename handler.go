package hello

import (
	"net/http"
	"os"
	"sync"

	"github.com/go-barry/hello-lambda/core"
)

var (
	functionOnce    sync.Once
	functionHandler http.Handler
	functionErr     error
)

// Handler is the entry point for serverless function platforms that invoke
// an http.HandlerFunc directly. The app is built from the environment on the
// first call and reused for the life of the instance. Live reload is never
// enabled here.
func Handler(w http.ResponseWriter, r *http.Request) {
	functionOnce.Do(func() {
		functionHandler, functionErr = buildFunctionHandler(os.LookupEnv)
	})
	if functionErr != nil {
		http.Error(w, "Startup error: "+functionErr.Error(), http.StatusInternalServerError)
		return
	}
	functionHandler.ServeHTTP(w, r)
}

func buildFunctionHandler(lookup func(string) (string, bool)) (http.Handler, error) {
	config, err := ResolveConfig(RuntimeConfig{Env: "prod", EnableCache: true}, lookup)
	if err != nil {
		return nil, err
	}
	config.Live = false

	app, err := NewApp(config, core.RuntimeContext{Env: "prod"}, core.NewLogger(os.Stderr, config.DebugLogs))
	if err != nil {
		return nil, err
	}
	return app.Handler(), nil
}
