package cli

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"

	hello "github.com/go-barry/hello-lambda"
	"github.com/go-barry/hello-lambda/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Render every route in-process and verify the responses",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Value: core.DefaultConfigPath, Usage: "path to the YAML config file"},
	},
	Action: func(c *cli.Context) error {
		config, err := hello.ResolveConfig(hello.RuntimeConfig{
			Env:        "prod",
			ConfigPath: c.String("config"),
		}, os.LookupEnv)
		if err != nil {
			return err
		}
		config.Live = false

		app, err := hello.NewApp(config, core.RuntimeContext{Env: "prod"}, core.NewLogger(io.Discard, false))
		if err != nil {
			return err
		}

		if !checkRoutes(os.Stdout, app.Handler(), app.Router.Routes()) {
			return cli.Exit("some routes failed to render", 1)
		}

		fmt.Println("✅ All routes rendered successfully.")
		return nil
	},
}

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// checkRoutes renders each route through handler and reports one line per
// route to out. A route fails on a non-200 status or a missing or empty
// <title>, or when the title differs from the route's expected Title.
func checkRoutes(out io.Writer, handler http.Handler, routes []core.Route) bool {
	ok := true
	for _, route := range routes {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(route.Method, route.Path, nil))

		if rec.Code != http.StatusOK {
			ok = false
			fmt.Fprintf(out, "❌ %s %s → status %d\n", route.Method, route.Path, rec.Code)
			continue
		}

		title, found := extractTitle(rec.Body.String())
		switch {
		case !found:
			ok = false
			fmt.Fprintf(out, "❌ %s %s → missing <title>\n", route.Method, route.Path)
		case title == "":
			ok = false
			fmt.Fprintf(out, "❌ %s %s → empty <title>\n", route.Method, route.Path)
		case route.Title != "" && title != route.Title:
			ok = false
			fmt.Fprintf(out, "❌ %s %s → title %q, want %q\n", route.Method, route.Path, title, route.Title)
		default:
			fmt.Fprintf(out, "✅ %s %s\n", route.Method, route.Path)
		}
	}
	return ok
}

func extractTitle(body string) (string, bool) {
	m := titlePattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(html.UnescapeString(m[1])), true
}
