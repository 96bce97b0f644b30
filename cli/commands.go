package cli

import (
	"fmt"
	"os"

	hello "github.com/go-barry/hello-lambda"
	"github.com/go-barry/hello-lambda/core"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var serveFlags = []cli.Flag{
	&cli.IntFlag{
		Name:    "port",
		Usage:   "port to listen on (overrides the config file)",
		EnvVars: []string{"PORT"},
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "path to the YAML config file",
		Value: core.DefaultConfigPath,
	},
	&cli.StringFlag{
		Name:  "env-file",
		Usage: "dotenv file loaded before reading the environment",
		Value: ".env",
	},
}

var ServeCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the server (LIVE enables live reload)",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "no-cache", Usage: "render every request instead of reusing the first render"},
	}, serveFlags...),
	Action: func(c *cli.Context) error {
		loadEnvFile(c.String("env-file"))
		return hello.Start(hello.RuntimeConfig{
			Env:         "prod",
			EnableCache: !c.Bool("no-cache"),
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		})
	},
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start the server in dev mode (no caching, live reload)",
	Flags: serveFlags,
	Action: func(c *cli.Context) error {
		loadEnvFile(c.String("env-file"))
		return hello.Start(hello.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			ForceLive:   true,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		})
	},
}

// loadEnvFile never overrides variables that are already set.
func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "⚠️  could not load %s: %v\n", path, err)
	}
}
