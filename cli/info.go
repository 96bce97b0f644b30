package cli

import (
	"fmt"
	"os"

	"github.com/go-barry/hello-lambda/core"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v2"
)

type configInfo struct {
	Port          int      `json:"port"`
	CacheEnabled  bool     `json:"cache"`
	Minify        bool     `json:"minify"`
	Pico          bool     `json:"pico"`
	DebugHeaders  bool     `json:"debugHeaders"`
	DebugLogs     bool     `json:"debugLogs"`
	Live          bool     `json:"live"`
	WatchDirs     []string `json:"watchDirs"`
	SessionCookie string   `json:"sessionCookie"`
	SessionMaxAge int      `json:"sessionMaxAge"`
	SecretPinned  bool     `json:"secretPinned"`
}

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print the resolved configuration",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Value: core.DefaultConfigPath, Usage: "path to the YAML config file"},
		&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before reading the environment"},
		&cli.BoolFlag{Name: "json", Usage: "print as JSON"},
	},
	Action: func(c *cli.Context) error {
		loadEnvFile(c.String("env-file"))

		config, err := core.LoadConfig(c.String("config"))
		if err != nil {
			return err
		}
		config, err = core.ApplyEnv(config, os.LookupEnv)
		if err != nil {
			return err
		}

		info := configInfo{
			Port:          config.Port,
			CacheEnabled:  config.CacheEnabled,
			Minify:        config.Minify,
			Pico:          config.Pico,
			DebugHeaders:  config.DebugHeaders,
			DebugLogs:     config.DebugLogs,
			Live:          config.Live,
			WatchDirs:     config.WatchDirs,
			SessionCookie: config.SessionCookie,
			SessionMaxAge: config.SessionMaxAge,
			SecretPinned:  config.Secret.Pinned,
		}

		if c.Bool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		secret := "random per process (set SESSION_SECRET to pin)"
		if info.SecretPinned {
			secret = "pinned via SESSION_SECRET"
		}

		fmt.Println("🌐 Port:", info.Port)
		fmt.Println("🔁 Cache Enabled:", info.CacheEnabled)
		fmt.Println("🗜️  Minify:", info.Minify)
		fmt.Println("🔁 Debug Headers Enabled:", info.DebugHeaders)
		fmt.Println("🔄 Live Reload:", info.Live)
		fmt.Println("🍪 Session Cookie:", info.SessionCookie)
		fmt.Println("🔑 Session Secret:", secret)

		return nil
	},
}
