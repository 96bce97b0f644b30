package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/go-barry/hello-lambda/core"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var randReader io.Reader = rand.Reader

var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Write a .env that pins SESSION_SECRET so sessions survive restarts",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "out", Value: ".env", Usage: "file to write"},
		&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
		&cli.BoolFlag{Name: "live", Usage: "also set LIVE=1"},
	},
	Action: func(c *cli.Context) error {
		out := c.String("out")

		env := map[string]string{}
		if existing, err := godotenv.Read(out); err == nil {
			if _, ok := existing["SESSION_SECRET"]; ok && !c.Bool("force") {
				return cli.Exit(fmt.Sprintf("%s already pins SESSION_SECRET (use --force to replace it)", out), 1)
			}
			env = existing
		}

		secret, err := generateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		env["SESSION_SECRET"] = secret
		if c.Bool("live") {
			env["LIVE"] = "1"
		}

		if err := godotenv.Write(env, out); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		fmt.Println("🔑 Wrote SESSION_SECRET to", out)
		fmt.Println("▶  Run: hello-lambda serve")
		return nil
	},
}

func generateSecret() (string, error) {
	b := make([]byte, core.SecretSize)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
