package cli

import (
	"os"
	"path/filepath"
	"testing"

	hello "github.com/go-barry/hello-lambda"
	"github.com/urfave/cli/v2"
)

var recordedConfig *hello.RuntimeConfig

func mockStart(t *testing.T) {
	t.Helper()
	original := hello.Start
	hello.Start = func(cfg hello.RuntimeConfig) error {
		recordedConfig = &cfg
		return nil
	}
	t.Cleanup(func() {
		hello.Start = original
		recordedConfig = nil
	})
}

func TestServeCommand_UsesProdConfig(t *testing.T) {
	mockStart(t)
	t.Setenv("PORT", "")

	app := &cli.App{Commands: []*cli.Command{ServeCommand}}
	if err := app.Run([]string{"hello-lambda", "serve", "--env-file", ""}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig == nil {
		t.Fatal("expected Start to be called, but it was not")
	}
	if recordedConfig.Env != "prod" || !recordedConfig.EnableCache || recordedConfig.ForceLive || recordedConfig.Port != 0 {
		t.Errorf("unexpected serve config: %+v", recordedConfig)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	mockStart(t)

	app := &cli.App{Commands: []*cli.Command{ServeCommand}}
	err := app.Run([]string{"hello-lambda", "serve", "--port", "9090", "--no-cache", "--config", "custom.yml", "--env-file", ""})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig.Port != 9090 || recordedConfig.EnableCache || recordedConfig.ConfigPath != "custom.yml" {
		t.Errorf("unexpected serve config: %+v", recordedConfig)
	}
}

func TestServeCommand_PortFromEnv(t *testing.T) {
	mockStart(t)
	t.Setenv("PORT", "7070")

	app := &cli.App{Commands: []*cli.Command{ServeCommand}}
	if err := app.Run([]string{"hello-lambda", "serve", "--env-file", ""}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig.Port != 7070 {
		t.Errorf("expected port 7070 from PORT, got %d", recordedConfig.Port)
	}
}

func TestDevCommand_UsesDevConfig(t *testing.T) {
	mockStart(t)
	t.Setenv("PORT", "")

	app := &cli.App{Commands: []*cli.Command{DevCommand}}
	if err := app.Run([]string{"hello-lambda", "dev", "--env-file", ""}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig == nil {
		t.Fatal("expected Start to be called, but it was not")
	}
	if recordedConfig.Env != "dev" || recordedConfig.EnableCache || !recordedConfig.ForceLive {
		t.Errorf("unexpected dev config: %+v", recordedConfig)
	}
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("HELLO_TEST_A=fromfile\nHELLO_TEST_B=fromfile\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HELLO_TEST_A", "fromenv")
	t.Setenv("HELLO_TEST_B", "")
	os.Unsetenv("HELLO_TEST_B")

	loadEnvFile(path)

	if got := os.Getenv("HELLO_TEST_A"); got != "fromenv" {
		t.Errorf("expected existing value to win, got %q", got)
	}
	if got := os.Getenv("HELLO_TEST_B"); got != "fromfile" {
		t.Errorf("expected value from file, got %q", got)
	}
}

func TestLoadEnvFile_MissingIsSilent(t *testing.T) {
	out := captureStderr(func() {
		loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	})
	if out != "" {
		t.Errorf("expected no warning for missing file, got %q", out)
	}
}
