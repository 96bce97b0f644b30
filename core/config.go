package core

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath    = "hello.config.yml"
	DefaultPort          = 8080
	DefaultSessionCookie = "session_"
	DefaultSessionMaxAge = 365 * 24 * 60 * 60

	// SecretSize is the length of a generated session key.
	SecretSize = 20
)

type Config struct {
	Port          int      `yaml:"port"`
	CacheEnabled  bool     `yaml:"cache"`
	Minify        bool     `yaml:"minify"`
	Pico          bool     `yaml:"pico"`
	DebugHeaders  bool     `yaml:"debugHeaders"`
	DebugLogs     bool     `yaml:"debugLogs"`
	WatchDirs     []string `yaml:"watchDirs"`
	SessionCookie string   `yaml:"sessionCookie"`
	SessionMaxAge int      `yaml:"sessionMaxAge"`

	Live   bool   `yaml:"-"`
	Secret Secret `yaml:"-"`
}

// Secret is the session-signing key. Pinned reports whether it came from
// SESSION_SECRET; an unpinned key is regenerated on every process start.
type Secret struct {
	Key    []byte
	Pinned bool
}

var randReader io.Reader = rand.Reader

func DefaultConfig() Config {
	return Config{
		Port:          DefaultPort,
		CacheEnabled:  true,
		Pico:          true,
		WatchDirs:     []string{"."},
		SessionCookie: DefaultSessionCookie,
		SessionMaxAge: DefaultSessionMaxAge,
	}
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = DefaultSessionCookie
	}
	if cfg.SessionMaxAge <= 0 {
		cfg.SessionMaxAge = DefaultSessionMaxAge
	}
	if len(cfg.WatchDirs) == 0 {
		cfg.WatchDirs = []string{"."}
	}

	return cfg, nil
}

// ApplyEnv overlays SESSION_SECRET, LIVE and PORT onto cfg.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	secret, err := ResolveSecret(lookup)
	if err != nil {
		return Config{}, err
	}
	cfg.Secret = secret

	if v, ok := lookup("LIVE"); ok {
		cfg.Live = parseTruthy(v)
	}

	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func ResolveSecret(lookup func(string) (string, bool)) (Secret, error) {
	if v, ok := lookup("SESSION_SECRET"); ok && v != "" {
		return Secret{Key: []byte(v), Pinned: true}, nil
	}

	key := make([]byte, SecretSize)
	if _, err := io.ReadFull(randReader, key); err != nil {
		return Secret{}, fmt.Errorf("generate session secret: %w", err)
	}
	return Secret{Key: key}, nil
}

// parseTruthy treats any non-blank value as true, so LIVE=0 and LIVE=false
// still enable live mode.
func parseTruthy(v string) bool {
	return strings.TrimSpace(v) != ""
}
