// Package config loads the viewer configuration: a JSON document (comments
// and trailing commas allowed) with LOGVIEW_* environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"logviewer/internal/views"
)

// EnvPrefix prefixes every environment override, e.g. LOGVIEW_PASSWORD.
const EnvPrefix = "LOGVIEW"

const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is built once at startup and never mutated.
type Config struct {
	Password     string
	PasswordHash string

	RefreshInterval   int // seconds
	SessionDuration   time.Duration
	InactivityTimeout time.Duration

	ListenAddr string

	SessionStore  string
	SessionDir    string
	SweepInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// CommandTimeout of zero means commands run until they exit.
	CommandTimeout time.Duration
	Shell          string

	TrustForwardedProto bool

	LogLevel  string
	LogFormat string

	Views *views.Registry
}

type viewsDocument struct {
	LogViews map[string]views.Spec `json:"log_views"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw, filepath.Dir(path))
}

// Parse builds a Config from raw file contents. baseDir anchors a relative
// session_dir.
func Parse(raw []byte, baseDir string) (*Config, error) {
	doc := jsonc.ToJSON(raw)

	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("config: invalid JSON: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// viper folds key case; view names are case-significant, so log_views
	// is decoded straight from the document.
	var vd viewsDocument
	if err := json.Unmarshal(doc, &vd); err != nil {
		return nil, fmt.Errorf("config: log_views: %w", err)
	}

	cfg := &Config{
		Password:            v.GetString("password"),
		PasswordHash:        v.GetString("password_hash"),
		RefreshInterval:     v.GetInt("refresh_interval"),
		SessionDuration:     seconds(v.GetInt("session_duration")),
		InactivityTimeout:   seconds(v.GetInt("inactivity_timeout")),
		ListenAddr:          v.GetString("listen_addr"),
		SessionStore:        strings.ToLower(strings.TrimSpace(v.GetString("session_store"))),
		SessionDir:          v.GetString("session_dir"),
		SweepInterval:       seconds(v.GetInt("sweep_interval")),
		RedisAddr:           v.GetString("redis_addr"),
		RedisPassword:       v.GetString("redis_password"),
		RedisDB:             v.GetInt("redis_db"),
		RedisPrefix:         v.GetString("redis_prefix"),
		CommandTimeout:      seconds(v.GetInt("command_timeout")),
		Shell:               v.GetString("shell"),
		TrustForwardedProto: v.GetBool("trust_forwarded_proto"),
		LogLevel:            v.GetString("log_level"),
		LogFormat:           v.GetString("log_format"),
	}

	if cfg.SessionDir != "" && !filepath.IsAbs(cfg.SessionDir) && baseDir != "" {
		cfg.SessionDir = filepath.Join(baseDir, cfg.SessionDir)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Views = views.New(vd.LogViews, cfg.RefreshInterval)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("password", "")
	v.SetDefault("password_hash", "")
	v.SetDefault("refresh_interval", 30)
	v.SetDefault("session_duration", 86400)
	v.SetDefault("inactivity_timeout", 3600)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("session_store", StoreFile)
	v.SetDefault("session_dir", ".sessions")
	v.SetDefault("sweep_interval", 300)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "logview:session:")
	v.SetDefault("command_timeout", 0)
	v.SetDefault("shell", "sh")
	v.SetDefault("trust_forwarded_proto", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

func (c *Config) validate() error {
	if c.Password == "" && c.PasswordHash == "" {
		return errors.New("config: password or password_hash must be set")
	}
	if c.SessionDuration <= 0 {
		return errors.New("config: session_duration must be positive")
	}
	if c.InactivityTimeout <= 0 {
		return errors.New("config: inactivity_timeout must be positive")
	}
	if c.CommandTimeout < 0 {
		return errors.New("config: command_timeout must not be negative")
	}
	if c.ListenAddr == "" {
		return errors.New("config: listen_addr must be set")
	}
	if strings.TrimSpace(c.Shell) == "" {
		return errors.New("config: shell must be set")
	}

	switch c.SessionStore {
	case StoreFile:
		if c.SessionDir == "" {
			return errors.New("config: session_dir must be set for the file session store")
		}
	case StoreMemory:
		if c.SweepInterval <= 0 {
			return errors.New("config: sweep_interval must be positive for the memory session store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("config: redis_addr must be set for the redis session store")
		}
	default:
		return fmt.Errorf("config: unknown session_store %q (want file, memory or redis)", c.SessionStore)
	}

	return nil
}

// SessionDurationSeconds is the cookie Max-Age.
func (c *Config) SessionDurationSeconds() int {
	return int(c.SessionDuration / time.Second)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
