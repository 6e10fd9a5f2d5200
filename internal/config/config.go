// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

// Package config loads CipherGate settings from defaults, an optional YAML
// file, the environment, and command-line flags, in that order of
// precedence (last wins).
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ciphergate/ciphergate/internal/xdg"
)

// EnvPrefix prefixes every environment override, e.g. CIPHERGATE_HTTP_ADDR.
const EnvPrefix = "CIPHERGATE_"

// databaseURLEnv is honored without the prefix for compatibility with
// hosting platforms that inject it.
const databaseURLEnv = "DATABASE_URL"

// CodeInvalid marks configuration that failed to load or validate.
const CodeInvalid = "CONFIG_INVALID"

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the effective CipherGate configuration.
type Config struct {
	HTTPAddr        string        `koanf:"http_addr" yaml:"http_addr" validate:"required"`
	MetricsAddr     string        `koanf:"metrics_addr" yaml:"metrics_addr"`
	DatabaseURL     string        `koanf:"database_url" yaml:"database_url"`
	BcryptCost      int           `koanf:"bcrypt_cost" yaml:"bcrypt_cost" validate:"min=4,max=31"`
	LogFormat       string        `koanf:"log_format" yaml:"log_format" validate:"oneof=json text"`
	Environment     string        `koanf:"environment" yaml:"environment" validate:"oneof=development production"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout" yaml:"connect_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		HTTPAddr:        ":3000",
		MetricsAddr:     "127.0.0.1:9100",
		BcryptCost:      10,
		LogFormat:       "json",
		Environment:     EnvDevelopment,
		MaxBodyBytes:    10 << 20,
		ConnectTimeout:  30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// LogAllRequests reports whether successful requests are logged too.
// Production logs only failures.
func (c *Config) LogAllRequests() bool {
	return c.Environment != EnvProduction
}

// RequireDatabase fails when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return oops.Code(CodeInvalid).
			Errorf("database_url is required (set %s or %sDATABASE_URL)", databaseURLEnv, EnvPrefix)
	}
	return nil
}

// Options controls where Load reads from.
type Options struct {
	// File is an explicit config file. It must exist. Empty means the XDG
	// default, which is skipped when absent.
	File string
	// Flags holds command-line overrides. Only flags the user set are
	// applied; dashes in flag names map to underscores in keys.
	Flags *pflag.FlagSet
}

// Load builds the effective configuration and validates it.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	for key, val := range map[string]any{
		"http_addr":        defaults.HTTPAddr,
		"metrics_addr":     defaults.MetricsAddr,
		"database_url":     defaults.DatabaseURL,
		"bcrypt_cost":      defaults.BcryptCost,
		"log_format":       defaults.LogFormat,
		"environment":      defaults.Environment,
		"max_body_bytes":   defaults.MaxBodyBytes,
		"connect_timeout":  defaults.ConnectTimeout,
		"shutdown_timeout": defaults.ShutdownTimeout,
	} {
		if err := k.Set(key, val); err != nil {
			return nil, oops.Code(CodeInvalid).With("key", key).Wrap(err)
		}
	}

	path, required, err := resolveFile(opts.File)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return nil, oops.Code(CodeInvalid).With("file", path).Wrapf(err, "load config file")
			}
		}
	}

	if err := k.Load(env.Provider(databaseURLEnv, ".", func(s string) string {
		if s == databaseURLEnv {
			return "database_url"
		}
		return ""
	}), nil); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "load %s", databaseURLEnv)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "load environment")
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), f.Value.String()
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code(CodeInvalid).Wrapf(err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "decode config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveFile returns the file to load and whether its absence is an error.
func resolveFile(explicit string) (string, bool, error) {
	if explicit != "" {
		return explicit, true, nil
	}
	path, err := xdg.ConfigFile()
	if err != nil {
		// No home directory means no default file, not a failure.
		return "", false, nil //nolint:nilerr // default file is optional
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return "", false, nil //nolint:nilerr // default file is optional
	}
	return path, false, nil
}

// Dump renders cfg as YAML with the database password redacted.
func Dump(cfg *Config) ([]byte, error) {
	out := *cfg
	out.DatabaseURL = RedactDSN(cfg.DatabaseURL)
	b, err := yamlv3.Marshal(&out)
	if err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "encode config")
	}
	return b, nil
}

var dsnPasswordPattern = regexp.MustCompile(`(password\s*=\s*)('[^']*'|\S+)`)

// RedactDSN hides the password in a URL or key=value connection string.
func RedactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
		if q := u.Query(); q.Has("password") {
			q.Set("password", "xxxxx")
			u.RawQuery = q.Encode()
		}
		return u.Redacted()
	}
	return dsnPasswordPattern.ReplaceAllString(dsn, "${1}xxxxx")
}
