// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config is the resolved runtime configuration. Command-line flags override
// the environment by assigning fields before Validate.
type Config struct {
	DBPath      string // empty = store.DefaultDBPath
	CatalogPath string // empty = embedded sample
	LogMode     string `validate:"oneof=dev prod"`
	UserID      string `validate:"required,max=64"`
	UserName    string `validate:"max=64"`
	Channel     string `validate:"required,max=64"`
	RedisAddr   string `validate:"omitempty,hostname_port"`
	MetricsAddr string `validate:"omitempty,hostname_port"`
	Admin       bool
}

// FromEnv builds a Config from INFERENCE_* variables and REDIS_ADDR,
// filling defaults for anything unset.
func FromEnv() (*Config, error) {
	c := &Config{
		DBPath:      env("INFERENCE_DB"),
		CatalogPath: env("INFERENCE_CATALOG"),
		LogMode:     strings.ToLower(env("INFERENCE_LOG_MODE")),
		UserID:      env("INFERENCE_USER"),
		Channel:     env("INFERENCE_CHANNEL"),
		RedisAddr:   env("REDIS_ADDR"),
		MetricsAddr: env("INFERENCE_METRICS_ADDR"),
	}
	if raw := env("INFERENCE_ADMIN"); raw != "" {
		admin, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse INFERENCE_ADMIN: %w", err)
		}
		c.Admin = admin
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.LogMode == "" {
		c.LogMode = "dev"
	}
	if c.UserID == "" {
		c.UserID = env("USER")
	}
	if c.UserID == "" {
		c.UserID = "local"
	}
	if c.UserName == "" {
		c.UserName = c.UserID
	}
	if c.Channel == "" {
		c.Channel = "terminal"
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	c.applyDefaults()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate config: %w", err)
	}
	var msgs []string
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
