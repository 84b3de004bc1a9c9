package config

import (
	"time"

	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Auth     auth.Config  `yaml:"auth"`
	Kafka    kafka.Config `yaml:"kafka"`
	Log      logger.Log   `yaml:"log"`
	Env      string       `yaml:"env" envconfig:"APP_ENV" default:"development"`
}

// Production reports whether cookies must be marked Secure.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// NewConfig reads config from environment. Options set code-level defaults
// which the environment overrides.
func NewConfig(ops ...Option) (*Config, error) {
	var cfg Config
	for _, op := range ops {
		op(&cfg)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "envconfig.Process")
	}
	return &cfg, nil
}
