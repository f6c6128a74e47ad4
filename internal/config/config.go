package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Despesas"`
		Port int    `envconfig:"PORT" default:"8080"`
		Env  string `envconfig:"APP_ENV" default:"dev"`
	}

	// DB.URL is the single variable selecting relational persistence; when
	// empty the process stays on in-memory storage.
	DB struct {
		URL string `envconfig:"DATABASE_URL"`
	}

	Supabase struct {
		URL string `envconfig:"SUPABASE_URL"`
		Key string `envconfig:"SUPABASE_SERVICE_KEY"`
	}

	Probe struct {
		RESTTimeout   time.Duration `envconfig:"PROBE_REST_TIMEOUT" default:"5s"`
		DirectTimeout time.Duration `envconfig:"PROBE_DIRECT_TIMEOUT" default:"8s"`
	}

	Auth struct {
		AuthorizedEmails []string `envconfig:"AUTHORIZED_EMAILS" default:"crisnabto@gmail.com,aullus.88@gmail.com"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
