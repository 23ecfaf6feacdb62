package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerEnv holds SSH server settings read from the environment.
type ServerEnv struct {
	Addr        string        `env:"INVADERS_SSH_ADDR" envDefault:":2222"`
	HostKeyPath string        `env:"INVADERS_HOST_KEY" envDefault:".ssh/invaders_ed25519"`
	DBPath      string        `env:"INVADERS_DB"`
	IdleTimeout time.Duration `env:"INVADERS_IDLE_TIMEOUT" envDefault:"30m"`
}

// LoadServerEnv parses server settings from environment variables.
func LoadServerEnv() (ServerEnv, error) {
	var cfg ServerEnv
	if err := env.Parse(&cfg); err != nil {
		return ServerEnv{}, fmt.Errorf("parse server env: %w", err)
	}
	return cfg, nil
}
