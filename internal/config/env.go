package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds environment overrides. Empty values mean "use the default".
type Env struct {
	DBPath     string `env:"RACEREPORT_DB"`
	ConfigPath string `env:"RACEREPORT_CONFIG"`
	Timezone   string `env:"RACEREPORT_TZ"`
}

// LoadEnv reads overrides from the environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ResolveDBPath returns the database path, honoring RACEREPORT_DB.
func (e Env) ResolveDBPath() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}

// ResolveConfigPath returns the config path, honoring RACEREPORT_CONFIG.
func (e Env) ResolveConfigPath() string {
	if e.ConfigPath != "" {
		return e.ConfigPath
	}
	return DefaultConfigPath()
}
