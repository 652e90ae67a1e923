package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every variable the driver reads.
const EnvPrefix = "OVERLORD_"

// ParseEnv loads configuration from environment variables. Field tags name
// variables without EnvPrefix: `env:"SEED"` reads OVERLORD_SEED.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
