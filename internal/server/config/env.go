package config

import (
	"github.com/kelseyhightower/envconfig"
)

// parseEnv overlays environment variables onto the Config using the
// envconfig tags declared on the struct. Variables that are unset leave
// the current values untouched.
func parseEnv(config *Config) {
	if err := envconfig.Process("", config); err != nil {
		panic(err)
	}
}
