package config

import (
	"fmt"
	"strings"
)

// requiredFields maps each environment to the config fields that must be
// present there. Development and test run happily on defaults; CI and
// production must be explicit about secrets.
var requiredFields = map[Environment][]string{
	Development: {"JWT_SECRET"},
	Test:        {"JWT_SECRET"},
	CI:          {"JWT_SECRET", "DB_PASSWORD"},
	Production:  {"JWT_SECRET", "DB_PASSWORD", "DB_HOST", "DB_NAME", "REDIS_HOST"},
}

// ValidateConfig checks that the configuration meets the requirements of
// the current environment.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	values := map[string]string{
		"JWT_SECRET":  cfg.JWTSecret,
		"DB_PASSWORD": cfg.DBPassword,
		"DB_HOST":     cfg.DBHost,
		"DB_NAME":     cfg.DBName,
		"REDIS_HOST":  cfg.RedisHost,
	}

	var missing []string
	for _, field := range requiredFields[env] {
		if values[field] == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration for %s environment: %s",
			env, strings.Join(missing, ", "))
	}

	return nil
}
