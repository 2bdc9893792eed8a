package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment knobs read before koanf runs.
const (
	envPrefix     = "PODIUM_"
	envConfig     = "PODIUM_CONFIG"
	envDotenv     = "PODIUM_DOTENV"
	defaultDotenv = ".env"
)

// Load builds a Config by layering, from lowest to highest precedence:
//  1. defaults (New)
//  2. a dotenv file (PODIUM_DOTENV, or ./.env when present) exported into the environment
//  3. a YAML file when PODIUM_CONFIG is set
//  4. PODIUM_* environment variables
func Load(_ context.Context) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// PODIUM_DATA_DIR -> data_dir; underscores are kept to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotenv exports variables from a dotenv file without overriding ones
// already set. An explicit PODIUM_DOTENV must exist; the implicit ./.env may not.
func loadDotenv() error {
	path, explicit := os.LookupEnv(envDotenv)
	if !explicit || path == "" {
		path = defaultDotenv
		explicit = false
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
