/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/registry"
	"github.com/suparena/userlookup/storagemodels"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are joined
// with a double underscore: USERLOOKUP_STORE__TIMEOUT sets store.timeout.
const EnvPrefix = "USERLOOKUP_"

// DefaultTimeout bounds a lookup when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Config is the root configuration of the lookup service.
type Config struct {
	Store    StoreConfig    `koanf:"store" yaml:"store"`
	Schema   SchemaConfig   `koanf:"schema" yaml:"schema"`
	DynamoDB DynamoDBConfig `koanf:"dynamodb" yaml:"dynamodb"`
	Logging  LoggingConfig  `koanf:"logging" yaml:"logging"`
}

// StoreConfig names the store a lookup reads from.
type StoreConfig struct {
	Locator string        `koanf:"locator" yaml:"locator"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" validate:"gt=0"`
}

// SchemaConfig selects a registered schema by name, or describes one inline
// when Table is set.
type SchemaConfig struct {
	Name     string   `koanf:"name" yaml:"name"`
	Table    string   `koanf:"table" yaml:"table"`
	KeyField string   `koanf:"key_field" yaml:"key_field" validate:"required_with=Table"`
	Fields   []string `koanf:"fields" yaml:"fields" validate:"required_with=Table"`
}

// DynamoDBConfig holds the settings of the dynamodb:// backend. Locator
// parameters take precedence over these.
type DynamoDBConfig struct {
	Region      string `koanf:"region" yaml:"region"`
	Endpoint    string `koanf:"endpoint" yaml:"endpoint" validate:"omitempty,url"`
	AccessKey   string `koanf:"access_key" yaml:"access_key" validate:"required_with=SecretKey"`
	SecretKey   string `koanf:"secret_key" yaml:"secret_key" validate:"required_with=AccessKey"`
	KeyTemplate string `koanf:"key_template" yaml:"key_template" validate:"omitempty,contains={key}"`
	Index       string `koanf:"index" yaml:"index"`
}

// LoggingConfig controls the service logger.
type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" yaml:"format" validate:"oneof=json console"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Store:   StoreConfig{Timeout: DefaultTimeout},
		Schema:  SchemaConfig{Name: storagemodels.UserSchema.Name},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty), a .env file in the working directory (if present)
// and USERLOOKUP_ environment variables, in that order, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that the schema resolves.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.NewValidationError("config", err.Error())
	}
	if _, err := c.Schema.Resolve(); err != nil {
		return err
	}
	return nil
}

// Resolve returns the schema the configuration describes: the inline schema
// when Table is set, otherwise the registered schema named Name.
func (s SchemaConfig) Resolve() (storagemodels.Schema, error) {
	if s.Table == "" {
		name := s.Name
		if name == "" {
			name = storagemodels.UserSchema.Name
		}
		schema, err := registry.GetSchema(name)
		if err != nil {
			return storagemodels.Schema{}, errors.NewValidationError("schema.name", err.Error())
		}
		return schema, nil
	}

	schema := storagemodels.Schema{
		Name:     s.Name,
		Table:    s.Table,
		KeyField: s.KeyField,
		Fields:   append([]string(nil), s.Fields...),
	}
	if schema.Name == "" {
		schema.Name = s.Table
	}
	if err := schema.Validate(); err != nil {
		return storagemodels.Schema{}, err
	}
	return schema, nil
}
