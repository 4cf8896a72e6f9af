// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads filmcatalog.yaml.
//
// Values are resolved in order: DefaultConfig, then the YAML file, then
// environment variables. The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "filmcatalog.yaml"

// Environment overrides.
const (
	EnvPort         = "FILMCATALOG_PORT"
	EnvDBDriver     = "FILMCATALOG_DB_DRIVER"
	EnvDBDSN        = "FILMCATALOG_DB_DSN"
	EnvLogLevel     = "FILMCATALOG_LOG_LEVEL"
	EnvLogFormat    = "FILMCATALOG_LOG_FORMAT"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvGinMode      = "GIN_MODE"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load resolves the configuration.
//
// # Inputs
//
//   - path: YAML file. Empty means DefaultPath if it exists, otherwise
//     defaults only. An explicit path that does not exist is an error.
//
// # Outputs
//
//   - Config: Validated configuration.
//   - error: Unreadable or malformed file, bad environment value, or a
//     validation failure naming the offending fields.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports every failing field.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// WriteDefault writes DefaultConfig to path, creating parent directories.
// An existing file is left alone and reported as an error.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create the config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a port number", EnvPort, v)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(EnvDBDriver); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOTLPEndpoint); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv(EnvGinMode); v != "" {
		cfg.Server.GinMode = v
	}
	return nil
}
