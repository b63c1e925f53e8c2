// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/mia-platform/iohook/internal/logger"
	"github.com/mia-platform/iohook/internal/nativelog"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")

	validOverflowPolicies = []string{
		nativelog.OverflowReject.String(),
		nativelog.OverflowTruncate.String(),
	}
	validLoggerLevels = []string{
		logger.TRACE.String(),
		logger.DEBUG.String(),
		logger.INFO.String(),
		logger.WARN.String(),
		logger.ERROR.String(),
	}
)

// Config holds the settings read from the environment.
type Config struct {
	LoggerLevel       string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	NativeLogEnabled  bool   `env:"NATIVE_LOG_ENABLED" envDefault:"true"`
	NativeLogOverflow string `env:"NATIVE_LOG_OVERFLOW" envDefault:"reject"`
}

// LoadConfig parses and validates the environment.
func LoadConfig() (*Config, error) {
	var envVars Config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if err := validateEnvironmentVariables(&envVars); err != nil {
		return nil, err
	}
	return &envVars, nil
}

// OverflowPolicy returns the nativelog policy selected by NATIVE_LOG_OVERFLOW.
func (c *Config) OverflowPolicy() nativelog.OverflowPolicy {
	return nativelog.OverflowPolicyFromString(c.NativeLogOverflow)
}

// Level returns the logger level selected by LOGGER_LEVEL.
func (c *Config) Level() logger.Level {
	return logger.LevelFromString(c.LoggerLevel)
}

func validateEnvironmentVariables(envVars *Config) error {
	envError := make([]string, 0)

	if !containsFold(validLoggerLevels, envVars.LoggerLevel) {
		envError = append(envError, "LOGGER_LEVEL must be one of "+strings.Join(validLoggerLevels, ", "))
	}

	if !containsFold(validOverflowPolicies, envVars.NativeLogOverflow) {
		envError = append(envError, "NATIVE_LOG_OVERFLOW must be one of "+strings.Join(validOverflowPolicies, ", "))
	}

	if len(envError) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, strings.Join(envError, ", "))
	}
	return nil
}

func containsFold(values []string, value string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}
