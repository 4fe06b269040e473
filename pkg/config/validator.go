package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, errors.New("database.port must be between 1 and 65535"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if c.Database.MaxConnections <= 0 {
		errs = append(errs, errors.New("database.max_connections must be positive"))
	}

	// Watcher validation
	if c.Watcher.PollInterval <= 0 {
		errs = append(errs, errors.New("watcher.poll_interval must be positive"))
	}
	if c.Watcher.Source == "" {
		errs = append(errs, errors.New("watcher.source is required"))
	}
	if c.Watcher.SimulationSteps <= 0 {
		errs = append(errs, errors.New("watcher.simulation_steps must be positive"))
	}

	// Clinical validation
	t := c.Clinical.Thresholds
	if t.TempHigh <= t.TempLow {
		errs = append(errs, errors.New("clinical.thresholds.temp_high must be greater than temp_low"))
	}
	if t.WBCHigh <= t.WBCLow {
		errs = append(errs, errors.New("clinical.thresholds.wbc_high must be greater than wbc_low"))
	}
	if t.RespQSOFA <= 0 || t.SBPQSOFA <= 0 || t.HRSIRS <= 0 || t.RespSIRS <= 0 {
		errs = append(errs, errors.New("clinical.thresholds must all be positive"))
	}
	if c.Clinical.Defaults.SystolicBP <= 0 {
		errs = append(errs, errors.New("clinical.defaults.systolic_bp must be positive"))
	}

	// Models validation
	validModelTypes := map[string]bool{"artifact": true, "remote": true}
	if !validModelTypes[c.Models.Type] {
		errs = append(errs, errors.New("models.type must be one of: artifact, remote"))
	}
	if c.Models.Type == "remote" && c.Models.Endpoint == "" {
		errs = append(errs, errors.New("models.endpoint is required for remote models"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.App.Mode == "production" && c.API.JWTSecret == "change-me-in-production" {
		errs = append(errs, errors.New("api.jwt_secret must be changed in production"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
