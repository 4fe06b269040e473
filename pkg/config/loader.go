package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/sepsis-watcher")
	}

	// Environment variable settings
	v.SetEnvPrefix("SEPSISWATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "sepsis-watcher")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "sepsiswatch")
	v.SetDefault("database.user", "admin")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.ssl_mode", "disable")

	// Watcher defaults
	v.SetDefault("watcher.poll_interval", "2s")
	v.SetDefault("watcher.source", "manual")
	v.SetDefault("watcher.simulation_steps", 5)
	v.SetDefault("watcher.batch_size", 50)
	v.SetDefault("watcher.retry_attempts", 3)
	v.SetDefault("watcher.circuit_breaker.max_failures", 5)
	v.SetDefault("watcher.circuit_breaker.timeout", "30s")

	// Clinical thresholds (Sepsis-3 / qSOFA guidelines)
	v.SetDefault("clinical.thresholds.resp_qsofa", 22.0)
	v.SetDefault("clinical.thresholds.sbp_qsofa", 100.0)
	v.SetDefault("clinical.thresholds.temp_high", 38.0)
	v.SetDefault("clinical.thresholds.temp_low", 36.0)
	v.SetDefault("clinical.thresholds.hr_sirs", 90.0)
	v.SetDefault("clinical.thresholds.resp_sirs", 20.0)
	v.SetDefault("clinical.thresholds.wbc_high", 12000.0)
	v.SetDefault("clinical.thresholds.wbc_low", 4000.0)
	v.SetDefault("clinical.thresholds.hr_critical", 120.0)
	v.SetDefault("clinical.thresholds.sbp_critical", 90.0)
	v.SetDefault("clinical.thresholds.map_critical", 65.0)
	v.SetDefault("clinical.thresholds.o2sat_critical", 90.0)
	v.SetDefault("clinical.thresholds.temp_critical", 39.0)

	// Clinical imputation defaults (normal values)
	v.SetDefault("clinical.defaults.heart_rate", 80.0)
	v.SetDefault("clinical.defaults.spo2", 97.0)
	v.SetDefault("clinical.defaults.systolic_bp", 120.0)
	v.SetDefault("clinical.defaults.diastolic_bp", 80.0)
	v.SetDefault("clinical.defaults.respiratory_rate", 18.0)
	v.SetDefault("clinical.defaults.temperature", 37.0)
	v.SetDefault("clinical.defaults.iculos", 1.0)
	v.SetDefault("clinical.defaults.wbc", 8000.0)

	// Model defaults
	v.SetDefault("models.type", "artifact")
	v.SetDefault("models.classifier_path", "sepsis_model.json")
	v.SetDefault("models.forecaster_path", "vital_forecaster.json")
	v.SetDefault("models.endpoint", "http://localhost:9100")
	v.SetDefault("models.timeout", "5s")

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.jwt_secret", "change-me-in-production")
	v.SetDefault("api.jwt_duration", "24h")
	v.SetDefault("api.default_limit", 100)
	v.SetDefault("api.max_limit", 1000)

	// WebSocket defaults
	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.ping_interval", "30s")

	// Events defaults
	v.SetDefault("events.buffer_size", 100)
}
