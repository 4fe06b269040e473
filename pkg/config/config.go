package config

import (
	"fmt"
	"time"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Watcher   WatcherConfig   `mapstructure:"watcher"`
	Clinical  ClinicalConfig  `mapstructure:"clinical"`
	Models    ModelsConfig    `mapstructure:"models"`
	API       APIConfig       `mapstructure:"api"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Events    EventsConfig    `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxConnections  int           `mapstructure:"max_connections"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode,
	)
}

type WatcherConfig struct {
	PollInterval    time.Duration        `mapstructure:"poll_interval"`
	Source          string               `mapstructure:"source"`
	SimulationSteps int                  `mapstructure:"simulation_steps"`
	BatchSize       int                  `mapstructure:"batch_size"`
	RetryAttempts   int                  `mapstructure:"retry_attempts"`
	CircuitBreaker  CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ClinicalConfig carries the fixed clinical cut-points and imputation
// defaults. Both are read-only after startup.
type ClinicalConfig struct {
	Thresholds ThresholdConfig `mapstructure:"thresholds"`
	Defaults   DefaultsConfig  `mapstructure:"defaults"`
}

// ThresholdConfig holds the Sepsis-3 / qSOFA guideline cut-points
type ThresholdConfig struct {
	RespQSOFA     float64 `mapstructure:"resp_qsofa"`
	SBPQSOFA      float64 `mapstructure:"sbp_qsofa"`
	TempHigh      float64 `mapstructure:"temp_high"`
	TempLow       float64 `mapstructure:"temp_low"`
	HRSIRS        float64 `mapstructure:"hr_sirs"`
	RespSIRS      float64 `mapstructure:"resp_sirs"`
	WBCHigh       float64 `mapstructure:"wbc_high"`
	WBCLow        float64 `mapstructure:"wbc_low"`
	HRCritical    float64 `mapstructure:"hr_critical"`
	SBPCritical   float64 `mapstructure:"sbp_critical"`
	MAPCritical   float64 `mapstructure:"map_critical"`
	O2SatCritical float64 `mapstructure:"o2sat_critical"`
	TempCritical  float64 `mapstructure:"temp_critical"`
}

// DefaultsConfig holds clinically normal substitute values. They must never
// trigger a staging rule on their own.
type DefaultsConfig struct {
	HeartRate       float64 `mapstructure:"heart_rate"`
	SpO2            float64 `mapstructure:"spo2"`
	SystolicBP      float64 `mapstructure:"systolic_bp"`
	DiastolicBP     float64 `mapstructure:"diastolic_bp"`
	RespiratoryRate float64 `mapstructure:"respiratory_rate"`
	Temperature     float64 `mapstructure:"temperature"`
	ICULOS          float64 `mapstructure:"iculos"`
	WBC             float64 `mapstructure:"wbc"`
}

type ModelsConfig struct {
	Type           string        `mapstructure:"type"`
	ClassifierPath string        `mapstructure:"classifier_path"`
	ForecasterPath string        `mapstructure:"forecaster_path"`
	Endpoint       string        `mapstructure:"endpoint"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type APIConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimit      int           `mapstructure:"rate_limit"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTDuration    time.Duration `mapstructure:"jwt_duration"`
	DefaultLimit   int           `mapstructure:"default_limit"`
	MaxLimit       int           `mapstructure:"max_limit"`
	CORS           CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}
