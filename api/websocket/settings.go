package websocket

import (
	"time"

	"github.com/OldStager01/sepsis-watcher/pkg/config"
)

// Settings holds the per-connection tuning knobs with sane fallbacks.
type Settings struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
	ClientBuffer   int
}

func NewSettings(cfg *config.WebSocketConfig) *Settings {
	s := &Settings{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 512,
		ClientBuffer:   256,
	}

	if cfg != nil {
		if cfg.WriteTimeout > 0 {
			s.WriteWait = cfg.WriteTimeout
		}
		if cfg.PongTimeout > 0 {
			s.PongWait = cfg.PongTimeout
		}
		if cfg.MaxMessageSize > 0 {
			s.MaxMessageSize = cfg.MaxMessageSize
		}
		if cfg.ClientBuffer > 0 {
			s.ClientBuffer = cfg.ClientBuffer
		}
	}

	s.PingPeriod = (s.PongWait * 9) / 10
	return s
}
