package config

import (
	"fmt"
	"time"
)

// This file defines the configuration structures; loading is handled by
// viper in viper_config.go.

// ServerConfig is the root configuration.
type ServerConfig struct {
	Server ServerSettings `yaml:"server"`
}

// ServerSettings contains server-wide settings.
type ServerSettings struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`

	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"` // 0 keeps WebSocket connections open
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// Room management
	RoomCodeLength     int `yaml:"roomCodeLength"`
	PublicRoomsPerType int `yaml:"publicRoomsPerType"`

	// WebSocket settings
	WriteWait      time.Duration `yaml:"writeWait"`      // deadline per outbound frame
	PongWait       time.Duration `yaml:"pongWait"`       // read deadline refreshed on pong
	MaxMessageSize int64         `yaml:"maxMessageSize"` // inbound frame cap

	// Rate limiting (golang.org/x/time/rate)
	RateLimit      float64 `yaml:"rateLimit"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	// Request limits
	MaxRequestSize int64 `yaml:"maxRequestSize"`

	// Logging
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// DefaultConfig returns a default configuration. Host and port must be
// supplied by the environment.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Port: "",
			Host: "",

			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     0,
			ShutdownTimeout: 30 * time.Second,

			RoomCodeLength:     6,
			PublicRoomsPerType: 5,

			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			MaxMessageSize: 4096,

			RateLimit:      10,
			RateLimitBurst: 20,

			MaxRequestSize: 1048576, // 1MB

			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration.
func (c *ServerConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}
	if c.Server.RoomCodeLength < 3 {
		return fmt.Errorf("roomCodeLength must be at least 3")
	}
	if c.Server.PublicRoomsPerType < 0 {
		return fmt.Errorf("publicRoomsPerType cannot be negative")
	}
	if c.Server.MaxMessageSize < 256 {
		return fmt.Errorf("maxMessageSize must be at least 256 bytes")
	}
	if c.Server.PongWait <= 0 || c.Server.WriteWait <= 0 {
		return fmt.Errorf("pongWait and writeWait must be positive")
	}
	return nil
}
