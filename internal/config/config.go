package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"carbon-scribe/ipfs-relay/ipfs-relay-backend/pkg/storage"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `json:"server"`
	Pinata  PinataConfig  `json:"pinata"`
	Upload  UploadConfig  `json:"upload"`
	Logging LoggingConfig `json:"logging"`
	CORS    CORSConfig    `json:"cors"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// PinataConfig holds the pinning provider credentials
type PinataConfig struct {
	APIKey    string        `json:"api_key"`
	APISecret string        `json:"api_secret"`
	Endpoint  string        `json:"endpoint"`
	Timeout   time.Duration `json:"timeout"`
}

// UploadConfig limits inbound uploads. Zero means no limit.
type UploadConfig struct {
	MaxBytes int64 `json:"max_bytes"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// CORSConfig
type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

// LoadConfig loads configuration from file, .env and environment variables.
// An empty or missing configPath is not an error.
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4000,
			ShutdownTimeout: 5 * time.Second,
		},
		Pinata: PinataConfig{
			Endpoint: storage.PinataPinFileURL,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

func overrideWithEnv(config *Config) error {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	for _, key := range []string{"SERVER_PORT", "PORT"} {
		if port := os.Getenv(key); port != "" {
			p, err := strconv.Atoi(port)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, port, err)
			}
			config.Server.Port = p
		}
	}

	if key := os.Getenv("PINATA_API_KEY"); key != "" {
		config.Pinata.APIKey = key
	}
	if secret := os.Getenv("PINATA_API_SECRET"); secret != "" {
		config.Pinata.APISecret = secret
	}
	if endpoint := os.Getenv("PINATA_ENDPOINT"); endpoint != "" {
		config.Pinata.Endpoint = endpoint
	}
	if timeout := os.Getenv("PINATA_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid PINATA_TIMEOUT %q: %w", timeout, err)
		}
		config.Pinata.Timeout = d
	}

	if maxBytes := os.Getenv("UPLOAD_MAX_BYTES"); maxBytes != "" {
		n, err := strconv.ParseInt(maxBytes, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid UPLOAD_MAX_BYTES %q: %w", maxBytes, err)
		}
		config.Upload.MaxBytes = n
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		var list []string
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				list = append(list, o)
			}
		}
		config.CORS.AllowedOrigins = list
	}

	return nil
}

// Validate checks the settings required to serve uploads
func (c *Config) Validate() error {
	if err := c.Pinata.Credentials().Validate(); err != nil {
		return fmt.Errorf("PINATA_API_KEY and PINATA_API_SECRET must be set: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Upload.MaxBytes < 0 {
		return fmt.Errorf("invalid upload max bytes %d", c.Upload.MaxBytes)
	}
	if c.Pinata.Timeout < 0 {
		return fmt.Errorf("invalid pinata timeout %s", c.Pinata.Timeout)
	}
	return nil
}

// Credentials returns the Pinata key pair
func (c *PinataConfig) Credentials() storage.Credentials {
	return storage.Credentials{
		APIKey:    c.APIKey,
		APISecret: c.APISecret,
	}
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
