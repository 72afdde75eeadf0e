// Package appconf reads the optional YAML configuration file of the API server.
package appconf

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port      int         `yaml:"port" validate:"omitempty,gt=0,lte=65535"`
	Env       Environment `yaml:"env"`
	APIKeys   []string    `yaml:"apiKeys" validate:"dive,required"`
	RateLimit int         `yaml:"rateLimit" validate:"gte=0"`
	LogLevel  string      `yaml:"logLevel" validate:"omitempty,oneof=debug info warn warning error"`
}

type FeedConfig struct {
	// Source is a directory, a zip path, or an http(s) URL of a zip.
	Source  string `yaml:"source" validate:"required"`
	Name    string `yaml:"name"`
	Lenient bool   `yaml:"lenient"`
}

type CompressionConfig struct {
	MinSize int `yaml:"minSize" validate:"gte=0"`
	Level   int `yaml:"level" validate:"omitempty,min=1,max=9"`
}

// FileConfig is the root of the YAML configuration file.
type FileConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Feed        *FeedConfig       `yaml:"feed"`
	Compression CompressionConfig `yaml:"compression"`
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	// feed is optional; flags may supply it
	if cfg.Feed != nil {
		if err := v.Struct(cfg.Feed); err != nil {
			return nil, fmt.Errorf("invalid feed config: %w", err)
		}
	}
	if err := v.Struct(cfg.Compression); err != nil {
		return nil, fmt.Errorf("invalid compression config: %w", err)
	}
	return &cfg, nil
}

// Load reads and validates the configuration file at path.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}
