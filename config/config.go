package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`

	// MediaDir is the local folder scanned for midi files. Falls back to
	// the MEDIA_PATH environment variable.
	MediaDir string `yaml:"media_dir"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StoreConfig struct {
	// Type of store: "memory" or "dynamo"
	Type string `yaml:"type"`

	// DynamoDB options
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
}

// Load reads a yaml config file and fills in defaults. An empty path
// yields the default configuration.
func Load(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	// Set defaults if not provided
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Store.Type == "" {
		config.Store.Type = "memory"
	}
	if config.Store.Region == "" {
		config.Store.Region = "localhost"
	}
	if config.Store.Table == "" {
		config.Store.Table = "songpipe-songs"
	}
	if config.MediaDir == "" {
		config.MediaDir = os.Getenv("MEDIA_PATH")
	}

	return &config, nil
}
