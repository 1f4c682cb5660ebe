package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kerimovok/go-pkg-utils/config"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/fileupload.yaml"

// ContentRule matches a blob by content type or file name pattern
type ContentRule struct {
	Name      string   `yaml:"name"`
	Allow     bool     `yaml:"allow"`
	MimeTypes []string `yaml:"mime_types"`
	Patterns  []string `yaml:"patterns"`
	MaxSize   string   `yaml:"max_size"`
}

// ContentConfig holds the policy applied to every stored blob
type ContentConfig struct {
	DefaultMaxSize string        `yaml:"default_max_size"`
	DefaultAction  string        `yaml:"default_action"`
	Rules          []ContentRule `yaml:"rules"`
}

// FileuploadConfig holds the complete service configuration
type FileuploadConfig struct {
	Content ContentConfig `yaml:"content"`
}

// MainConfig holds the root configuration
type MainConfig struct {
	Fileupload FileuploadConfig `yaml:"fileupload"`
}

var (
	Config MainConfig
)

// LoadConfig loads .env and the YAML configuration from the default path
func LoadConfig() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if config.GetEnv("GO_ENV") != "production" {
			log.Println("Warning: Failed to load .env file")
		}
	}

	path := config.GetEnv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := ReadConfig(path)
	if err != nil {
		return err
	}

	// Store config globally
	Config = cfg

	log.Printf("Fileupload configuration loaded successfully from %s", path)
	return nil
}

// ReadConfig parses the YAML configuration file at path
func ReadConfig(path string) (MainConfig, error) {
	var cfg MainConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetConfig returns the current configuration
func GetConfig() MainConfig {
	return Config
}

// IsDefaultActionBlock reports whether blobs matched by no rule are rejected
func (c ContentConfig) IsDefaultActionBlock() bool {
	return c.DefaultAction == "block"
}
