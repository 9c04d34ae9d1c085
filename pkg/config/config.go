package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server defaults
const (
	DefaultPort      = "8080"
	DefaultSource    = "https://raw.githubusercontent.com/Phoenix4012/Souchier/main/bacteries_souchier.csv"
	DefaultDataDir   = "./data/souchier"
	DefaultLogLevel  = "info"
	DefaultS3Region  = "us-east-1"
	DefaultExportCSV = "souches_filtrees.csv"
)

// Timeouts
const (
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ShutdownTimeout    = 15 * time.Second
	LoadTimeout        = 30 * time.Second
	HTTPSourceTimeout  = 20 * time.Second
)

// WebSocket configuration
const (
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 4096
	WSChannelBuffer   = 10
	WSWriteDeadline   = 10 * time.Second
	WSReadDeadline    = 60 * time.Second
	WSPingInterval    = 30 * time.Second
	WSMaxMessageBytes = 64 * 1024
)

// Config holds runtime configuration.
type Config struct {
	Port     string   `yaml:"port"`
	Source   string   `yaml:"source"`
	DataDir  string   `yaml:"data_dir"`
	LogLevel string   `yaml:"log_level"`
	S3       S3Config `yaml:"s3"`
}

// S3Config configures the s3:// source.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`

	// Static keys; when empty the default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:     DefaultPort,
		Source:   DefaultSource,
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		S3:       S3Config{Region: DefaultS3Region},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("SOUCHIER_PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("SOUCHIER_SOURCE"); v != "" {
		c.Source = v
	}
	if v := getenv("SOUCHIER_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("SOUCHIER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("SOUCHIER_S3_REGION"); v != "" {
		c.S3.Region = v
	}
	if v := getenv("SOUCHIER_S3_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
	if v := getenv("SOUCHIER_S3_ACCESS_KEY_ID"); v != "" {
		c.S3.AccessKeyID = v
	}
	if v := getenv("SOUCHIER_S3_SECRET_ACCESS_KEY"); v != "" {
		c.S3.SecretAccessKey = v
	}
	if v := getenv("SOUCHIER_S3_PATH_STYLE"); v != "" {
		c.S3.PathStyle = strings.EqualFold(v, "true") || v == "1"
	}
}

// Validate checks field values.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("source must not be empty")
	}
	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return fmt.Errorf("s3 access key id and secret access key must be set together")
	}
	return nil
}
