package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	ServerURL      string `mapstructure:"server_url" yaml:"server_url"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Upload validation
	MaxUploadSize  string `mapstructure:"max_upload_size" yaml:"max_upload_size"`
	StrictPDFCheck bool   `mapstructure:"strict_pdf_check" yaml:"strict_pdf_check"`

	// Queue/notification timing
	PruneDelaySec int `mapstructure:"prune_delay_sec" yaml:"prune_delay_sec"`
	NotifyTTLSec  int `mapstructure:"notify_ttl_sec" yaml:"notify_ttl_sec"`

	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// MaxUploadBytes parses the configured ceiling (binary units, so "50MiB"
// is 52,428,800 bytes).
func (c *Global) MaxUploadBytes() (int64, error) {
	size, err := units.RAMInBytes(c.MaxUploadSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max_upload_size %q: %w", c.MaxUploadSize, err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("max_upload_size must be positive, got %q", c.MaxUploadSize)
	}
	return size, nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.able2/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".able2")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ABLE2")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server_url", "http://localhost:8000")
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("max_upload_size", "50MiB")
	v.SetDefault("strict_pdf_check", false)
	v.SetDefault("prune_delay_sec", 3)
	v.SetDefault("notify_ttl_sec", 5)
	v.SetDefault("debug", false)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".able2")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
