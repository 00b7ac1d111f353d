package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Origins allowed to call the API from a browser. Defaults to the
	// local Vite dev server.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DataConfig holds the paths to the precomputed artifacts produced by the
// offline pipeline.
type DataConfig struct {
	ItemsPath      string `mapstructure:"items_path"`
	EnrichmentPath string `mapstructure:"enrichment_path"`
	SimilarityPath string `mapstructure:"similarity_path"`
}

// RecommendConfig holds recommendation engine tuning.
type RecommendConfig struct {
	DefaultCount int `mapstructure:"default_count"`
	// MaxCount caps the requested result count when set; 0 leaves
	// requests uncapped.
	MaxCount int `mapstructure:"max_count"`
	// MatchThreshold is the minimum fuzzy-match confidence (0-100) for a
	// query title to be accepted.
	MatchThreshold int `mapstructure:"match_threshold"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		Data: DataConfig{
			ItemsPath:      "./data/items.json",
			EnrichmentPath: "./data/enrichment.json",
			SimilarityPath: "./data/similarity.json",
		},
		Recommend: RecommendConfig{
			DefaultCount:   5,
			MaxCount:       0,
			MatchThreshold: 80,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.dramarec")
	}

	v.SetEnvPrefix("DRAMAREC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetDefault("data.items_path", d.Data.ItemsPath)
	v.SetDefault("data.enrichment_path", d.Data.EnrichmentPath)
	v.SetDefault("data.similarity_path", d.Data.SimilarityPath)

	v.SetDefault("recommend.default_count", d.Recommend.DefaultCount)
	v.SetDefault("recommend.max_count", d.Recommend.MaxCount)
	v.SetDefault("recommend.match_threshold", d.Recommend.MatchThreshold)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
