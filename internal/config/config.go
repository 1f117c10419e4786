package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dotcommander/innerscope/internal/scoring"
)

// Source kinds
const (
	SourceNone   = "none"
	SourceFile   = "file"
	SourceMongo  = "mongo"
	SourceSQLite = "sqlite"
)

// ConfigFiles are searched in order in the working directory.
var ConfigFiles = []string{".innerscoperc.json", ".innerscoperc.yaml", ".innerscoperc.yml"}

// Config represents the innerscope configuration
type Config struct {
	Format  string       `mapstructure:"format" json:"format"`
	Output  string       `mapstructure:"output" json:"output,omitempty"`
	Quiet   bool         `mapstructure:"quiet" json:"quiet"`
	Verbose bool         `mapstructure:"verbose" json:"verbose"`
	Engine  EngineConfig `mapstructure:"engine" json:"engine"`
	Server  ServerConfig `mapstructure:"server" json:"server"`
	Source  SourceConfig `mapstructure:"source" json:"source"`
	Cache   CacheConfig  `mapstructure:"cache" json:"cache"`
	Log     LogConfig    `mapstructure:"log" json:"log"`
}

// EngineConfig tunes the scoring engine
type EngineConfig struct {
	MaxCorpusBytes int `mapstructure:"maxCorpusBytes" json:"maxCorpusBytes"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr        string        `mapstructure:"addr" json:"addr"`
	ReadTimeout time.Duration `mapstructure:"readTimeout" json:"readTimeout"`
	CORSOrigins []string      `mapstructure:"corsOrigins" json:"corsOrigins,omitempty"`
}

// SourceConfig selects where stored profiles are read from
type SourceConfig struct {
	Kind          string `mapstructure:"kind" json:"kind"`
	Dir           string `mapstructure:"dir" json:"dir,omitempty"`
	MongoURI      string `mapstructure:"mongoURI" json:"mongoURI,omitempty"`
	MongoDatabase string `mapstructure:"mongoDatabase" json:"mongoDatabase,omitempty"`
	SQLitePath    string `mapstructure:"sqlitePath" json:"sqlitePath,omitempty"`
}

// CacheConfig contains report cache settings. An empty RedisAddr disables
// the shared tier.
type CacheConfig struct {
	RedisAddr  string        `mapstructure:"redisAddr" json:"redisAddr,omitempty"`
	TTL        time.Duration `mapstructure:"ttl" json:"ttl"`
	MemorySize int           `mapstructure:"memorySize" json:"memorySize"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	JSON  bool   `mapstructure:"json" json:"json"`
}

func setDefaults() {
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("engine.maxCorpusBytes", scoring.DefaultMaxCorpusBytes)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.readTimeout", 10*time.Second)
	viper.SetDefault("server.corsOrigins", []string{})
	viper.SetDefault("source.kind", SourceNone)
	viper.SetDefault("source.dir", ".")
	viper.SetDefault("source.mongoURI", "")
	viper.SetDefault("source.mongoDatabase", "innerscope")
	viper.SetDefault("source.sqlitePath", "innerscope.db")
	viper.SetDefault("cache.redisAddr", "")
	viper.SetDefault("cache.ttl", time.Hour)
	viper.SetDefault("cache.memorySize", 256)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", false)
}

// LoadConfig loads configuration from defaults, the first config file found
// (or configFile when set), INNERSCOPE_* environment variables and any flags
// already bound to viper.
func LoadConfig(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		for _, path := range ConfigFiles {
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err == nil {
				break
			}
		}
	}

	// INNERSCOPE_SOURCE_KIND -> source.kind
	viper.SetEnvPrefix("INNERSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "compact", "json", "markdown":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'compact', 'json', or 'markdown'", config.Format)
	}

	switch config.Source.Kind {
	case SourceNone:
	case SourceFile:
		if config.Source.Dir == "" {
			return fmt.Errorf("source.dir is required for the file source")
		}
	case SourceMongo:
		if config.Source.MongoURI == "" {
			return fmt.Errorf("source.mongoURI is required for the mongo source")
		}
	case SourceSQLite:
		if config.Source.SQLitePath == "" {
			return fmt.Errorf("source.sqlitePath is required for the sqlite source")
		}
	default:
		return fmt.Errorf("invalid source kind: %s. Must be 'none', 'file', 'mongo', or 'sqlite'", config.Source.Kind)
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Engine.MaxCorpusBytes < 0 {
		return fmt.Errorf("engine.maxCorpusBytes must not be negative")
	}
	if config.Cache.MemorySize < 0 {
		return fmt.Errorf("cache.memorySize must not be negative")
	}
	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if config.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.readTimeout must not be negative")
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
