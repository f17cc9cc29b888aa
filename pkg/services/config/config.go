package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "BLOCKS"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Cost      CostConfig      `mapstructure:"cost"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type GeneratorConfig struct {
	MinRecommendations int    `mapstructure:"min_recommendations"`
	MinTimelines       int    `mapstructure:"min_timelines"`
	Currency           string `mapstructure:"currency"`
}

type AssistantConfig struct {
	MaxRecommendations int `mapstructure:"max_recommendations"`
}

type CostConfig struct {
	Source  string        `mapstructure:"source"`
	Profile string        `mapstructure:"profile"`
	Region  string        `mapstructure:"region"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AWSConfig struct {
	ConfigFile      string `mapstructure:"config_file"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type TelemetryConfig struct {
	BufferSize    int           `mapstructure:"buffer_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	// DatabaseURL enables persisting marks to PostgreSQL when set.
	DatabaseURL    string `mapstructure:"database_url"`
	MaxConnections int    `mapstructure:"max_connections"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("generator.min_recommendations", 5)
	v.SetDefault("generator.min_timelines", 3)
	v.SetDefault("generator.currency", "USD")
	v.SetDefault("assistant.max_recommendations", 3)
	v.SetDefault("cost.source", "mock")
	v.SetDefault("cost.profile", "default")
	v.SetDefault("cost.region", "")
	v.SetDefault("cost.timeout", 5*time.Second)
	v.SetDefault("aws.config_file", "")
	v.SetDefault("aws.credentials_file", "")
	v.SetDefault("telemetry.buffer_size", 50)
	v.SetDefault("telemetry.flush_interval", 10*time.Second)
	v.SetDefault("telemetry.database_url", "")
	v.SetDefault("telemetry.max_connections", 4)
}

// Load reads the YAML file at path, when given, and applies BLOCKS_* environment
// overrides, e.g. BLOCKS_COST_SOURCE=aws. SERVER_HOST and SERVER_PORT are also
// honoured.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.host", EnvPrefix+"_SERVER_HOST", "SERVER_HOST"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "SERVER_PORT"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	switch c.Cost.Source {
	case "mock", "aws":
	default:
		return fmt.Errorf("unknown cost.source %q, expected mock or aws", c.Cost.Source)
	}
	if c.Cost.Timeout < 0 {
		return fmt.Errorf("cost.timeout must not be negative")
	}
	return nil
}

// Logger builds the root logger described by the log section.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Log.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
