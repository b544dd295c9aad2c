// Package config loads suretydesk settings from an optional YAML file, a
// .env file and SURETY_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/suretydesk/suretydesk/internal/llm"
)

const EnvPrefix = "SURETY"

type Config struct {
	Log            LogConfig            `mapstructure:"log"`
	Store          StoreConfig          `mapstructure:"store"`
	LLM            LLMSection           `mapstructure:"llm"`
	Classification ClassificationConfig `mapstructure:"classification"`
	HTTP           HTTPConfig           `mapstructure:"http"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // auto | console | json
}

type StoreConfig struct {
	Driver string      `mapstructure:"driver"` // sqlite | redis
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type LLMSection struct {
	Provider   string                 `mapstructure:"provider"`
	Endpoint   string                 `mapstructure:"endpoint"`
	Model      string                 `mapstructure:"model"`
	APIKey     string                 `mapstructure:"api_key"`
	TimeoutMs  int                    `mapstructure:"timeout_ms"`
	MaxRetries int                    `mapstructure:"max_retries"`
	LogCalls   bool                   `mapstructure:"log_calls"`
	Tasks      map[string]TaskSection `mapstructure:"tasks"`
}

type TaskSection struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TimeoutMs   int     `mapstructure:"timeout_ms"`
}

type ClassificationConfig struct {
	// FallbackUnclassified files a failed batch under the catch-all bucket
	// instead of rejecting it.
	FallbackUnclassified bool `mapstructure:"fallback_unclassified"`
	ReadConcurrency      int  `mapstructure:"read_concurrency"`
}

type HTTPConfig struct {
	Addr            string `mapstructure:"addr"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_sec"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"`
}

// Options control where Load looks.
type Options struct {
	ConfigFile string // explicit YAML path; empty searches the defaults
	EnvFile    string // defaults to .env in the working directory
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", defaultDBPath())
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key_prefix", "suretydesk")
	v.SetDefault("llm.provider", string(d.Provider))
	v.SetDefault("llm.endpoint", d.Endpoint)
	v.SetDefault("llm.model", d.Model)
	v.SetDefault("llm.timeout_ms", d.TimeoutMs)
	v.SetDefault("llm.max_retries", d.MaxRetries)
	v.SetDefault("llm.log_calls", true)
	v.SetDefault("classification.fallback_unclassified", true)
	v.SetDefault("classification.read_concurrency", 8)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout_sec", 10)
	v.SetDefault("http.max_upload_mb", 64)
}

// Load merges defaults, the YAML file, the .env file and the environment.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// GEMINI_API_KEY is the name Google documents; accept it as a fallback.
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("suretydesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(dir + "/suretydesk")
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("store.driver must be sqlite or redis, got %q", c.Store.Driver)
	}
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderGemini, llm.ProviderOllama:
	default:
		return fmt.Errorf("llm.provider must be gemini or ollama, got %q", c.LLM.Provider)
	}
	if c.LLM.MaxRetries < 0 {
		return errors.New("llm.max_retries must not be negative")
	}
	return nil
}

// LLMConfig converts the section into the client configuration, layering
// per-task overrides over the built-in task defaults.
func (c *Config) LLMConfig() llm.LLMConfig {
	out := llm.DefaultConfig()
	out.Provider = llm.Provider(c.LLM.Provider)
	out.Endpoint = c.LLM.Endpoint
	out.Model = c.LLM.Model
	out.APIKey = c.LLM.APIKey
	out.LogCalls = c.LLM.LogCalls
	if c.LLM.TimeoutMs > 0 {
		out.TimeoutMs = c.LLM.TimeoutMs
	}
	out.MaxRetries = c.LLM.MaxRetries

	for name, ts := range c.LLM.Tasks {
		task := llm.TaskType(strings.ToLower(name))
		tc := out.Tasks[task]
		if ts.Temperature > 0 {
			tc.Temperature = ts.Temperature
		}
		if ts.MaxTokens > 0 {
			tc.MaxTokens = ts.MaxTokens
		}
		out.Tasks[task] = tc
		out = out.WithTaskTimeout(task, ts.TimeoutMs)
	}
	return out
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "suretydesk.db"
	}
	return home + "/.suretydesk/suretydesk.db"
}
