package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Assets    AssetsConfig    `mapstructure:"assets"`
}

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Production  bool     `mapstructure:"production"`
	CorsOrigins []string `mapstructure:"cors_origins"`
}

type StorageConfig struct {
	// Driver selects the keyed-blob backend: "file" or "redis".
	Driver   string      `mapstructure:"driver"`
	BasePath string      `mapstructure:"base_path"`
	Redis    RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

type ProvidersConfig struct {
	// FallbackGeminiKey is consulted only when the user has not configured
	// a Gemini credential of their own. It is the sole environment-level
	// credential; every other key lives in the persisted settings.
	FallbackGeminiKey string `mapstructure:"fallback_gemini_key"`
	GeminiModel       string `mapstructure:"gemini_model"`
	GeminiImageModel  string `mapstructure:"gemini_image_model"`
	GroqModel         string `mapstructure:"groq_model"`
	GroqEndpoint      string `mapstructure:"groq_endpoint"`
	OpenAIModel       string `mapstructure:"openai_model"`
	OpenAIEndpoint    string `mapstructure:"openai_endpoint"`
}

type AssetsConfig struct {
	// Enabled switches generated images from inline data URLs to objects
	// uploaded to an S3-compatible store.
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/narratif/")
	}

	v.SetEnvPrefix("NARRATIF")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// GEMINI_API_KEY is the historical fallback credential name; honor it
	// when the prefixed variable is not set.
	if cfg.Providers.FallbackGeminiKey == "" {
		cfg.Providers.FallbackGeminiKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg.Storage.BasePath = os.ExpandEnv(cfg.Storage.BasePath)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.production", false)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.base_path", "/var/narratif")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.use_tls", false)

	v.SetDefault("providers.gemini_model", "gemini-2.5-flash")
	v.SetDefault("providers.gemini_image_model", "gemini-2.5-flash-image")
	v.SetDefault("providers.groq_model", "llama3-8b-8192")
	v.SetDefault("providers.groq_endpoint", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("providers.openai_model", "gpt-4o-mini")
	v.SetDefault("providers.openai_endpoint", "https://api.openai.com/v1/chat/completions")

	v.SetDefault("assets.enabled", false)
	v.SetDefault("assets.use_ssl", true)
	v.SetDefault("assets.bucket", "narratif-assets")
}
