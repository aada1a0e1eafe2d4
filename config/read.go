package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const defaultGroqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// ReadConfig reads the configuration from the specified JSON file. The Groq
// API key may be supplied (or overridden) through the GROQ_API_KEY
// environment variable so it never has to live in the file.
func ReadConfig(configPath string) (Config, error) {
	var cfg Config

	viper.SetConfigFile(configPath)
	viper.SetConfigType("json")

	viper.SetDefault("groq_api_url", defaultGroqAPIURL)
	viper.SetDefault("groq_model", "llama3-8b-8192")
	viper.SetDefault("log_level", "info")

	if err := viper.BindEnv("groq_api_key", "GROQ_API_KEY"); err != nil {
		return cfg, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// MustReadConfig reads the configuration or panics if there's an error.
func MustReadConfig(configPath string) Config {
	cfg, err := ReadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	return cfg
}
