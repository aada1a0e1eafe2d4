package config

type Config struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
	NATSURL  string `mapstructure:"nats_url"`
	RedisURL string `mapstructure:"redis_url"`

	GroqAPIURL string `mapstructure:"groq_api_url"`
	GroqAPIKey string `mapstructure:"groq_api_key"`
	GroqModel  string `mapstructure:"groq_model"`
}
