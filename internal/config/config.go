package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string `env:"HTTP_PORT" envDefault:"8000"`
	RedditClientID     string `env:"REDDIT_CLIENT_ID,required"`
	RedditClientSecret string `env:"REDDIT_CLIENT_SECRET,required"`
	RedditUserAgent    string `env:"REDDIT_USER_AGENT" envDefault:"persona-llm/1.0"`
	LLMAPIKey          string `env:"LLM_API_KEY,required"`
	LLMBaseURL         string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel           string `env:"LLM_MODEL" envDefault:"gpt-5.1"`
	LLMEmbeddingModel  string `env:"LLM_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	DatabaseURL        string `env:"DATABASE_URL"`
	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTLMinutes    int    `env:"CACHE_TTL_MINUTES" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	JWTSecret          string `env:"JWT_SECRET"`
	AdminKey           string `env:"ADMIN_KEY"`
	PostLimit          int    `env:"POST_LIMIT" envDefault:"5"`
}

// LoadConfig carga la configuración desde variables de entorno.
// Las credenciales de Reddit y la API key del LLM son obligatorias:
// si faltan, el arranque falla de inmediato.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
