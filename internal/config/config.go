package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is built once in main and treated as immutable afterwards.
type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	AmqpURL         string
	RedisAddr       string
	RateLimitPerMin int
	DDEnabled       bool
	Prod            bool
}

// Load reads .env (when present) and the process environment.
// PORT, MONGO_URI and JWT_SECRET have no defaults: running without them
// is a deployment mistake, not something to paper over.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:            os.Getenv("PORT"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         getenv("MONGO_DB", "wanderlust"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AmqpURL:         os.Getenv("AMQP_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "0")),
		DDEnabled:       getenv("DD_ENABLED", "false") == "true",
		Prod:            getenv("APP_ENV", "dev") == "prod",
	}

	for _, req := range []struct{ key, val string }{
		{"PORT", cfg.Port},
		{"MONGO_URI", cfg.MongoURI},
		{"JWT_SECRET", cfg.JWTSecret},
	} {
		if req.val == "" {
			return Config{}, fmt.Errorf("%s is not defined in the environment", req.key)
		}
	}
	return cfg, nil
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
