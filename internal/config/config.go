package config

import (
	"os"
	"strconv"
	"time"
)

// Config — конфигурация estate-backend, всё читается из окружения.
type Config struct {
	HTTP struct {
		Addr string
	}
	DatabaseURL string
	Redis       struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret   string
		TokenTTL time.Duration
	}
	Log struct {
		Level string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":" + getEnv("PORT", "8080")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")

	// Redis нужен только для отзыва токенов при logout; без него logout
	// остаётся чисто клиентской операцией.
	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.JWT.Secret = getEnv("JWT_SECRET", "")
	cfg.JWT.TokenTTL = time.Duration(parseInt(getEnv("JWT_TTL_HOURS", "720"), 720)) * time.Hour

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
