package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"SkillSwap/internal/pkg"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AccessSecret  string
	RefreshSecret string
	SMTP          pkg.SMTPConfig
	Kafka         pkg.KafkaConfig
}

// Load reads .env when present, then the environment. Missing keys fall
// back to local-dev defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	return &Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		DSN:           getenv("SKILLSWAP_DSN", "user:password@tcp(127.0.0.1:3306)/skillswap?charset=utf8mb4&parseTime=True"),
		RedisAddr:     getenv("SKILLSWAP_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getenv("SKILLSWAP_REDIS_PASSWORD", ""),
		RedisDB:       getint("SKILLSWAP_REDIS_DB", 0),
		AccessSecret:  getenv("JWT_ACCESS_SECRET", ""),
		RefreshSecret: getenv("JWT_REFRESH_SECRET", ""),
		SMTP: pkg.SMTPConfig{
			Host:     getenv("SMTP_HOST", "127.0.0.1"),
			Port:     getint("SMTP_PORT", 587),
			Username: getenv("SMTP_USERNAME", "no-reply@skillswap.local"),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("SMTP_FROM", "SkillSwap <no-reply@skillswap.local>"),
		},
		Kafka: pkg.KafkaConfig{
			Brokers: strings.Split(getenv("KAFKA_BROKERS", "127.0.0.1:9092"), ","),
			Topic:   getenv("KAFKA_TOPIC", "notification-events"),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
