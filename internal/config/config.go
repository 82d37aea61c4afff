package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	Environment   string
	HTTPAddr      string
	MigrationsDir string
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
		SweepInterval: time.Hour,
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}
	if raw := os.Getenv("SWEEP_INTERVAL_MINS"); raw != "" {
		mins, err := strconv.Atoi(raw)
		if err != nil || mins < 1 {
			return nil, fmt.Errorf("SWEEP_INTERVAL_MINS must be a positive integer, got %q", raw)
		}
		cfg.SweepInterval = time.Duration(mins) * time.Minute
	}

	// Обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
