// Package config содержит логику чтения конфигурации сервиса проката видео.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultRunAddress = "localhost:3000"

// ErrNoJWTKey возвращается, если не задан ключ подписи токенов.
var ErrNoJWTKey = errors.New("jwtPrivateKey is not defined")

// Config содержит параметры конфигурации сервиса проката.
type Config struct {
	RunAddress    string        `env:"RUN_ADDRESS"`
	DatabaseURI   string        `env:"DATABASE_URI"`
	JWTPrivateKey string        `env:"JWT_PRIVATE_KEY"`
	JWTTTL        time.Duration `env:"JWT_TTL"`

	RentalTransactions bool   `env:"RENTAL_TRANSACTIONS"`
	FeeRounding        string `env:"RENTAL_FEE_ROUNDING"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST"`

	// TrustProxy разрешает брать адрес клиента из X-Forwarded-For и X-Real-IP.
	TrustProxy bool `env:"TRUST_PROXY"`

	LogLevel string `env:"LOG_LEVEL"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и
// переменных окружения. Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.JWTPrivateKey, "k", "", "token signing key")
	flag.DurationVar(&cfg.JWTTTL, "t", 0, "token lifetime, 0 for non-expiring tokens")
	flag.BoolVar(&cfg.RentalTransactions, "x", false, "run rental checkout and return in a transaction")
	flag.StringVar(&cfg.FeeRounding, "f", "floor", "rental fee day rounding: floor or ceil")
	flag.Float64Var(&cfg.AuthRateLimit, "auth-rate", 5, "auth requests per second per client, 0 disables")
	flag.IntVar(&cfg.AuthRateBurst, "auth-burst", 10, "auth request burst per client")
	flag.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "take client address from proxy headers")
	flag.StringVar(&cfg.LogLevel, "l", "info", "log level")

	flag.Parse()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные параметры.
func (c *Config) Validate() error {
	if c.JWTPrivateKey == "" {
		return ErrNoJWTKey
	}
	switch strings.ToLower(c.FeeRounding) {
	case "floor", "ceil":
	default:
		return fmt.Errorf("unknown fee rounding %q", c.FeeRounding)
	}
	if c.JWTTTL < 0 {
		return fmt.Errorf("negative token lifetime %s", c.JWTTTL)
	}
	if c.AuthRateLimit < 0 {
		return fmt.Errorf("negative auth rate limit %v", c.AuthRateLimit)
	}
	return nil
}
