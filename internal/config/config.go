package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port         int
	DBDSN        string
	RedisURL     string
	AllowOrigins []string
	Session      SessionConfig
	ErrorLogPath string
	LogLevel     zerolog.Level
	AutoMigrate  bool
}

// SessionConfig descreve o cookie de sessão e sua validade no Redis.
type SessionConfig struct {
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	ttl, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, errors.New("SESSION_TTL deve ser positivo")
	}
	cfg.Session.TTL = ttl

	cfg.Session.CookieName = strings.TrimSpace(getEnv("SESSION_COOKIE_NAME", "cidadao_session"))
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "cidadao_session"
	}

	secure, err := parseBoolEnv("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	cfg.Session.CookieSecure = secure

	for _, origin := range strings.Split(getEnv("ALLOW_ORIGINS", ""), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.ErrorLogPath = strings.TrimSpace(getEnv("ERROR_LOG_PATH", "logs/error.log"))
	if cfg.ErrorLogPath == "" {
		cfg.ErrorLogPath = "logs/error.log"
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))))
	if err != nil {
		return nil, errors.New("LOG_LEVEL inválido")
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	cfg.LogLevel = level

	autoMigrate, err := parseBoolEnv("AUTO_MIGRATE", false)
	if err != nil {
		return nil, err
	}
	cfg.AutoMigrate = autoMigrate

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.New(key + " inválido")
	}
	return b, nil
}
