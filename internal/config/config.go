// Package config carrega a configuração da aplicação a partir de variáveis de ambiente.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

var placeholderSecrets = map[string]bool{
	"":                   true,
	"change-me":          true,
	"secret":             true,
	"your-secret-key":    true,
	"dev-refresh-secret": true,
}

// ErrInsecureSecret indica segredo JWT ausente ou de exemplo em produção
var ErrInsecureSecret = errors.New("JWT secrets must be set to non-default values in production")

// DatabaseConfig contém as configurações de conexão com o PostgreSQL
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
}

// ConnectionString retorna a URL de conexão, priorizando DATABASE_URL
func (c DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig separa os segredos dos tokens de acesso e de renovação
type JWTConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessDuration  time.Duration
	RefreshDuration time.Duration
	Issuer          string
}

type CORSConfig struct {
	Origins       []string
	AllowNoOrigin bool
}

// Config agrupa toda a configuração da API
type Config struct {
	Env       string
	Port      string
	APIPrefix string
	LogLevel  string
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load lê o ambiente e valida os valores obrigatórios
func Load() (*Config, error) {
	env := getEnv("APP_ENV", EnvDevelopment)

	accessSecret := getEnv("JWT_SECRET", getEnv("JWT_ACCESS_SECRET", ""))
	refreshSecret := getEnv("JWT_REFRESH_SECRET", "")

	cfg := &Config{
		Env:       env,
		Port:      getEnv("PORT", "3000"),
		APIPrefix: getEnv("API_PREFIX", "/api/v1"),
		LogLevel:  getEnv("LOG_LEVEL", defaultLogLevel(env)),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "reborn"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  int32(getEnvInt("DB_MAX_CONNECTIONS", 10)),
			MinConnections:  int32(getEnvInt("DB_MIN_CONNECTIONS", 2)),
			MaxConnLifetime: time.Duration(getEnvInt("DB_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret:    accessSecret,
			RefreshSecret:   refreshSecret,
			AccessDuration:  getEnvDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
			RefreshDuration: getEnvDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
			Issuer:          getEnv("JWT_ISSUER", "reborn-api"),
		},
		CORS: CORSConfig{
			Origins:       splitList(getEnv("CORS_ORIGIN", "http://localhost:3000")),
			AllowNoOrigin: getEnv("CORS_ALLOW_NO_ORIGIN", "true") == "true",
		},
	}

	if cfg.IsProduction() {
		if placeholderSecrets[accessSecret] || placeholderSecrets[refreshSecret] {
			return nil, ErrInsecureSecret
		}
	} else {
		if cfg.JWT.AccessSecret == "" {
			cfg.JWT.AccessSecret = "dev-access-secret"
		}
		if cfg.JWT.RefreshSecret == "" {
			cfg.JWT.RefreshSecret = "dev-refresh-secret"
		}
	}

	return cfg, nil
}

func defaultLogLevel(env string) string {
	if env == EnvProduction {
		return "info"
	}
	return "debug"
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration aceita "15m", "7d" ou segundos puros
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil {
			return defaultValue
		}
		return time.Duration(days) * 24 * time.Hour
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
