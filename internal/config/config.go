package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/you/accountsvc/domain"
)

const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

type RateLimitConfig struct {
	LoginPerSecond float64 `yaml:"login_per_second"`
	LoginBurst     int     `yaml:"login_burst"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	Casbin    CasbinConfig    `yaml:"casbin"`
}

type Config struct {
	Port            string
	GinMode         string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	EventStream     string
	SessionTTL      time.Duration
	LoginRate       float64
	LoginBurst      int
	LogLevel        string
	LogDev          bool
	CasbinModelPath string
	AdminUsername   string
	AdminPassword   string
}

// AdminCredentials returns the bootstrap admin credentials.
// Their absence is a fatal configuration error.
func (c *Config) AdminCredentials() (string, string, error) {
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return "", "", domain.ErrAdminCredentialsMissing
	}
	return c.AdminUsername, c.AdminPassword, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return i, nil
}

func envFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return f, nil
}

func defaults() *ConfigFile {
	return &ConfigFile{
		App:       AppConfig{Port: 8080, GinMode: "release"},
		Redis:     RedisConfig{Stream: "accounts:events"},
		Session:   SessionConfig{TTL: "1h"},
		RateLimit: RateLimitConfig{LoginPerSecond: 1, LoginBurst: 5},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path (if it exists) and overlays environment
// variables. A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	ttl, err := time.ParseDuration(env("SESSION_TTL", configFile.Session.TTL))
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid session TTL: must be positive")
	}

	port, err := envInt("PORT", configFile.App.Port)
	if err != nil {
		return nil, err
	}
	redisDB, err := envInt("REDIS_DB", configFile.Redis.DB)
	if err != nil {
		return nil, err
	}
	loginRate, err := envFloat("LOGIN_RATE_PER_SECOND", configFile.RateLimit.LoginPerSecond)
	if err != nil {
		return nil, err
	}
	loginBurst, err := envInt("LOGIN_RATE_BURST", configFile.RateLimit.LoginBurst)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            strconv.Itoa(port),
		GinMode:         env("GIN_MODE", configFile.App.GinMode),
		DSN:             env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:       env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:   env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:         redisDB,
		EventStream:     env("EVENT_STREAM", configFile.Redis.Stream),
		SessionTTL:      ttl,
		LoginRate:       loginRate,
		LoginBurst:      loginBurst,
		LogLevel:        env("LOG_LEVEL", configFile.Log.Level),
		LogDev:          env("LOG_DEV", strconv.FormatBool(configFile.Log.Dev)) == "true",
		CasbinModelPath: env("CASBIN_MODEL_PATH", configFile.Casbin.ModelPath),
		AdminUsername:   os.Getenv("ADMIN_USERNAME"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	config := defaults()

	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return config, nil
}
