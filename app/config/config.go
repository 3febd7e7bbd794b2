package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig selects and locates the post store.
type DBConfig struct {
	Driver     string
	BadgerPath string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// Config is the runtime configuration of the service.
type Config struct {
	Env  string
	Addr string
	DB   DBConfig

	KafkaBrokers []string
	KafkaTopic   string

	RedisAddr  string
	RateLimit  int64
	RateWindow time.Duration
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For is honoured.
	TrustedProxies []string

	OTELEndpoint string
	ServiceName  string
	SampleRatio  float64
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: could not load .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Addr: getEnv("APP_ADDR", ":8080"),
		DB: DBConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverBadger)),
			BadgerPath: getEnv("BADGER_PATH", "data/badger"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			Name:       getEnv("DB_NAME", "content_db"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "data/content.db"),
		},
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "posts.events"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RateLimit:      int64(atoiDef(os.Getenv("RATE_LIMIT"), 120)),
		RateWindow:     durationDef(os.Getenv("RATE_WINDOW"), time.Minute),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		OTELEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "contentservice"),
		SampleRatio:    ratioDef(os.Getenv("OTEL_TRACES_SAMPLER_ARG"), 1.0),
	}
}

// DSN returns the Postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func atoiDef(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func durationDef(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func ratioDef(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return def
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
