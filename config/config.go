package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	CorsOrigins string

	DBDriver       string // postgres, mysql or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPath         string // sqlite file
	DBDebug        bool
	DBMaxOpenConns int
	DBMaxIdleConns int

	RedisAddr       string // empty disables the catalog cache
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	LogMode string // development or production
	LogFile string

	SweepEnabled       bool
	SweepCron          string
	SweepRetentionDays int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:        getEnv("PORT", "8080"),
		CorsOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "techgo"),
		DBPath:         getEnv("DB_PATH", "techgo.db"),
		DBDebug:        getEnvBool("DB_DEBUG", false),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 300),

		LogMode: getEnv("LOG_MODE", "development"),
		LogFile: getEnv("LOG_FILE", ""),

		SweepEnabled:       getEnvBool("SWEEP_ENABLED", true),
		SweepCron:          getEnv("SWEEP_CRON", "0 3 * * *"),
		SweepRetentionDays: getEnvInt("SWEEP_RETENTION_DAYS", 0),
	}

	if AppConfig.DBDriver == "sqlite" {
		log.Printf("Warning: Using sqlite database %s. Set DB_DRIVER for postgres or mysql.", AppConfig.DBPath)
	}
	if AppConfig.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Catalog cache disabled.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
