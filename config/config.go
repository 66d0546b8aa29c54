package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds everything read from the environment. It is built once in
// main and passed down explicitly; nothing reads the environment after Load.
type Config struct {
	AppName           string
	Port              string
	GinMode           string
	DBDriver          string
	DBDSN             string
	DefaultResourceID string
}

func Load() *Config {
	return &Config{
		AppName:           getEnv("APP_NAME", "Bookly API"),
		Port:              getEnv("PORT", "8080"),
		GinMode:           os.Getenv("GIN_MODE"),
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBDSN:             buildDSN(),
		DefaultResourceID: getEnv("DEFAULT_RESOURCE_ID", "alder-lake-house"),
	}
}

// InitDB opens the database connection for the configured driver.
func InitDB(cfg *Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	default:
		return gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	}
}

// buildDSN prefers a full DATABASE_URL and otherwise assembles a mysql DSN
// from the usual DB_* variables.
func buildDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	user := getEnv("DB_USER", "root")
	pass := os.Getenv("DB_PASS")
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	name := getEnv("DB_NAME", "bookly")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, name)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
