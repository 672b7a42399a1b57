// Package config loads process configuration from the environment, with a
// .env file as the development-time source.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for both the API server and the board.
type Config struct {
	// PlantCode scopes every query and MES call to one plant.
	PlantCode string

	Server ServerConfig
	Mongo  MongoConfig
	MySQL  MySQLConfig
	MES    MESConfig
	Board  BoardConfig
	Log    LogConfig
}

type ServerConfig struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
}

type MongoConfig struct {
	Server   string
	Database string
	User     string
	Password string
}

// URI assembles the connection string the same way the ingestion side does.
func (c MongoConfig) URI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s/%s", c.User, c.Password, c.Server, c.Database)
}

type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns a go-sql-driver DSN.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", c.User, c.Password, c.Host, c.Port, c.Database)
}

type MESConfig struct {
	Host    string
	Port    string
	Timeout time.Duration
}

// Endpoint returns the MES base URL.
func (c MESConfig) Endpoint() string {
	return fmt.Sprintf("http://%s:%s", c.Host, c.Port)
}

type BoardConfig struct {
	// APIBaseURL is where the board reaches the serve process.
	APIBaseURL   string
	PollInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Default returns a Config with development defaults.
func Default() Config {
	return Config{
		PlantCode: "5210",
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			Server:   "localhost:27017",
			Database: "tmes",
		},
		MySQL: MySQLConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "tmes",
		},
		MES: MESConfig{
			Host:    "localhost",
			Port:    "8000",
			Timeout: 10 * time.Second,
		},
		Board: BoardConfig{
			APIBaseURL:   "http://localhost:8080",
			PollInterval: time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from the environment, falling back to defaults
// for any unset value. A .env file in the working directory is loaded
// first; a missing file is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()

	applyString(&cfg.PlantCode, "TMES_PLANT_CODE")
	applyString(&cfg.Server.ListenAddr, "TMES_LISTEN_ADDR")

	// Mongo and MES variable names match the ingestion-side deployment.
	applyString(&cfg.Mongo.Server, "MONGO_SERVER")
	applyString(&cfg.Mongo.Database, "MONGO_DB")
	applyString(&cfg.Mongo.User, "MONGO_USER")
	applyString(&cfg.Mongo.Password, "MONGO_PASSWORD")

	applyString(&cfg.MySQL.Host, "MYSQL_HOST")
	applyInt(&cfg.MySQL.Port, "MYSQL_PORT")
	applyString(&cfg.MySQL.User, "MYSQL_USER")
	applyString(&cfg.MySQL.Password, "MYSQL_PASSWORD")
	applyString(&cfg.MySQL.Database, "MYSQL_DB")

	applyString(&cfg.MES.Host, "API_ADDRESS")
	applyString(&cfg.MES.Port, "API_PORT")
	applyDurationMs(&cfg.MES.Timeout, "TMES_MES_TIMEOUT_MS")

	applyString(&cfg.Board.APIBaseURL, "TMES_API_URL")
	applyDurationMs(&cfg.Board.PollInterval, "TMES_POLL_MS")

	applyString(&cfg.Log.Level, "TMES_LOG_LEVEL")
	applyString(&cfg.Log.Format, "TMES_LOG_FORMAT")

	return cfg
}

func applyString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func applyInt(dst *int, name string) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func applyDurationMs(dst *time.Duration, name string) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = time.Duration(n) * time.Millisecond
		}
	}
}
