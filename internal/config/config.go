package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Cron       CronConfig
	Telemetry  TelemetryConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig describes the working day. Times are "HH:MM" in Timezone.
type AttendanceConfig struct {
	Timezone              string
	StandardStart         string
	StandardEnd           string
	DailyHours            string
	OvertimeApprovalHours string
}

type CronConfig struct {
	IncompleteInterval time.Duration
}

type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Info("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris-workforce"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "hris-workforce"),
		Version:        getEnv("APP_VERSION", "dev"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.Attendance = AttendanceConfig{
		Timezone:              getEnv("ATTENDANCE_TIMEZONE", "UTC"),
		StandardStart:         getEnv("ATTENDANCE_START", "09:00"),
		StandardEnd:           getEnv("ATTENDANCE_END", "17:30"),
		DailyHours:            getEnv("ATTENDANCE_DAILY_HOURS", "8"),
		OvertimeApprovalHours: getEnv("ATTENDANCE_OVERTIME_APPROVAL_HOURS", "2"),
	}

	incompleteInterval, err := time.ParseDuration(getEnv("CRON_INCOMPLETE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_INCOMPLETE_INTERVAL: %w", err)
	}
	config.Cron = CronConfig{IncompleteInterval: incompleteInterval}

	insecure, err := strconv.ParseBool(getEnv("OTEL_EXPORTER_OTLP_INSECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_EXPORTER_OTLP_INSECURE: %w", err)
	}
	config.Telemetry = TelemetryConfig{
		Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Insecure: insecure,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.WorkingHours(); err != nil {
		return err
	}
	return nil
}

// WorkingHours builds the attendance working day from the ATTENDANCE_* settings.
func (c *Config) WorkingHours() (attendance.WorkingHours, error) {
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return attendance.WorkingHours{}, fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}

	start, err := attendance.ParseClock(c.Attendance.StandardStart)
	if err != nil {
		return attendance.WorkingHours{}, fmt.Errorf("invalid ATTENDANCE_START: %w", err)
	}
	end, err := attendance.ParseClock(c.Attendance.StandardEnd)
	if err != nil {
		return attendance.WorkingHours{}, fmt.Errorf("invalid ATTENDANCE_END: %w", err)
	}

	daily, err := decimal.NewFromString(c.Attendance.DailyHours)
	if err != nil {
		return attendance.WorkingHours{}, fmt.Errorf("invalid ATTENDANCE_DAILY_HOURS: %w", err)
	}
	threshold, err := decimal.NewFromString(c.Attendance.OvertimeApprovalHours)
	if err != nil {
		return attendance.WorkingHours{}, fmt.Errorf("invalid ATTENDANCE_OVERTIME_APPROVAL_HOURS: %w", err)
	}

	wh := attendance.WorkingHours{
		Location:                  loc,
		StandardStart:             start,
		StandardEnd:               end,
		StandardDailyHours:        daily,
		OvertimeApprovalThreshold: threshold,
	}
	if err := wh.Validate(); err != nil {
		return attendance.WorkingHours{}, err
	}
	return wh, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
