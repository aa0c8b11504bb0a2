package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// defaultBannedUsernames phải là username hợp lệ khi đăng ký qua /auth/register
var defaultBannedUsernames = []string{"darth_vader"}

const defaultJWTSecret = "your-secret-key-change-in-production"

// DisplayNameMode chọn consistency model cho displayed name của book
type DisplayNameMode string

const (
	// DisplayNameLive resolves the author's name on every read.
	DisplayNameLive DisplayNameMode = "live"
	// DisplayNameSnapshot persists the resolved name when a book is written.
	DisplayNameSnapshot DisplayNameMode = "snapshot"
)

func (m DisplayNameMode) IsValid() bool {
	return m == DisplayNameLive || m == DisplayNameSnapshot
}

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Access   AccessConfig
	Books    BooksConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

// AccessConfig chứa nguồn dữ liệu cho banned registry
type AccessConfig struct {
	BannedUsernames []string
	BannedUsersFile string
}

type BooksConfig struct {
	DisplayNameMode DisplayNameMode
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookstore API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60),
		},
		Access: AccessConfig{
			BannedUsernames: getEnvList("BANNED_USERNAMES", defaultBannedUsernames),
			BannedUsersFile: getEnv("BANNED_USERS_FILE", ""),
		},
		Books: BooksConfig{
			DisplayNameMode: DisplayNameMode(strings.ToLower(getEnv("DISPLAY_NAME_MODE", string(DisplayNameLive)))),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if !c.Books.DisplayNameMode.IsValid() {
		return fmt.Errorf("DISPLAY_NAME_MODE must be %q or %q, got %q",
			DisplayNameLive, DisplayNameSnapshot, c.Books.DisplayNameMode)
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRY must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if len(c.Access.BannedUsernames) == 0 && c.Access.BannedUsersFile == "" {
			log.Warn().Msg("no banned usernames configured")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList đọc danh sách phân cách bởi dấu phẩy; biến tồn tại nhưng rỗng nghĩa là danh sách rỗng
func getEnvList(key string, defaultValue []string) []string {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return append([]string(nil), defaultValue...)
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
