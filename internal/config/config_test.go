package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/domains/user"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DISPLAY_NAME_MODE", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DisplayNameLive, cfg.Books.DisplayNameMode)
	assert.Equal(t, 60, cfg.JWT.AccessTokenExpiry)
}

func TestLoad_DefaultBannedUsernamesAreRegistrable(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DISPLAY_NAME_MODE", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("BANNED_USERNAMES", "")
	os.Unsetenv("BANNED_USERNAMES")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"darth_vader"}, cfg.Access.BannedUsernames)

	for _, name := range cfg.Access.BannedUsernames {
		req := user.RegisterRequest{Username: name, Password: "testpass123"}
		assert.NoError(t, req.Validate(), name)
	}
}

func TestLoad_DisplayNameMode(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("DISPLAY_NAME_MODE", "Snapshot")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DisplayNameSnapshot, cfg.Books.DisplayNameMode)

	t.Setenv("DISPLAY_NAME_MODE", "eventual")
	_, err = Load()
	assert.Error(t, err)
}

func TestGetEnvList(t *testing.T) {
	def := []string{"Darth Vader"}

	assert.Equal(t, def, getEnvList("BOOKSTORE_TEST_UNSET_LIST", def))

	t.Setenv("BOOKSTORE_TEST_LIST", " alice , ,Darth Vader,")
	assert.Equal(t, []string{"alice", "Darth Vader"}, getEnvList("BOOKSTORE_TEST_LIST", def))

	t.Setenv("BOOKSTORE_TEST_LIST", "")
	assert.Empty(t, getEnvList("BOOKSTORE_TEST_LIST", def))
}

func TestValidate_Production(t *testing.T) {
	cfg := &Config{
		App:   AppConfig{Environment: "production"},
		JWT:   JWTConfig{Secret: defaultJWTSecret, AccessTokenExpiry: 15},
		Books: BooksConfig{DisplayNameMode: DisplayNameLive},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.JWT.AccessTokenExpiry = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MAX_CONN_LIFETIME", "")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "5m0s", cfg.MaxConnLifetime.String())

	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("DB_RETRY_DELAY", "soon")
	_, err = LoadDatabaseConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Contains(t, err.Error(), "DB_RETRY_DELAY")
}
