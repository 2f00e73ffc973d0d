package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/roomify")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "roomify:", cfg.CachePrefix)
	assert.NotEmpty(t, cfg.SessionSecret, "development gets a fallback secret")
	assert.False(t, cfg.AdminShortcutEnabled())
	assert.False(t, cfg.UseRedisCache())
}

func TestParseRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	_, err := Parse()
	require.Error(t, err)
}

func TestParseProductionSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"missing", "", true},
		{"too short", "short", true},
		{"long enough", "0123456789abcdefghijklmnopqrstuvwxyz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DSN", "postgres://localhost/roomify")
			t.Setenv("APP_ENV", "production")
			t.Setenv("SESSION_SECRET", tt.secret)

			_, err := Parse()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseAdminPairMustBeComplete(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/roomify")
	t.Setenv("ADMIN_EMAIL", "admin@roomify.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := Parse()
	require.Error(t, err)

	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.AdminShortcutEnabled())
}
