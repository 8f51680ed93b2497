package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         AuthConfig
		wantErr     string
		wantMode    string
		wantEnabled bool
	}{
		{name: "disabled", cfg: AuthConfig{Mode: AuthModeDisabled}, wantMode: AuthModeDisabled},
		{name: "empty mode defaults to disabled", cfg: AuthConfig{}, wantMode: AuthModeDisabled},
		{name: "token with secret", cfg: AuthConfig{Mode: AuthModeToken, Token: "s3cret"}, wantMode: AuthModeToken, wantEnabled: true},
		{name: "token without secret", cfg: AuthConfig{Mode: AuthModeToken}, wantErr: "token is empty"},
		{name: "unknown mode", cfg: AuthConfig{Mode: "magic", Token: "x"}, wantErr: "Mode: must be a valid value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, tt.cfg.Mode)
			assert.Equal(t, tt.wantEnabled, tt.cfg.AuthEnabled())
		})
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, ":8080", cfg.App.HTTP.Address())
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"token mode without token", func(c *Config) { c.Auth.Mode = AuthModeToken }},
		{"missing data dir", func(c *Config) { c.Data.Dir = "" }},
		{"missing sqlite path", func(c *Config) { c.SQLite.Path = "" }},
		{"port out of range", func(c *Config) { c.App.HTTP.Port = 70000 }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
