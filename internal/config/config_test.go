package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL())
	assert.Equal(t, 168*time.Hour, cfg.VerifyTokenTTL())
	assert.Equal(t, 720*time.Hour, cfg.LoginTokenTTL())
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow())
	assert.Equal(t, 5, cfg.RateLimit.LoginMax)
	assert.Equal(t, 3, cfg.RateLimit.OTPMax)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("VTRACK_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("VTRACK_AUTH_OTPTTLMINUTES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL())
}
