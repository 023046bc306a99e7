package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "lms-media", cfg.S3Bucket)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_EXPIRY", "24h")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("SMTP_PORT", "2525")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "rzp_test_key", cfg.RazorpayKeyID)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("JWT_EXPIRY", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
}
