package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/outboundhq/dialer/internal/config"
)

func newTestConfig(maxRequests int, windowMS int) *config.Config {
	return &config.Config{RateLimit: config.RateLimitConfig{MaxRequests: maxRequests, WindowMS: windowMS}}
}

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(newTestConfig(2, 60000))

	assert.True(t, l.Allow("tenant-a"))
	assert.True(t, l.Allow("tenant-a"))
	assert.False(t, l.Allow("tenant-a"), "burst of 2 should be exhausted on the third call")
}

func TestLimiter_PerTenantIsolation(t *testing.T) {
	l := NewLimiter(newTestConfig(1, 60000))

	assert.True(t, l.Allow("tenant-a"))
	assert.False(t, l.Allow("tenant-a"))
	assert.True(t, l.Allow("tenant-b"), "a different tenant must have its own bucket")
}

func TestNewLimiter_DefaultsOnZeroConfig(t *testing.T) {
	l := NewLimiter(newTestConfig(0, 0))
	assert.True(t, l.Allow("tenant-a"))
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	l := NewLimiter(newTestConfig(1, 50))

	assert.True(t, l.Allow("tenant-a"))
	assert.False(t, l.Allow("tenant-a"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, l.Allow("tenant-a"))
}
