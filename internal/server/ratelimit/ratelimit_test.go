package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/api/tailor", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
			{Path: "/api/sessions/", Method: "GET", Limit: 50, Window: time.Minute},
		},
	}
}

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("1.2.3.4", "/api/tailor", "POST")
		assert.True(t, allowed, "request %d", i)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, info := l.Allow("1.2.3.4", "/api/tailor", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.1.1.1", "/api/tailor", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("1.1.1.1", "/api/tailor", "POST")
	assert.False(t, allowed)

	allowed, _ = l.Allow("2.2.2.2", "/api/tailor", "POST")
	assert.True(t, allowed)
}

func TestLimiter_PrefixMatch(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	_, info := l.Allow("1.2.3.4", "/api/sessions/abc123", "GET")
	assert.Equal(t, 50, info.Limit)
}

func TestLimiter_DefaultRule(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	_, info := l.Allow("1.2.3.4", "/api/templates", "GET")
	assert.Equal(t, 100, info.Limit)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 500; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/api/tailor", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_MethodMustMatch(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	// GET on the tailor path falls through to the default rule.
	_, info := l.Allow("1.2.3.4", "/api/tailor", "GET")
	assert.Equal(t, 100, info.Limit)
}
