package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	t.Run("EnforcesLimitPerIP", func(t *testing.T) {
		rl := New(2, time.Minute)

		allowed, _ := rl.Allow("1.2.3.4")
		assert.True(t, allowed)
		allowed, _ = rl.Allow("1.2.3.4")
		assert.True(t, allowed)
		allowed, _ = rl.Allow("1.2.3.4")
		assert.False(t, allowed)

		// Other clients are unaffected.
		allowed, _ = rl.Allow("5.6.7.8")
		assert.True(t, allowed)
	})

	t.Run("WindowExpiryResetsTheCount", func(t *testing.T) {
		rl := New(1, 20*time.Millisecond)

		allowed, _ := rl.Allow("1.2.3.4")
		assert.True(t, allowed)
		allowed, _ = rl.Allow("1.2.3.4")
		assert.False(t, allowed)

		time.Sleep(30 * time.Millisecond)

		allowed, _ = rl.Allow("1.2.3.4")
		assert.True(t, allowed)
	})
}

func TestCleanup(t *testing.T) {
	rl := New(1, 10*time.Millisecond)
	rl.Allow("1.2.3.4")
	rl.Allow("5.6.7.8")

	time.Sleep(20 * time.Millisecond)
	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.windows)
}
