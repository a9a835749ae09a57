package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_UnderLimitDoesNotBlock(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(5, time.Minute)

	start := time.Now()
	for i := 0; i < 5; i++ {
		rl.WaitIfNeeded()
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_OverLimitWaitsForWindow(t *testing.T) {
	t.Parallel()

	// 小さいウィンドウでテストし、待機が発生することだけを確認する
	rl := NewRateLimiter(2, 50*time.Millisecond)

	start := time.Now()
	rl.WaitIfNeeded()
	rl.WaitIfNeeded()
	rl.WaitIfNeeded() // 3回目でウィンドウの残りを待つ
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 30*time.Millisecond)

	rl.WaitIfNeeded()
	time.Sleep(40 * time.Millisecond)

	// ウィンドウが切り替わっているので待たない
	start := time.Now()
	rl.WaitIfNeeded()
	assert.Less(t, time.Since(start), 20*time.Millisecond)
}
