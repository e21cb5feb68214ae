package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	count int64
	err   error
	calls int
	keys  []string
}

func (m *mockRedisEvaler) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	m.calls++
	m.keys = append(m.keys, keys...)
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	m.count++
	cmd.SetVal(m.count)
	return cmd
}

func TestRedisSubmissionRateLimiter_Allow(t *testing.T) {
	evaler := &mockRedisEvaler{}
	limiter := &redisSubmissionRateLimiter{
		client: evaler,
		window: time.Minute,
		max:    2,
		prefix: "submit:rl:",
	}

	if !limiter.Allow("tok-1") {
		t.Fatal("first submission should be allowed")
	}
	if !limiter.Allow("tok-1") {
		t.Fatal("second submission should be allowed")
	}
	if limiter.Allow("tok-1") {
		t.Fatal("third submission should be limited")
	}
	if evaler.calls != 3 {
		t.Fatalf("eval calls = %d, want 3", evaler.calls)
	}
	if evaler.keys[0] != "submit:rl:tok-1" {
		t.Fatalf("redis key = %q", evaler.keys[0])
	}
}

func TestRedisSubmissionRateLimiter_NormalizesKey(t *testing.T) {
	evaler := &mockRedisEvaler{}
	limiter := &redisSubmissionRateLimiter{
		client: evaler,
		window: time.Minute,
		max:    1,
		prefix: "submit:rl:",
	}

	limiter.Allow("  TOK-1  ")
	if evaler.keys[0] != "submit:rl:tok-1" {
		t.Fatalf("redis key = %q, want normalized", evaler.keys[0])
	}
}

func TestRedisSubmissionRateLimiter_EmptyKeyDenied(t *testing.T) {
	limiter := &redisSubmissionRateLimiter{
		client: &mockRedisEvaler{},
		window: time.Minute,
		max:    1,
		prefix: "submit:rl:",
	}
	if limiter.Allow("   ") {
		t.Fatal("blank key should be denied")
	}
}

func TestRedisSubmissionRateLimiter_FailsOpen(t *testing.T) {
	limiter := &redisSubmissionRateLimiter{
		client: &mockRedisEvaler{err: errors.New("redis down")},
		window: time.Minute,
		max:    1,
		prefix: "submit:rl:",
	}
	if !limiter.Allow("tok-1") {
		t.Fatal("redis failure should not block submissions")
	}
}

func TestSubmissionRateLimiter_InMemory(t *testing.T) {
	limiter := NewSubmissionRateLimiter(time.Minute, 2)

	if !limiter.Allow("tok-1") || !limiter.Allow("tok-1") {
		t.Fatal("first two submissions should be allowed")
	}
	if limiter.Allow("tok-1") {
		t.Fatal("third submission should be limited")
	}
	if !limiter.Allow("tok-2") {
		t.Fatal("other keys are counted separately")
	}
}
