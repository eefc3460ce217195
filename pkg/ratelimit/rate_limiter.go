package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"quickshow/internal/shared/config"
	"quickshow/internal/shared/constants"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RateLimitType string

const (
	RateLimitTypeDefault RateLimitType = "default"
	RateLimitTypePublic  RateLimitType = "public"
	RateLimitTypeBooking RateLimitType = "booking"
	RateLimitTypeAdmin   RateLimitType = "admin"
	// RateLimitTypeExempt covers provider webhooks and health probes
	RateLimitTypeExempt RateLimitType = "exempt"
)

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter keeps a sliding window per client and route class in Redis.
// While Redis is unreachable each process falls back to a local token bucket.
type RateLimiter struct {
	client *redis.Client
	config config.RateLimitConfig

	mu       sync.Mutex
	fallback map[string]*rate.Limiter
	now      func() time.Time
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = time.Minute
	}
	return &RateLimiter{
		client:   client,
		config:   cfg,
		fallback: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Lua script for atomic sliding window rate limiting
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {0, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)
	return {1, limit - current - 1}
`)

// IsAllowed checks whether clientIP may make another request of limitType
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)
	now := r.now()
	reset := now.Add(r.config.WindowDuration).Unix()

	if !r.config.Enabled || limitType == RateLimitTypeExempt || r.isWhitelisted(clientIP) || limit <= 0 {
		return &Result{Allowed: true, Limit: limit, Remaining: limit, ResetTime: reset}, nil
	}

	key := fmt.Sprintf("%s:%s:%s", constants.KEY_RATE_LIMIT_PREFIX, limitType, clientIP)
	result, err := r.checkLimit(ctx, key, limit, now)
	if err != nil {
		return r.checkLocal(key, limit, reset), err
	}
	return result, nil
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, now time.Time) (*Result, error) {
	window := r.config.WindowDuration
	windowStart := now.Add(-window)
	member := strconv.FormatInt(now.UnixNano(), 10)

	values, err := slidingWindow.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		window.Milliseconds(),
		member,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	return &Result{
		Allowed:   values[0] == 1,
		Limit:     limit,
		Remaining: int(values[1]),
		ResetTime: now.Add(window).Unix(),
	}, nil
}

// checkLocal spreads limit evenly over the window with a burst of limit
func (r *RateLimiter) checkLocal(key string, limit int, reset int64) *Result {
	r.mu.Lock()
	lim, ok := r.fallback[key]
	if !ok {
		every := r.config.WindowDuration / time.Duration(limit)
		lim = rate.NewLimiter(rate.Every(every), limit)
		r.fallback[key] = lim
	}
	r.mu.Unlock()

	allowed := lim.Allow()
	remaining := int(lim.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return &Result{Allowed: allowed, Limit: limit, Remaining: remaining, ResetTime: reset}
}

func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return r.config.PublicRequests
	case RateLimitTypeBooking:
		return r.config.BookingRequests
	case RateLimitTypeAdmin:
		return r.config.AdminRequests
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	for _, whitelistedIP := range r.config.WhitelistedIPs {
		if ip == whitelistedIP {
			return true
		}
	}
	return false
}
