package config

import "time"

// RateLimitConfig controls the Redis token bucket applied to every request.
// Keys combine client IP, user id and route so one noisy caller cannot
// exhaust another's budget.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    Prefix         string
}

// LoadRateLimitConfig builds a RateLimitConfig from the environment with
// guard rails: capacity and refill are clamped to at least one, and the TTL
// is kept long enough for the bucket state to survive between refills.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
        Capacity:       atoi(getenv("RATE_LIMIT_CAPACITY", "60")),
        RefillTokens:   atoi(getenv("RATE_LIMIT_REFILL_TOKENS", "1")),
        RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "1s")),
        TTL:            parseDur(getenv("RATE_LIMIT_TTL", "10m")),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
        cfg.TTL = minTTL
    }
    return cfg
}
