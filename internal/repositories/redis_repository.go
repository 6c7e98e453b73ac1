package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kartverse/storefront/internal/api/middleware"
	"github.com/kartverse/storefront/internal/cache"
	"github.com/kartverse/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	// CheckLoginRateLimit records one attempt and reports whether the
	// caller may proceed, how many attempts remain, and how many
	// seconds to wait when blocked.
	CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error)
}

type loginRateLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int64
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DB = cfg.RedisConnect.DB
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg *config.Config) RateLimitRepository {
	return &loginRateLimiter{
		client:      client,
		window:      cfg.RateConfig.WindowSize,
		maxAttempts: cfg.RateConfig.MaxAttempts,
	}
}

// CheckLoginRateLimit keeps a sorted set of attempt timestamps per
// username and counts the ones inside the sliding window. The attempt
// being checked is recorded before counting, so the caller always pays
// for asking.
func (l *loginRateLimiter) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	logger := middleware.LoggerFromContext(ctx)

	key := cache.Key(cache.LoginAttemptedPrefix, username)
	now := time.Now().Unix()
	windowStart := now - int64(l.window.Seconds())

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Rate limit pipeline failed", slog.String("key", key), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()
	if attempts < l.maxAttempts {
		return true, int(l.maxAttempts - attempts), 0, nil
	}

	retryAfter, err := l.secondsUntilOldestExpires(ctx, key, now)
	if err != nil {
		logger.Error("Failed to read oldest login attempt", slog.String("key", key), slog.Any("error", err))
		return false, 0, int(l.window.Seconds()), err
	}

	logger.Warn("Login rate limit exceeded", slog.String("username", username), slog.Int64("attempts", attempts))

	return false, 0, retryAfter, nil
}

func (l *loginRateLimiter) secondsUntilOldestExpires(ctx context.Context, key string, now int64) (int, error) {
	scores, err := l.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{
		Key: key, Start: 0, Stop: 0,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get oldest attempt time: %w", err)
	}

	if len(scores) == 0 {
		return 0, fmt.Errorf("failed to get oldest attempt time: empty window")
	}

	oldest := int64(scores[0].Score)

	return int(max(oldest+int64(l.window.Seconds())-now, 0)), nil
}
