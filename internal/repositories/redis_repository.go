package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.Config
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

	slog.Info("✅ Successfully connected to Redis")

	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg *config.Config) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg}
}

// CheckLoginRateLimit counts attempts per email in a fixed window. Returns
// whether the attempt is allowed, how many tries remain, and the retry-after
// in seconds once the window is exhausted.
func (r *redisRepository) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {

	key := "login_attempts:" + email

	attempts, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, 0, fmt.Errorf("failed to increment login counter: %w", err)
	}

	if attempts == 1 {
		if err := r.client.Expire(ctx, key, r.cfg.RateConfig.WindowSize).Err(); err != nil {
			return false, 0, 0, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}

	if attempts > r.cfg.RateConfig.MaxAttempts {

		ttl, err := r.client.TTL(ctx, key).Result()
		if err != nil {
			return false, 0, 0, fmt.Errorf("failed to read window ttl: %w", err)
		}

		return false, 0, int(ttl.Seconds()), nil
	}

	remaining := int(r.cfg.RateConfig.MaxAttempts - attempts)

	return true, remaining, 0, nil
}
