package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magicalboonies/safaribook/config"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	packagesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, packagesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		packagesTTL: packagesTTL,
	}
}

// GetPackages returns the cached unfiltered catalogue, or nil on a miss.
func (c *RedisCache) GetPackages(ctx context.Context) ([]domain.SafariPackage, error) {
	data, err := c.client.Get(ctx, packagesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var packages []domain.SafariPackage
	if err := json.Unmarshal(data, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func (c *RedisCache) SetPackages(ctx context.Context, packages []domain.SafariPackage) error {
	payload, err := json.Marshal(packages)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, packagesKey(), payload, c.packagesTTL).Err()
}

// AcquireSubmitLock debounces duplicate booking submissions from the same
// user for the same package. It does not coordinate distinct bookers.
func (c *RedisCache) AcquireSubmitLock(ctx context.Context, userID, packageID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, submitLockKey(userID, packageID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSubmitLock(ctx context.Context, userID, packageID string) error {
	return c.client.Del(ctx, submitLockKey(userID, packageID)).Err()
}

func packagesKey() string {
	return "cache:packages"
}

func submitLockKey(userID, packageID string) string {
	return fmt.Sprintf("lock:booking:%s:%s", userID, packageID)
}
