package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/malchincamp/campbooking/config"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	campsTTL    time.Duration
	productsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, campsTTL, productsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		campsTTL:    campsTTL,
		productsTTL: productsTTL,
	}
}

func (c *RedisCache) GetCamps(ctx context.Context) ([]domain.Camp, error) {
	data, err := c.client.Get(ctx, campsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var camps []domain.Camp
	if err := json.Unmarshal(data, &camps); err != nil {
		return nil, err
	}
	return camps, nil
}

func (c *RedisCache) SetCamps(ctx context.Context, camps []domain.Camp) error {
	payload, err := json.Marshal(camps)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, campsKey(), payload, c.campsTTL).Err()
}

// InvalidateCamps drops the listing cache after a camp write.
func (c *RedisCache) InvalidateCamps(ctx context.Context) error {
	return c.client.Del(ctx, campsKey()).Err()
}

func (c *RedisCache) GetProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, productsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *RedisCache) SetProducts(ctx context.Context, products []domain.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productsKey(), payload, c.productsTTL).Err()
}

func (c *RedisCache) InvalidateProducts(ctx context.Context) error {
	return c.client.Del(ctx, productsKey()).Err()
}

// AcquireDateLock takes a short advisory hold on a camp/date-range while the
// booking transaction runs. The database overlap check stays authoritative;
// the lock only cheapens the common race.
func (c *RedisCache) AcquireDateLock(ctx context.Context, campID int64, start, end time.Time, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, dateLockKey(campID, start, end), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseDateLock(ctx context.Context, campID int64, start, end time.Time) error {
	return c.client.Del(ctx, dateLockKey(campID, start, end)).Err()
}

func (c *RedisCache) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewCart(), nil
		}
		return nil, err
	}
	return domain.DecodeCart(data)
}

func (c *RedisCache) SetCart(ctx context.Context, userID int64, cart *domain.Cart) error {
	payload, err := cart.Encode()
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cartKey(userID), payload, cartTTL).Err()
}

func (c *RedisCache) DeleteCart(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, cartKey(userID)).Err()
}

// ClaimCheckoutKey returns false when the idempotency key was already used,
// so a retried checkout does not place a second order.
func (c *RedisCache) ClaimCheckoutKey(ctx context.Context, userID int64, key string) (bool, error) {
	return c.client.SetNX(ctx, checkoutIdemKey(userID, key), "done", idempotencyTTL).Result()
}

func (c *RedisCache) ReleaseCheckoutKey(ctx context.Context, userID int64, key string) error {
	return c.client.Del(ctx, checkoutIdemKey(userID, key)).Err()
}

const (
	cartTTL        = 30 * 24 * time.Hour
	idempotencyTTL = 24 * time.Hour
)

func campsKey() string    { return "cache:camps" }
func productsKey() string { return "cache:products" }

func cartKey(userID int64) string { return fmt.Sprintf("cart:v1:%d", userID) }

func checkoutIdemKey(userID int64, key string) string {
	return fmt.Sprintf("idem:checkout:%d:%s", userID, key)
}

func dateLockKey(campID int64, start, end time.Time) string {
	return fmt.Sprintf("lock:camp:%d:%s:%s", campID, start.Format(time.DateOnly), end.Format(time.DateOnly))
}
