package noncestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/ports"
)

const keyPrefix = "feedgate:nonce:"

// RedisStore is a Redis implementation of the NonceStore interface, shared
// across backend instances. Expiry is delegated to Redis TTLs; no sweep runs
// here.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis URL and verifies the connection before
// returning. A construction error here is the signal for the caller to fall
// back to in-process storage.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Issue stores a challenge under the address key with a native TTL.
// SET replaces any prior value, which is the single-active-nonce rule.
func (s *RedisStore) Issue(ctx context.Context, walletAddress, nonce string, ttl time.Duration) error {
	key := strings.ToLower(walletAddress)

	record := core.NonceRecord{
		WalletAddress: key,
		Nonce:         nonce,
		ExpiresAt:     time.Now().Add(ttl),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode nonce record: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store nonce: %w", err)
	}

	return nil
}

// Fetch returns the live challenge for the address, relying on Redis expiry
// for staleness: an expired key simply no longer exists.
func (s *RedisStore) Fetch(ctx context.Context, walletAddress string) (*core.NonceRecord, error) {
	key := keyPrefix + strings.ToLower(walletAddress)

	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}

	var record core.NonceRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to decode nonce record: %w", err)
	}

	return &record, nil
}

// Revoke deletes the challenge. DEL on a missing key is a no-op.
func (s *RedisStore) Revoke(ctx context.Context, walletAddress string) error {
	key := keyPrefix + strings.ToLower(walletAddress)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke nonce: %w", err)
	}

	return nil
}

// Shutdown closes the Redis connection.
func (s *RedisStore) Shutdown() {
	_ = s.client.Close()
}

var _ ports.NonceStore = (*RedisStore)(nil)
