package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "challenge:v1:"

// RedisStore keeps pending challenges in Redis. TTL eviction is native key
// expiry; overwrite semantics are a plain SET.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed challenge store with the given TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Issue(ctx context.Context, identifier string, kind Kind, payload Payload) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", fmt.Errorf("challenge: generate code: %w", err)
	}

	record := Challenge{
		Kind:      kind,
		CodeHash:  HashCode(code),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("challenge: encode: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+identifier, raw, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("challenge: store: %w", err)
	}
	return code, nil
}

func (s *RedisStore) Redeem(ctx context.Context, identifier string, kind Kind, code string) (Payload, error) {
	key := keyPrefix + identifier

	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return Payload{}, ErrNoChallenge
	}
	if err != nil {
		return Payload{}, fmt.Errorf("challenge: lookup: %w", err)
	}

	var record Challenge
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return Payload{}, fmt.Errorf("challenge: decode: %w", err)
	}

	if err := record.validate(kind, code); err != nil {
		return Payload{}, err
	}

	// GETDEL guards the consume-once invariant: if a concurrent redeem won
	// the race the key is already gone and this attempt fails like a replay.
	if err := s.client.GetDel(ctx, key).Err(); err == redis.Nil {
		return Payload{}, ErrNoChallenge
	} else if err != nil {
		return Payload{}, fmt.Errorf("challenge: consume: %w", err)
	}

	return record.Payload, nil
}
