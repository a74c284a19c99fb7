package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeySuffix     = ":token"
	principalKeySuffix = ":principal"
)

// RedisStore persists the credential record as two keys under a prefix.
// Both keys are written in one MSET and deleted in one DEL, so the record
// is never half-updated; a half-present pair read back is reported as no
// record.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store using the given client. prefix scopes the
// keys; it defaults to "folioauth".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "folioauth"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Save writes both halves of the record as a unit.
func (r *RedisStore) Save(ctx context.Context, rec Record) error {
	return r.client.MSet(ctx,
		r.prefix+tokenKeySuffix, rec.Token,
		r.prefix+principalKeySuffix, string(rec.Principal),
	).Err()
}

// Load reads the record. An absent or half-present pair is no record.
func (r *RedisStore) Load(ctx context.Context) (*Record, error) {
	vals, err := r.client.MGet(ctx, r.prefix+tokenKeySuffix, r.prefix+principalKeySuffix).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(vals) != 2 {
		return nil, nil
	}
	tok, okT := vals[0].(string)
	principal, okP := vals[1].(string)
	if !okT || !okP {
		return nil, nil
	}
	rec := Record{Token: tok, Principal: []byte(principal)}
	if !rec.complete() {
		return nil, nil
	}
	return &rec, nil
}

// Clear deletes both keys as a unit. Clearing an absent record is not an
// error.
func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.prefix+tokenKeySuffix, r.prefix+principalKeySuffix).Err()
}
