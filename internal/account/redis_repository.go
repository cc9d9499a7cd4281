package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/vault"
)

const redisKeyPrefix = "arithguard:v1:"

// RedisRepository stores records in Redis using their fixed binary layouts.
type RedisRepository struct {
	cache  *redis.Client
	prefix string
}

// NewRedisRepository builds a repository backed by Redis.
func NewRedisRepository(cache *redis.Client, variant ledger.Variant) *RedisRepository {
	return &RedisRepository{cache: cache, prefix: redisKeyPrefix + string(variant) + ":"}
}

func (r *RedisRepository) recordKey(owner ledger.Owner) string {
	return r.prefix + "record:" + owner.String()
}

func (r *RedisRepository) vaultKey() string {
	return r.prefix + "vault"
}

func (r *RedisRepository) tokensKey() string {
	return r.prefix + "tokens"
}

// Get fetches and decodes the balance record for owner.
func (r *RedisRepository) Get(ctx context.Context, owner ledger.Owner) (ledger.Record, error) {
	raw, err := r.cache.Get(ctx, r.recordKey(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ledger.Record{}, ErrAccountNotFound
		}
		return ledger.Record{}, err
	}
	var rec ledger.Record
	if err := rec.UnmarshalBinary(raw); err != nil {
		return ledger.Record{}, fmt.Errorf("decode record %s: %w", owner, err)
	}
	return rec, nil
}

// Vault fetches the vault aggregate, returning the zero state when none was stored yet.
func (r *RedisRepository) Vault(ctx context.Context) (vault.State, error) {
	raw, err := r.cache.Get(ctx, r.vaultKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return vault.State{}, nil
		}
		return vault.State{}, err
	}
	var st vault.State
	if err := st.UnmarshalBinary(raw); err != nil {
		return vault.State{}, fmt.Errorf("decode vault: %w", err)
	}
	return st, nil
}

// Commit writes the vault state and records inside one MULTI/EXEC block.
func (r *RedisRepository) Commit(ctx context.Context, state vault.State, records ...ledger.Record) error {
	vaultRaw, err := state.MarshalBinary()
	if err != nil {
		return err
	}
	payloads := make(map[string][]byte, len(records))
	for _, rec := range records {
		raw, err := rec.MarshalBinary()
		if err != nil {
			return err
		}
		payloads[r.recordKey(rec.Owner)] = raw
	}

	_, err = r.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.vaultKey(), vaultRaw, 0)
		for key, raw := range payloads {
			pipe.Set(ctx, key, raw, 0)
		}
		return nil
	})
	return err
}

// Tokens fetches the token vault, returning the zero vault when none was stored yet.
func (r *RedisRepository) Tokens(ctx context.Context) (ledger.TokenVault, error) {
	raw, err := r.cache.Get(ctx, r.tokensKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ledger.TokenVault{}, nil
		}
		return ledger.TokenVault{}, err
	}
	var tv ledger.TokenVault
	if err := tv.UnmarshalBinary(raw); err != nil {
		return ledger.TokenVault{}, fmt.Errorf("decode token vault: %w", err)
	}
	return tv, nil
}

// CommitTokens writes the token vault.
func (r *RedisRepository) CommitTokens(ctx context.Context, tv ledger.TokenVault) error {
	raw, err := tv.MarshalBinary()
	if err != nil {
		return err
	}
	return r.cache.Set(ctx, r.tokensKey(), raw, 0).Err()
}
