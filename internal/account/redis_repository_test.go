package account

import (
	"context"
	"math"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/vault"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	cache := newRedisClient(t)
	repo := NewRedisRepository(cache, ledger.VariantSafe)
	ctx := context.Background()
	owner := ledger.OwnerFromSeed("alice")

	_, err := repo.Get(ctx, owner)
	require.ErrorIs(t, err, ErrAccountNotFound)

	st, err := repo.Vault(ctx)
	require.NoError(t, err)
	require.Equal(t, vault.State{}, st)

	rec := ledger.Record{Owner: owner, Balance: math.MaxUint64, DepositTotal: 42, WithdrawTotal: 7}
	st = vault.State{TotalDeposits: 42, UserCount: 1}
	require.NoError(t, repo.Commit(ctx, st, rec))

	got, err := repo.Get(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, rec, got)

	gotState, err := repo.Vault(ctx)
	require.NoError(t, err)
	require.Equal(t, st, gotState)
}

func TestRedisRepositoryTokens(t *testing.T) {
	cache := newRedisClient(t)
	repo := NewRedisRepository(cache, ledger.VariantUnsafe)
	ctx := context.Background()

	tv, err := repo.Tokens(ctx)
	require.NoError(t, err)
	require.Equal(t, ledger.TokenVault{}, tv)

	tv = ledger.TokenVault{TotalDeposited: 100, TotalWithdrawn: math.MaxUint64}
	require.NoError(t, repo.CommitTokens(ctx, tv))

	got, err := repo.Tokens(ctx)
	require.NoError(t, err)
	require.Equal(t, tv, got)
}

func TestRedisRepositoryVariantsAreIsolated(t *testing.T) {
	cache := newRedisClient(t)
	safeRepo := NewRedisRepository(cache, ledger.VariantSafe)
	unsafeRepo := NewRedisRepository(cache, ledger.VariantUnsafe)
	ctx := context.Background()
	owner := ledger.OwnerFromSeed("shared")

	require.NoError(t, unsafeRepo.Commit(ctx, vault.State{UserCount: 1}, ledger.Record{Owner: owner, Balance: 9}))

	_, err := safeRepo.Get(ctx, owner)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRedisRepositoryCorruptRecord(t *testing.T) {
	cache := newRedisClient(t)
	repo := NewRedisRepository(cache, ledger.VariantSafe)
	ctx := context.Background()
	owner := ledger.OwnerFromSeed("corrupt")

	require.NoError(t, cache.Set(ctx, repo.recordKey(owner), []byte{1, 2, 3}, 0).Err())
	_, err := repo.Get(ctx, owner)
	require.ErrorIs(t, err, ledger.ErrInvalidAccountData)
}

func TestServiceWithRedisRepository(t *testing.T) {
	cache := newRedisClient(t)
	safe, err := ledger.NewSafe(ledger.DefaultLimits())
	require.NoError(t, err)
	svc := NewService(safe, NewRedisRepository(cache, ledger.VariantSafe), nil, nil)
	ctx := context.Background()
	owner := ledger.OwnerFromSeed("redis-user")

	_, err = svc.Deposit(ctx, owner, 10)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, owner, 11)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	rec, err := svc.Get(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, uint64(10), rec.Balance)
}
