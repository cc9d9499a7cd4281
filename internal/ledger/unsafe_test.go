package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnsafeDoubleDepositWraps(t *testing.T) {
	u := NewUnsafe()

	r := NewRecord(OwnerFromSeed("attacker"))
	first, second := uint64(math.MaxUint64/2+10), uint64(math.MaxUint64/2+10)
	require.NoError(t, u.Deposit(&r, first))
	require.NoError(t, u.Deposit(&r, second))
	require.Less(t, r.Balance, first)
	require.Less(t, r.Balance, second)
	require.Equal(t, uint64(18), r.Balance)
}

func TestUnsafeWithdrawWrapsAboveBalance(t *testing.T) {
	u := NewUnsafe()

	r := Record{Balance: 100}
	require.NoError(t, u.Withdraw(&r, 101))
	require.Greater(t, r.Balance, uint64(100))
	require.Equal(t, uint64(math.MaxUint64), r.Balance)
	require.Equal(t, uint64(101), r.WithdrawTotal)
}

func TestUnsafeWithdrawExact(t *testing.T) {
	u := NewUnsafe()

	r := Record{Balance: 100}
	require.NoError(t, u.Withdraw(&r, 100))
	require.Zero(t, r.Balance)
}

func TestUnsafeDepositNearMaxWraps(t *testing.T) {
	u := NewUnsafe()

	r := Record{Balance: math.MaxUint64 - 9}
	require.NoError(t, u.Deposit(&r, 20))
	require.Equal(t, uint64(10), r.Balance)
}

func TestUnsafeRewardWraps(t *testing.T) {
	u := NewUnsafe()

	r := Record{Balance: 1 << 40}
	reward, err := u.ComputeReward(&r, 1<<30)
	require.NoError(t, err)
	// 2^70 mod 2^64 is zero: the reward silently vanishes.
	require.Zero(t, reward)
	require.Equal(t, uint64(1<<40), r.Balance)

	r = Record{Balance: 3 << 40}
	reward, err = u.ComputeReward(&r, (1<<30)+1)
	require.NoError(t, err)
	require.Equal(t, uint64(3<<40), reward)
}

func TestUnsafeIgnoresLimits(t *testing.T) {
	l, err := New(VariantUnsafe, Limits{MaxDeposit: 1, MaxRewardRate: 1})
	require.NoError(t, err)
	require.Equal(t, VariantUnsafe, l.Variant())

	r := Record{}
	require.NoError(t, l.Deposit(&r, 1_000))
	require.Equal(t, uint64(1_000), r.Balance)

	reward, err := l.ComputeReward(&r, 50)
	require.NoError(t, err)
	require.Equal(t, uint64(50_000), reward)
}

func TestUnsafeAccumulateWraps(t *testing.T) {
	u := NewUnsafe()

	total := uint64(math.MaxUint64)
	require.NoError(t, u.Accumulate(&total, 2))
	require.Equal(t, uint64(1), total)
}
