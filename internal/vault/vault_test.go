package vault

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/congo-pay/arithguard/internal/ledger"
)

func TestStateCountersSafe(t *testing.T) {
	safe, err := ledger.NewSafe(ledger.DefaultLimits())
	require.NoError(t, err)

	var st State
	require.NoError(t, st.RegisterUser(safe))
	require.NoError(t, st.RecordDeposit(safe, 500))
	require.NoError(t, st.RecordReward(safe, 25))
	require.Equal(t, State{UserCount: 1, TotalDeposits: 500, TotalRewards: 25}, st)

	st.TotalDeposits = math.MaxUint64
	before := st
	err = st.RecordDeposit(safe, 1)
	require.ErrorIs(t, err, ledger.ErrArithmeticOverflow)
	require.Equal(t, before, st)
}

func TestStateCountersUnsafeWrap(t *testing.T) {
	var st State
	st.TotalRewards = math.MaxUint64 - 1
	require.NoError(t, st.RecordReward(ledger.NewUnsafe(), 3))
	require.Equal(t, uint64(1), st.TotalRewards)
}

func TestStateInitializeOnce(t *testing.T) {
	var st State
	require.False(t, st.Initialized())

	authority := ledger.OwnerFromSeed("authority")
	require.NoError(t, st.Initialize(authority))
	require.True(t, st.Initialized())
	require.ErrorIs(t, st.Initialize(ledger.OwnerFromSeed("other")), ErrAlreadyInitialized)
	require.Equal(t, authority, st.Authority)
}

func TestStateBinaryLayout(t *testing.T) {
	st := State{Authority: ledger.OwnerFromSeed("authority"), TotalDeposits: 7, UserCount: 2, TotalRewards: math.MaxUint64}
	buf, err := st.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, buf, StateSize)

	var decoded State
	require.NoError(t, decoded.UnmarshalBinary(buf))
	require.Equal(t, st, decoded)

	require.ErrorIs(t, decoded.UnmarshalBinary(buf[:10]), ledger.ErrInvalidAccountData)
}
