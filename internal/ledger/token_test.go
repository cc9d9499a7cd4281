package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenVaultBinaryLayout(t *testing.T) {
	v := TokenVault{TotalDeposited: math.MaxUint64, TotalWithdrawn: 0x0102030405060708}

	buf, err := v.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, buf, TokenVaultSize)
	require.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf[8:16])

	var decoded TokenVault
	require.NoError(t, decoded.UnmarshalBinary(buf))
	require.Equal(t, v, decoded)

	require.ErrorIs(t, decoded.UnmarshalBinary(buf[:15]), ErrInvalidAccountData)
}

func TestSafeTokenDepositCeiling(t *testing.T) {
	s := newSafe(t, DefaultLimits())

	var v TokenVault
	require.NoError(t, s.DepositTokens(&v, DefaultMaxTokenDeposit))
	require.Equal(t, DefaultMaxTokenDeposit, v.TotalDeposited)

	before := v
	require.ErrorIs(t, s.DepositTokens(&v, DefaultMaxTokenDeposit+1), ErrExceedsMaxTokenDeposit)
	require.Equal(t, before, v)
}

func TestSafeTokenDepositOverflow(t *testing.T) {
	s := newSafe(t, DefaultLimits())

	v := TokenVault{TotalDeposited: math.MaxUint64 - 5}
	before := v
	require.ErrorIs(t, s.DepositTokens(&v, 10), ErrArithmeticOverflow)
	require.Equal(t, before, v)
}

func TestSafeTokenWithdraw(t *testing.T) {
	s := newSafe(t, DefaultLimits())

	v := TokenVault{TotalDeposited: 100}
	require.NoError(t, s.WithdrawTokens(&v, 60))
	available, err := s.AvailableTokens(&v)
	require.NoError(t, err)
	require.Equal(t, uint64(40), available)

	before := v
	require.ErrorIs(t, s.WithdrawTokens(&v, 41), ErrInsufficientTokens)
	require.Equal(t, before, v)

	require.NoError(t, s.WithdrawTokens(&v, 40))
	available, err = s.AvailableTokens(&v)
	require.NoError(t, err)
	require.Zero(t, available)
}

func TestSafeTokenAvailableUnderflow(t *testing.T) {
	s := newSafe(t, DefaultLimits())

	v := TokenVault{TotalDeposited: 10, TotalWithdrawn: 11}
	_, err := s.AvailableTokens(&v)
	require.ErrorIs(t, err, ErrArithmeticUnderflow)

	before := v
	require.ErrorIs(t, s.WithdrawTokens(&v, 0), ErrArithmeticUnderflow)
	require.Equal(t, before, v)
}

func TestUnsafeTokenVaultPaysOutMoreThanDeposited(t *testing.T) {
	u := NewUnsafe()

	var v TokenVault
	require.NoError(t, u.DepositTokens(&v, 100))
	require.NoError(t, u.WithdrawTokens(&v, 150))
	require.Equal(t, uint64(150), v.TotalWithdrawn)

	available, err := u.AvailableTokens(&v)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64-49), available)

	// The wrapped figure keeps funding withdrawals.
	require.NoError(t, u.WithdrawTokens(&v, 1_000_000))
	require.Equal(t, uint64(1_000_150), v.TotalWithdrawn)
}

func TestUnsafeTokenDepositWraps(t *testing.T) {
	u := NewUnsafe()

	v := TokenVault{TotalDeposited: math.MaxUint64 - 5}
	require.NoError(t, u.DepositTokens(&v, 10))
	require.Equal(t, uint64(4), v.TotalDeposited)

	// No ceiling applies.
	require.NoError(t, u.DepositTokens(&v, DefaultMaxTokenDeposit+1))
}
