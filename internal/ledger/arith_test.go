package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckedArithmetic(t *testing.T) {
	u := uint64(math.MaxUint64)

	_, overflowed := OAdd(u, 0)
	require.False(t, overflowed)

	_, overflowed = OAdd(u, 1)
	require.True(t, overflowed)

	_, overflowed = OAdd(uint8(200), uint8(56))
	require.True(t, overflowed)

	d, underflowed := OSub(uint64(10), 10)
	require.False(t, underflowed)
	require.Zero(t, d)

	_, underflowed = OSub(uint64(10), 11)
	require.True(t, underflowed)

	p, overflowed := OMul(uint64(1<<32), 1<<31)
	require.False(t, overflowed)
	require.Equal(t, uint64(1<<63), p)

	p, overflowed = OMul(uint64(1<<32), 1<<32)
	require.True(t, overflowed)
	require.Zero(t, p)

	p, overflowed = OMul(u, 0)
	require.False(t, overflowed)
	require.Zero(t, p)
}

func TestWrappingArithmetic(t *testing.T) {
	require.Equal(t, uint64(4), WrappingAdd(uint64(math.MaxUint64-5), 10))
	require.Equal(t, uint64(math.MaxUint64), WrappingSub(uint64(0), 1))
	require.Equal(t, uint64(0), WrappingMul(uint64(1<<40), 1<<30))
	require.Equal(t, uint16(0), WrappingMul(uint16(256), 256))
}
