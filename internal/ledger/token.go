package ledger

import (
	"encoding/binary"
	"fmt"
)

// TokenVaultSize is the encoded length of a TokenVault.
const TokenVaultSize = 16

// TokenVault is a pooled token account tracked only by its two running totals.
// What it holds is always derived, never stored.
type TokenVault struct {
	TotalDeposited uint64 `json:"total_deposited"`
	TotalWithdrawn uint64 `json:"total_withdrawn"`
}

// MarshalBinary encodes the vault as two little-endian u64s.
func (v TokenVault) MarshalBinary() ([]byte, error) {
	buf := make([]byte, TokenVaultSize)
	binary.LittleEndian.PutUint64(buf[0:8], v.TotalDeposited)
	binary.LittleEndian.PutUint64(buf[8:16], v.TotalWithdrawn)
	return buf, nil
}

// UnmarshalBinary decodes the layout written by MarshalBinary.
func (v *TokenVault) UnmarshalBinary(data []byte) error {
	if len(data) < TokenVaultSize {
		return fmt.Errorf("token vault needs %d bytes, got %d: %w", TokenVaultSize, len(data), ErrInvalidAccountData)
	}
	v.TotalDeposited = binary.LittleEndian.Uint64(data[0:8])
	v.TotalWithdrawn = binary.LittleEndian.Uint64(data[8:16])
	return nil
}
