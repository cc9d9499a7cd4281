package ledger

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// OwnerSize is the width of an owner key in bytes.
const OwnerSize = 32

// RecordSize is the encoded length of a Record.
const RecordSize = OwnerSize + 8 + 8 + 8

// Owner identifies an account holder. Keys are opaque; only equality matters.
type Owner [OwnerSize]byte

// String renders the key as lowercase hex.
func (o Owner) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero reports whether the key is unset.
func (o Owner) IsZero() bool {
	return o == Owner{}
}

// MarshalText implements encoding.TextMarshaler.
func (o Owner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Owner) UnmarshalText(text []byte) error {
	parsed, err := ParseOwner(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOwner decodes a 64 character hex key.
func ParseOwner(s string) (Owner, error) {
	var o Owner
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return o, fmt.Errorf("parse owner: %w", err)
	}
	if len(raw) != OwnerSize {
		return o, fmt.Errorf("parse owner: want %d bytes, got %d", OwnerSize, len(raw))
	}
	copy(o[:], raw)
	return o, nil
}

// OwnerFromSeed hashes a human-readable label into a stable key. It exists for
// fixtures and the harness; it is not an address scheme.
func OwnerFromSeed(seed string) Owner {
	return Owner(sha3.Sum256([]byte(seed)))
}

// Record is the per-account balance state.
type Record struct {
	Owner         Owner  `json:"owner"`
	Balance       uint64 `json:"balance"`
	DepositTotal  uint64 `json:"deposit_total"`
	WithdrawTotal uint64 `json:"withdraw_total"`
}

// NewRecord returns the zero-balance record created on an owner's first use.
func NewRecord(owner Owner) Record {
	return Record{Owner: owner}
}

// MarshalBinary encodes the record as owner followed by three little-endian u64s.
func (r Record) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	copy(buf[0:32], r.Owner[:])
	binary.LittleEndian.PutUint64(buf[32:40], r.Balance)
	binary.LittleEndian.PutUint64(buf[40:48], r.DepositTotal)
	binary.LittleEndian.PutUint64(buf[48:56], r.WithdrawTotal)
	return buf, nil
}

// UnmarshalBinary decodes the layout written by MarshalBinary. Trailing bytes
// are ignored.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("record needs %d bytes, got %d: %w", RecordSize, len(data), ErrInvalidAccountData)
	}
	copy(r.Owner[:], data[0:32])
	r.Balance = binary.LittleEndian.Uint64(data[32:40])
	r.DepositTotal = binary.LittleEndian.Uint64(data[40:48])
	r.WithdrawTotal = binary.LittleEndian.Uint64(data[48:56])
	return nil
}
