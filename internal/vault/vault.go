// Package vault tracks program-wide aggregates across all balance records.
// Every counter is advanced through the ledger variant's Accumulate so the
// aggregates carry the same overflow behaviour as the records themselves.
package vault

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/congo-pay/arithguard/internal/ledger"
)

// StateSize is the encoded length of a State.
const StateSize = ledger.OwnerSize + 8 + 8 + 8

// ErrAlreadyInitialized indicates the vault authority has already been set.
var ErrAlreadyInitialized = errors.New("vault already initialized")

// State is the vault-wide aggregate.
type State struct {
	Authority     ledger.Owner `json:"authority"`
	TotalDeposits uint64       `json:"total_deposits"`
	UserCount     uint64       `json:"user_count"`
	TotalRewards  uint64       `json:"total_rewards"`
}

// Initialize records the vault authority. It may only be called once.
func (s *State) Initialize(authority ledger.Owner) error {
	if !s.Authority.IsZero() {
		return ErrAlreadyInitialized
	}
	s.Authority = authority
	return nil
}

// Initialized reports whether an authority has been recorded.
func (s State) Initialized() bool {
	return !s.Authority.IsZero()
}

// RegisterUser counts a newly created balance record.
func (s *State) RegisterUser(l ledger.Ledger) error {
	return s.accumulate(l, &s.UserCount, 1, "user count")
}

// RecordDeposit adds amount to the vault's deposit total.
func (s *State) RecordDeposit(l ledger.Ledger, amount uint64) error {
	return s.accumulate(l, &s.TotalDeposits, amount, "total deposits")
}

// RecordReward adds amount to the vault's reward total.
func (s *State) RecordReward(l ledger.Ledger, amount uint64) error {
	return s.accumulate(l, &s.TotalRewards, amount, "total rewards")
}

func (s *State) accumulate(l ledger.Ledger, field *uint64, amount uint64, name string) error {
	next := *field
	if err := l.Accumulate(&next, amount); err != nil {
		return fmt.Errorf("vault %s: %w", name, err)
	}
	*field = next
	return nil
}

// MarshalBinary encodes the state as authority followed by three little-endian u64s.
func (s State) MarshalBinary() ([]byte, error) {
	buf := make([]byte, StateSize)
	copy(buf[0:32], s.Authority[:])
	binary.LittleEndian.PutUint64(buf[32:40], s.TotalDeposits)
	binary.LittleEndian.PutUint64(buf[40:48], s.UserCount)
	binary.LittleEndian.PutUint64(buf[48:56], s.TotalRewards)
	return buf, nil
}

// UnmarshalBinary decodes the layout written by MarshalBinary.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) < StateSize {
		return fmt.Errorf("vault state needs %d bytes, got %d: %w", StateSize, len(data), ledger.ErrInvalidAccountData)
	}
	copy(s.Authority[:], data[0:32])
	s.TotalDeposits = binary.LittleEndian.Uint64(data[32:40])
	s.UserCount = binary.LittleEndian.Uint64(data[40:48])
	s.TotalRewards = binary.LittleEndian.Uint64(data[48:56])
	return nil
}
