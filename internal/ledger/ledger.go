// Package ledger implements the per-account balance state machine in two
// interchangeable variants: an unsafe one that wraps silently on overflow and
// underflow, and a safe one that range-checks every input and every result.
//
// Operations never lock, block or perform I/O. Callers own the Record for the
// duration of a call and are responsible for serializing access to it.
package ledger

import (
	"fmt"
	"math"
	"strings"
)

// Variant names an implementation of the operation set.
type Variant string

const (
	// VariantUnsafe applies raw modular arithmetic.
	VariantUnsafe Variant = "unsafe"
	// VariantSafe applies range-checked arithmetic with explicit limits.
	VariantSafe Variant = "safe"
)

const (
	// DefaultMaxDeposit is 1000 SOL expressed in lamports.
	DefaultMaxDeposit uint64 = 1_000_000_000_000
	// DefaultMaxRewardRate allows at most a 100x multiplier in basis points.
	DefaultMaxRewardRate uint64 = 10_000
	// DefaultMaxTokenDeposit caps a single token vault deposit.
	DefaultMaxTokenDeposit uint64 = 1_000_000_000_000_000_000
)

// Ledger is the operation set shared by both variants.
type Ledger interface {
	// Variant reports which implementation backs the ledger.
	Variant() Variant
	// Deposit credits amount to the record's balance and deposit total.
	Deposit(r *Record, amount uint64) error
	// Withdraw debits amount from the record's balance and advances its withdraw total.
	Withdraw(r *Record, amount uint64) error
	// ComputeReward derives balance*rate without mutating the record.
	ComputeReward(r *Record, rate uint64) (uint64, error)
	// Accumulate adds amount to an auxiliary counter under the variant's arithmetic contract.
	Accumulate(total *uint64, amount uint64) error

	// DepositTokens advances the token vault's deposited total.
	DepositTokens(v *TokenVault, amount uint64) error
	// WithdrawTokens pays amount out of the token vault and advances its withdrawn total.
	WithdrawTokens(v *TokenVault, amount uint64) error
	// AvailableTokens reports deposited minus withdrawn.
	AvailableTokens(v *TokenVault) (uint64, error)
}

// Limits configures the safe variant's per-call ceilings.
type Limits struct {
	MaxDeposit      uint64
	MaxRewardRate   uint64
	MaxTokenDeposit uint64
}

// DefaultLimits returns the ceilings used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxDeposit:      DefaultMaxDeposit,
		MaxRewardRate:   DefaultMaxRewardRate,
		MaxTokenDeposit: DefaultMaxTokenDeposit,
	}
}

// Validate ensures every ceiling sits strictly below the 64-bit overflow threshold.
func (l Limits) Validate() error {
	if l.MaxDeposit >= math.MaxUint64 {
		return fmt.Errorf("max deposit %d: %w", l.MaxDeposit, ErrInvalidLimits)
	}
	if l.MaxRewardRate >= math.MaxUint64 {
		return fmt.Errorf("max reward rate %d: %w", l.MaxRewardRate, ErrInvalidLimits)
	}
	if l.MaxTokenDeposit >= math.MaxUint64 {
		return fmt.Errorf("max token deposit %d: %w", l.MaxTokenDeposit, ErrInvalidLimits)
	}
	return nil
}

// ParseVariant accepts the textual variant name, case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantSafe:
		return VariantSafe, nil
	case VariantUnsafe:
		return VariantUnsafe, nil
	default:
		return "", fmt.Errorf("unknown ledger variant %q", s)
	}
}

// New builds the ledger for the given variant. Limits are ignored by the
// unsafe variant.
func New(v Variant, limits Limits) (Ledger, error) {
	switch v {
	case VariantSafe:
		safe, err := NewSafe(limits)
		if err != nil {
			return nil, err
		}
		return safe, nil
	case VariantUnsafe:
		return NewUnsafe(), nil
	default:
		return nil, fmt.Errorf("unknown ledger variant %q", string(v))
	}
}
