package ledger

import (
	"errors"
	"fmt"
)

// Kind enumerates the safe variant's failure modes. The numeric values are
// stable and double as on-chain custom error numbers.
type Kind uint32

const (
	KindArithmeticOverflow Kind = iota
	KindArithmeticUnderflow
	KindInsufficientBalance
	KindExceedsMaxDeposit
	KindExceedsMaxRewardRate
	KindInsufficientTokens
	KindExceedsMaxTokenDeposit
)

// customErrorOffset is where program-defined error numbers start on the wire.
const customErrorOffset = 6000

var kindNames = map[Kind]string{
	KindArithmeticOverflow:   "ArithmeticOverflow",
	KindArithmeticUnderflow:  "ArithmeticUnderflow",
	KindInsufficientBalance:  "InsufficientBalance",
	KindExceedsMaxDeposit:    "ExceedsMaxDeposit",
	KindExceedsMaxRewardRate: "ExceedsMaxRewardRate",

	KindInsufficientTokens:     "InsufficientTokens",
	KindExceedsMaxTokenDeposit: "ExceedsMaxTokenDeposit",
}

// String returns the kind's identifier.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// Code returns the wire error number for the kind.
func (k Kind) Code() uint32 {
	return customErrorOffset + uint32(k)
}

// Error is a ledger failure of a known kind.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

var (
	// ErrArithmeticOverflow occurs when an addition or multiplication exceeds 64 bits.
	ErrArithmeticOverflow = &Error{Kind: KindArithmeticOverflow, msg: "arithmetic overflow detected"}

	// ErrArithmeticUnderflow occurs when a subtraction would go negative. Withdraw
	// checks the balance first, so this only surfaces if that check is lost.
	ErrArithmeticUnderflow = &Error{Kind: KindArithmeticUnderflow, msg: "arithmetic underflow detected"}

	// ErrInsufficientBalance occurs when a withdrawal exceeds the current balance.
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance, msg: "insufficient balance for withdrawal"}

	// ErrExceedsMaxDeposit occurs when a single deposit exceeds the configured ceiling.
	ErrExceedsMaxDeposit = &Error{Kind: KindExceedsMaxDeposit, msg: "deposit amount exceeds maximum allowed"}

	// ErrExceedsMaxRewardRate occurs when a reward rate exceeds the configured ceiling.
	ErrExceedsMaxRewardRate = &Error{Kind: KindExceedsMaxRewardRate, msg: "reward rate exceeds maximum allowed"}

	// ErrInsufficientTokens occurs when a token withdrawal exceeds what the vault holds.
	ErrInsufficientTokens = &Error{Kind: KindInsufficientTokens, msg: "insufficient tokens in vault"}

	// ErrExceedsMaxTokenDeposit occurs when a single token deposit exceeds the configured ceiling.
	ErrExceedsMaxTokenDeposit = &Error{Kind: KindExceedsMaxTokenDeposit, msg: "token deposit exceeds maximum allowed"}
)

var (
	// ErrInvalidLimits is returned when a safe ledger is configured with a
	// ceiling that leaves no headroom below the overflow threshold.
	ErrInvalidLimits = errors.New("invalid ledger limits")

	// ErrInvalidAccountData is returned when a binary record cannot be decoded.
	ErrInvalidAccountData = errors.New("invalid account data")
)

// KindOf extracts the ledger failure kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind, true
	}
	return 0, false
}

var sentinels = map[Kind]*Error{
	KindArithmeticOverflow:   ErrArithmeticOverflow,
	KindArithmeticUnderflow:  ErrArithmeticUnderflow,
	KindInsufficientBalance:  ErrInsufficientBalance,
	KindExceedsMaxDeposit:    ErrExceedsMaxDeposit,
	KindExceedsMaxRewardRate: ErrExceedsMaxRewardRate,

	KindInsufficientTokens:     ErrInsufficientTokens,
	KindExceedsMaxTokenDeposit: ErrExceedsMaxTokenDeposit,
}

// Err returns the sentinel error for k, or nil for an unknown kind.
func (k Kind) Err() error {
	if e, ok := sentinels[k]; ok {
		return e
	}
	return nil
}

// ParseKind maps an identifier produced by Kind.String back to its kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}
