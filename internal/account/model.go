package account

import (
	"errors"

	"github.com/congo-pay/arithguard/internal/ledger"
)

var (
	// ErrAccountNotFound indicates no balance record exists for the owner.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists indicates a balance record was already created for the owner.
	ErrAccountExists = errors.New("account already exists")
)

// RewardResult captures the outcome of a reward claim.
type RewardResult struct {
	Reward uint64
	Record ledger.Record
}

// TokenResult is the token vault together with its derived holdings.
type TokenResult struct {
	Vault     ledger.TokenVault
	Available uint64
}
