package scenario

import (
	"math"

	"github.com/congo-pay/arithguard/internal/ledger"
)

func funded(seed string, balance uint64) ledger.Record {
	rec := ledger.NewRecord(ledger.OwnerFromSeed(seed))
	rec.Balance = balance
	rec.DepositTotal = balance
	return rec
}

// Builtin returns the standard demonstration scenarios.
func Builtin() []Scenario {
	return []Scenario{
		{
			Name:        "double-deposit-wrap",
			Description: "two deposits just above 2^63 wrap the balance to a tiny value",
			Setup:       funded("double-deposit", 0),
			Limits: ledger.Limits{
				MaxDeposit:      math.MaxUint64 - 1,
				MaxRewardRate:   ledger.DefaultMaxRewardRate,
				MaxTokenDeposit: ledger.DefaultMaxTokenDeposit,
			},
			Steps: []Step{
				{Op: OpDeposit, Amount: math.MaxUint64/2 + 10},
				{Op: OpDeposit, Amount: math.MaxUint64/2 + 10},
			},
		},
		{
			Name:        "withdraw-underflow",
			Description: "withdrawing 101 from a balance of 100 wraps to near 2^64",
			Setup:       funded("withdraw-underflow", 100),
			Steps:       []Step{{Op: OpWithdraw, Amount: 101}},
		},
		{
			Name:        "deposit-overflow",
			Description: "depositing 20 into a balance of 2^64-10",
			Setup:       funded("deposit-overflow", math.MaxUint64-9),
			Steps:       []Step{{Op: OpDeposit, Amount: 20}},
		},
		{
			Name:        "reward-overflow",
			Description: "a 2^40 balance at rate 2^30 overflows the reward product",
			Setup:       funded("reward-overflow", 1<<40),
			Limits: ledger.Limits{
				MaxDeposit:      ledger.DefaultMaxDeposit,
				MaxRewardRate:   1 << 30,
				MaxTokenDeposit: ledger.DefaultMaxTokenDeposit,
			},
			Steps:       []Step{{Op: OpReward, Amount: 1 << 30}},
		},
		{
			Name:        "deposit-limit",
			Description: "a deposit of exactly the ceiling succeeds and one unit more is rejected",
			Setup:       funded("deposit-limit", 0),
			Steps: []Step{
				{Op: OpDeposit, Amount: ledger.DefaultMaxDeposit},
				{Op: OpDeposit, Amount: ledger.DefaultMaxDeposit + 1},
			},
		},
		{
			Name:        "withdraw-boundary",
			Description: "withdrawing the full balance empties it and one more unit fails",
			Setup:       funded("withdraw-boundary", 100),
			Steps: []Step{
				{Op: OpWithdraw, Amount: 100},
				{Op: OpWithdraw, Amount: 1},
			},
		},
		{
			Name:        "token-vault-drain",
			Description: "withdrawing 150 tokens from a vault holding 100 pays out and leaves a huge available balance",
			Steps: []Step{
				{Op: OpTokenDeposit, Amount: 100},
				{Op: OpTokenWithdraw, Amount: 150},
				{Op: OpTokenWithdraw, Amount: 1_000},
			},
		},
		{
			Name:        "token-deposit-wrap",
			Description: "a token deposit onto a total of 2^64-6 wraps the deposited counter while the available figure still reads right",
			Tokens:      ledger.TokenVault{TotalDeposited: math.MaxUint64 - 5, TotalWithdrawn: math.MaxUint64 - 5},
			Steps:       []Step{{Op: OpTokenDeposit, Amount: 10}},
		},
	}
}

// Lookup finds a built-in scenario by name.
func Lookup(name string) (Scenario, bool) {
	for _, s := range Builtin() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
