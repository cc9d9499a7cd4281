// Package scenario replays scripted operation sequences against a ledger and
// reports, step by step, where the result departs from exact arithmetic.
package scenario

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/congo-pay/arithguard/internal/ledger"
)

// Raw amounts are lamports; one SOL is 10^9 of them.
const lamportDecimals = 9

// Op names a scenario step.
type Op string

const (
	OpDeposit  Op = "deposit"
	OpWithdraw Op = "withdraw"
	OpReward   Op = "reward"

	OpTokenDeposit  Op = "token-deposit"
	OpTokenWithdraw Op = "token-withdraw"
)

// Tokens reports whether the op acts on the token vault rather than the record.
func (o Op) Tokens() bool {
	return o == OpTokenDeposit || o == OpTokenWithdraw
}

// Step is one operation. Amount is the rate for OpReward.
type Step struct {
	Op     Op     `json:"op"`
	Amount uint64 `json:"amount"`
}

// Scenario is a named sequence of steps applied to a starting record and
// token vault. A zero Limits means ledger.DefaultLimits.
type Scenario struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Setup       ledger.Record     `json:"-"`
	Tokens      ledger.TokenVault `json:"-"`
	Limits      ledger.Limits     `json:"limits"`
	Steps       []Step            `json:"steps"`
}

// EffectiveLimits returns the limits the safe ledger runs with.
func (s Scenario) EffectiveLimits() ledger.Limits {
	if s.Limits == (ledger.Limits{}) {
		return ledger.DefaultLimits()
	}
	return s.Limits
}

// StepResult records the outcome of a single step. Exact is the true
// mathematical result in decimal, negative when a withdrawal exceeds the
// balance. Token steps report what the vault holds afterwards. Wrapped is set
// when a step succeeded with a result that differs from Exact.
type StepResult struct {
	Step    Step   `json:"step"`
	Before  uint64 `json:"before"`
	Result  uint64 `json:"result"`
	Exact   string `json:"exact"`
	Wrapped bool   `json:"wrapped"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Code    uint32 `json:"code,omitempty"`
}

// Failed reports whether the ledger rejected the step.
func (r StepResult) Failed() bool {
	return r.Error != ""
}

// Report is the outcome of running a scenario against one ledger.
type Report struct {
	Scenario    string            `json:"scenario"`
	Variant     ledger.Variant    `json:"variant"`
	Steps       []StepResult      `json:"steps"`
	Final       ledger.Record     `json:"final"`
	FinalTokens ledger.TokenVault `json:"final_tokens"`
}

// Wrapped reports whether any step silently produced a wrong result.
func (r Report) Wrapped() bool {
	for _, s := range r.Steps {
		if s.Wrapped {
			return true
		}
	}
	return false
}

// Run applies every step of s to copies of its setup record and token vault.
// Rejected steps leave state as it was and the run continues.
func Run(l ledger.Ledger, s Scenario) Report {
	rec, tv := s.Setup, s.Tokens
	report := Report{Scenario: s.Name, Variant: l.Variant(), Steps: make([]StepResult, 0, len(s.Steps))}

	for _, step := range s.Steps {
		res := StepResult{Step: step, Before: rec.Balance}
		before := uint256.NewInt(rec.Balance)
		amount := uint256.NewInt(step.Amount)
		deposited := uint256.NewInt(tv.TotalDeposited)
		withdrawn := uint256.NewInt(tv.TotalWithdrawn)
		if step.Op.Tokens() {
			res.Before, _ = l.AvailableTokens(&tv)
		}

		var err error
		switch step.Op {
		case OpDeposit:
			res.Exact = new(uint256.Int).Add(before, amount).Dec()
			err = l.Deposit(&rec, step.Amount)
			res.Result = rec.Balance
		case OpWithdraw:
			if step.Amount > rec.Balance {
				res.Exact = "-" + new(uint256.Int).Sub(amount, before).Dec()
			} else {
				res.Exact = new(uint256.Int).Sub(before, amount).Dec()
			}
			err = l.Withdraw(&rec, step.Amount)
			res.Result = rec.Balance
		case OpReward:
			res.Exact = new(uint256.Int).Mul(before, amount).Dec()
			res.Result, err = l.ComputeReward(&rec, step.Amount)
		case OpTokenDeposit:
			res.Exact = signedDiff(new(uint256.Int).Add(deposited, amount), withdrawn)
			if err = l.DepositTokens(&tv, step.Amount); err == nil {
				res.Result, err = l.AvailableTokens(&tv)
			}
		case OpTokenWithdraw:
			res.Exact = signedDiff(deposited, new(uint256.Int).Add(withdrawn, amount))
			if err = l.WithdrawTokens(&tv, step.Amount); err == nil {
				res.Result, err = l.AvailableTokens(&tv)
			}
		default:
			err = fmt.Errorf("unknown scenario op %q", step.Op)
		}

		if err != nil {
			res.Error = err.Error()
			if kind, ok := ledger.KindOf(err); ok {
				res.Kind = kind.String()
				res.Code = kind.Code()
			}
		} else {
			res.Wrapped = res.Exact != strconv.FormatUint(res.Result, 10)
		}
		report.Steps = append(report.Steps, res)
	}
	report.Final = rec
	report.FinalTokens = tv
	return report
}

func signedDiff(a, b *uint256.Int) string {
	if b.Gt(a) {
		return "-" + new(uint256.Int).Sub(b, a).Dec()
	}
	return new(uint256.Int).Sub(a, b).Dec()
}

// Comparison holds the reports of one scenario run on both variants.
type Comparison struct {
	Scenario Scenario `json:"scenario"`
	Safe     Report   `json:"safe"`
	Unsafe   Report   `json:"unsafe"`
}

// Demonstrates reports whether the unsafe ledger silently corrupted state
// while the safe ledger did not.
func (c Comparison) Demonstrates() bool {
	return c.Unsafe.Wrapped() && !c.Safe.Wrapped()
}

// Compare runs s against a safe and an unsafe ledger side by side.
func Compare(ctx context.Context, s Scenario) (Comparison, error) {
	safe, err := ledger.NewSafe(s.EffectiveLimits())
	if err != nil {
		return Comparison{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	unsafe := ledger.NewUnsafe()

	cmp := Comparison{Scenario: s}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cmp.Safe = Run(safe, s)
		return ctx.Err()
	})
	g.Go(func() error {
		cmp.Unsafe = Run(unsafe, s)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}
	return cmp, nil
}

// CompareAll compares every scenario concurrently, preserving order.
func CompareAll(ctx context.Context, scenarios []Scenario) ([]Comparison, error) {
	out := make([]Comparison, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			cmp, err := Compare(ctx, s)
			if err != nil {
				return err
			}
			out[i] = cmp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatSOL renders a raw amount as SOL with nine decimals.
func FormatSOL(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -lamportDecimals).StringFixed(lamportDecimals)
}
