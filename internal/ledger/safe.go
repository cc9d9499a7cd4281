package ledger

import "fmt"

// Safe is the corrected state machine. Limit checks run before any
// arithmetic, every arithmetic step is checked, and nothing is written to the
// record until all checks have passed.
type Safe struct {
	limits Limits
}

// NewSafe builds a safe ledger enforcing the given ceilings.
func NewSafe(limits Limits) (*Safe, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return &Safe{limits: limits}, nil
}

// Variant implements Ledger.
func (*Safe) Variant() Variant {
	return VariantSafe
}

// Limits returns the configured ceilings.
func (s *Safe) Limits() Limits {
	return s.limits
}

// Deposit credits amount to the balance and the deposit total.
func (s *Safe) Deposit(r *Record, amount uint64) error {
	if amount > s.limits.MaxDeposit {
		return fmt.Errorf("deposit %d over limit %d: %w", amount, s.limits.MaxDeposit, ErrExceedsMaxDeposit)
	}

	balance, overflowed := OAdd(r.Balance, amount)
	if overflowed {
		return fmt.Errorf("deposit %d onto balance %d: %w", amount, r.Balance, ErrArithmeticOverflow)
	}
	depositTotal, overflowed := OAdd(r.DepositTotal, amount)
	if overflowed {
		return fmt.Errorf("deposit %d onto deposit total %d: %w", amount, r.DepositTotal, ErrArithmeticOverflow)
	}

	r.Balance = balance
	r.DepositTotal = depositTotal
	return nil
}

// Withdraw debits amount from the balance and advances the withdraw total.
func (s *Safe) Withdraw(r *Record, amount uint64) error {
	if amount > r.Balance {
		return fmt.Errorf("withdraw %d from balance %d: %w", amount, r.Balance, ErrInsufficientBalance)
	}

	// Unreachable while the balance check above stands.
	balance, underflowed := OSub(r.Balance, amount)
	if underflowed {
		return fmt.Errorf("withdraw %d from balance %d: %w", amount, r.Balance, ErrArithmeticUnderflow)
	}
	withdrawTotal, overflowed := OAdd(r.WithdrawTotal, amount)
	if overflowed {
		return fmt.Errorf("withdraw %d onto withdraw total %d: %w", amount, r.WithdrawTotal, ErrArithmeticOverflow)
	}

	r.Balance = balance
	r.WithdrawTotal = withdrawTotal
	return nil
}

// ComputeReward returns the exact product balance*rate. The record is not
// modified; a claimed reward is credited with Accumulate, outside the deposit
// ceiling and the deposit total.
func (s *Safe) ComputeReward(r *Record, rate uint64) (uint64, error) {
	if rate > s.limits.MaxRewardRate {
		return 0, fmt.Errorf("reward rate %d over limit %d: %w", rate, s.limits.MaxRewardRate, ErrExceedsMaxRewardRate)
	}

	reward, overflowed := OMul(r.Balance, rate)
	if overflowed {
		return 0, fmt.Errorf("reward %d * %d: %w", r.Balance, rate, ErrArithmeticOverflow)
	}
	return reward, nil
}

// Accumulate adds amount to total, failing instead of wrapping.
func (s *Safe) Accumulate(total *uint64, amount uint64) error {
	sum, overflowed := OAdd(*total, amount)
	if overflowed {
		return fmt.Errorf("accumulate %d onto %d: %w", amount, *total, ErrArithmeticOverflow)
	}
	*total = sum
	return nil
}

// DepositTokens adds amount to the vault's deposited total.
func (s *Safe) DepositTokens(v *TokenVault, amount uint64) error {
	if amount > s.limits.MaxTokenDeposit {
		return fmt.Errorf("token deposit %d over limit %d: %w", amount, s.limits.MaxTokenDeposit, ErrExceedsMaxTokenDeposit)
	}
	deposited := v.TotalDeposited
	if err := s.Accumulate(&deposited, amount); err != nil {
		return fmt.Errorf("token deposit: %w", err)
	}
	v.TotalDeposited = deposited
	return nil
}

// AvailableTokens returns deposited minus withdrawn, or an underflow error when
// the vault has paid out more than it took in.
func (s *Safe) AvailableTokens(v *TokenVault) (uint64, error) {
	available, underflowed := OSub(v.TotalDeposited, v.TotalWithdrawn)
	if underflowed {
		return 0, fmt.Errorf("available %d - %d: %w", v.TotalDeposited, v.TotalWithdrawn, ErrArithmeticUnderflow)
	}
	return available, nil
}

// WithdrawTokens pays amount out of the vault if it holds at least that much.
func (s *Safe) WithdrawTokens(v *TokenVault, amount uint64) error {
	available, err := s.AvailableTokens(v)
	if err != nil {
		return err
	}
	if amount > available {
		return fmt.Errorf("token withdraw %d from available %d: %w", amount, available, ErrInsufficientTokens)
	}
	withdrawn := v.TotalWithdrawn
	if err := s.Accumulate(&withdrawn, amount); err != nil {
		return fmt.Errorf("token withdraw: %w", err)
	}
	v.TotalWithdrawn = withdrawn
	return nil
}
