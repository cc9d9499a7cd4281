package ledger

// Unsafe applies raw modular arithmetic with no bounds checking. Every call
// succeeds; results that do not fit in 64 bits wrap silently. It exists to
// document the hazard and must never back real balances.
type Unsafe struct{}

// NewUnsafe returns the wrapping ledger.
func NewUnsafe() *Unsafe {
	return &Unsafe{}
}

// Variant implements Ledger.
func (*Unsafe) Variant() Variant {
	return VariantUnsafe
}

// Deposit sets balance to (balance + amount) mod 2^64.
func (*Unsafe) Deposit(r *Record, amount uint64) error {
	r.Balance = WrappingAdd(r.Balance, amount)
	r.DepositTotal = WrappingAdd(r.DepositTotal, amount)
	return nil
}

// Withdraw sets balance to (balance - amount) mod 2^64, so over-withdrawing
// lands near the maximum representable value.
func (*Unsafe) Withdraw(r *Record, amount uint64) error {
	r.Balance = WrappingSub(r.Balance, amount)
	r.WithdrawTotal = WrappingAdd(r.WithdrawTotal, amount)
	return nil
}

// ComputeReward returns (balance * rate) mod 2^64.
func (*Unsafe) ComputeReward(r *Record, rate uint64) (uint64, error) {
	return WrappingMul(r.Balance, rate), nil
}

// Accumulate adds amount to total modulo 2^64.
func (*Unsafe) Accumulate(total *uint64, amount uint64) error {
	*total = WrappingAdd(*total, amount)
	return nil
}

// DepositTokens sets the deposited total to (deposited + amount) mod 2^64.
func (u *Unsafe) DepositTokens(v *TokenVault, amount uint64) error {
	return u.Accumulate(&v.TotalDeposited, amount)
}

// AvailableTokens returns (deposited - withdrawn) mod 2^64. Once withdrawals
// outrun deposits the result lands near the maximum representable value.
func (*Unsafe) AvailableTokens(v *TokenVault) (uint64, error) {
	return WrappingSub(v.TotalDeposited, v.TotalWithdrawn), nil
}

// WithdrawTokens advances the withdrawn total without looking at what the
// vault holds.
func (u *Unsafe) WithdrawTokens(v *TokenVault, amount uint64) error {
	return u.Accumulate(&v.TotalWithdrawn, amount)
}
