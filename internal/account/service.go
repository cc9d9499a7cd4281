package account

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/notification"
	"github.com/congo-pay/arithguard/internal/vault"
)

// Service loads balance records, applies ledger operations and persists the
// result only when the operation succeeded. Mutations are serialized, so the
// ledger core always sees exclusive access to a record.
type Service struct {
	mu       sync.Mutex
	ledger   ledger.Ledger
	repo     Repository
	notifier notification.Notifier
	logger   *zerolog.Logger
}

// NewService builds an account service for one ledger variant.
func NewService(l ledger.Ledger, repo Repository, notifier notification.Notifier, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	scoped := logger.With().Str("variant", string(l.Variant())).Logger()
	return &Service{ledger: l, repo: repo, notifier: notifier, logger: &scoped}
}

// Variant reports the ledger variant backing the service.
func (s *Service) Variant() ledger.Variant {
	return s.ledger.Variant()
}

// InitializeVault records the vault authority.
func (s *Service) InitializeVault(ctx context.Context, authority ledger.Owner) (vault.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.repo.Vault(ctx)
	if err != nil {
		return vault.State{}, err
	}
	if err := st.Initialize(authority); err != nil {
		return vault.State{}, err
	}
	if err := s.repo.Commit(ctx, st); err != nil {
		return vault.State{}, err
	}
	s.logger.Info().Str("authority", authority.String()).Msg("vault initialized")
	return st, nil
}

// Vault returns the current vault aggregate.
func (s *Service) Vault(ctx context.Context) (vault.State, error) {
	return s.repo.Vault(ctx)
}

// Create provisions a zero-balance record for owner.
func (s *Service) Create(ctx context.Context, owner ledger.Owner) (ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, owner); err == nil {
		return ledger.Record{}, ErrAccountExists
	} else if !errors.Is(err, ErrAccountNotFound) {
		return ledger.Record{}, err
	}

	st, err := s.repo.Vault(ctx)
	if err != nil {
		return ledger.Record{}, err
	}
	rec := ledger.NewRecord(owner)
	if err := st.RegisterUser(s.ledger); err != nil {
		return ledger.Record{}, err
	}
	if err := s.repo.Commit(ctx, st, rec); err != nil {
		return ledger.Record{}, err
	}
	s.logger.Info().Str("owner", owner.String()).Msg("user created")
	return rec, nil
}

// Get retrieves the balance record for owner.
func (s *Service) Get(ctx context.Context, owner ledger.Owner) (ledger.Record, error) {
	return s.repo.Get(ctx, owner)
}

// Deposit credits amount to owner's record, creating it on first use.
func (s *Service) Deposit(ctx context.Context, owner ledger.Owner, amount uint64) (ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, st, err := s.load(ctx, owner)
	if err != nil {
		return ledger.Record{}, err
	}
	before := rec.Balance
	s.logger.Debug().Str("owner", owner.String()).Uint64("balance", before).Uint64("amount", amount).Msg("before deposit")

	if err := s.ledger.Deposit(&rec, amount); err != nil {
		s.reject(ctx, notification.KindDeposit, owner, amount, before, err)
		return ledger.Record{}, err
	}
	if err := st.RecordDeposit(s.ledger, amount); err != nil {
		s.reject(ctx, notification.KindDeposit, owner, amount, before, err)
		return ledger.Record{}, err
	}
	if err := s.repo.Commit(ctx, st, rec); err != nil {
		return ledger.Record{}, err
	}

	s.logger.Info().Str("owner", owner.String()).Uint64("before", before).Uint64("after", rec.Balance).Uint64("amount", amount).Msg("deposit applied")
	s.notify(ctx, notification.KindDeposit, owner, amount, rec.Balance)
	return rec, nil
}

// Withdraw debits amount from owner's record, creating it on first use.
func (s *Service) Withdraw(ctx context.Context, owner ledger.Owner, amount uint64) (ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, st, err := s.load(ctx, owner)
	if err != nil {
		return ledger.Record{}, err
	}
	before := rec.Balance
	s.logger.Debug().Str("owner", owner.String()).Uint64("balance", before).Uint64("amount", amount).Msg("before withdraw")

	if err := s.ledger.Withdraw(&rec, amount); err != nil {
		s.reject(ctx, notification.KindWithdraw, owner, amount, before, err)
		return ledger.Record{}, err
	}
	if err := s.repo.Commit(ctx, st, rec); err != nil {
		return ledger.Record{}, err
	}

	s.logger.Info().Str("owner", owner.String()).Uint64("before", before).Uint64("after", rec.Balance).Uint64("amount", amount).Msg("withdraw applied")
	s.notify(ctx, notification.KindWithdraw, owner, amount, rec.Balance)
	return rec, nil
}

// ComputeReward derives owner's reward at rate without changing any state.
func (s *Service) ComputeReward(ctx context.Context, owner ledger.Owner, rate uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.repo.Get(ctx, owner)
	if errors.Is(err, ErrAccountNotFound) {
		rec = ledger.NewRecord(owner)
	} else if err != nil {
		return 0, err
	}
	return s.ledger.ComputeReward(&rec, rate)
}

// ClaimReward computes owner's reward at rate and credits it to the balance.
// The credit is neither capped by the deposit ceiling nor counted as a deposit.
func (s *Service) ClaimReward(ctx context.Context, owner ledger.Owner, rate uint64) (RewardResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, st, err := s.load(ctx, owner)
	if err != nil {
		return RewardResult{}, err
	}
	before := rec.Balance

	reward, err := s.ledger.ComputeReward(&rec, rate)
	if err != nil {
		s.reject(ctx, notification.KindReward, owner, rate, before, err)
		return RewardResult{}, err
	}
	if err := st.RecordReward(s.ledger, reward); err != nil {
		s.reject(ctx, notification.KindReward, owner, reward, before, err)
		return RewardResult{}, err
	}
	if err := s.ledger.Accumulate(&rec.Balance, reward); err != nil {
		s.reject(ctx, notification.KindReward, owner, reward, before, err)
		return RewardResult{}, err
	}
	if err := s.repo.Commit(ctx, st, rec); err != nil {
		return RewardResult{}, err
	}

	s.logger.Info().Str("owner", owner.String()).Uint64("rate", rate).Uint64("reward", reward).Uint64("after", rec.Balance).Msg("reward applied")
	s.notify(ctx, notification.KindReward, owner, reward, rec.Balance)
	return RewardResult{Reward: reward, Record: rec}, nil
}

// Tokens returns the token vault and what it currently holds.
func (s *Service) Tokens(ctx context.Context) (TokenResult, error) {
	tv, err := s.repo.Tokens(ctx)
	if err != nil {
		return TokenResult{}, err
	}
	return s.tokenResult(tv)
}

// DepositTokens pays amount into the token vault.
func (s *Service) DepositTokens(ctx context.Context, amount uint64) (TokenResult, error) {
	return s.applyTokens(ctx, notification.KindTokenDeposit, amount, s.ledger.DepositTokens)
}

// WithdrawTokens pays amount out of the token vault.
func (s *Service) WithdrawTokens(ctx context.Context, amount uint64) (TokenResult, error) {
	return s.applyTokens(ctx, notification.KindTokenWithdraw, amount, s.ledger.WithdrawTokens)
}

func (s *Service) applyTokens(ctx context.Context, op string, amount uint64, apply func(*ledger.TokenVault, uint64) error) (TokenResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tv, err := s.repo.Tokens(ctx)
	if err != nil {
		return TokenResult{}, err
	}
	before, _ := s.ledger.AvailableTokens(&tv)
	if err := apply(&tv, amount); err != nil {
		s.reject(ctx, op, ledger.Owner{}, amount, before, err)
		return TokenResult{}, err
	}
	res, err := s.tokenResult(tv)
	if err != nil {
		s.reject(ctx, op, ledger.Owner{}, amount, before, err)
		return TokenResult{}, err
	}
	if err := s.repo.CommitTokens(ctx, tv); err != nil {
		return TokenResult{}, err
	}

	s.logger.Info().Str("op", op).Uint64("amount", amount).Uint64("deposited", tv.TotalDeposited).Uint64("withdrawn", tv.TotalWithdrawn).Uint64("available", res.Available).Msg("token vault updated")
	s.notify(ctx, op, ledger.Owner{}, amount, res.Available)
	return res, nil
}

func (s *Service) tokenResult(tv ledger.TokenVault) (TokenResult, error) {
	available, err := s.ledger.AvailableTokens(&tv)
	if err != nil {
		return TokenResult{}, err
	}
	return TokenResult{Vault: tv, Available: available}, nil
}

// load returns owner's record and the vault state. A missing record is
// created in memory and counted in the vault; it is persisted with the
// caller's commit.
func (s *Service) load(ctx context.Context, owner ledger.Owner) (ledger.Record, vault.State, error) {
	st, err := s.repo.Vault(ctx)
	if err != nil {
		return ledger.Record{}, vault.State{}, err
	}
	rec, err := s.repo.Get(ctx, owner)
	switch {
	case err == nil:
		return rec, st, nil
	case errors.Is(err, ErrAccountNotFound):
		if err := st.RegisterUser(s.ledger); err != nil {
			return ledger.Record{}, vault.State{}, err
		}
		return ledger.NewRecord(owner), st, nil
	default:
		return ledger.Record{}, vault.State{}, err
	}
}

func (s *Service) notify(ctx context.Context, kind string, owner ledger.Owner, amount, balance uint64) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		ID:        uuid.NewString(),
		Kind:      kind,
		Variant:   string(s.ledger.Variant()),
		Owner:     owner.String(),
		Amount:    amount,
		Balance:   balance,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Service) reject(ctx context.Context, op string, owner ledger.Owner, amount, balance uint64, cause error) {
	event := s.logger.Warn().Err(cause).Str("op", op).Str("owner", owner.String()).Uint64("amount", amount).Uint64("balance", balance)
	if kind, ok := ledger.KindOf(cause); ok {
		event = event.Str("kind", kind.String()).Uint32("code", kind.Code())
	}
	event.Msg("operation rejected")

	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		ID:        uuid.NewString(),
		Kind:      notification.KindRejected,
		Variant:   string(s.ledger.Variant()),
		Owner:     owner.String(),
		Amount:    amount,
		Balance:   balance,
		Reason:    op + ": " + cause.Error(),
		Timestamp: time.Now().UTC(),
	})
}
