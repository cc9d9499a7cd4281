package account

import (
	"context"
	"sync"

	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/vault"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records map[ledger.Owner]ledger.Record
	state   vault.State
	tokens  ledger.TokenVault
}

// NewMemoryRepository constructs an in-memory repository for tests and local runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{records: make(map[ledger.Owner]ledger.Record)}
}

func (r *memoryRepository) Get(_ context.Context, owner ledger.Owner) (ledger.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[owner]
	if !ok {
		return ledger.Record{}, ErrAccountNotFound
	}
	return rec, nil
}

func (r *memoryRepository) Vault(_ context.Context) (vault.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state, nil
}

func (r *memoryRepository) Commit(_ context.Context, state vault.State, records ...ledger.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	for _, rec := range records {
		r.records[rec.Owner] = rec
	}
	return nil
}

func (r *memoryRepository) Tokens(_ context.Context) (ledger.TokenVault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tokens, nil
}

func (r *memoryRepository) CommitTokens(_ context.Context, tv ledger.TokenVault) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = tv
	return nil
}
