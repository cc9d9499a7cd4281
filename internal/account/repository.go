package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/vault"
)

// Repository persists balance records and the vault aggregate for one ledger variant.
type Repository interface {
	Get(ctx context.Context, owner ledger.Owner) (ledger.Record, error)
	Vault(ctx context.Context) (vault.State, error)
	// Commit stores the vault state and the given records atomically.
	Commit(ctx context.Context, state vault.State, records ...ledger.Record) error

	Tokens(ctx context.Context) (ledger.TokenVault, error)
	CommitTokens(ctx context.Context, tv ledger.TokenVault) error
}

const schema = `
CREATE TABLE IF NOT EXISTS balance_records (
    variant        TEXT           NOT NULL,
    owner          BYTEA          NOT NULL,
    balance        NUMERIC(20, 0) NOT NULL,
    deposit_total  NUMERIC(20, 0) NOT NULL,
    withdraw_total NUMERIC(20, 0) NOT NULL,
    updated_at     TIMESTAMPTZ    NOT NULL DEFAULT now(),
    PRIMARY KEY (variant, owner)
);
CREATE TABLE IF NOT EXISTS vault_states (
    variant        TEXT           PRIMARY KEY,
    authority      BYTEA          NOT NULL,
    total_deposits NUMERIC(20, 0) NOT NULL,
    user_count     NUMERIC(20, 0) NOT NULL,
    total_rewards  NUMERIC(20, 0) NOT NULL,
    updated_at     TIMESTAMPTZ    NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS token_vaults (
    variant         TEXT           PRIMARY KEY,
    total_deposited NUMERIC(20, 0) NOT NULL,
    total_withdrawn NUMERIC(20, 0) NOT NULL,
    updated_at      TIMESTAMPTZ    NOT NULL DEFAULT now()
);`

// PostgresRepository stores records in PostgreSQL. Unsigned 64-bit values are
// kept in NUMERIC(20,0) columns and exchanged as decimal text so the full range
// round-trips.
type PostgresRepository struct {
	db      *pgxpool.Pool
	variant string
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool, variant ledger.Variant) *PostgresRepository {
	return &PostgresRepository{db: db, variant: string(variant)}
}

// Migrate creates the tables used by the repository if they are missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate balance tables: %w", err)
	}
	return nil
}

// Get fetches the balance record for owner.
func (r *PostgresRepository) Get(ctx context.Context, owner ledger.Owner) (ledger.Record, error) {
	const query = `SELECT balance::text, deposit_total::text, withdraw_total::text
        FROM balance_records WHERE variant = $1 AND owner = $2`
	var balance, deposits, withdrawals string
	if err := r.db.QueryRow(ctx, query, r.variant, owner[:]).Scan(&balance, &deposits, &withdrawals); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Record{}, ErrAccountNotFound
		}
		return ledger.Record{}, err
	}
	rec := ledger.NewRecord(owner)
	var err error
	if rec.Balance, err = parseAmount(balance); err != nil {
		return ledger.Record{}, err
	}
	if rec.DepositTotal, err = parseAmount(deposits); err != nil {
		return ledger.Record{}, err
	}
	if rec.WithdrawTotal, err = parseAmount(withdrawals); err != nil {
		return ledger.Record{}, err
	}
	return rec, nil
}

// Vault fetches the vault aggregate, returning the zero state when none was stored yet.
func (r *PostgresRepository) Vault(ctx context.Context) (vault.State, error) {
	const query = `SELECT authority, total_deposits::text, user_count::text, total_rewards::text
        FROM vault_states WHERE variant = $1`
	var authority []byte
	var deposits, users, rewards string
	if err := r.db.QueryRow(ctx, query, r.variant).Scan(&authority, &deposits, &users, &rewards); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vault.State{}, nil
		}
		return vault.State{}, err
	}
	var st vault.State
	copy(st.Authority[:], authority)
	var err error
	if st.TotalDeposits, err = parseAmount(deposits); err != nil {
		return vault.State{}, err
	}
	if st.UserCount, err = parseAmount(users); err != nil {
		return vault.State{}, err
	}
	if st.TotalRewards, err = parseAmount(rewards); err != nil {
		return vault.State{}, err
	}
	return st, nil
}

// Commit upserts the vault state and records in a single transaction.
func (r *PostgresRepository) Commit(ctx context.Context, state vault.State, records ...ledger.Record) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `INSERT INTO vault_states (variant, authority, total_deposits, user_count, total_rewards)
        VALUES ($1, $2, $3::text::numeric, $4::text::numeric, $5::text::numeric)
        ON CONFLICT (variant) DO UPDATE SET authority = EXCLUDED.authority,
            total_deposits = EXCLUDED.total_deposits, user_count = EXCLUDED.user_count,
            total_rewards = EXCLUDED.total_rewards, updated_at = now()`,
		r.variant, state.Authority[:], formatAmount(state.TotalDeposits), formatAmount(state.UserCount), formatAmount(state.TotalRewards)); err != nil {
		return err
	}

	for _, rec := range records {
		if _, err := tx.Exec(ctx, `INSERT INTO balance_records (variant, owner, balance, deposit_total, withdraw_total)
            VALUES ($1, $2, $3::text::numeric, $4::text::numeric, $5::text::numeric)
            ON CONFLICT (variant, owner) DO UPDATE SET balance = EXCLUDED.balance,
                deposit_total = EXCLUDED.deposit_total, withdraw_total = EXCLUDED.withdraw_total, updated_at = now()`,
			r.variant, rec.Owner[:], formatAmount(rec.Balance), formatAmount(rec.DepositTotal), formatAmount(rec.WithdrawTotal)); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Tokens fetches the token vault, returning the zero vault when none was stored yet.
func (r *PostgresRepository) Tokens(ctx context.Context) (ledger.TokenVault, error) {
	const query = `SELECT total_deposited::text, total_withdrawn::text FROM token_vaults WHERE variant = $1`
	var deposited, withdrawn string
	if err := r.db.QueryRow(ctx, query, r.variant).Scan(&deposited, &withdrawn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.TokenVault{}, nil
		}
		return ledger.TokenVault{}, err
	}
	var tv ledger.TokenVault
	var err error
	if tv.TotalDeposited, err = parseAmount(deposited); err != nil {
		return ledger.TokenVault{}, err
	}
	if tv.TotalWithdrawn, err = parseAmount(withdrawn); err != nil {
		return ledger.TokenVault{}, err
	}
	return tv, nil
}

// CommitTokens upserts the token vault.
func (r *PostgresRepository) CommitTokens(ctx context.Context, tv ledger.TokenVault) error {
	_, err := r.db.Exec(ctx, `INSERT INTO token_vaults (variant, total_deposited, total_withdrawn)
        VALUES ($1, $2::text::numeric, $3::text::numeric)
        ON CONFLICT (variant) DO UPDATE SET total_deposited = EXCLUDED.total_deposited,
            total_withdrawn = EXCLUDED.total_withdrawn, updated_at = now()`,
		r.variant, formatAmount(tv.TotalDeposited), formatAmount(tv.TotalWithdrawn))
	return err
}

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stored amount %q: %w", s, err)
	}
	return v, nil
}
