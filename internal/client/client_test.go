package client

import (
	"context"
	"errors"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/arithguard/internal/config"
	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/logging"
	"github.com/congo-pay/arithguard/internal/server"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	srv, err := server.New(cfg, nil, logging.Discard())
	require.NoError(t, err)

	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)
	return New(ts.URL, logging.Discard())
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	owner := ledger.OwnerFromSeed("remote")

	rec, err := c.Create(ctx, ledger.VariantSafe, owner)
	require.NoError(t, err)
	require.Equal(t, owner, rec.Owner)

	rec, err = c.Deposit(ctx, ledger.VariantSafe, owner, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(100), rec.Balance)

	_, err = c.Withdraw(ctx, ledger.VariantSafe, owner, 101)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	require.True(t, IsRejected(err))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 422, apiErr.Status)
	require.Equal(t, uint32(6002), apiErr.Code)

	rec, err = c.Withdraw(ctx, ledger.VariantUnsafe, owner, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), rec.Balance)

	reward, err := c.ComputeReward(ctx, ledger.VariantSafe, owner, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(700), reward)

	got, err := c.Get(ctx, ledger.VariantSafe, owner)
	require.NoError(t, err)
	require.Equal(t, uint64(100), got.Balance)

	st, err := c.Vault(ctx, ledger.VariantUnsafe)
	require.NoError(t, err)
	require.Equal(t, uint64(1), st.UserCount)
}

func TestClientNotFound(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Get(context.Background(), ledger.VariantSafe, ledger.OwnerFromSeed("missing"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 404, apiErr.Status)
	require.False(t, IsRejected(err))
}

func TestClientTokens(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for _, v := range []ledger.Variant{ledger.VariantSafe, ledger.VariantUnsafe} {
		tokens, err := c.DepositTokens(ctx, v, 100)
		require.NoError(t, err)
		require.Equal(t, uint64(100), tokens.Available)
	}

	_, err := c.WithdrawTokens(ctx, ledger.VariantSafe, 150)
	require.ErrorIs(t, err, ledger.ErrInsufficientTokens)

	tokens, err := c.WithdrawTokens(ctx, ledger.VariantUnsafe, 150)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64-49), tokens.Available)

	tokens, err = c.Tokens(ctx, ledger.VariantSafe)
	require.NoError(t, err)
	require.Equal(t, ledger.TokenVault{TotalDeposited: 100}, tokens.Vault)
}

func TestClientWithoutLogger(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	srv, err := server.New(cfg, nil, logging.Discard())
	require.NoError(t, err)
	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	defer ts.Close()

	c := New(ts.URL, nil)
	ctx := context.Background()

	_, err = c.Get(ctx, ledger.VariantSafe, ledger.OwnerFromSeed("missing"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 404, apiErr.Status)

	down := httptest.NewServer(nil)
	down.Close()
	c = New(down.URL, nil)
	_, err = c.Vault(ctx, ledger.VariantSafe)
	require.Error(t, err)
	require.False(t, errors.As(err, &apiErr))
}
