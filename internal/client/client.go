// Package client is a small HTTP client for the ledger API.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/vault"
)

// APIError is a non-2xx response from the server. Ledger rejections unwrap
// to the matching ledger sentinel, so errors.Is works across the wire.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Kind    string `json:"kind"`
	Code    uint32 `json:"code"`
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%d %s (%d): %s", e.Status, e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if k, ok := ledger.ParseKind(e.Kind); ok {
		return k.Err()
	}
	return nil
}

// Client talks to one server.
type Client struct {
	client *resty.Client
	log    *zerolog.Logger
}

// New builds a client for baseURL, e.g. http://localhost:8080. A nil log
// discards client logging.
func New(baseURL string, log *zerolog.Logger) *Client {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/") + "/api/v1").
		SetHeader("Accept", "application/json")
	return &Client{client: rc, log: log}
}

type recordEnvelope struct {
	Record ledger.Record `json:"record"`
}

type rewardEnvelope struct {
	Reward uint64        `json:"reward"`
	Record ledger.Record `json:"record"`
}

type vaultEnvelope struct {
	Vault vault.State `json:"vault"`
}

// Tokens is the token vault as reported by the server.
type Tokens struct {
	Vault     ledger.TokenVault `json:"tokens"`
	Available uint64            `json:"available"`
}

// Create provisions owner on the given variant.
func (c *Client) Create(ctx context.Context, v ledger.Variant, owner ledger.Owner) (ledger.Record, error) {
	var out recordEnvelope
	err := c.post(ctx, v, "/accounts", map[string]string{"owner": owner.String()}, &out)
	return out.Record, err
}

// Get fetches owner's record.
func (c *Client) Get(ctx context.Context, v ledger.Variant, owner ledger.Owner) (ledger.Record, error) {
	var out recordEnvelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"variant": string(v), "owner": owner.String()}).
		SetResult(&out).
		SetError(&APIError{}).
		Get("/{variant}/accounts/{owner}")
	if err := c.check(resp, err); err != nil {
		return ledger.Record{}, err
	}
	return out.Record, nil
}

// Vault fetches the vault aggregate.
func (c *Client) Vault(ctx context.Context, v ledger.Variant) (vault.State, error) {
	var out vaultEnvelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("variant", string(v)).
		SetResult(&out).
		SetError(&APIError{}).
		Get("/{variant}/vault")
	if err := c.check(resp, err); err != nil {
		return vault.State{}, err
	}
	return out.Vault, nil
}

// Deposit credits amount to owner.
func (c *Client) Deposit(ctx context.Context, v ledger.Variant, owner ledger.Owner, amount uint64) (ledger.Record, error) {
	var out recordEnvelope
	err := c.post(ctx, v, "/accounts/"+owner.String()+"/deposit", map[string]uint64{"amount": amount}, &out)
	return out.Record, err
}

// Withdraw debits amount from owner.
func (c *Client) Withdraw(ctx context.Context, v ledger.Variant, owner ledger.Owner, amount uint64) (ledger.Record, error) {
	var out recordEnvelope
	err := c.post(ctx, v, "/accounts/"+owner.String()+"/withdraw", map[string]uint64{"amount": amount}, &out)
	return out.Record, err
}

// ComputeReward asks for owner's reward at rate.
func (c *Client) ComputeReward(ctx context.Context, v ledger.Variant, owner ledger.Owner, rate uint64) (uint64, error) {
	var out rewardEnvelope
	err := c.post(ctx, v, "/accounts/"+owner.String()+"/rewards/compute", map[string]uint64{"rate": rate}, &out)
	return out.Reward, err
}

// Tokens fetches the token vault.
func (c *Client) Tokens(ctx context.Context, v ledger.Variant) (Tokens, error) {
	var out Tokens
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("variant", string(v)).
		SetResult(&out).
		SetError(&APIError{}).
		Get("/{variant}/tokens")
	if err := c.check(resp, err); err != nil {
		return Tokens{}, err
	}
	return out, nil
}

// DepositTokens pays amount into the token vault.
func (c *Client) DepositTokens(ctx context.Context, v ledger.Variant, amount uint64) (Tokens, error) {
	var out Tokens
	err := c.post(ctx, v, "/tokens/deposit", map[string]uint64{"amount": amount}, &out)
	return out, err
}

// WithdrawTokens pays amount out of the token vault.
func (c *Client) WithdrawTokens(ctx context.Context, v ledger.Variant, amount uint64) (Tokens, error) {
	var out Tokens
	err := c.post(ctx, v, "/tokens/withdraw", map[string]uint64{"amount": amount}, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, v ledger.Variant, path string, body, result any) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("variant", string(v)).
		SetBody(body).
		SetResult(result).
		SetError(&APIError{}).
		Post("/{variant}" + path)
	return c.check(resp, err)
}

func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		c.log.Err(err).Msg("request failed")
		return err
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{Message: strings.TrimSpace(resp.String())}
	}
	apiErr.Status = resp.StatusCode()
	c.log.Debug().Int("status", apiErr.Status).Str("kind", apiErr.Kind).Msg("request rejected")
	return apiErr
}

// IsRejected reports whether err is a ledger rejection reported by the server.
func IsRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind != ""
}
