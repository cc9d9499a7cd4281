// Package instruction decodes the compact binary instruction format
// (one discriminator byte, then a little-endian u64 for amount-bearing
// operations) and dispatches it to an account service.
package instruction

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/congo-pay/arithguard/internal/account"
	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/vault"
)

// Opcode is the leading discriminator byte.
type Opcode uint8

const (
	OpInitializeVault Opcode = iota
	OpCreateUser
	OpDeposit
	OpWithdraw
	OpCalculateRewards
)

var opcodeNames = map[Opcode]string{
	OpInitializeVault:  "InitializeVault",
	OpCreateUser:       "CreateUser",
	OpDeposit:          "Deposit",
	OpWithdraw:         "Withdraw",
	OpCalculateRewards: "CalculateRewards",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", uint8(o))
}

// HasAmount reports whether the opcode carries a u64 payload.
func (o Opcode) HasAmount() bool {
	return o == OpDeposit || o == OpWithdraw || o == OpCalculateRewards
}

// ErrInvalidInstructionData is returned for empty, short or unknown instructions.
var ErrInvalidInstructionData = errors.New("invalid instruction data")

// Instruction is a decoded instruction. Amount is the reward rate for
// OpCalculateRewards.
type Instruction struct {
	Op     Opcode
	Amount uint64
}

// Decode parses raw instruction bytes. Bytes beyond the payload are ignored.
func Decode(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, fmt.Errorf("empty instruction: %w", ErrInvalidInstructionData)
	}
	op := Opcode(data[0])
	if _, ok := opcodeNames[op]; !ok {
		return Instruction{}, fmt.Errorf("unknown discriminator %d: %w", data[0], ErrInvalidInstructionData)
	}
	ins := Instruction{Op: op}
	if !op.HasAmount() {
		return ins, nil
	}
	payload := data[1:]
	if len(payload) < 8 {
		return Instruction{}, fmt.Errorf("%s payload is %d bytes, want 8: %w", op, len(payload), ErrInvalidInstructionData)
	}
	ins.Amount = binary.LittleEndian.Uint64(payload[:8])
	return ins, nil
}

// Encode renders the instruction in its wire form.
func (i Instruction) Encode() []byte {
	if !i.Op.HasAmount() {
		return []byte{byte(i.Op)}
	}
	buf := make([]byte, 9)
	buf[0] = byte(i.Op)
	binary.LittleEndian.PutUint64(buf[1:], i.Amount)
	return buf
}

// Result carries whatever state the executed instruction produced.
type Result struct {
	Op     Opcode         `json:"op"`
	Record *ledger.Record `json:"record,omitempty"`
	Vault  *vault.State   `json:"vault,omitempty"`
	Reward *uint64        `json:"reward,omitempty"`
}

// Execute applies ins on behalf of owner. For OpInitializeVault owner is the
// vault authority.
func Execute(ctx context.Context, svc *account.Service, owner ledger.Owner, ins Instruction) (Result, error) {
	res := Result{Op: ins.Op}
	switch ins.Op {
	case OpInitializeVault:
		st, err := svc.InitializeVault(ctx, owner)
		if err != nil {
			return Result{}, err
		}
		res.Vault = &st
	case OpCreateUser:
		rec, err := svc.Create(ctx, owner)
		if err != nil {
			return Result{}, err
		}
		res.Record = &rec
	case OpDeposit:
		rec, err := svc.Deposit(ctx, owner, ins.Amount)
		if err != nil {
			return Result{}, err
		}
		res.Record = &rec
	case OpWithdraw:
		rec, err := svc.Withdraw(ctx, owner, ins.Amount)
		if err != nil {
			return Result{}, err
		}
		res.Record = &rec
	case OpCalculateRewards:
		out, err := svc.ClaimReward(ctx, owner, ins.Amount)
		if err != nil {
			return Result{}, err
		}
		res.Record = &out.Record
		res.Reward = &out.Reward
	default:
		return Result{}, fmt.Errorf("unknown discriminator %d: %w", uint8(ins.Op), ErrInvalidInstructionData)
	}
	return res, nil
}
