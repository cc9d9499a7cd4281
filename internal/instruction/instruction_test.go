package instruction

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/congo-pay/arithguard/internal/account"
	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/logging"
)

func TestDecode(t *testing.T) {
	ins, err := Decode([]byte{2, 0x10, 0x27, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	require.Equal(t, Instruction{Op: OpDeposit, Amount: 10_000}, ins)

	ins, err = Decode([]byte{1, 0xff})
	require.NoError(t, err)
	require.Equal(t, Instruction{Op: OpCreateUser}, ins)

	ins, err = Decode([]byte{3, 1, 0, 0, 0, 0, 0, 0, 0, 9, 9})
	require.NoError(t, err)
	require.Equal(t, Instruction{Op: OpWithdraw, Amount: 1}, ins)

	for _, data := range [][]byte{nil, {5}, {0xff}, {2}, {4, 1, 2, 3}} {
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrInvalidInstructionData, "%v", data)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, ins := range []Instruction{
		{Op: OpInitializeVault},
		{Op: OpCreateUser},
		{Op: OpDeposit, Amount: math.MaxUint64},
		{Op: OpWithdraw, Amount: 0},
		{Op: OpCalculateRewards, Amount: 1 << 30},
	} {
		got, err := Decode(ins.Encode())
		require.NoError(t, err)
		require.Equal(t, ins, got)
	}
	require.Equal(t, "CalculateRewards", OpCalculateRewards.String())
	require.Equal(t, "Opcode(7)", Opcode(7).String())
}

func TestExecute(t *testing.T) {
	safe, err := ledger.NewSafe(ledger.DefaultLimits())
	require.NoError(t, err)
	svc := account.NewService(safe, account.NewMemoryRepository(), nil, logging.Discard())
	ctx := context.Background()
	owner := ledger.OwnerFromSeed("program-user")

	res, err := Execute(ctx, svc, ledger.OwnerFromSeed("authority"), Instruction{Op: OpInitializeVault})
	require.NoError(t, err)
	require.NotNil(t, res.Vault)

	res, err = Execute(ctx, svc, owner, Instruction{Op: OpCreateUser})
	require.NoError(t, err)
	require.Equal(t, owner, res.Record.Owner)

	res, err = Execute(ctx, svc, owner, Instruction{Op: OpDeposit, Amount: 100})
	require.NoError(t, err)
	require.Equal(t, uint64(100), res.Record.Balance)

	_, err = Execute(ctx, svc, owner, Instruction{Op: OpWithdraw, Amount: 101})
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	res, err = Execute(ctx, svc, owner, Instruction{Op: OpCalculateRewards, Amount: 2})
	require.NoError(t, err)
	require.Equal(t, uint64(200), *res.Reward)
	require.Equal(t, uint64(300), res.Record.Balance)

	_, err = Execute(ctx, svc, owner, Instruction{Op: Opcode(9)})
	require.ErrorIs(t, err, ErrInvalidInstructionData)
}
