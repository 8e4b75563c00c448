package eval

import (
	"math/big"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

type vestingBalanceCreateEvaluator struct{}

func (vestingBalanceCreateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.VestingBalanceCreate)
	if op.Amount.Value == nil || op.Amount.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "vesting_balance_create.validate", "amount must be positive")
	}
	if op.VestingSeconds == 0 {
		return chainerr.New(chainerr.Validation, "vesting_balance_create.validate", "vesting period must be positive")
	}
	return nil
}

func (vestingBalanceCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.VestingBalanceCreate)
	bal, ok := ctx.Store.FindBalance(op.Creator, op.Amount.Asset)
	if !ok || bal.Amount.Cmp(op.Amount.Value) < 0 {
		return nil, chainerr.New(chainerr.Precondition, "vesting_balance_create.evaluate", "insufficient balance")
	}
	if _, ok := ctx.Store.Accounts.Get(op.Owner); !ok {
		return nil, chainerr.New(chainerr.Precondition, "vesting_balance_create.evaluate", "unknown owner")
	}
	return bal, nil
}

func (vestingBalanceCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.VestingBalanceCreate)
	bal := evaluatedAny.(*objects.AccountBalance)

	store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
		cp := b.Clone()
		cp.Amount.Sub(cp.Amount, op.Amount.Value)
		return cp
	})

	id, _ := store.Create(ctx.Store, ctx.Store.VestingBalances, func(id objects.ID) *objects.VestingBalance {
		return &objects.VestingBalance{
			ID:             id,
			Owner:          op.Owner,
			Balance:        op.Amount,
			Policy:         op.Policy,
			StartClaim:     ctx.BlockTime,
			VestingSeconds: op.VestingSeconds,
			Withdrawn:      big.NewInt(0),
		}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}

type vestingBalanceWithdrawEvaluator struct{}

func (vestingBalanceWithdrawEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.VestingBalanceWithdraw)
	if op.Amount.Value == nil || op.Amount.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "vesting_balance_withdraw.validate", "amount must be positive")
	}
	return nil
}

func (vestingBalanceWithdrawEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.VestingBalanceWithdraw)
	vb, ok := ctx.Store.VestingBalances.Get(op.VestingBalance)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "vesting_balance_withdraw.evaluate", "unknown vesting balance")
	}
	if vb.Owner != op.Owner {
		return nil, chainerr.New(chainerr.Precondition, "vesting_balance_withdraw.evaluate", "only the owner may withdraw")
	}
	if vb.Available(ctx.BlockTime).Cmp(op.Amount.Value) < 0 {
		return nil, chainerr.New(chainerr.Precondition, "vesting_balance_withdraw.evaluate", "amount exceeds currently vested balance")
	}
	return vb, nil
}

func (vestingBalanceWithdrawEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.VestingBalanceWithdraw)
	vb := evaluatedAny.(*objects.VestingBalance)

	store.Modify(ctx.Store, ctx.Store.VestingBalances, vb.ID, func(v *objects.VestingBalance) *objects.VestingBalance {
		cp := v.Clone()
		cp.Withdrawn.Add(cp.Withdrawn, op.Amount.Value)
		return cp
	})
	creditBalanceEval(ctx, op.Owner, op.Amount.Asset, op.Amount.Value)
	return objects.OperationResult{NewObjectID: vb.ID}, nil
}
