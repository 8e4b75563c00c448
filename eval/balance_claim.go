package eval

import (
	"math/big"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

type balanceClaimEvaluator struct{}

func (balanceClaimEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.BalanceClaim)
	if op.TotalClaimed.Value == nil || op.TotalClaimed.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "balance_claim.validate", "claimed amount must be positive")
	}
	return nil
}

func (balanceClaimEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.BalanceClaim)
	gb, ok := ctx.Store.GenesisBalances.Get(op.BalanceToClaim)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "balance_claim.evaluate", "unknown genesis balance")
	}
	if gb.Claimed {
		return nil, chainerr.New(chainerr.Precondition, "balance_claim.evaluate", "balance already claimed")
	}
	if gb.OwnerKey != op.BalanceOwnerKey {
		return nil, chainerr.New(chainerr.Precondition, "balance_claim.evaluate", "owner key does not match the genesis commitment")
	}
	if _, ok := ctx.Keys.Keys[op.BalanceOwnerKey]; !ok {
		return nil, chainerr.New(chainerr.Precondition, "balance_claim.evaluate", "claim not signed by the owner key")
	}
	if op.TotalClaimed.Asset != gb.Balance.Asset || op.TotalClaimed.Value.Cmp(gb.Balance.Value) != 0 {
		return nil, chainerr.New(chainerr.Precondition, "balance_claim.evaluate", "claimed amount must match the genesis balance exactly")
	}
	if _, ok := ctx.Store.Accounts.Get(op.DepositToAccount); !ok {
		return nil, chainerr.New(chainerr.Precondition, "balance_claim.evaluate", "unknown destination account")
	}
	return gb, nil
}

func (balanceClaimEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.BalanceClaim)
	gb := evaluatedAny.(*objects.GenesisBalance)

	store.Modify(ctx.Store, ctx.Store.GenesisBalances, gb.ID, func(g *objects.GenesisBalance) *objects.GenesisBalance {
		cp := g.Clone()
		cp.Claimed = true
		return cp
	})

	if gb.VestingSeconds == 0 {
		creditBalanceEval(ctx, op.DepositToAccount, op.TotalClaimed.Asset, op.TotalClaimed.Value)
	} else {
		id, _ := store.Create(ctx.Store, ctx.Store.VestingBalances, func(id objects.ID) *objects.VestingBalance {
			return &objects.VestingBalance{
				ID:             id,
				Owner:          op.DepositToAccount,
				Balance:        op.TotalClaimed,
				Policy:         objects.VestingLinear,
				StartClaim:     ctx.BlockTime,
				VestingSeconds: gb.VestingSeconds,
				Withdrawn:      big.NewInt(0),
			}
		})
		_ = id
	}
	return objects.OperationResult{NewObjectID: gb.ID}, nil
}
