package eval

import (
	"math/big"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

// transferEvaluator moves a balance between two accounts, grounded on
// native/bank/transfer.go's ledger-entry validation shape (reject a
// malformed reference before ever touching the ledger).
type transferEvaluator struct{}

type transferEvaluated struct {
	from *objects.AccountBalance
	to   *objects.AccountBalance
}

func (transferEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.Transfer)
	if op.From == op.To {
		return chainerr.New(chainerr.Validation, "transfer.validate", "cannot transfer to self")
	}
	if op.Amount.Value == nil || op.Amount.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "transfer.validate", "amount must be positive")
	}
	if len(op.Memo) > 2048 {
		return chainerr.New(chainerr.Validation, "transfer.validate", "memo too large")
	}
	return nil
}

func (transferEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.Transfer)
	if _, ok := ctx.Store.Accounts.Get(op.From); !ok {
		return nil, chainerr.New(chainerr.Precondition, "transfer.evaluate", "unknown sender account")
	}
	if _, ok := ctx.Store.Accounts.Get(op.To); !ok {
		return nil, chainerr.New(chainerr.Precondition, "transfer.evaluate", "unknown recipient account")
	}
	asset, ok := ctx.Store.Assets.Get(op.Amount.Asset)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "transfer.evaluate", "unknown asset")
	}
	if asset.Options.Flags.Has(objects.FlagTransferRestricted) && op.From != asset.Issuer && op.To != asset.Issuer {
		return nil, chainerr.New(chainerr.Precondition, "transfer.evaluate", "asset transfers restricted to issuer")
	}
	fromBal, ok := ctx.Store.FindBalance(op.From, op.Amount.Asset)
	if !ok || fromBal.Amount.Cmp(op.Amount.Value) < 0 {
		return nil, chainerr.New(chainerr.Precondition, "transfer.evaluate", "insufficient balance")
	}
	toBal, _ := ctx.Store.FindBalance(op.To, op.Amount.Asset)
	return transferEvaluated{from: fromBal, to: toBal}, nil
}

func (transferEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.Transfer)
	ev := evaluatedAny.(transferEvaluated)

	_, ok := store.Modify(ctx.Store, ctx.Store.Balances, ev.from.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
		cp := b.Clone()
		cp.Amount.Sub(cp.Amount, op.Amount.Value)
		return cp
	})
	if !ok {
		return objects.OperationResult{}, chainerr.New(chainerr.Fatal, "transfer.apply", "sender balance vanished")
	}

	if ev.to != nil {
		store.Modify(ctx.Store, ctx.Store.Balances, ev.to.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
			cp := b.Clone()
			cp.Amount.Add(cp.Amount, op.Amount.Value)
			return cp
		})
		return objects.OperationResult{NewObjectID: ev.to.ID}, nil
	}

	id, _ := store.Create(ctx.Store, ctx.Store.Balances, func(id objects.ID) *objects.AccountBalance {
		return &objects.AccountBalance{ID: id, Account: op.To, Asset: op.Amount.Asset, Amount: new(big.Int).Set(op.Amount.Value)}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}
