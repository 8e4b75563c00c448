package eval

import (
	"math/big"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/market"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

type limitOrderCreateEvaluator struct{}

func (limitOrderCreateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.LimitOrderCreate)
	if op.Amount.Value == nil || op.Amount.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "limit_order_create.validate", "amount for sale must be positive")
	}
	if op.MinToReceive.Value == nil || op.MinToReceive.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "limit_order_create.validate", "min to receive must be positive")
	}
	if op.Amount.Asset == op.MinToReceive.Asset {
		return chainerr.New(chainerr.Validation, "limit_order_create.validate", "cannot trade an asset for itself")
	}
	return nil
}

func (limitOrderCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.LimitOrderCreate)
	if _, ok := ctx.Store.Assets.Get(op.Amount.Asset); !ok {
		return nil, chainerr.New(chainerr.Precondition, "limit_order_create.evaluate", "unknown asset for sale")
	}
	if _, ok := ctx.Store.Assets.Get(op.MinToReceive.Asset); !ok {
		return nil, chainerr.New(chainerr.Precondition, "limit_order_create.evaluate", "unknown asset to receive")
	}
	bal, ok := ctx.Store.FindBalance(op.Seller, op.Amount.Asset)
	if !ok || bal.Amount.Cmp(op.Amount.Value) < 0 {
		return nil, chainerr.New(chainerr.Precondition, "limit_order_create.evaluate", "insufficient balance")
	}
	return bal, nil
}

func (limitOrderCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.LimitOrderCreate)
	bal := evaluatedAny.(*objects.AccountBalance)

	store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
		cp := b.Clone()
		cp.Amount.Sub(cp.Amount, op.Amount.Value)
		return cp
	})

	id, order := store.Create(ctx.Store, ctx.Store.LimitOrders, func(id objects.ID) *objects.LimitOrder {
		return &objects.LimitOrder{
			ID:          id,
			Seller:      op.Seller,
			ForSale:     new(big.Int).Set(op.Amount.Value),
			SellPrice:   objects.Price{Base: op.Amount, Quote: op.MinToReceive},
			Expiration:  op.Expiration,
			DeferredFee: big.NewInt(0),
		}
	})

	eng := market.New(ctx.Store)
	result := eng.ApplyOrder(id, order, ctx.BlockTime)
	if op.FillOrKill && !result.FullyFilled {
		return objects.OperationResult{}, chainerr.New(chainerr.OrderBook, "limit_order_create.apply", "fill-or-kill order could not fully fill")
	}
	return objects.OperationResult{NewObjectID: id}, nil
}

type limitOrderCancelEvaluator struct{}

func (limitOrderCancelEvaluator) Validate(opAny objects.Operation) error {
	return nil
}

func (limitOrderCancelEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.LimitOrderCancel)
	order, ok := ctx.Store.LimitOrders.Get(op.Order)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "limit_order_cancel.evaluate", "unknown order")
	}
	if order.Seller != op.Owner {
		return nil, chainerr.New(chainerr.Precondition, "limit_order_cancel.evaluate", "only the order's seller may cancel it")
	}
	return order, nil
}

func (limitOrderCancelEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.LimitOrderCancel)
	order := evaluatedAny.(*objects.LimitOrder)

	store.Remove(ctx.Store, ctx.Store.LimitOrders, op.Order)
	refund := new(big.Int).Add(order.ForSale, order.DeferredFee)
	if bal, ok := ctx.Store.FindBalance(order.Seller, order.SellPrice.Base.Asset); ok {
		store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
			cp := b.Clone()
			cp.Amount.Add(cp.Amount, refund)
			return cp
		})
	} else {
		store.Create(ctx.Store, ctx.Store.Balances, func(id objects.ID) *objects.AccountBalance {
			return &objects.AccountBalance{ID: id, Account: order.Seller, Asset: order.SellPrice.Base.Asset, Amount: refund}
		})
	}
	return objects.OperationResult{NewObjectID: op.Order}, nil
}

type callOrderUpdateEvaluator struct{}

func (callOrderUpdateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.CallOrderUpdate)
	if op.DeltaCollateral == nil || op.DeltaDebt == nil {
		return chainerr.New(chainerr.Validation, "call_order_update.validate", "delta collateral and delta debt are required")
	}
	if op.DeltaCollateral.Sign() == 0 && op.DeltaDebt.Sign() == 0 {
		return chainerr.New(chainerr.Validation, "call_order_update.validate", "update must change collateral or debt")
	}
	return nil
}

func (callOrderUpdateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.CallOrderUpdate)
	asset, ok := ctx.Store.Assets.Get(op.DebtAsset)
	if !ok || !asset.IsMarketIssued() {
		return nil, chainerr.New(chainerr.Precondition, "call_order_update.evaluate", "not a market-issued asset")
	}
	bitasset, ok := ctx.Store.BitassetData.Get(asset.BitassetDataID)
	if !ok {
		return nil, chainerr.New(chainerr.Fatal, "call_order_update.evaluate", "asset missing bitasset data")
	}
	if bitasset.Settled {
		return nil, chainerr.New(chainerr.Precondition, "call_order_update.evaluate", "asset has globally settled")
	}
	if op.DeltaCollateral.Sign() > 0 {
		bal, ok := ctx.Store.FindBalance(op.FundingAccount, bitasset.BackingAssetID)
		if !ok || bal.Amount.Cmp(op.DeltaCollateral) < 0 {
			return nil, chainerr.New(chainerr.Precondition, "call_order_update.evaluate", "insufficient collateral balance")
		}
	}
	return bitasset, nil
}

func (callOrderUpdateEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.CallOrderUpdate)
	bitasset := evaluatedAny.(*objects.BitassetData)

	if op.DeltaCollateral.Sign() != 0 {
		if bal, ok := ctx.Store.FindBalance(op.FundingAccount, bitasset.BackingAssetID); ok {
			store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
				cp := b.Clone()
				cp.Amount.Sub(cp.Amount, op.DeltaCollateral)
				return cp
			})
		}
	}

	var existing *objects.CallOrder
	ctx.Store.CallOrders.Ascend(func(id objects.ID, co *objects.CallOrder) bool {
		if co.Borrower == op.Borrower && co.DebtAsset == op.DebtAsset {
			existing = co
			return false
		}
		return true
	})

	var id objects.ID
	if existing != nil {
		id = existing.ID
		updated, _ := store.Modify(ctx.Store, ctx.Store.CallOrders, id, func(co *objects.CallOrder) *objects.CallOrder {
			cp := co.Clone()
			cp.Collateral.Add(cp.Collateral, op.DeltaCollateral)
			cp.Debt.Add(cp.Debt, op.DeltaDebt)
			return cp
		})
		if updated.Debt.Sign() == 0 {
			store.Remove(ctx.Store, ctx.Store.CallOrders, id)
			return objects.OperationResult{NewObjectID: id}, nil
		}
	} else {
		id, _ = store.Create(ctx.Store, ctx.Store.CallOrders, func(newID objects.ID) *objects.CallOrder {
			return &objects.CallOrder{
				ID:         newID,
				Borrower:   op.Borrower,
				Collateral: new(big.Int).Set(op.DeltaCollateral),
				Debt:       new(big.Int).Set(op.DeltaDebt),
				DebtAsset:  op.DebtAsset,
			}
		})
	}

	if op.DeltaDebt.Sign() > 0 {
		creditBalanceEval(ctx, op.FundingAccount, op.DebtAsset, op.DeltaDebt)
	}

	eng := market.New(ctx.Store)
	eng.CheckCallOrders(bitasset.ID)

	return objects.OperationResult{NewObjectID: id}, nil
}

func creditBalanceEval(ctx *Context, account, asset objects.ID, amount *big.Int) {
	if bal, ok := ctx.Store.FindBalance(account, asset); ok {
		store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
			cp := b.Clone()
			cp.Amount.Add(cp.Amount, amount)
			return cp
		})
		return
	}
	store.Create(ctx.Store, ctx.Store.Balances, func(id objects.ID) *objects.AccountBalance {
		return &objects.AccountBalance{ID: id, Account: account, Asset: asset, Amount: new(big.Int).Set(amount)}
	})
}
