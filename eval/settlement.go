package eval

import (
	"math/big"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

type forceSettleEvaluator struct{}

func (forceSettleEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.ForceSettle)
	if op.Amount.Value == nil || op.Amount.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "force_settle.validate", "amount must be positive")
	}
	return nil
}

func (forceSettleEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.ForceSettle)
	asset, ok := ctx.Store.Assets.Get(op.Amount.Asset)
	if !ok || !asset.IsMarketIssued() {
		return nil, chainerr.New(chainerr.Precondition, "force_settle.evaluate", "not a market-issued asset")
	}
	if asset.Options.Flags.Has(objects.FlagDisableForceSettle) {
		return nil, chainerr.New(chainerr.Precondition, "force_settle.evaluate", "force settlement disabled for this asset")
	}
	bal, ok := ctx.Store.FindBalance(op.Account, op.Amount.Asset)
	if !ok || bal.Amount.Cmp(op.Amount.Value) < 0 {
		return nil, chainerr.New(chainerr.Precondition, "force_settle.evaluate", "insufficient balance")
	}
	bitasset, ok := ctx.Store.BitassetData.Get(asset.BitassetDataID)
	if !ok {
		return nil, chainerr.New(chainerr.Fatal, "force_settle.evaluate", "asset missing bitasset data")
	}
	return struct {
		bal      *objects.AccountBalance
		bitasset *objects.BitassetData
	}{bal, bitasset}, nil
}

func (forceSettleEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.ForceSettle)
	ev := evaluatedAny.(struct {
		bal      *objects.AccountBalance
		bitasset *objects.BitassetData
	})

	store.Modify(ctx.Store, ctx.Store.Balances, ev.bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
		cp := b.Clone()
		cp.Amount.Sub(cp.Amount, op.Amount.Value)
		return cp
	})

	id, _ := store.Create(ctx.Store, ctx.Store.ForceSettlements, func(id objects.ID) *objects.ForceSettlement {
		return &objects.ForceSettlement{
			ID:             id,
			Owner:          op.Account,
			Balance:        op.Amount,
			SettlementDate: ctx.BlockTime.Add(ev.bitasset.Options.ForceSettleDelay),
		}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}

type bidCollateralEvaluator struct{}

func (bidCollateralEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.BidCollateral)
	if op.Collateral == nil || op.DebtCovered == nil {
		return chainerr.New(chainerr.Validation, "bid_collateral.validate", "collateral and debt covered are required")
	}
	if op.Collateral.Sign() < 0 || op.DebtCovered.Sign() < 0 {
		return chainerr.New(chainerr.Validation, "bid_collateral.validate", "amounts must not be negative")
	}
	return nil
}

func (bidCollateralEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.BidCollateral)
	asset, ok := ctx.Store.Assets.Get(op.Asset)
	if !ok || !asset.IsMarketIssued() {
		return nil, chainerr.New(chainerr.Precondition, "bid_collateral.evaluate", "not a market-issued asset")
	}
	bitasset, ok := ctx.Store.BitassetData.Get(asset.BitassetDataID)
	if !ok || !bitasset.Settled {
		return nil, chainerr.New(chainerr.Precondition, "bid_collateral.evaluate", "asset has not globally settled")
	}
	if op.Collateral.Sign() > 0 {
		bal, ok := ctx.Store.FindBalance(op.Bidder, bitasset.BackingAssetID)
		if !ok || bal.Amount.Cmp(op.Collateral) < 0 {
			return nil, chainerr.New(chainerr.Precondition, "bid_collateral.evaluate", "insufficient collateral balance")
		}
	}
	return bitasset, nil
}

func (bidCollateralEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.BidCollateral)
	bitasset := evaluatedAny.(*objects.BitassetData)

	var existing *objects.CollateralBid
	ctx.Store.CollateralBids.Ascend(func(id objects.ID, b *objects.CollateralBid) bool {
		if b.Bidder == op.Bidder && b.AssetID == op.Asset {
			existing = b
			return false
		}
		return true
	})

	invPrice := objects.Price{
		Base:  objects.Amount{Asset: bitasset.BackingAssetID, Value: op.Collateral},
		Quote: objects.Amount{Asset: op.Asset, Value: op.DebtCovered},
	}

	if existing != nil {
		refund := new(big.Int).Sub(existing.Collateral, op.Collateral)
		if refund.Sign() > 0 {
			creditBalanceEval(ctx, op.Bidder, bitasset.BackingAssetID, refund)
		}
		if op.Collateral.Sign() == 0 {
			store.Remove(ctx.Store, ctx.Store.CollateralBids, existing.ID)
			return objects.OperationResult{NewObjectID: existing.ID}, nil
		}
		store.Modify(ctx.Store, ctx.Store.CollateralBids, existing.ID, func(b *objects.CollateralBid) *objects.CollateralBid {
			cp := b.Clone()
			cp.Collateral = new(big.Int).Set(op.Collateral)
			cp.DebtCovered = new(big.Int).Set(op.DebtCovered)
			cp.InvSwanPrice = invPrice
			return cp
		})
		if bal, ok := ctx.Store.FindBalance(op.Bidder, bitasset.BackingAssetID); ok && refund.Sign() < 0 {
			store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
				cp := b.Clone()
				cp.Amount.Add(cp.Amount, refund)
				return cp
			})
		}
		return objects.OperationResult{NewObjectID: existing.ID}, nil
	}

	if bal, ok := ctx.Store.FindBalance(op.Bidder, bitasset.BackingAssetID); ok {
		store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
			cp := b.Clone()
			cp.Amount.Sub(cp.Amount, op.Collateral)
			return cp
		})
	}
	id, _ := store.Create(ctx.Store, ctx.Store.CollateralBids, func(id objects.ID) *objects.CollateralBid {
		return &objects.CollateralBid{
			ID:           id,
			Bidder:       op.Bidder,
			AssetID:      op.Asset,
			Collateral:   new(big.Int).Set(op.Collateral),
			DebtCovered:  new(big.Int).Set(op.DebtCovered),
			InvSwanPrice: invPrice,
		}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}
