package eval

import (
	"math/big"
	"strings"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

func validAssetSymbol(sym string) bool {
	if len(sym) < 3 || len(sym) > 17 {
		return false
	}
	dots := 0
	for _, r := range sym {
		switch {
		case r >= 'A' && r <= 'Z':
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return dots <= 1
}

type assetCreateEvaluator struct{}

func (assetCreateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.AssetCreate)
	if !validAssetSymbol(op.Symbol) {
		return chainerr.New(chainerr.Validation, "asset_create.validate", "malformed asset symbol")
	}
	if op.Precision > 18 {
		return chainerr.New(chainerr.Validation, "asset_create.validate", "precision must not exceed 18")
	}
	if op.Options.MaxSupply == nil || op.Options.MaxSupply.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "asset_create.validate", "max supply must be positive")
	}
	if op.Options.MarketFeePercent > 10000 {
		return chainerr.New(chainerr.Validation, "asset_create.validate", "market fee percent must not exceed 10000 bps")
	}
	if !op.Options.IssuerPermissions.Has(op.Options.Flags) {
		return chainerr.New(chainerr.Validation, "asset_create.validate", "issuer permissions must be a superset of flags")
	}
	if op.BitassetOpts != nil && op.BackingAsset.IsZero() {
		return chainerr.New(chainerr.Validation, "asset_create.validate", "market-issued asset requires a backing asset")
	}
	return nil
}

func (assetCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.AssetCreate)
	if _, ok := ctx.Store.Accounts.Get(op.Issuer); !ok {
		return nil, chainerr.New(chainerr.Precondition, "asset_create.evaluate", "unknown issuer")
	}
	if _, exists := ctx.Store.FindBySymbol(strings.ToUpper(op.Symbol)); exists {
		return nil, chainerr.New(chainerr.Precondition, "asset_create.evaluate", "symbol already in use")
	}
	if op.BitassetOpts != nil {
		if _, ok := ctx.Store.Assets.Get(op.BackingAsset); !ok {
			return nil, chainerr.New(chainerr.Precondition, "asset_create.evaluate", "unknown backing asset")
		}
	}
	return nil, nil
}

func (assetCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.AssetCreate)
	assetID, asset := store.Create(ctx.Store, ctx.Store.Assets, func(id objects.ID) *objects.Asset {
		return &objects.Asset{
			ID:        id,
			Symbol:    strings.ToUpper(op.Symbol),
			Precision: op.Precision,
			Issuer:    op.Issuer,
			Options:   op.Options,
		}
	})

	dynID, _ := store.Create(ctx.Store, ctx.Store.AssetDynamicData, func(id objects.ID) *objects.AssetDynamicData {
		return &objects.AssetDynamicData{ID: id, AssetID: assetID, CurrentSupply: big.NewInt(0), AccumulatedFees: big.NewInt(0)}
	})

	var bitassetID objects.ID
	if op.BitassetOpts != nil {
		bitassetID, _ = store.Create(ctx.Store, ctx.Store.BitassetData, func(id objects.ID) *objects.BitassetData {
			return &objects.BitassetData{
				ID:             id,
				AssetID:        assetID,
				BackingAssetID: op.BackingAsset,
				SettlementFund: big.NewInt(0),
				Options:        *op.BitassetOpts,
			}
		})
	}

	store.Modify(ctx.Store, ctx.Store.Assets, assetID, func(a *objects.Asset) *objects.Asset {
		cp := a.Clone()
		cp.DynamicDataID = dynID
		cp.BitassetDataID = bitassetID
		return cp
	})
	_ = asset
	return objects.OperationResult{NewObjectID: assetID}, nil
}

type assetUpdateEvaluator struct{}

func (assetUpdateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.AssetUpdate)
	if op.NewOptions.MarketFeePercent > 10000 {
		return chainerr.New(chainerr.Validation, "asset_update.validate", "market fee percent must not exceed 10000 bps")
	}
	return nil
}

func (assetUpdateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.AssetUpdate)
	asset, ok := ctx.Store.Assets.Get(op.Asset)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "asset_update.evaluate", "unknown asset")
	}
	if asset.Issuer != op.Issuer {
		return nil, chainerr.New(chainerr.Precondition, "asset_update.evaluate", "only the issuer may update this asset")
	}
	if !asset.Options.IssuerPermissions.Has(op.NewOptions.Flags) {
		return nil, chainerr.New(chainerr.Precondition, "asset_update.evaluate", "new flags exceed issuer permissions")
	}
	if !asset.Options.IssuerPermissions.Has(op.NewOptions.IssuerPermissions) {
		return nil, chainerr.New(chainerr.Precondition, "asset_update.evaluate", "issuer permissions cannot be widened")
	}
	return nil, nil
}

func (assetUpdateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.AssetUpdate)
	_, ok := store.Modify(ctx.Store, ctx.Store.Assets, op.Asset, func(a *objects.Asset) *objects.Asset {
		cp := a.Clone()
		cp.Options = op.NewOptions.Clone()
		return cp
	})
	if !ok {
		return objects.OperationResult{}, chainerr.New(chainerr.Fatal, "asset_update.apply", "asset vanished mid-evaluation")
	}
	return objects.OperationResult{NewObjectID: op.Asset}, nil
}

type assetIssueEvaluator struct{}

func (assetIssueEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.AssetIssue)
	if op.NewSupply == nil || op.NewSupply.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "asset_issue.validate", "issue amount must be positive")
	}
	return nil
}

func (assetIssueEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.AssetIssue)
	asset, ok := ctx.Store.Assets.Get(op.Asset)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "asset_issue.evaluate", "unknown asset")
	}
	if asset.Issuer != op.Issuer {
		return nil, chainerr.New(chainerr.Precondition, "asset_issue.evaluate", "only the issuer may issue this asset")
	}
	if asset.IsMarketIssued() {
		return nil, chainerr.New(chainerr.Precondition, "asset_issue.evaluate", "market-issued assets cannot be manually issued")
	}
	if _, ok := ctx.Store.Accounts.Get(op.IssueTo); !ok {
		return nil, chainerr.New(chainerr.Precondition, "asset_issue.evaluate", "unknown recipient")
	}
	dyn, ok := ctx.Store.AssetDynamicData.Get(asset.DynamicDataID)
	if !ok {
		return nil, chainerr.New(chainerr.Fatal, "asset_issue.evaluate", "asset missing dynamic data")
	}
	newSupply := new(big.Int).Add(dyn.CurrentSupply, op.NewSupply)
	if newSupply.Cmp(asset.Options.MaxSupply) > 0 {
		return nil, chainerr.New(chainerr.Overflow, "asset_issue.evaluate", "issue would exceed max supply")
	}
	return nil, nil
}

func (assetIssueEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.AssetIssue)
	asset, _ := ctx.Store.Assets.Get(op.Asset)
	store.Modify(ctx.Store, ctx.Store.AssetDynamicData, asset.DynamicDataID, func(d *objects.AssetDynamicData) *objects.AssetDynamicData {
		cp := d.Clone()
		cp.CurrentSupply.Add(cp.CurrentSupply, op.NewSupply)
		return cp
	})
	if bal, ok := ctx.Store.FindBalance(op.IssueTo, op.Asset); ok {
		store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
			cp := b.Clone()
			cp.Amount.Add(cp.Amount, op.NewSupply)
			return cp
		})
		return objects.OperationResult{NewObjectID: bal.ID}, nil
	}
	id, _ := store.Create(ctx.Store, ctx.Store.Balances, func(id objects.ID) *objects.AccountBalance {
		return &objects.AccountBalance{ID: id, Account: op.IssueTo, Asset: op.Asset, Amount: new(big.Int).Set(op.NewSupply)}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}

type assetReserveEvaluator struct{}

func (assetReserveEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.AssetReserve)
	if op.Amount.Value == nil || op.Amount.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "asset_reserve.validate", "reserve amount must be positive")
	}
	return nil
}

func (assetReserveEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.AssetReserve)
	asset, ok := ctx.Store.Assets.Get(op.Amount.Asset)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "asset_reserve.evaluate", "unknown asset")
	}
	bal, ok := ctx.Store.FindBalance(op.Payer, op.Amount.Asset)
	if !ok || bal.Amount.Cmp(op.Amount.Value) < 0 {
		return nil, chainerr.New(chainerr.Precondition, "asset_reserve.evaluate", "insufficient balance to reserve")
	}
	_ = asset
	return bal, nil
}

func (assetReserveEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.AssetReserve)
	bal := evaluatedAny.(*objects.AccountBalance)
	store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
		cp := b.Clone()
		cp.Amount.Sub(cp.Amount, op.Amount.Value)
		return cp
	})
	asset, _ := ctx.Store.Assets.Get(op.Amount.Asset)
	store.Modify(ctx.Store, ctx.Store.AssetDynamicData, asset.DynamicDataID, func(d *objects.AssetDynamicData) *objects.AssetDynamicData {
		cp := d.Clone()
		cp.CurrentSupply.Sub(cp.CurrentSupply, op.Amount.Value)
		return cp
	})
	return objects.OperationResult{NewObjectID: bal.ID}, nil
}
