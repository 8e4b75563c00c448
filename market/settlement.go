package market

import (
	"math/big"
	"time"

	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/observability"
	"github.com/graphene-chain/core/store"
)

// ProcessForceSettlements matures every queued ForceSettlement for an asset
// whose SettlementDate has passed, redeeming it against the feed price (or,
// if the asset has gone through global settlement, against the settlement
// fund), offset by the asset's force-settlement discount. Grounded on
// native/swap/redeem.go's queued-redemption-maturity loop.
func (e *Engine) ProcessForceSettlements(bitassetID objects.ID, now time.Time) {
	bitasset, ok := e.Store.BitassetData.Get(bitassetID)
	if !ok {
		return
	}

	var settlePrice objects.Price
	switch {
	case bitasset.Settled:
		settlePrice = bitasset.SettlementPrice
	case bitasset.HasCurrentFeed:
		settlePrice = scaleBps(bitasset.CurrentFeed.SettlementPrice, 10000-bitasset.Options.ForceSettleOffsetPercent)
	default:
		return
	}

	var matured []objects.ID
	e.Store.AscendDueForceSettlements(now, func(id objects.ID, fs *objects.ForceSettlement) bool {
		if fs.Balance.Asset == bitasset.AssetID {
			matured = append(matured, id)
		}
		return true
	})

	for _, id := range matured {
		fs, ok := e.Store.ForceSettlements.Get(id)
		if !ok {
			continue
		}
		payout := settlePrice.Mul(fs.Balance.Value)
		if bitasset.Settled {
			if payout.Cmp(bitasset.SettlementFund) > 0 {
				payout = new(big.Int).Set(bitasset.SettlementFund)
			}
			store.Modify(e.Store, e.Store.BitassetData, bitasset.ID, func(b *objects.BitassetData) *objects.BitassetData {
				cp := b.Clone()
				cp.SettlementFund.Sub(cp.SettlementFund, payout)
				return cp
			})
		}
		creditBalance(e.Store, fs.Owner, bitasset.BackingAssetID, payout)
		store.Remove(e.Store, e.Store.ForceSettlements, id)
	}
}

// RevivePosition ends global settlement for a bitasset as soon as its
// collateral bids cover any non-zero debt: every bid on the asset becomes a
// call order with the bid's own collateral and debt, the bids are removed,
// and the settled flag is cleared. The bids' total is not compared with the
// settled supply.
// Grounded on native/swap/risk.go's collateral-sufficiency check.
func (e *Engine) RevivePosition(bitassetID objects.ID) bool {
	bitasset, ok := e.Store.BitassetData.Get(bitassetID)
	if !ok || !bitasset.Settled {
		return false
	}

	var totalCollateral, totalDebt big.Int
	var bidIDs []objects.ID
	e.Store.CollateralBids.Ascend(func(id objects.ID, b *objects.CollateralBid) bool {
		if b.AssetID != bitasset.AssetID {
			return true
		}
		totalCollateral.Add(&totalCollateral, b.Collateral)
		totalDebt.Add(&totalDebt, b.DebtCovered)
		bidIDs = append(bidIDs, id)
		return true
	})

	if totalDebt.Sign() == 0 {
		return false
	}

	for _, id := range bidIDs {
		bid, ok := e.Store.CollateralBids.Get(id)
		if !ok {
			continue
		}
		store.Create(e.Store, e.Store.CallOrders, func(newID objects.ID) *objects.CallOrder {
			return &objects.CallOrder{
				ID:         newID,
				Borrower:   bid.Bidder,
				Collateral: new(big.Int).Set(bid.Collateral),
				Debt:       new(big.Int).Set(bid.DebtCovered),
				DebtAsset:  bid.AssetID,
				CallPrice:  bid.InvSwanPrice,
			}
		})
		store.Remove(e.Store, e.Store.CollateralBids, id)
	}

	store.Modify(e.Store, e.Store.BitassetData, bitassetID, func(b *objects.BitassetData) *objects.BitassetData {
		cp := b.Clone()
		cp.Settled = false
		cp.SettlementFund = big.NewInt(0)
		return cp
	})
	observability.Core().RecordBlackSwan(bitasset.AssetID.String())
	return true
}
