// Package market implements the dual order-book engine: limit-order
// matching between two assets, and collateralized-debt margin calls against
// the same pair when one side is a market-issued asset. Grounded on
// native/lending/engine.go's borrow/liquidate position math (CDP health,
// forced unwind) combined with native/escrow/trade_engine.go's match-then-
// emit-events apply loop.
package market

import (
	"math/big"
	"time"

	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/observability"
	"github.com/graphene-chain/core/store"
)

// Engine runs order matching and margin calls against a store.
type Engine struct {
	Store *store.Store
}

func New(s *store.Store) *Engine {
	return &Engine{Store: s}
}

// MatchResult reports what happened to the newly-created order.
type MatchResult struct {
	FullyFilled bool
	Remaining   *big.Int
}

// ApplyOrder matches a newly-created limit order against resting orders on
// the opposite side of the same asset pair, filling at the resting order's
// price (price-time priority: earlier resting orders fill first since the
// secondary index iterates by price, ties broken by id). Any unfilled
// remainder stays resting in the book as the order itself.
func (e *Engine) ApplyOrder(id objects.ID, order *objects.LimitOrder, blockTime time.Time) MatchResult {
	remaining := new(big.Int).Set(order.ForSale)
	zeroPrice := objects.Price{
		Base:  objects.Amount{Value: big.NewInt(0)},
		Quote: objects.Amount{Value: big.NewInt(1)},
	}

	// The by_price index holds every resting order across every asset
	// pair; this scan relies on the per-candidate asset-pair filter below
	// rather than on index partitioning by market, a simplification noted
	// in the design ledger.
	store.LowerBound[objects.Price, *objects.LimitOrder](e.Store.LimitOrders, "by_price", zeroPrice, func(price objects.Price, counterID objects.ID, counter *objects.LimitOrder) bool {
		if remaining.Sign() == 0 {
			return false
		}
		if counterID == id {
			return true
		}
		if counter.SellPrice.Base.Asset != order.SellPrice.Quote.Asset || counter.SellPrice.Quote.Asset != order.SellPrice.Base.Asset {
			return true
		}
		// Cross iff the counter-order's implied buy price is at least as
		// generous as what this order is asking: counter.SellPrice sells
		// B for A at rate B/A; inverted it reads A/B, compared directly
		// against order.SellPrice (also A/B).
		if !counter.SellPrice.Invert().GreaterThan(order.SellPrice) && !counter.SellPrice.Invert().Equal(order.SellPrice) {
			return true
		}

		fillAmount := new(big.Int).Set(remaining)
		counterWants := counter.AmountToReceive()
		if counterWants.Cmp(fillAmount) < 0 {
			fillAmount = counterWants
		}
		if fillAmount.Sign() == 0 {
			return true
		}

		paidToCounter := counter.SellPrice.Invert().Mul(fillAmount)

		store.Modify(e.Store, e.Store.LimitOrders, counterID, func(o *objects.LimitOrder) *objects.LimitOrder {
			cp := o.Clone()
			cp.ForSale.Sub(cp.ForSale, paidToCounter)
			return cp
		})
		if updated, ok := e.Store.LimitOrders.Get(counterID); ok && updated.ForSale.Sign() == 0 {
			store.Remove(e.Store, e.Store.LimitOrders, counterID)
		}

		creditBalance(e.Store, counter.Seller, order.SellPrice.Base.Asset, fillAmount)
		creditBalance(e.Store, order.Seller, order.SellPrice.Quote.Asset, paidToCounter)

		e.Store.RecordFill(store.Fill{
			Base:   order.SellPrice.Base.Asset,
			Quote:  order.SellPrice.Quote.Asset,
			Price:  counter.SellPrice.Invert(),
			Amount: new(big.Int).Set(fillAmount),
			Time:   blockTime,
		})

		remaining.Sub(remaining, fillAmount)
		observability.Core().RecordEvaluation("limit_order_match", "filled")
		return true
	})

	if remaining.Sign() == 0 {
		store.Remove(e.Store, e.Store.LimitOrders, id)
		return MatchResult{FullyFilled: true, Remaining: remaining}
	}
	store.Modify(e.Store, e.Store.LimitOrders, id, func(o *objects.LimitOrder) *objects.LimitOrder {
		cp := o.Clone()
		cp.ForSale = remaining
		return cp
	})
	return MatchResult{FullyFilled: false, Remaining: remaining}
}

func creditBalance(s *store.Store, account, asset objects.ID, amount *big.Int) {
	if bal, ok := s.FindBalance(account, asset); ok {
		store.Modify(s, s.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
			cp := b.Clone()
			cp.Amount.Add(cp.Amount, amount)
			return cp
		})
		return
	}
	store.Create(s, s.Balances, func(id objects.ID) *objects.AccountBalance {
		return &objects.AccountBalance{ID: id, Account: account, Asset: asset, Amount: new(big.Int).Set(amount)}
	})
}

// CheckCallOrders scans every call order whose debt is the given bitasset's
// asset and closes each one whose collateral ratio has fallen below the
// feed's settlement price scaled by the maintenance ratio: the borrower is
// credited whatever collateral exceeds the debt's value at the
// max-short-squeeze price (nothing, if the position holds less), and the
// call order is removed. Called positions are not matched against the
// limit-order book, and a shortfall does not trigger global settlement.
// Grounded on native/lending/engine.go's Liquidate health-factor check
// generalized from a single liquidation call to an automatic sweep.
func (e *Engine) CheckCallOrders(bitassetID objects.ID) {
	bitasset, ok := e.Store.BitassetData.Get(bitassetID)
	if !ok || !bitasset.HasCurrentFeed || bitasset.Settled {
		return
	}
	feed := bitasset.CurrentFeed

	var toCall []objects.ID
	e.Store.CallOrders.Ascend(func(id objects.ID, co *objects.CallOrder) bool {
		if co.DebtAsset != bitasset.AssetID {
			return true
		}
		ratio := co.CollateralRatio(bitasset.BackingAssetID)
		maintenance := scaleBps(feed.SettlementPrice, feed.MaintenanceRatio)
		if ratio.LessThan(maintenance) {
			toCall = append(toCall, id)
		}
		return true
	})

	for _, id := range toCall {
		co, ok := e.Store.CallOrders.Get(id)
		if !ok {
			continue
		}
		settlePrice := scaleBps(feed.SettlementPrice, feed.MaxShortSqueeze)
		owed := settlePrice.Mul(co.Debt)
		if owed.Cmp(co.Collateral) > 0 {
			owed = new(big.Int).Set(co.Collateral)
		}
		creditBalance(e.Store, co.Borrower, bitasset.BackingAssetID, new(big.Int).Sub(co.Collateral, owed))
		store.Remove(e.Store, e.Store.CallOrders, id)
		observability.Core().RecordMarginCall(bitasset.AssetID.String())
	}
}

// scaleBps returns a price with its base amount scaled by bps/10000,
// i.e. p * (bps/10000), used to apply a maintenance-ratio or
// max-short-squeeze multiplier to a feed's settlement price.
func scaleBps(p objects.Price, bps uint16) objects.Price {
	base := new(big.Int).Mul(p.Base.Value, big.NewInt(int64(bps)))
	base.Div(base, big.NewInt(10000))
	return objects.Price{
		Base:  objects.Amount{Asset: p.Base.Asset, Value: base},
		Quote: objects.Amount{Asset: p.Quote.Asset, Value: new(big.Int).Set(p.Quote.Value)},
	}
}
