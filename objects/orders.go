package objects

import (
	"math/big"
	"time"
)

// LimitOrder offers ForSale (denominated in SellPrice.Base's asset) in
// exchange for SellPrice.Quote's asset, expiring at Expiration.
type LimitOrder struct {
	ID           ID
	Seller       ID
	ForSale      *big.Int // remaining amount of SellPrice.Base's asset
	SellPrice    Price
	Expiration   time.Time
	DeferredFee  *big.Int // fee withheld until the order fully fills or is cancelled
}

func (o *LimitOrder) Clone() *LimitOrder {
	if o == nil {
		return nil
	}
	cp := *o
	if o.ForSale != nil {
		cp.ForSale = new(big.Int).Set(o.ForSale)
	}
	cp.SellPrice = o.SellPrice.Clone()
	if o.DeferredFee != nil {
		cp.DeferredFee = new(big.Int).Set(o.DeferredFee)
	}
	return &cp
}

// AmountToReceive returns the quote-asset amount this order is asking for at
// its remaining ForSale quantity.
func (o *LimitOrder) AmountToReceive() *big.Int {
	if o.ForSale == nil || o.SellPrice.Base.Value == nil || o.SellPrice.Base.Value.Sign() == 0 {
		return big.NewInt(0)
	}
	num := new(big.Int).Mul(o.ForSale, o.SellPrice.Quote.Value)
	return num.Div(num, o.SellPrice.Base.Value)
}

// CallOrder is a collateralized debt position (CDP): Borrower posted
// Collateral (in the backing asset) against Debt (in the market-issued
// asset). CallPrice is derived and kept consistent with the by-price index
// by the store's modify primitive.
type CallOrder struct {
	ID         ID
	Borrower   ID
	Collateral *big.Int // amount of the backing asset
	Debt       *big.Int // amount of the market-issued asset
	DebtAsset  ID
	CallPrice  Price
}

func (o *CallOrder) Clone() *CallOrder {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Collateral != nil {
		cp.Collateral = new(big.Int).Set(o.Collateral)
	}
	if o.Debt != nil {
		cp.Debt = new(big.Int).Set(o.Debt)
	}
	cp.CallPrice = o.CallPrice.Clone()
	return &cp
}

// CollateralRatio returns collateral/debt as a Price in (backing/debt) terms,
// used to order the by-collateral-ratio secondary index.
func (o *CallOrder) CollateralRatio(backingAsset ID) Price {
	return Price{
		Base:  Amount{Asset: backingAsset, Value: new(big.Int).Set(o.Collateral)},
		Quote: Amount{Asset: o.DebtAsset, Value: new(big.Int).Set(o.Debt)},
	}
}

// IsClosed reports whether the position has been fully unwound.
func (o *CallOrder) IsClosed() bool {
	return o.Debt == nil || o.Debt.Sign() == 0
}

// ForceSettlement is a queued request to redeem a market-issued asset
// balance at the feed (or settlement-fund) price.
type ForceSettlement struct {
	ID             ID
	Owner          ID
	Balance        Amount // amount of the market-issued asset being settled
	SettlementDate time.Time
}

func (f *ForceSettlement) Clone() *ForceSettlement {
	if f == nil {
		return nil
	}
	cp := *f
	cp.Balance = f.Balance.Clone()
	return &cp
}

// CollateralBid is an offer of additional collateral made during a
// globally-settled state, competing to take over a slice of debt at
// revival.
type CollateralBid struct {
	ID            ID
	Bidder        ID
	AssetID       ID      // the settled market-issued asset
	Collateral    *big.Int
	DebtCovered   *big.Int // debt this bid is willing to absorb
	InvSwanPrice  Price    // collateral/debt offered, inverse of the swan price
}

func (b *CollateralBid) Clone() *CollateralBid {
	if b == nil {
		return nil
	}
	cp := *b
	if b.Collateral != nil {
		cp.Collateral = new(big.Int).Set(b.Collateral)
	}
	if b.DebtCovered != nil {
		cp.DebtCovered = new(big.Int).Set(b.DebtCovered)
	}
	cp.InvSwanPrice = b.InvSwanPrice.Clone()
	return &cp
}
