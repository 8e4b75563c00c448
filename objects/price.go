package objects

import "math/big"

// Amount pairs an asset id with an integer quantity denominated in that
// asset's smallest unit.
type Amount struct {
	Asset ID
	Value *big.Int
}

// Clone deep-copies the amount.
func (a Amount) Clone() Amount {
	out := Amount{Asset: a.Asset}
	if a.Value != nil {
		out.Value = new(big.Int).Set(a.Value)
	} else {
		out.Value = big.NewInt(0)
	}
	return out
}

// Price is a ratio base/quote of two assets with integer amounts. All
// arithmetic is performed with math/big, which gives exact rational results
// without the fixed-width overflow spec.md §4.D warns about (the teacher's
// own ledger math — native/lending, core/state's balance accounting —
// universally uses big.Int for the same reason; this core follows that
// convention rather than introducing a dedicated u128 type).
type Price struct {
	Base  Amount
	Quote Amount
}

// Clone deep-copies the price.
func (p Price) Clone() Price {
	return Price{Base: p.Base.Clone(), Quote: p.Quote.Clone()}
}

// IsZero reports whether the price has no base or quote amount set, which
// is used as the "no current feed" sentinel in BitassetData.
func (p Price) IsZero() bool {
	return p.Base.Value == nil || p.Quote.Value == nil ||
		(p.Base.Value.Sign() == 0 && p.Quote.Value.Sign() == 0)
}

// Invert swaps base and quote, producing the reciprocal price.
func (p Price) Invert() Price {
	return Price{Base: p.Quote.Clone(), Quote: p.Base.Clone()}
}

// Mul multiplies an amount of p.Quote's asset by the price, returning an
// amount in p.Base's asset: result = quoteAmount * base/quote, rounded down.
func (p Price) Mul(quoteAmount *big.Int) *big.Int {
	if quoteAmount == nil || p.Quote.Value == nil || p.Quote.Value.Sign() == 0 {
		return big.NewInt(0)
	}
	num := new(big.Int).Mul(quoteAmount, p.Base.Value)
	return num.Div(num, p.Quote.Value)
}

// LessThan reports whether p < other as a base/quote ratio, using exact
// cross-multiplication (p.Base/p.Quote < o.Base/o.Quote <=> p.Base*o.Quote <
// o.Base*p.Quote), which avoids floating point entirely.
func (p Price) LessThan(other Price) bool {
	left := new(big.Int).Mul(p.Base.Value, other.Quote.Value)
	right := new(big.Int).Mul(other.Base.Value, p.Quote.Value)
	return left.Cmp(right) < 0
}

// GreaterThan reports whether p > other.
func (p Price) GreaterThan(other Price) bool {
	return other.LessThan(p)
}

// Equal reports whether p == other as a ratio.
func (p Price) Equal(other Price) bool {
	return !p.LessThan(other) && !other.LessThan(p)
}
