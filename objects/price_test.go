package objects

import (
	"math/big"
	"testing"
)

func amount(asset Type, instance uint64, value int64) Amount {
	return Amount{Asset: NewID(SpaceProtocol, asset, instance), Value: big.NewInt(value)}
}

func TestPriceInvertSwapsBaseAndQuote(t *testing.T) {
	p := Price{Base: amount(TypeAsset, 1, 2), Quote: amount(TypeAsset, 2, 1)}
	inv := p.Invert()
	if inv.Base.Value.Cmp(p.Quote.Value) != 0 || inv.Quote.Value.Cmp(p.Base.Value) != 0 {
		t.Fatalf("Invert() did not swap base/quote: %+v", inv)
	}
}

func TestPriceMulRoundsDown(t *testing.T) {
	p := Price{Base: amount(TypeAsset, 1, 1), Quote: amount(TypeAsset, 2, 3)}
	got := p.Mul(big.NewInt(10))
	if want := big.NewInt(3); got.Cmp(want) != 0 {
		t.Fatalf("Mul() = %s, want %s", got, want)
	}
}

func TestPriceLessThanGreaterThanEqual(t *testing.T) {
	cheap := Price{Base: amount(TypeAsset, 1, 1), Quote: amount(TypeAsset, 2, 2)}
	expensive := Price{Base: amount(TypeAsset, 1, 1), Quote: amount(TypeAsset, 2, 1)}

	if !cheap.LessThan(expensive) {
		t.Fatalf("expected 1/2 < 1/1")
	}
	if !expensive.GreaterThan(cheap) {
		t.Fatalf("expected 1/1 > 1/2")
	}
	equal := Price{Base: amount(TypeAsset, 1, 2), Quote: amount(TypeAsset, 2, 4)}
	if !cheap.Equal(equal) {
		t.Fatalf("expected 1/2 == 2/4 as a ratio")
	}
}

func TestPriceIsZero(t *testing.T) {
	var zero Price
	if !zero.IsZero() {
		t.Fatalf("expected zero-value price to report IsZero")
	}
	nonzero := Price{Base: amount(TypeAsset, 1, 1), Quote: amount(TypeAsset, 2, 1)}
	if nonzero.IsZero() {
		t.Fatalf("expected non-zero price to not report IsZero")
	}
}

func TestAmountCloneIsIndependent(t *testing.T) {
	a := amount(TypeAsset, 1, 5)
	clone := a.Clone()
	clone.Value.SetInt64(999)
	if a.Value.Int64() != 5 {
		t.Fatalf("mutating clone leaked into original: %s", a.Value)
	}
}
