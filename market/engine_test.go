package market

import (
	"math/big"
	"testing"
	"time"

	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

func newAmount(asset objects.ID, value int64) objects.Amount {
	return objects.Amount{Asset: asset, Value: big.NewInt(value)}
}

func TestApplyOrderFullyFillsAgainstCrossingRestingOrder(t *testing.T) {
	s := store.New()
	engine := New(s)

	assetA := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1)
	assetB := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 2)
	sellerOne := objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1)
	sellerTwo := objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 2)

	restingID, _ := store.Create(s, s.LimitOrders, func(id objects.ID) *objects.LimitOrder {
		return &objects.LimitOrder{
			ID:         id,
			Seller:     sellerOne,
			ForSale:    big.NewInt(10),
			SellPrice:  objects.Price{Base: newAmount(assetA, 10), Quote: newAmount(assetB, 10)},
			Expiration: time.Now().Add(time.Hour),
		}
	})

	takerID, taker := store.Create(s, s.LimitOrders, func(id objects.ID) *objects.LimitOrder {
		return &objects.LimitOrder{
			ID:         id,
			Seller:     sellerTwo,
			ForSale:    big.NewInt(5),
			SellPrice:  objects.Price{Base: newAmount(assetB, 5), Quote: newAmount(assetA, 5)},
			Expiration: time.Now().Add(time.Hour),
		}
	})

	result := engine.ApplyOrder(takerID, taker, time.Now())
	if !result.FullyFilled {
		t.Fatalf("expected the crossing taker order to fully fill, got %+v", result)
	}

	if _, ok := s.LimitOrders.Get(takerID); ok {
		t.Fatalf("expected fully filled taker order to be removed from the book")
	}
	restingAfter, ok := s.LimitOrders.Get(restingID)
	if !ok {
		t.Fatalf("expected partially-filled resting order to remain in the book")
	}
	if restingAfter.ForSale.Int64() != 5 {
		t.Fatalf("resting order ForSale = %d, want 5", restingAfter.ForSale.Int64())
	}

	sellerOneBal, ok := s.FindBalance(sellerOne, assetB)
	if !ok || sellerOneBal.Amount.Int64() != 5 {
		t.Fatalf("expected resting seller credited 5 of asset B, got %+v ok=%v", sellerOneBal, ok)
	}
	sellerTwoBal, ok := s.FindBalance(sellerTwo, assetA)
	if !ok || sellerTwoBal.Amount.Int64() != 5 {
		t.Fatalf("expected taker credited 5 of asset A, got %+v ok=%v", sellerTwoBal, ok)
	}
}

func TestApplyOrderRestsWhenNoCounterOrderCrosses(t *testing.T) {
	s := store.New()
	engine := New(s)

	assetA := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1)
	assetB := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 2)
	seller := objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1)

	id, order := store.Create(s, s.LimitOrders, func(id objects.ID) *objects.LimitOrder {
		return &objects.LimitOrder{
			ID:         id,
			Seller:     seller,
			ForSale:    big.NewInt(10),
			SellPrice:  objects.Price{Base: newAmount(assetA, 10), Quote: newAmount(assetB, 10)},
			Expiration: time.Now().Add(time.Hour),
		}
	})

	result := engine.ApplyOrder(id, order, time.Now())
	if result.FullyFilled {
		t.Fatalf("expected no fill with an empty book")
	}
	if result.Remaining.Int64() != 10 {
		t.Fatalf("Remaining = %d, want 10", result.Remaining.Int64())
	}
	if _, ok := s.LimitOrders.Get(id); !ok {
		t.Fatalf("expected the unmatched order to remain resting in the book")
	}
}

func TestCheckCallOrdersLiquidatesUndercollateralizedPosition(t *testing.T) {
	s := store.New()
	engine := New(s)

	backingAsset := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1)
	debtAsset := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 2)
	borrower := objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1)

	bitassetID, _ := store.Create(s, s.BitassetData, func(id objects.ID) *objects.BitassetData {
		return &objects.BitassetData{
			ID:             id,
			AssetID:        debtAsset,
			BackingAssetID: backingAsset,
			HasCurrentFeed: true,
			CurrentFeed: objects.PriceFeed{
				SettlementPrice:  objects.Price{Base: newAmount(backingAsset, 1), Quote: newAmount(debtAsset, 1)},
				MaintenanceRatio: 10000,
				MaxShortSqueeze:  10000,
			},
		}
	})

	store.Create(s, s.CallOrders, func(id objects.ID) *objects.CallOrder {
		return &objects.CallOrder{
			ID:         id,
			Borrower:   borrower,
			Collateral: big.NewInt(50),
			Debt:       big.NewInt(100),
			DebtAsset:  debtAsset,
		}
	})

	engine.CheckCallOrders(bitassetID)

	if s.CallOrders.Len() != 0 {
		t.Fatalf("expected undercollateralized call order to be closed, %d remain", s.CallOrders.Len())
	}
	bal, ok := s.FindBalance(borrower, backingAsset)
	if !ok {
		t.Fatalf("expected borrower to be credited leftover collateral")
	}
	if bal.Amount.Sign() < 0 {
		t.Fatalf("expected non-negative leftover collateral credit, got %s", bal.Amount)
	}
}
