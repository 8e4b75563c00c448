package objects

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
)

func TestAuthorityRLPRoundTrip(t *testing.T) {
	a := NewAuthority(2)
	a.AccountAuths[NewID(SpaceProtocol, TypeAccount, 1)] = 1
	a.KeyAuths[PubKey{0x01, 0x02}] = 2
	a.AddressAuths[LegacyAddress{0x03}] = 3

	encoded, err := rlp.EncodeToBytes(a)
	if err != nil {
		t.Fatalf("EncodeToBytes: %v", err)
	}

	var decoded Authority
	if err := rlp.DecodeBytes(encoded, &decoded); err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	if decoded.Threshold != a.Threshold {
		t.Fatalf("Threshold = %d, want %d", decoded.Threshold, a.Threshold)
	}
	if decoded.AccountAuths[NewID(SpaceProtocol, TypeAccount, 1)] != 1 {
		t.Fatalf("missing decoded account auth")
	}
	if decoded.KeyAuths[PubKey{0x01, 0x02}] != 2 {
		t.Fatalf("missing decoded key auth")
	}
	if decoded.AddressAuths[LegacyAddress{0x03}] != 3 {
		t.Fatalf("missing decoded address auth")
	}
}

func TestApprovalSetRLPRoundTrip(t *testing.T) {
	s := NewApprovalSet()
	s.Accounts[NewID(SpaceProtocol, TypeAccount, 1)] = struct{}{}
	s.Owners[NewID(SpaceProtocol, TypeAccount, 2)] = struct{}{}
	s.Keys[PubKey{0x09}] = struct{}{}

	encoded, err := rlp.EncodeToBytes(s)
	if err != nil {
		t.Fatalf("EncodeToBytes: %v", err)
	}
	var decoded ApprovalSet
	if err := rlp.DecodeBytes(encoded, &decoded); err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if _, ok := decoded.Accounts[NewID(SpaceProtocol, TypeAccount, 1)]; !ok {
		t.Fatalf("missing decoded account")
	}
	if _, ok := decoded.Owners[NewID(SpaceProtocol, TypeAccount, 2)]; !ok {
		t.Fatalf("missing decoded owner")
	}
	if _, ok := decoded.Keys[PubKey{0x09}]; !ok {
		t.Fatalf("missing decoded key")
	}
}

func TestLimitOrderRLPRoundTripPreservesTimeToSecondPrecision(t *testing.T) {
	expiration := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o := LimitOrder{
		ID:          NewID(SpaceProtocol, TypeLimitOrder, 1),
		Seller:      NewID(SpaceProtocol, TypeAccount, 2),
		ForSale:     big.NewInt(1000),
		SellPrice:   Price{Base: amount(TypeAsset, 1, 1), Quote: amount(TypeAsset, 2, 2)},
		Expiration:  expiration,
		DeferredFee: big.NewInt(5),
	}

	encoded, err := rlp.EncodeToBytes(o)
	if err != nil {
		t.Fatalf("EncodeToBytes: %v", err)
	}
	var decoded LimitOrder
	if err := rlp.DecodeBytes(encoded, &decoded); err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if !decoded.Expiration.Equal(expiration) {
		t.Fatalf("Expiration = %v, want %v", decoded.Expiration, expiration)
	}
	if decoded.ForSale.Cmp(o.ForSale) != 0 {
		t.Fatalf("ForSale = %s, want %s", decoded.ForSale, o.ForSale)
	}
	if decoded.DeferredFee.Cmp(o.DeferredFee) != 0 {
		t.Fatalf("DeferredFee = %s, want %s", decoded.DeferredFee, o.DeferredFee)
	}
}
