package eval

import (
	"math/big"
	"testing"
	"time"

	"github.com/graphene-chain/core/authority"
	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

func newTestContext(s *store.Store) *Context {
	return &Context{
		Store:     s,
		Params:    chainparams.Default(),
		Authority: authority.New(s, 2),
		BlockTime: time.Unix(0, 0).UTC(),
	}
}

func seedAccount(t *testing.T, s *store.Store, name string) objects.ID {
	t.Helper()
	id, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: name, Owner: objects.NewAuthority(1), Active: objects.NewAuthority(1)}
	})
	return id
}

func seedAsset(t *testing.T, s *store.Store, symbol string) objects.ID {
	t.Helper()
	id, _ := store.Create(s, s.Assets, func(id objects.ID) *objects.Asset {
		return &objects.Asset{ID: id, Symbol: symbol, Precision: 5}
	})
	return id
}

func seedBalance(t *testing.T, s *store.Store, account, asset objects.ID, amount int64) {
	t.Helper()
	store.Create(s, s.Balances, func(id objects.ID) *objects.AccountBalance {
		return &objects.AccountBalance{ID: id, Account: account, Asset: asset, Amount: big.NewInt(amount)}
	})
}

func TestTransferEvaluatorMovesBalanceBetweenExistingAccounts(t *testing.T) {
	s := store.New()
	ctx := newTestContext(s)
	engine := NewEngine()

	alice := seedAccount(t, s, "alice")
	bob := seedAccount(t, s, "bob")
	asset := seedAsset(t, s, "GPH")
	seedBalance(t, s, alice, asset, 100)
	seedBalance(t, s, bob, asset, 0)

	op := objects.Transfer{From: alice, To: bob, Amount: objects.Amount{Asset: asset, Value: big.NewInt(40)}}
	if _, err := engine.Apply(ctx, op); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	fromBal, _ := s.FindBalance(alice, asset)
	toBal, _ := s.FindBalance(bob, asset)
	if fromBal.Amount.Int64() != 60 {
		t.Fatalf("sender balance = %d, want 60", fromBal.Amount.Int64())
	}
	if toBal.Amount.Int64() != 40 {
		t.Fatalf("recipient balance = %d, want 40", toBal.Amount.Int64())
	}
}

func TestTransferEvaluatorRejectsSelfTransfer(t *testing.T) {
	s := store.New()
	ctx := newTestContext(s)
	engine := NewEngine()

	alice := seedAccount(t, s, "alice")
	asset := seedAsset(t, s, "GPH")
	seedBalance(t, s, alice, asset, 100)

	op := objects.Transfer{From: alice, To: alice, Amount: objects.Amount{Asset: asset, Value: big.NewInt(1)}}
	if _, err := engine.Apply(ctx, op); err == nil {
		t.Fatalf("expected self-transfer to be rejected")
	}
}

func TestTransferEvaluatorRejectsInsufficientBalance(t *testing.T) {
	s := store.New()
	ctx := newTestContext(s)
	engine := NewEngine()

	alice := seedAccount(t, s, "alice")
	bob := seedAccount(t, s, "bob")
	asset := seedAsset(t, s, "GPH")
	seedBalance(t, s, alice, asset, 10)

	op := objects.Transfer{From: alice, To: bob, Amount: objects.Amount{Asset: asset, Value: big.NewInt(100)}}
	if _, err := engine.Apply(ctx, op); err == nil {
		t.Fatalf("expected insufficient balance to be rejected")
	}
}

func TestTransferEvaluatorCreatesRecipientBalanceWhenMissing(t *testing.T) {
	s := store.New()
	ctx := newTestContext(s)
	engine := NewEngine()

	alice := seedAccount(t, s, "alice")
	bob := seedAccount(t, s, "bob")
	asset := seedAsset(t, s, "GPH")
	seedBalance(t, s, alice, asset, 100)

	op := objects.Transfer{From: alice, To: bob, Amount: objects.Amount{Asset: asset, Value: big.NewInt(25)}}
	result, err := engine.Apply(ctx, op)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.NewObjectID.IsZero() {
		t.Fatalf("expected a newly created balance id")
	}
	toBal, ok := s.FindBalance(bob, asset)
	if !ok || toBal.Amount.Int64() != 25 {
		t.Fatalf("expected recipient balance created with 25, got %+v ok=%v", toBal, ok)
	}
}
