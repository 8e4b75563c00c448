package api

import (
	"math/big"
	"testing"
	"time"

	"github.com/graphene-chain/core/authority"
	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/chainproc"
	"github.com/graphene-chain/core/eval"
	"github.com/graphene-chain/core/market"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/storage"
	"github.com/graphene-chain/core/store"
)

func newTestService(s *store.Store) *QueryService {
	chain := chainproc.NewChain(storage.NewMemDB())
	return New(s, chainparams.Default(), authority.New(s, 2), eval.NewEngine(), market.New(s), chain)
}

func TestGetAccountsOmitsMissingIDs(t *testing.T) {
	s := store.New()
	q := newTestService(s)

	id, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "alice"}
	})
	missing := objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 9999)

	got := q.GetAccounts([]objects.ID{id, missing})
	if len(got) != 1 || got[0].Name != "alice" {
		t.Fatalf("expected only the existing account, got %+v", got)
	}
}

func TestLookupAccountsReturnsInNameOrder(t *testing.T) {
	s := store.New()
	q := newTestService(s)

	store.Create(s, s.Accounts, func(id objects.ID) *objects.Account { return &objects.Account{ID: id, Name: "bob"} })
	store.Create(s, s.Accounts, func(id objects.ID) *objects.Account { return &objects.Account{ID: id, Name: "alice"} })
	store.Create(s, s.Accounts, func(id objects.ID) *objects.Account { return &objects.Account{ID: id, Name: "charlie"} })

	got := q.LookupAccounts("", 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(got))
	}
	if got[0].Name != "alice" || got[1].Name != "bob" || got[2].Name != "charlie" {
		t.Fatalf("expected alphabetical order, got %v, %v, %v", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestGetAccountBalancesReturnsAllHeldAssets(t *testing.T) {
	s := store.New()
	q := newTestService(s)

	account, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account { return &objects.Account{ID: id, Name: "alice"} })
	assetA := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1)
	assetB := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 2)
	store.Create(s, s.Balances, func(id objects.ID) *objects.AccountBalance {
		return &objects.AccountBalance{ID: id, Account: account, Asset: assetA, Amount: big.NewInt(10)}
	})
	store.Create(s, s.Balances, func(id objects.ID) *objects.AccountBalance {
		return &objects.AccountBalance{ID: id, Account: account, Asset: assetB, Amount: big.NewInt(20)}
	})

	got := q.GetAccountBalances(account)
	if len(got) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(got))
	}
}

func TestGetOrderBookSeparatesAsksFromBids(t *testing.T) {
	s := store.New()
	q := newTestService(s)

	assetA := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1)
	assetB := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 2)
	seller := objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1)

	store.Create(s, s.LimitOrders, func(id objects.ID) *objects.LimitOrder {
		return &objects.LimitOrder{
			ID:         id,
			Seller:     seller,
			ForSale:    big.NewInt(10),
			SellPrice:  objects.Price{Base: objects.Amount{Asset: assetA, Value: big.NewInt(10)}, Quote: objects.Amount{Asset: assetB, Value: big.NewInt(10)}},
			Expiration: time.Now().Add(time.Hour),
		}
	})

	book := q.GetOrderBook(assetA, assetB, 10)
	if len(book.Asks) != 1 {
		t.Fatalf("expected 1 ask, got %d", len(book.Asks))
	}
	if len(book.Bids) != 0 {
		t.Fatalf("expected 0 bids, got %d", len(book.Bids))
	}
}

func TestGetRequiredSignaturesPicksMinimalSubset(t *testing.T) {
	s := store.New()
	q := newTestService(s)

	key := objects.PubKey{0x01}
	active := objects.NewAuthority(1)
	active.KeyAuths[key] = 1
	from, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "alice", Active: active}
	})
	to := objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 99)

	tx := objects.Transaction{
		Operations: []objects.Operation{
			objects.Transfer{From: from, To: to, Amount: objects.Amount{Asset: objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1), Value: big.NewInt(1)}},
		},
	}

	got, err := q.GetRequiredSignatures(tx, authority.NewKeyset([]objects.PubKey{key}))
	if err != nil {
		t.Fatalf("GetRequiredSignatures: %v", err)
	}
	if len(got) != 1 || got[0] != key {
		t.Fatalf("expected exactly the one signing key, got %v", got)
	}
}

func TestVerifyAuthorityReflectsSatisfaction(t *testing.T) {
	s := store.New()
	q := newTestService(s)

	key := objects.PubKey{0x01}
	other := objects.PubKey{0x02}
	active := objects.NewAuthority(1)
	active.KeyAuths[key] = 1
	from, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "alice", Active: active}
	})
	to := objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 99)
	tx := objects.Transaction{
		Operations: []objects.Operation{
			objects.Transfer{From: from, To: to, Amount: objects.Amount{Asset: objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1), Value: big.NewInt(1)}},
		},
	}

	ok, err := q.VerifyAuthority(tx, authority.NewKeyset([]objects.PubKey{key}))
	if err != nil {
		t.Fatalf("VerifyAuthority: %v", err)
	}
	if !ok {
		t.Fatalf("expected the owning key to satisfy authority")
	}

	ok, err = q.VerifyAuthority(tx, authority.NewKeyset([]objects.PubKey{other}))
	if err != nil {
		t.Fatalf("VerifyAuthority: %v", err)
	}
	if ok {
		t.Fatalf("expected an unrelated key to fail to satisfy authority")
	}
}

func TestValidateTransactionRejectsExpiredTransaction(t *testing.T) {
	s := store.New()
	q := newTestService(s)

	tx := objects.Transaction{Expiration: time.Unix(0, 0).UTC()}
	err := q.ValidateTransaction(tx, time.Unix(100, 0).UTC(), authority.Keyset{})
	if err == nil {
		t.Fatalf("expected an expired transaction to be rejected")
	}
}

func TestValidateTransactionLeavesNoTraceInStore(t *testing.T) {
	s := store.New()
	q := newTestService(s)

	key := objects.PubKey{0x01}
	active := objects.NewAuthority(1)
	active.KeyAuths[key] = 1
	from, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "alice", Active: active}
	})
	asset := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1)
	store.Create(s, s.Balances, func(id objects.ID) *objects.AccountBalance {
		return &objects.AccountBalance{ID: id, Account: from, Asset: asset, Amount: big.NewInt(100)}
	})
	to, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "bob"}
	})

	balancesBefore := s.Balances.Len()
	tx := objects.Transaction{
		Expiration: time.Unix(1000, 0).UTC(),
		Operations: []objects.Operation{
			objects.Transfer{From: from, To: to, Amount: objects.Amount{Asset: asset, Value: big.NewInt(10)}},
		},
	}
	if err := q.ValidateTransaction(tx, time.Unix(0, 0).UTC(), authority.Keyset{}); err != nil {
		t.Fatalf("ValidateTransaction: %v", err)
	}
	if s.Balances.Len() != balancesBefore {
		t.Fatalf("expected ValidateTransaction to leave the store unchanged, balances went from %d to %d", balancesBefore, s.Balances.Len())
	}
}

func TestGetBlockHeaderStripsTransactions(t *testing.T) {
	s := store.New()
	chain := chainproc.NewChain(storage.NewMemDB())
	q := New(s, chainparams.Default(), authority.New(s, 2), eval.NewEngine(), market.New(s), chain)

	b := objects.Block{
		Timestamp: time.Unix(0, 0).UTC(),
		Transactions: []objects.Transaction{
			{Expiration: time.Unix(1, 0).UTC()},
		},
	}
	if err := chain.RecordGenesis(b); err != nil {
		t.Fatalf("RecordGenesis: %v", err)
	}

	header, ok, err := q.GetBlockHeader(0)
	if err != nil {
		t.Fatalf("GetBlockHeader: %v", err)
	}
	if !ok {
		t.Fatalf("expected block 0 to be found")
	}
	if len(header.Transactions) != 0 {
		t.Fatalf("expected GetBlockHeader to strip transactions, got %d", len(header.Transactions))
	}

	full, ok, err := q.GetBlock(0)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if !ok || len(full.Transactions) != 1 {
		t.Fatalf("expected GetBlock to retain transactions, got ok=%v count=%d", ok, len(full.Transactions))
	}
}
