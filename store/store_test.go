package store

import (
	"math/big"
	"testing"

	"github.com/graphene-chain/core/objects"
)

func TestCreateAllocatesSequentialIDs(t *testing.T) {
	s := New()

	id1, acct1 := Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "alice"}
	})
	id2, acct2 := Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "bob"}
	})

	if id1.Instance != 0 || id2.Instance != 1 {
		t.Fatalf("expected sequential instances, got %d then %d", id1.Instance, id2.Instance)
	}
	if acct1.Name != "alice" || acct2.Name != "bob" {
		t.Fatalf("unexpected built values: %q, %q", acct1.Name, acct2.Name)
	}
	if got, ok := s.Accounts.Get(id1); !ok || got.Name != "alice" {
		t.Fatalf("account not retrievable after create")
	}
}

func TestModifyReplacesValueAndRecordsUndo(t *testing.T) {
	s := New()
	id, _ := Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "alice"}
	})

	sess := s.StartUndoSession()
	_, ok := Modify(s, s.Accounts, id, func(a *objects.Account) *objects.Account {
		cp := a.Clone()
		cp.Name = "alice2"
		return cp
	})
	if !ok {
		t.Fatalf("expected Modify to find existing account")
	}
	if got, _ := s.Accounts.Get(id); got.Name != "alice2" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}

	sess.Undo()
	if got, _ := s.Accounts.Get(id); got.Name != "alice" {
		t.Fatalf("expected Undo to restore original name, got %q", got.Name)
	}
}

func TestRemoveThenUndoReinserts(t *testing.T) {
	s := New()
	id, _ := Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "alice"}
	})

	sess := s.StartUndoSession()
	if !Remove(s, s.Accounts, id) {
		t.Fatalf("expected Remove to succeed")
	}
	if _, ok := s.Accounts.Get(id); ok {
		t.Fatalf("expected account to be gone after Remove")
	}
	sess.Undo()
	if _, ok := s.Accounts.Get(id); !ok {
		t.Fatalf("expected Undo to reinsert removed account")
	}
}

func TestNestedUndoSessionsMustCloseLIFO(t *testing.T) {
	s := New()
	outer := s.StartUndoSession()
	inner := s.StartUndoSession()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when closing sessions out of order")
		}
	}()
	outer.Undo()
	inner.Undo()
}

func TestCommitFoldsIntoParentSession(t *testing.T) {
	s := New()
	outer := s.StartUndoSession()
	id, _ := Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{ID: id, Name: "alice"}
	})

	inner := s.StartUndoSession()
	Create(s, s.Accounts, func(innerID objects.ID) *objects.Account {
		return &objects.Account{ID: innerID, Name: "bob"}
	})
	inner.Commit()

	if s.Depth() != 1 {
		t.Fatalf("expected depth 1 after commit, got %d", s.Depth())
	}

	outer.Undo()
	if _, ok := s.Accounts.Get(id); ok {
		t.Fatalf("expected outer Undo to also revert the committed inner create")
	}
}

func TestRecentFillsReturnsMostRecentFirstForPair(t *testing.T) {
	s := New()
	base := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1)
	quote := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 2)
	other := objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 3)

	s.RecordFill(Fill{Base: base, Quote: quote, Amount: big.NewInt(1)})
	s.RecordFill(Fill{Base: base, Quote: other, Amount: big.NewInt(1)})
	s.RecordFill(Fill{Base: base, Quote: quote, Amount: big.NewInt(2)})

	fills := s.RecentFills(base, quote, 10)
	if len(fills) != 2 {
		t.Fatalf("expected 2 fills for the pair, got %d", len(fills))
	}
	if fills[0].Amount.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected most recent fill first")
	}
}
