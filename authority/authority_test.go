package authority

import (
	"testing"

	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

func TestSatisfiesDirectKeysAndAddresses(t *testing.T) {
	s := store.New()
	r := New(s, 2)

	key := objects.PubKey{0x01}
	addr := objects.LegacyAddress{0x02}

	auth := objects.NewAuthority(3)
	auth.KeyAuths[key] = 2
	auth.AddressAuths[addr] = 1

	ks := Keyset{Keys: map[objects.PubKey]struct{}{key: {}}, Addresses: map[objects.LegacyAddress]struct{}{addr: {}}}
	ok, err := r.Satisfies(auth, ks)
	if err != nil {
		t.Fatalf("Satisfies: %v", err)
	}
	if !ok {
		t.Fatalf("expected combined key+address weight to meet threshold")
	}
}

func TestSatisfiesFailsBelowThreshold(t *testing.T) {
	s := store.New()
	r := New(s, 2)

	key := objects.PubKey{0x01}
	auth := objects.NewAuthority(5)
	auth.KeyAuths[key] = 1

	ks := NewKeyset([]objects.PubKey{key})
	ok, err := r.Satisfies(auth, ks)
	if err != nil {
		t.Fatalf("Satisfies: %v", err)
	}
	if ok {
		t.Fatalf("expected insufficient weight to fail")
	}
}

func TestSatisfiesRecursesIntoDelegatedAccountAuthority(t *testing.T) {
	s := store.New()
	r := New(s, 2)

	delegateKey := objects.PubKey{0x03}
	delegateID, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		delegateActive := objects.NewAuthority(1)
		delegateActive.KeyAuths[delegateKey] = 1
		return &objects.Account{ID: id, Name: "delegate", Active: delegateActive}
	})

	auth := objects.NewAuthority(1)
	auth.AccountAuths[delegateID] = 1

	ks := NewKeyset([]objects.PubKey{delegateKey})
	ok, err := r.Satisfies(auth, ks)
	if err != nil {
		t.Fatalf("Satisfies: %v", err)
	}
	if !ok {
		t.Fatalf("expected the delegated account's own satisfied authority to count toward the parent")
	}
}

func TestSatisfiesRejectsDepthBeyondMaxDepth(t *testing.T) {
	s := store.New()
	r := New(s, 0)

	delegateKey := objects.PubKey{0x04}
	delegateID, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		delegateActive := objects.NewAuthority(1)
		delegateActive.KeyAuths[delegateKey] = 1
		return &objects.Account{ID: id, Name: "delegate", Active: delegateActive}
	})

	auth := objects.NewAuthority(1)
	auth.AccountAuths[delegateID] = 1

	ks := NewKeyset([]objects.PubKey{delegateKey})
	if _, err := r.Satisfies(auth, ks); err == nil {
		t.Fatalf("expected recursion past MaxDepth to return an error")
	}
}

func TestMinimalSignaturesPicksHighestWeightFirst(t *testing.T) {
	s := store.New()
	r := New(s, 2)

	big := objects.PubKey{0x01}
	small := objects.PubKey{0x02}

	auth := objects.NewAuthority(3)
	auth.KeyAuths[big] = 3
	auth.KeyAuths[small] = 1

	available := NewKeyset([]objects.PubKey{big, small})
	chosen, err := r.MinimalSignatures(auth, available)
	if err != nil {
		t.Fatalf("MinimalSignatures: %v", err)
	}
	if len(chosen) != 1 || chosen[0] != big {
		t.Fatalf("expected the single highest-weight key to suffice, got %v", chosen)
	}
}

func TestMinimalSignaturesErrorsWhenInsufficient(t *testing.T) {
	s := store.New()
	r := New(s, 2)

	key := objects.PubKey{0x01}
	auth := objects.NewAuthority(10)
	auth.KeyAuths[key] = 1

	available := NewKeyset([]objects.PubKey{key})
	if _, err := r.MinimalSignatures(auth, available); err == nil {
		t.Fatalf("expected an error when no combination of available keys meets the threshold")
	}
}
