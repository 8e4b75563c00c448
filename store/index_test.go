package store

import (
	"testing"

	"github.com/graphene-chain/core/objects"
)

func TestIndexInsertGetRemove(t *testing.T) {
	idx := NewIndex[*objects.Account](objects.TypeAccount)
	id := idx.NextID()
	idx.Insert(id, &objects.Account{ID: id, Name: "alice"})

	got, ok := idx.Get(id)
	if !ok || got.Name != "alice" {
		t.Fatalf("expected inserted account to be retrievable")
	}
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}

	idx.Remove(id, got)
	if _, ok := idx.Get(id); ok {
		t.Fatalf("expected account to be gone after Remove")
	}
	if idx.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after remove", idx.Len())
	}
}

func TestIndexNextIDIsMonotonicAfterInsert(t *testing.T) {
	idx := NewIndex[*objects.Account](objects.TypeAccount)
	first := idx.NextID()
	idx.Insert(first, &objects.Account{ID: first})
	second := idx.NextID()
	if second.Instance <= first.Instance {
		t.Fatalf("expected NextID to advance past inserted instance: %d then %d", first.Instance, second.Instance)
	}
}

func TestSecondaryIndexOrdersByNameAscending(t *testing.T) {
	idx := NewIndex[*objects.Account](objects.TypeAccount)
	AddSecondary[string, *objects.Account](idx, "by_name",
		func(a *objects.Account) string { return a.Name },
		func(a, b string) bool { return a < b })

	for _, name := range []string{"carol", "alice", "bob"} {
		id := idx.NextID()
		idx.Insert(id, &objects.Account{ID: id, Name: name})
	}

	var seen []string
	AscendSecondary[string, *objects.Account](idx, "by_name", func(key string, id objects.ID, a *objects.Account) bool {
		seen = append(seen, key)
		return true
	})
	want := []string{"alice", "bob", "carol"}
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("got %v, want %v", seen, want)
		}
	}
}

func TestReplaceMovesEntryWithinSecondaryIndex(t *testing.T) {
	idx := NewIndex[*objects.Account](objects.TypeAccount)
	AddSecondary[string, *objects.Account](idx, "by_name",
		func(a *objects.Account) string { return a.Name },
		func(a, b string) bool { return a < b })

	id := idx.NextID()
	original := &objects.Account{ID: id, Name: "zzz"}
	idx.Insert(id, original)

	updated := &objects.Account{ID: id, Name: "aaa"}
	idx.Replace(id, original, updated)

	var first string
	AscendSecondary[string, *objects.Account](idx, "by_name", func(key string, id objects.ID, a *objects.Account) bool {
		first = key
		return false
	})
	if first != "aaa" {
		t.Fatalf("expected secondary index to reflect replaced key, got %q", first)
	}
}

func TestLowerBoundSkipsKeysBelowPivot(t *testing.T) {
	idx := NewIndex[*objects.Account](objects.TypeAccount)
	AddSecondary[string, *objects.Account](idx, "by_name",
		func(a *objects.Account) string { return a.Name },
		func(a, b string) bool { return a < b })

	for _, name := range []string{"alice", "bob", "carol"} {
		id := idx.NextID()
		idx.Insert(id, &objects.Account{ID: id, Name: name})
	}

	var seen []string
	LowerBound[string, *objects.Account](idx, "by_name", "bob", func(key string, id objects.ID, a *objects.Account) bool {
		seen = append(seen, key)
		return true
	})
	if len(seen) != 2 || seen[0] != "bob" || seen[1] != "carol" {
		t.Fatalf("got %v, want [bob carol]", seen)
	}
}
