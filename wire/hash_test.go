package wire

import (
	"testing"
	"time"

	"github.com/graphene-chain/core/objects"
)

func TestHashBlockIsDeterministic(t *testing.T) {
	b := objects.Block{
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Witness:   objects.NewID(objects.SpaceProtocol, objects.TypeWitness, 1),
	}
	h1, err := HashBlock(b)
	if err != nil {
		t.Fatalf("HashBlock: %v", err)
	}
	h2, err := HashBlock(b)
	if err != nil {
		t.Fatalf("HashBlock: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected identical blocks to hash identically")
	}
}

func TestHashBlockDiffersOnWitnessChange(t *testing.T) {
	base := objects.Block{Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	a := base
	a.Witness = objects.NewID(objects.SpaceProtocol, objects.TypeWitness, 1)
	b := base
	b.Witness = objects.NewID(objects.SpaceProtocol, objects.TypeWitness, 2)

	ha, err := HashBlock(a)
	if err != nil {
		t.Fatalf("HashBlock: %v", err)
	}
	hb, err := HashBlock(b)
	if err != nil {
		t.Fatalf("HashBlock: %v", err)
	}
	if ha == hb {
		t.Fatalf("expected differing witness to produce a different hash")
	}
}
