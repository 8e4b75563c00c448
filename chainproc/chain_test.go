package chainproc

import (
	"testing"
	"time"

	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/storage"
	"github.com/graphene-chain/core/wire"
)

func genesisBlock() objects.Block {
	return objects.Block{
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Witness:   objects.NewID(objects.SpaceProtocol, objects.TypeWitness, 1),
	}
}

func TestChainRecordGenesisSetsHeightAndHead(t *testing.T) {
	db := storage.NewMemDB()
	c := NewChain(db)

	b := genesisBlock()
	if err := c.RecordGenesis(b); err != nil {
		t.Fatalf("RecordGenesis: %v", err)
	}

	if c.Height() != 0 {
		t.Fatalf("Height() = %d, want 0", c.Height())
	}
	head, ok := c.HeadHash()
	if !ok {
		t.Fatalf("expected a head hash after recording genesis")
	}
	wantHash, err := wire.HashBlock(b)
	if err != nil {
		t.Fatalf("hash genesis: %v", err)
	}
	if head != wantHash {
		t.Fatalf("HeadHash() = %x, want %x", head, wantHash)
	}
}

func TestChainBlockAtReadsPersistedGenesis(t *testing.T) {
	db := storage.NewMemDB()
	c := NewChain(db)
	b := genesisBlock()
	if err := c.RecordGenesis(b); err != nil {
		t.Fatalf("RecordGenesis: %v", err)
	}

	got, ok, err := c.BlockAt(0)
	if err != nil {
		t.Fatalf("BlockAt: %v", err)
	}
	if !ok {
		t.Fatalf("expected genesis block to be found at height 0")
	}
	if got.Witness != b.Witness {
		t.Fatalf("Witness = %v, want %v", got.Witness, b.Witness)
	}
}

func TestChainBlockAtMissingHeightReturnsFalse(t *testing.T) {
	db := storage.NewMemDB()
	c := NewChain(db)
	if err := c.RecordGenesis(genesisBlock()); err != nil {
		t.Fatalf("RecordGenesis: %v", err)
	}

	_, ok, err := c.BlockAt(5)
	if err != nil {
		t.Fatalf("BlockAt: %v", err)
	}
	if ok {
		t.Fatalf("expected no block at an un-persisted height")
	}
}

func TestChainRestoreFromDBRecoversHeightAndHead(t *testing.T) {
	db := storage.NewMemDB()
	c := NewChain(db)
	b := genesisBlock()
	if err := c.RecordGenesis(b); err != nil {
		t.Fatalf("RecordGenesis: %v", err)
	}
	wantHead, _ := c.HeadHash()

	restored := NewChain(db)
	if err := restored.RestoreFromDB(); err != nil {
		t.Fatalf("RestoreFromDB: %v", err)
	}
	if restored.Height() != c.Height() {
		t.Fatalf("restored Height() = %d, want %d", restored.Height(), c.Height())
	}
	gotHead, ok := restored.HeadHash()
	if !ok {
		t.Fatalf("expected a restored head hash")
	}
	if gotHead != wantHead {
		t.Fatalf("restored HeadHash() = %x, want %x", gotHead, wantHead)
	}
}

func TestChainFindAncestorIndexAndBranchToAncestor(t *testing.T) {
	db := storage.NewMemDB()
	c := NewChain(db)
	genesis := genesisBlock()
	if err := c.RecordGenesis(genesis); err != nil {
		t.Fatalf("RecordGenesis: %v", err)
	}
	genesisHash, _ := c.HeadHash()

	if idx := c.findAncestorIndex(genesisHash); idx != 0 {
		t.Fatalf("findAncestorIndex(genesis) = %d, want 0", idx)
	}

	forkBlock := genesisBlock()
	forkBlock.Timestamp = genesis.Timestamp.Add(time.Second)
	forkHash, err := wire.HashBlock(forkBlock)
	if err != nil {
		t.Fatalf("hash fork block: %v", err)
	}
	c.fork[forkHash] = forkNode{block: forkBlock, hash: forkHash, parent: genesisHash, height: 1}

	path, ancestorIdx, err := c.branchToAncestor(forkHash)
	if err != nil {
		t.Fatalf("branchToAncestor: %v", err)
	}
	if ancestorIdx != 0 {
		t.Fatalf("ancestorIdx = %d, want 0", ancestorIdx)
	}
	if len(path) != 1 || path[0].hash != forkHash {
		t.Fatalf("expected path of length 1 ending at the fork block, got %+v", path)
	}
}

func TestChainBranchToAncestorRejectsDisconnectedBranch(t *testing.T) {
	db := storage.NewMemDB()
	c := NewChain(db)
	if err := c.RecordGenesis(genesisBlock()); err != nil {
		t.Fatalf("RecordGenesis: %v", err)
	}

	var unknown [32]byte
	unknown[0] = 0xAB
	if _, _, err := c.branchToAncestor(unknown); err == nil {
		t.Fatalf("expected an error for a branch that never reaches the canonical chain")
	}
}
