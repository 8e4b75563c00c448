// Package chainproc implements the block processor: the pending pool,
// block generation, push-block fork-switching, end-of-block and
// maintenance-interval hooks, and change notification dispatch described in
// spec.md §4.E.
package chainproc

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/observability"
	"github.com/graphene-chain/core/storage"
	"github.com/graphene-chain/core/store"
	"github.com/graphene-chain/core/wire"
)

// forkNode is one block sitting in the in-memory fork database: every block
// pushed but not yet garbage-collected past the irreversible point is kept
// here so a later, longer branch can be switched to without re-fetching it.
type forkNode struct {
	block  objects.Block
	hash   [32]byte
	parent [32]byte
	height uint64
}

// appliedBlock is one canonical-chain entry: the block plus the still-open
// session its apply produced, so a reorg can pop it back off in LIFO order.
type appliedBlock struct {
	hash    [32]byte
	height  uint64
	session *store.Session
}

// Chain is the fork database plus the persisted block log. Grounded on
// core/blockchain.go's db-backed height/hash indexing, generalized with an
// in-memory fork set so non-canonical branches can be held until a
// fork-choice decision is made, per spec.md §4.E "push block" algorithm.
type Chain struct {
	mu sync.RWMutex

	db storage.Database

	fork map[[32]byte]forkNode
	bad  map[[32]byte]struct{}

	applied []appliedBlock // canonical chain, genesis first
}

var (
	tipHeightKey = []byte("chainproc/tip_height")
	blockKeyPre  = []byte("chainproc/block:")
)

func blockKey(height uint64) []byte {
	k := make([]byte, len(blockKeyPre)+8)
	copy(k, blockKeyPre)
	binary.BigEndian.PutUint64(k[len(blockKeyPre):], height)
	return k
}

// NewChain returns an empty chain backed by db. The caller is responsible
// for applying (or loading) the genesis block before pushing further blocks.
func NewChain(db storage.Database) *Chain {
	return &Chain{
		db:   db,
		fork: make(map[[32]byte]forkNode),
		bad:  make(map[[32]byte]struct{}),
	}
}

// Height returns the current canonical chain height (0 for genesis-only).
func (c *Chain) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.applied) == 0 {
		return 0
	}
	return c.applied[len(c.applied)-1].height
}

// HeadHash returns the current canonical tip's hash.
func (c *Chain) HeadHash() ([32]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.applied) == 0 {
		return [32]byte{}, false
	}
	return c.applied[len(c.applied)-1].hash, true
}

// RecordGenesis installs the genesis block as the sole canonical entry.
// Callers apply the genesis object set to the store themselves (see
// genesis.Apply, which commits its own top-level session since there is
// nothing before genesis to ever undo back to) before calling this.
func (c *Chain) RecordGenesis(b objects.Block) error {
	hash, err := wire.HashBlock(b)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = append(c.applied, appliedBlock{hash: hash, height: 0, session: nil})
	return c.persist(0, b)
}

// BlockAt returns the canonical block at height, read back from the
// persisted block log (api/query.go's GetBlock/GetBlockHeader/
// GetTransaction all go through this).
func (c *Chain) BlockAt(height uint64) (objects.Block, bool, error) {
	if c.db == nil {
		return objects.Block{}, false, nil
	}
	enc, err := c.db.Get(blockKey(height))
	if err != nil {
		return objects.Block{}, false, nil
	}
	b, err := wire.DecodeBlock(enc)
	if err != nil {
		return objects.Block{}, false, err
	}
	return b, true, nil
}

// RestoreFromDB reconstructs the in-memory applied-block index from a
// previously persisted block log, for resuming a chain across a process
// restart once the object store itself has been rebuilt from a
// store.Snapshot. Restored entries carry no open undo session, so
// Processor.reorgTo can only unwind blocks applied since this process
// started, never ones recovered here — resuming from a snapshot begins a
// fresh undo history, the same simplification BlockAt already makes by
// treating a storage.Database miss as "not present" rather than an error.
func (c *Chain) RestoreFromDB() error {
	if c.db == nil {
		return nil
	}
	tipBytes, err := c.db.Get(tipHeightKey)
	if err != nil {
		return nil
	}
	tip := binary.BigEndian.Uint64(tipBytes)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = c.applied[:0]
	for h := uint64(0); h <= tip; h++ {
		enc, err := c.db.Get(blockKey(h))
		if err != nil {
			return fmt.Errorf("chainproc: restore block %d: %w", h, err)
		}
		b, err := wire.DecodeBlock(enc)
		if err != nil {
			return fmt.Errorf("chainproc: decode block %d: %w", h, err)
		}
		hash, err := wire.HashBlock(b)
		if err != nil {
			return err
		}
		c.applied = append(c.applied, appliedBlock{hash: hash, height: h, session: nil})
	}
	return nil
}

func (c *Chain) persist(height uint64, b objects.Block) error {
	if c.db == nil {
		return nil
	}
	enc, err := wire.EncodeBlock(b)
	if err != nil {
		return err
	}
	if err := c.db.Put(blockKey(height), enc); err != nil {
		return fmt.Errorf("chainproc: persist block %d: %w", height, err)
	}
	heightBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(heightBuf, height)
	if err := c.db.Put(tipHeightKey, heightBuf); err != nil {
		return fmt.Errorf("chainproc: persist tip height: %w", err)
	}
	return nil
}

// findAncestorIndex returns the index into c.applied (canonical chain) of
// the block with the given hash, or -1 if it isn't canonical.
func (c *Chain) findAncestorIndex(hash [32]byte) int {
	for i := len(c.applied) - 1; i >= 0; i-- {
		if c.applied[i].hash == hash {
			return i
		}
	}
	return -1
}

// branchToAncestor walks the fork database from tip back to (and including)
// the nearest canonical ancestor, returning the path root-first and that
// ancestor's canonical index (-1 if the walk reached genesis's parent
// without finding one, which is itself an error case the caller rejects).
func (c *Chain) branchToAncestor(tip [32]byte) ([]forkNode, int, error) {
	var path []forkNode
	cur := tip
	for {
		if idx := c.findAncestorIndex(cur); idx >= 0 {
			reversed := make([]forkNode, len(path))
			for i, n := range path {
				reversed[len(path)-1-i] = n
			}
			return reversed, idx, nil
		}
		node, ok := c.fork[cur]
		if !ok {
			return nil, -1, chainerr.New(chainerr.Precondition, "chainproc.branch_to_ancestor", "branch does not connect to the canonical chain")
		}
		path = append(path, node)
		cur = node.parent
	}
}

func observeRejected(kind string) {
	observability.Core().RecordBlockRejected(kind)
}
