package chainproc

import (
	"time"

	"github.com/graphene-chain/core/authority"
	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/eval"
	"github.com/graphene-chain/core/market"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/observability"
	"github.com/graphene-chain/core/store"
	"github.com/graphene-chain/core/wire"
)

// Processor is the single entry point for inbound transactions and blocks.
// It owns the store, the evaluation/market engines, the fork database, and
// the pending pool, and is the only thing allowed to call Store.StartUndoSession
// at the top level (eval/market code only ever sees a Context, never the
// Store's session stack directly). Grounded on core/blockchain.go's
// single-writer Blockchain struct, split here into the smaller pieces
// chain.go/pool.go/endofblock.go/maintenance.go already define.
type Processor struct {
	Store     *store.Store
	Params    chainparams.Parameters
	Authority *authority.Resolver
	Engine    *eval.Engine
	Market    *market.Engine
	Chain     *Chain
	Pool      *PendingPool
	// Notifier, if set, receives one Notification per applied block, published
	// once the block has been applied (the block's own undo session stays
	// open, see applyBlockToHead). Nil by default; callers that
	// want change notifications assign it after NewProcessor returns.
	Notifier *Notifier

	maint *maintenanceTracker
}

// NewProcessor wires a fresh Processor around an already-initialized store
// (genesis must already have been applied through Chain.RecordGenesis).
func NewProcessor(s *store.Store, params chainparams.Parameters, chain *Chain) *Processor {
	return &Processor{
		Store:     s,
		Params:    params,
		Authority: authority.New(s, params.MaxAuthorityDepth),
		Engine:    eval.NewEngine(),
		Market:    market.New(s),
		Chain:     chain,
		Pool:      NewPendingPool(),
		maint:     newMaintenanceTracker(),
	}
}

func (p *Processor) context(blockTime time.Time, keys authority.Keyset) *eval.Context {
	return &eval.Context{
		Store:     p.Store,
		Params:    p.Params,
		Authority: p.Authority,
		BlockTime: blockTime,
		Keys:      keys,
		Engine:    p.Engine,
	}
}

// PushTransaction decodes, validates, and applies a transaction against
// current head state, adding it to the pending pool on success so a later
// block can include it (spec.md §4.E).
func (p *Processor) PushTransaction(raw []byte, keys authority.Keyset) error {
	tx, err := wire.DecodeTransaction(raw)
	if err != nil {
		return err
	}
	ctx := p.context(time.Now().UTC(), keys)
	if err := p.Pool.Add(ctx, p.Engine, tx); err != nil {
		observability.Core().RecordEvaluation("push_transaction", "rejected")
		return err
	}
	observability.Core().RecordEvaluation("push_transaction", "accepted")
	return nil
}

// PushBlock decodes and applies a block. If the block extends the current
// canonical tip directly, it applies in place. Otherwise it is staged in the
// fork database and, if its branch is now the preferred one (strictly longer,
// or equal length and lexicographically lower block id), the processor
// reorgs onto it.
//
// Reorg here is not fully transactional: blocks are popped off the
// canonical chain via Session.Undo() down to the common ancestor before the
// new branch is replayed, and if replay fails partway the popped chain is
// not restored. Store.Session's strict LIFO commit/undo discipline has no
// primitive for holding a whole multi-block rollback open while a
// replacement branch is speculatively applied, so a failed reorg leaves the
// chain sitting at the fork point rather than back at the old tip. A fully
// transactional reorg would need a session-of-sessions abstraction this
// store doesn't have; this is a known, documented limitation rather than an
// oversight.
func (p *Processor) PushBlock(raw []byte, skipSignatures bool) error {
	blk, err := wire.DecodeBlock(raw)
	if err != nil {
		observeRejected("decode")
		return err
	}
	hash, err := wire.HashBlock(blk)
	if err != nil {
		observeRejected("decode")
		return err
	}

	p.Chain.mu.Lock()
	if _, bad := p.Chain.bad[hash]; bad {
		p.Chain.mu.Unlock()
		return chainerr.New(chainerr.Precondition, "chainproc.push_block", "block previously marked invalid")
	}
	head, hasHead := p.headHashLocked()
	var height uint64
	if n := len(p.Chain.applied); n > 0 {
		height = p.Chain.applied[n-1].height
	}
	p.Chain.mu.Unlock()

	if err := p.validateBlockShape(blk, skipSignatures); err != nil {
		p.markBad(hash)
		observeRejected("validation")
		return err
	}

	if hasHead && blk.Previous == head {
		if err := p.applyBlockToHead(blk, hash, height+1); err != nil {
			p.markBad(hash)
			observeRejected("apply")
			return err
		}
		p.Pool.Revalidate(p.context(blk.Timestamp, authority.Keyset{}), p.Engine)
		observability.Core().RecordBlockApplied()
		return nil
	}

	// Not a direct child of head: stage it and decide whether its branch
	// should become canonical.
	parentHeight, err := p.parentHeightOf(blk.Previous)
	if err != nil {
		p.markBad(hash)
		observeRejected("orphan")
		return err
	}
	p.Chain.mu.Lock()
	p.Chain.fork[hash] = forkNode{block: blk, hash: hash, parent: blk.Previous, height: parentHeight + 1}
	candidateHeight := parentHeight + 1
	p.Chain.mu.Unlock()

	if !preferBranch(candidateHeight, hash, height, head) {
		return nil
	}
	return p.reorgTo(hash)
}

func (p *Processor) headHashLocked() ([32]byte, bool) {
	if len(p.Chain.applied) == 0 {
		return [32]byte{}, false
	}
	return p.Chain.applied[len(p.Chain.applied)-1].hash, true
}

// parentHeightOf returns the height of a block already known to the chain,
// either canonically applied or sitting in the fork database.
func (p *Processor) parentHeightOf(parent [32]byte) (uint64, error) {
	p.Chain.mu.RLock()
	defer p.Chain.mu.RUnlock()
	if idx := p.Chain.findAncestorIndex(parent); idx >= 0 {
		return p.Chain.applied[idx].height, nil
	}
	if node, ok := p.Chain.fork[parent]; ok {
		return node.height, nil
	}
	return 0, chainerr.New(chainerr.Precondition, "chainproc.push_block", "block references unknown parent")
}

// preferBranch implements spec.md's fork-choice rule: a candidate branch
// wins over the current head when it is strictly longer, or equal length
// and its tip hash sorts lower (a deterministic tiebreak every node agrees
// on without needing witness-schedule context).
func preferBranch(candidateHeight uint64, candidateHash [32]byte, headHeight uint64, headHash [32]byte) bool {
	if candidateHeight != headHeight {
		return candidateHeight > headHeight
	}
	for i := range candidateHash {
		if candidateHash[i] != headHash[i] {
			return candidateHash[i] < headHash[i]
		}
	}
	return false
}

func (p *Processor) markBad(hash [32]byte) {
	p.Chain.mu.Lock()
	p.Chain.bad[hash] = struct{}{}
	delete(p.Chain.fork, hash)
	p.Chain.mu.Unlock()
}

// reorgTo switches the canonical chain onto the branch ending at tip: pop
// canonical blocks back to the common ancestor, then apply the branch's
// blocks in order.
func (p *Processor) reorgTo(tip [32]byte) error {
	p.Chain.mu.Lock()
	path, ancestorIdx, err := p.Chain.branchToAncestor(tip)
	if err != nil {
		p.Chain.mu.Unlock()
		return err
	}
	popped := p.Chain.applied[ancestorIdx+1:]
	p.Chain.applied = p.Chain.applied[:ancestorIdx+1]
	p.Chain.mu.Unlock()

	// Pool entries sit on top of the session stack (pushed after the last
	// applied block's still-open session); they must be undone before any
	// popped block session can be undone, or the LIFO discipline panics.
	p.Pool.Drain()
	for i := len(popped) - 1; i >= 0; i-- {
		popped[i].session.Undo()
	}

	depth := len(popped)
	height := p.Chain.Height()
	for _, node := range path {
		height++
		if err := p.applyBlockToHead(node.block, node.hash, height); err != nil {
			// Known limitation: the popped branch is not restored here.
			return err
		}
		p.Chain.mu.Lock()
		delete(p.Chain.fork, node.hash)
		p.Chain.mu.Unlock()
	}
	if depth > 0 {
		observability.Core().RecordReorg(depth)
	}
	observability.Core().RecordBlockApplied()
	return nil
}

// applyBlockToHead applies every transaction in blk under one undo session,
// runs the end-of-block hook, records the block as canonical, and triggers
// a maintenance pass if the interval has elapsed. The block's own session
// is deliberately never committed: it must stay open and on top of the
// stack so a later reorg can undo it directly (Session.Commit would fold
// its undo closures into whatever happens to be below it on the stack and
// discard the ability to undo this block in isolation). The cost is that
// the session stack, and the undo closures it retains, grows with chain
// height for as long as the process runs; trimming it past an
// irreversible-depth boundary would need the session-of-sessions
// abstraction store.Session doesn't have, per this file's reorgTo comment.
func (p *Processor) applyBlockToHead(blk objects.Block, hash [32]byte, height uint64) error {
	// Any pool entries are tentative state layered on top of the previous
	// block's still-open session; they must come off before this block's
	// session can be pushed, or a later reorg's LIFO undo order breaks.
	p.Pool.Drain()
	sess := p.Store.StartUndoSession()
	ctx := p.context(blk.Timestamp, authority.Keyset{})
	var newObjects, impacted []objects.ID
	for _, tx := range blk.Transactions {
		txSess := p.Store.StartUndoSession()
		created, err := applyTransaction(ctx, p.Engine, tx)
		if err != nil {
			txSess.Undo()
			sess.Undo()
			return err
		}
		txSess.Commit()
		newObjects = append(newObjects, created...)
		for _, op := range tx.Operations {
			impacted = append(impacted, impactedAccounts(op)...)
		}
	}

	runEndOfBlockHook(p.Store, p.Market, blk.Timestamp)

	if p.maint.due(blk.Timestamp, p.Params.MaintenanceInterval) {
		runMaintenance(p.Store, p.Params, blk.Timestamp)
		p.maint.record(blk.Timestamp)
	}

	p.Chain.mu.Lock()
	p.Chain.applied = append(p.Chain.applied, appliedBlock{hash: hash, height: height, session: sess})
	p.Chain.mu.Unlock()
	if err := p.Chain.persist(height, blk); err != nil {
		return err
	}

	if p.Notifier != nil {
		blkCopy := blk
		p.Notifier.Publish(Notification{
			NewObjects:       dedupeIDs(newObjects),
			AppliedBlock:     &blkCopy,
			ImpactedAccounts: dedupeIDs(impacted),
		})
	}
	return nil
}

// validateBlockShape checks the structural invariants push_block must
// reject before any state mutation is attempted: a non-empty merkle root
// match and, unless the caller is replaying trusted history, a witness
// signature.
func (p *Processor) validateBlockShape(blk objects.Block, skipSignatures bool) error {
	root, err := TransactionMerkleRoot(blk.Transactions)
	if err != nil {
		return err
	}
	if root != blk.TransactionMerkleRoot {
		return chainerr.New(chainerr.Validation, "chainproc.validate_block", "transaction merkle root mismatch")
	}
	if !skipSignatures {
		var zero objects.CompactSignature
		if blk.WitnessSignature == zero {
			return chainerr.New(chainerr.Validation, "chainproc.validate_block", "missing witness signature")
		}
	}
	return nil
}
