package chainproc

import (
	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/eval"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

// pendingEntry is one transaction sitting in the pool, applied against head
// state under its own still-open session so the store already reflects it.
// Grounded on mempool/priority.go's pending/applied split, simplified to a
// single FIFO lane since Graphene has no POS-priority concept.
type pendingEntry struct {
	tx      objects.Transaction
	session *store.Session
}

// PendingPool holds signed transactions that have been applied against head
// state but not yet included in a block (spec.md §4.E). Re-validate after
// each block by undoing every entry, then re-applying in arrival order and
// dropping whichever now fail.
type PendingPool struct {
	entries []pendingEntry
}

// NewPendingPool returns an empty pool.
func NewPendingPool() *PendingPool {
	return &PendingPool{}
}

// Add validates and applies tx against head state, keeping the session open.
// On success the transaction joins the pool in FIFO order.
func (p *PendingPool) Add(ctx *eval.Context, engine *eval.Engine, tx objects.Transaction) error {
	sess := ctx.Store.StartUndoSession()
	if _, err := applyTransaction(ctx, engine, tx); err != nil {
		sess.Undo()
		return err
	}
	p.entries = append(p.entries, pendingEntry{tx: tx, session: sess})
	return nil
}

// Pending returns the transactions currently held, in FIFO arrival order.
func (p *PendingPool) Pending() []objects.Transaction {
	out := make([]objects.Transaction, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e.tx)
	}
	return out
}

// Take returns (and leaves in the pool) a deterministic prefix of pending
// transactions whose encoded size fits within maxBytes, for block assembly.
func (p *PendingPool) Take(maxBytes int) ([]objects.Transaction, error) {
	var out []objects.Transaction
	used := 0
	for _, e := range p.entries {
		size, err := transactionSize(e.tx)
		if err != nil {
			return nil, err
		}
		if used+size > maxBytes {
			break
		}
		used += size
		out = append(out, e.tx)
	}
	return out, nil
}

// Drain undoes and discards every pending entry, e.g. once its transactions
// have been included in a block and the pool needs fresh head state to
// revalidate against.
func (p *PendingPool) Drain() {
	for i := len(p.entries) - 1; i >= 0; i-- {
		p.entries[i].session.Undo()
	}
	p.entries = nil
}

// Revalidate drains the pool, then re-applies the same transactions in
// order against the now-current head state, keeping only the ones that
// still succeed.
func (p *PendingPool) Revalidate(ctx *eval.Context, engine *eval.Engine) {
	txs := p.Pending()
	p.Drain()
	for _, tx := range txs {
		if err := p.Add(ctx, engine, tx); err != nil {
			continue
		}
	}
}

// applyTransaction runs every operation in tx through engine, inside the
// caller's already-open session. The expiration check lives here rather
// than in eval since it concerns pool/chain bookkeeping, not any single
// operation (spec.md §7, Session-kind errors); the transaction's
// reference-block fields are not checked. The returned ids
// are every non-zero OperationResult.NewObjectID the transaction's
// operations produced, in order, for the caller to fold into a
// Notification.
func applyTransaction(ctx *eval.Context, engine *eval.Engine, tx objects.Transaction) ([]objects.ID, error) {
	if tx.Expiration.Before(ctx.BlockTime) {
		return nil, chainerr.New(chainerr.Session, "chainproc.apply_transaction", "transaction has expired")
	}
	var created []objects.ID
	for _, op := range tx.Operations {
		result, err := engine.Apply(ctx, op)
		if err != nil {
			return nil, err
		}
		if !result.NewObjectID.IsZero() {
			created = append(created, result.NewObjectID)
		}
	}
	return created, nil
}
