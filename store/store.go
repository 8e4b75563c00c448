package store

import (
	"math/big"
	"sync"
	"time"

	"github.com/graphene-chain/core/objects"
)

// maxFillLog bounds the in-memory trade-history buffer get_ticker/
// get_trade_history read from (spec.md §6). Fills are query-convenience
// telemetry, not consensus state: they are not tracked by the undo-session
// stack, so a reorg does not retract fills a popped block recorded. This
// mirrors the observability package's own side-channel counters, which are
// likewise never rolled back by Session.Undo.
const maxFillLog = 4096

// Fill is one resting-order match recorded by the market engine, in
// (base/quote) terms: Amount of Base traded at Price, Base for Quote.
type Fill struct {
	Base   objects.ID
	Quote  objects.ID
	Price  objects.Price
	Amount *big.Int
	Time   time.Time
}

// Store owns one Index per object type plus the stack of open undo
// sessions. A single sync.RWMutex guards the session stack itself (push,
// pop, merge); index mutation is only ever driven through Create/Modify/
// Remove below, which always run under the caller's own evaluator-level
// serialization, mirroring the single-writer assumption native/escrow's
// trade_engine.go makes about its own state mutations.
type Store struct {
	mu       sync.RWMutex
	sessions []*Session

	fillMu  sync.Mutex
	fillLog []Fill

	Accounts            *Index[*objects.Account]
	Assets              *Index[*objects.Asset]
	BitassetData        *Index[*objects.BitassetData]
	AssetDynamicData    *Index[*objects.AssetDynamicData]
	Balances            *Index[*objects.AccountBalance]
	LimitOrders         *Index[*objects.LimitOrder]
	CallOrders          *Index[*objects.CallOrder]
	ForceSettlements    *Index[*objects.ForceSettlement]
	CollateralBids      *Index[*objects.CollateralBid]
	Proposals           *Index[*objects.Proposal]
	Witnesses           *Index[*objects.Witness]
	CommitteeMembers    *Index[*objects.CommitteeMember]
	Workers             *Index[*objects.Worker]
	VestingBalances     *Index[*objects.VestingBalance]
	WithdrawPermissions *Index[*objects.WithdrawPermission]
	RecentSlots         *Index[*objects.RecentSlots]
	BudgetRecords       *Index[*objects.BudgetRecord]
	GenesisBalances     *Index[*objects.GenesisBalance]
}

// New constructs an empty store with every index and its secondary
// orderings wired up.
func New() *Store {
	s := &Store{
		Accounts:            NewIndex[*objects.Account](objects.TypeAccount),
		Assets:              NewIndex[*objects.Asset](objects.TypeAsset),
		BitassetData:        NewIndex[*objects.BitassetData](objects.TypeBitassetData),
		AssetDynamicData:    NewIndex[*objects.AssetDynamicData](objects.TypeAssetDynamicData),
		Balances:            NewIndex[*objects.AccountBalance](objects.TypeAccountBalance),
		LimitOrders:         NewIndex[*objects.LimitOrder](objects.TypeLimitOrder),
		CallOrders:          NewIndex[*objects.CallOrder](objects.TypeCallOrder),
		ForceSettlements:    NewIndex[*objects.ForceSettlement](objects.TypeForceSettlement),
		CollateralBids:      NewIndex[*objects.CollateralBid](objects.TypeCollateralBid),
		Proposals:           NewIndex[*objects.Proposal](objects.TypeProposal),
		Witnesses:           NewIndex[*objects.Witness](objects.TypeWitness),
		CommitteeMembers:    NewIndex[*objects.CommitteeMember](objects.TypeCommitteeMember),
		Workers:             NewIndex[*objects.Worker](objects.TypeWorker),
		VestingBalances:     NewIndex[*objects.VestingBalance](objects.TypeVestingBalance),
		WithdrawPermissions: NewIndex[*objects.WithdrawPermission](objects.TypeWithdrawPermission),
		RecentSlots:         NewIndex[*objects.RecentSlots](objects.TypeRecentSlots),
		BudgetRecords:       NewIndex[*objects.BudgetRecord](objects.TypeBudgetRecord),
		GenesisBalances:     NewIndex[*objects.GenesisBalance](objects.TypeGenesisBalance),
	}

	AddSecondary[string, *objects.Account](s.Accounts, "by_name",
		func(a *objects.Account) string { return a.Name },
		func(a, b string) bool { return a < b })

	AddSecondary[string, *objects.Asset](s.Assets, "by_symbol",
		func(a *objects.Asset) string { return a.Symbol },
		func(a, b string) bool { return a < b })

	AddSecondary[accountAssetKey, *objects.AccountBalance](s.Balances, "by_account_asset",
		func(b *objects.AccountBalance) accountAssetKey {
			return accountAssetKey{Account: b.Account, Asset: b.Asset}
		},
		lessAccountAssetKey)

	AddSecondary[objects.Price, *objects.LimitOrder](s.LimitOrders, "by_price",
		func(o *objects.LimitOrder) objects.Price { return o.SellPrice },
		priceLess)

	AddSecondary[objects.Price, *objects.CallOrder](s.CallOrders, "by_call_price",
		func(o *objects.CallOrder) objects.Price { return o.CallPrice },
		priceLess)

	AddSecondary[forceSettleKey, *objects.ForceSettlement](s.ForceSettlements, "by_expiration",
		func(f *objects.ForceSettlement) forceSettleKey {
			return forceSettleKey{When: f.SettlementDate, ID: f.ID}
		},
		lessForceSettleKey)

	AddSecondary[objects.Price, *objects.CollateralBid](s.CollateralBids, "by_price",
		func(b *objects.CollateralBid) objects.Price { return b.InvSwanPrice },
		priceLess)

	return s
}

type accountAssetKey struct {
	Account objects.ID
	Asset   objects.ID
}

func lessAccountAssetKey(a, b accountAssetKey) bool {
	if a.Account != b.Account {
		return a.Account.Less(b.Account)
	}
	return a.Asset.Less(b.Asset)
}

type forceSettleKey struct {
	When time.Time
	ID   objects.ID
}

func lessForceSettleKey(a, b forceSettleKey) bool {
	if !a.When.Equal(b.When) {
		return a.When.Before(b.When)
	}
	return a.ID.Less(b.ID)
}

func priceLess(a, b objects.Price) bool {
	return a.LessThan(b)
}

func (s *Store) pushUndo(fn func()) {
	if len(s.sessions) == 0 {
		return
	}
	top := s.sessions[len(s.sessions)-1]
	top.undoOps = append(top.undoOps, fn)
}

// StartUndoSession opens a new nested session on top of the stack. Every
// Create/Modify/Remove call made while this session (or one nested inside
// it) is open can be unwound by calling Undo, or folded into the enclosing
// session by calling Commit.
func (s *Store) StartUndoSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{store: s}
	s.sessions = append(s.sessions, sess)
	return sess
}

// Session is a single entry on the undo stack.
type Session struct {
	store   *Store
	undoOps []func()
	done    bool
}

// Undo reverts every mutation recorded since this session was started, in
// reverse order, then pops it off the stack. Panics if this is not the
// session on top of the stack, mirroring the strict LIFO discipline the
// object-store invariant requires.
func (s *Session) Undo() {
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	s.mustBeTop()
	for i := len(s.undoOps) - 1; i >= 0; i-- {
		s.undoOps[i]()
	}
	st.sessions = st.sessions[:len(st.sessions)-1]
	s.done = true
}

// Commit folds this session's recorded mutations into its parent (or
// discards them permanently if this is the outermost session) and pops it
// off the stack. Folding means appending this session's undo closures after
// the parent's, so a later undo of the parent still reverts everything in
// the right order.
func (s *Session) Commit() {
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	s.mustBeTop()
	if len(st.sessions) > 1 {
		parent := st.sessions[len(st.sessions)-2]
		parent.undoOps = append(parent.undoOps, s.undoOps...)
	}
	st.sessions = st.sessions[:len(st.sessions)-1]
	s.done = true
}

func (s *Session) mustBeTop() {
	if s.done {
		panic("store: session already closed")
	}
	if len(s.store.sessions) == 0 || s.store.sessions[len(s.store.sessions)-1] != s {
		panic("store: undo sessions must be closed in LIFO order")
	}
}

// Depth reports how many sessions are currently open. No caller passes it to
// observability.CoreMetrics.SetSessionDepth.
func (s *Store) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Create allocates the next id for idx, builds the object, inserts it, and
// records an undo closure that removes it again.
func Create[T any](s *Store, idx *Index[T], build func(objects.ID) T) (objects.ID, T) {
	id := idx.NextID()
	v := build(id)
	idx.Insert(id, v)
	s.pushUndo(func() { idx.Remove(id, v) })
	return id, v
}

// Modify looks up id, applies mutate to a copy, and replaces it in every
// index, recording an undo closure that restores the prior value. The
// second return value is false if id does not exist.
func Modify[T any](s *Store, idx *Index[T], id objects.ID, mutate func(T) T) (T, bool) {
	old, ok := idx.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	updated := mutate(old)
	idx.Replace(id, old, updated)
	s.pushUndo(func() { idx.Replace(id, updated, old) })
	return updated, true
}

// Remove deletes id from idx, recording an undo closure that reinserts it.
func Remove[T any](s *Store, idx *Index[T], id objects.ID) bool {
	old, ok := idx.Get(id)
	if !ok {
		return false
	}
	idx.Remove(id, old)
	s.pushUndo(func() { idx.Insert(id, old) })
	return true
}

// RecordFill appends a match to the trade-history buffer, trimming the
// oldest entries once maxFillLog is exceeded.
func (s *Store) RecordFill(f Fill) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.fillLog = append(s.fillLog, f)
	if len(s.fillLog) > maxFillLog {
		s.fillLog = s.fillLog[len(s.fillLog)-maxFillLog:]
	}
}

// RecentFills returns up to limit fills for the (base, quote) pair, most
// recent first.
func (s *Store) RecentFills(base, quote objects.ID, limit int) []Fill {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	out := make([]Fill, 0, limit)
	for i := len(s.fillLog) - 1; i >= 0 && len(out) < limit; i-- {
		f := s.fillLog[i]
		if f.Base == base && f.Quote == quote {
			out = append(out, f)
		}
	}
	return out
}
