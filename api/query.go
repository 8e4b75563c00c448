// Package api implements the read-only query surface a client or wallet
// talks to: object/account/asset/order lookups, authority introspection, and
// block/transaction history, all as plain Go methods over the already-built
// core rather than a wire RPC protocol (spec.md's Non-goals exclude "a
// concrete RPC/transport protocol"; a transport would wrap QueryService the
// same way the teacher's rpc package wraps core/query.go).
//
// Grounded on the teacher's core/query.go-style read-only accessor methods
// over core/blockchain.go's state, generalized from a handful of
// balance/account getters to the full object-store query surface spec.md §6
// enumerates.
package api

import (
	"math/big"
	"sort"
	"time"

	"github.com/graphene-chain/core/authority"
	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/chainproc"
	"github.com/graphene-chain/core/eval"
	"github.com/graphene-chain/core/market"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

// QueryService is a read-only façade over a running node's store, chain log,
// and authority resolver. It never opens an undo session except the
// throwaway one ValidateTransaction rolls back immediately. Store's RWMutex
// guards only its session stack, not the indexes these methods read, so calls
// are not synchronized with block application.
type QueryService struct {
	Store     *store.Store
	Authority *authority.Resolver
	Engine    *eval.Engine
	Market    *market.Engine
	Chain     *chainproc.Chain
	Params    chainparams.Parameters
}

// New builds a QueryService over an already-running node's components.
func New(s *store.Store, params chainparams.Parameters, auth *authority.Resolver, engine *eval.Engine, mkt *market.Engine, chain *chainproc.Chain) *QueryService {
	return &QueryService{Store: s, Authority: auth, Engine: engine, Market: mkt, Chain: chain, Params: params}
}

// GetObjects looks up an arbitrary, possibly mixed-type list of ids,
// returning each found object as an any so the caller can type-switch. A
// missing id is simply omitted rather than erroring the whole batch, since
// spec.md §6 describes this as a best-effort batch accessor.
func (q *QueryService) GetObjects(ids []objects.ID) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if v, ok := q.getObject(id); ok {
			out = append(out, v)
		}
	}
	return out
}

func (q *QueryService) getObject(id objects.ID) (any, bool) {
	switch id.Type {
	case objects.TypeAccount:
		return q.Store.Accounts.Get(id)
	case objects.TypeAsset:
		return q.Store.Assets.Get(id)
	case objects.TypeBitassetData:
		return q.Store.BitassetData.Get(id)
	case objects.TypeAssetDynamicData:
		return q.Store.AssetDynamicData.Get(id)
	case objects.TypeAccountBalance:
		return q.Store.Balances.Get(id)
	case objects.TypeLimitOrder:
		return q.Store.LimitOrders.Get(id)
	case objects.TypeCallOrder:
		return q.Store.CallOrders.Get(id)
	case objects.TypeForceSettlement:
		return q.Store.ForceSettlements.Get(id)
	case objects.TypeCollateralBid:
		return q.Store.CollateralBids.Get(id)
	case objects.TypeProposal:
		return q.Store.Proposals.Get(id)
	case objects.TypeWitness:
		return q.Store.Witnesses.Get(id)
	case objects.TypeCommitteeMember:
		return q.Store.CommitteeMembers.Get(id)
	case objects.TypeWorker:
		return q.Store.Workers.Get(id)
	case objects.TypeVestingBalance:
		return q.Store.VestingBalances.Get(id)
	case objects.TypeWithdrawPermission:
		return q.Store.WithdrawPermissions.Get(id)
	case objects.TypeRecentSlots:
		return q.Store.RecentSlots.Get(id)
	case objects.TypeBudgetRecord:
		return q.Store.BudgetRecords.Get(id)
	case objects.TypeGenesisBalance:
		return q.Store.GenesisBalances.Get(id)
	default:
		return nil, false
	}
}

// GetAccounts looks up accounts by id, omitting any that don't exist.
func (q *QueryService) GetAccounts(ids []objects.ID) []*objects.Account {
	out := make([]*objects.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := q.Store.Accounts.Get(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// LookupAccounts returns up to limit accounts with name >= lowerBoundName,
// in name order, for the typeahead-style lookup spec.md §6 describes.
func (q *QueryService) LookupAccounts(lowerBoundName string, limit int) []*objects.Account {
	out := make([]*objects.Account, 0, limit)
	store.LowerBound[string, *objects.Account](q.Store.Accounts, "by_name", lowerBoundName, func(_ string, _ objects.ID, v *objects.Account) bool {
		if len(out) >= limit {
			return false
		}
		out = append(out, v)
		return true
	})
	return out
}

// ListAssets returns up to limit assets with symbol >= lowerBoundSymbol, in
// symbol order.
func (q *QueryService) ListAssets(lowerBoundSymbol string, limit int) []*objects.Asset {
	out := make([]*objects.Asset, 0, limit)
	store.LowerBound[string, *objects.Asset](q.Store.Assets, "by_symbol", lowerBoundSymbol, func(_ string, _ objects.ID, v *objects.Asset) bool {
		if len(out) >= limit {
			return false
		}
		out = append(out, v)
		return true
	})
	return out
}

// LookupAssetSymbols resolves a list of ticker symbols to their assets,
// omitting any that don't exist.
func (q *QueryService) LookupAssetSymbols(symbols []string) []*objects.Asset {
	out := make([]*objects.Asset, 0, len(symbols))
	for _, sym := range symbols {
		if a, ok := q.Store.FindBySymbol(sym); ok {
			out = append(out, a)
		}
	}
	return out
}

// GetAccountBalances returns every balance object an account holds.
func (q *QueryService) GetAccountBalances(account objects.ID) []*objects.AccountBalance {
	var out []*objects.AccountBalance
	q.Store.AscendAccountBalances(account, func(_ objects.ID, v *objects.AccountBalance) bool {
		out = append(out, v)
		return true
	})
	return out
}

// GetLimitOrders returns up to limit resting limit orders selling base for
// quote, best price (most quote per base) first. Like market.Engine.
// ApplyOrder, this scans the by_price index across every pair and filters
// per candidate rather than indexing per market — the same simplification,
// for the same reason (spec.md never asks for a dedicated per-pair index).
func (q *QueryService) GetLimitOrders(base, quote objects.ID, limit int) []*objects.LimitOrder {
	var out []*objects.LimitOrder
	zero := objects.Price{Base: objects.Amount{Value: big.NewInt(0)}, Quote: objects.Amount{Value: big.NewInt(1)}}
	store.LowerBound[objects.Price, *objects.LimitOrder](q.Store.LimitOrders, "by_price", zero, func(_ objects.Price, _ objects.ID, v *objects.LimitOrder) bool {
		if len(out) >= limit {
			return false
		}
		if v.SellPrice.Base.Asset == base && v.SellPrice.Quote.Asset == quote {
			out = append(out, v)
		}
		return true
	})
	return out
}

// GetCallOrders returns up to limit call orders (CDPs) borrowing debtAsset,
// ordered by call price (most at-risk first).
func (q *QueryService) GetCallOrders(debtAsset objects.ID, limit int) []*objects.CallOrder {
	var out []*objects.CallOrder
	zero := objects.Price{Base: objects.Amount{Value: big.NewInt(0)}, Quote: objects.Amount{Value: big.NewInt(1)}}
	store.LowerBound[objects.Price, *objects.CallOrder](q.Store.CallOrders, "by_call_price", zero, func(_ objects.Price, _ objects.ID, v *objects.CallOrder) bool {
		if len(out) >= limit {
			return false
		}
		if v.DebtAsset == debtAsset {
			out = append(out, v)
		}
		return true
	})
	return out
}

// GetSettleOrders returns up to limit queued force-settlements against asset,
// in id (creation) order.
func (q *QueryService) GetSettleOrders(asset objects.ID, limit int) []*objects.ForceSettlement {
	var out []*objects.ForceSettlement
	q.Store.ForceSettlements.Ascend(func(_ objects.ID, v *objects.ForceSettlement) bool {
		if len(out) >= limit {
			return false
		}
		if v.Balance.Asset == asset {
			out = append(out, v)
		}
		return true
	})
	return out
}

// OrderBook is a snapshot of resting orders on both sides of a market,
// trimmed to depth entries per side.
type OrderBook struct {
	Base  objects.ID
	Quote objects.ID
	Asks  []*objects.LimitOrder // selling Base for Quote, lowest price first
	Bids  []*objects.LimitOrder // selling Quote for Base, highest implied Base/Quote price first
}

// GetOrderBook returns the resting book for (base, quote), asks and bids
// each trimmed to depth entries.
func (q *QueryService) GetOrderBook(base, quote objects.ID, depth int) OrderBook {
	return OrderBook{
		Base:  base,
		Quote: quote,
		Asks:  q.GetLimitOrders(base, quote, depth),
		Bids:  q.GetLimitOrders(quote, base, depth),
	}
}

// Ticker summarizes a market's current best prices and latest trade.
type Ticker struct {
	Base          objects.ID
	Quote         objects.ID
	BestAsk       *objects.Price
	BestBid       *objects.Price
	LatestPrice   *objects.Price
	LatestVolume  *objects.Amount
}

// GetTicker reports the best resting ask/bid and the most recent fill for
// (base, quote).
func (q *QueryService) GetTicker(base, quote objects.ID) Ticker {
	t := Ticker{Base: base, Quote: quote}
	if asks := q.GetLimitOrders(base, quote, 1); len(asks) > 0 {
		p := asks[0].SellPrice
		t.BestAsk = &p
	}
	if bids := q.GetLimitOrders(quote, base, 1); len(bids) > 0 {
		p := bids[0].SellPrice.Invert()
		t.BestBid = &p
	}
	if fills := q.Store.RecentFills(base, quote, 1); len(fills) > 0 {
		p := fills[0].Price
		amt := objects.Amount{Asset: base, Value: fills[0].Amount}
		t.LatestPrice = &p
		t.LatestVolume = &amt
	}
	return t
}

// GetTradeHistory returns up to limit recent fills for (base, quote), most
// recent first. Fills are query-convenience telemetry recorded by the market
// engine (store.Store.RecordFill), not replayed consensus state, so history
// predating this process's uptime (or undone by a reorg this process never
// witnessed) is unavailable; spec.md does not mandate a persisted trade log.
func (q *QueryService) GetTradeHistory(base, quote objects.ID, limit int) []store.Fill {
	return q.Store.RecentFills(base, quote, limit)
}

// GetRequiredSignatures computes, for every operation's fee-paying account in
// tx, the minimal subset of the caller's available keys that would satisfy
// its active authority. Simplification: every operation is checked against
// its fee payer's Active authority rather than distinguishing operations
// that require Owner (spec.md never enumerates which operations do), noted
// as an open decision in the design ledger.
func (q *QueryService) GetRequiredSignatures(tx objects.Transaction, available authority.Keyset) ([]objects.PubKey, error) {
	seen := make(map[objects.PubKey]struct{})
	var out []objects.PubKey
	for _, op := range tx.Operations {
		acct, ok := q.Store.Accounts.Get(op.FeePayer())
		if !ok {
			return nil, chainerr.New(chainerr.Precondition, "api.get_required_signatures", "unknown fee payer")
		}
		sigs, err := q.Authority.MinimalSignatures(acct.Active, available)
		if err != nil {
			return nil, err
		}
		for _, k := range sigs {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out, nil
}

// GetPotentialSignatures enumerates every key that could possibly
// contribute to satisfying tx's authority requirements, regardless of
// whether the caller actually holds it, recursing through delegated account
// authorities up to the resolver's MaxDepth.
func (q *QueryService) GetPotentialSignatures(tx objects.Transaction) ([]objects.PubKey, error) {
	seen := make(map[objects.PubKey]struct{})
	var out []objects.PubKey
	for _, op := range tx.Operations {
		acct, ok := q.Store.Accounts.Get(op.FeePayer())
		if !ok {
			return nil, chainerr.New(chainerr.Precondition, "api.get_potential_signatures", "unknown fee payer")
		}
		if err := q.collectPotential(acct.Active, 0, seen); err != nil {
			return nil, err
		}
	}
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return string(out[i][:]) < string(out[j][:]) })
	return out, nil
}

func (q *QueryService) collectPotential(auth objects.Authority, depth uint32, seen map[objects.PubKey]struct{}) error {
	if depth > q.Authority.MaxDepth {
		return chainerr.Newf(chainerr.Capacity, "api.get_potential_signatures", "authority depth exceeds %d", q.Authority.MaxDepth)
	}
	for k := range auth.KeyAuths {
		seen[k] = struct{}{}
	}
	for id := range auth.AccountAuths {
		acct, ok := q.Store.Accounts.Get(id)
		if !ok {
			continue
		}
		if err := q.collectPotential(acct.Active, depth+1, seen); err != nil {
			return err
		}
	}
	return nil
}

// VerifyAuthority reports whether available satisfies every operation's fee
// payer's active authority in tx.
func (q *QueryService) VerifyAuthority(tx objects.Transaction, available authority.Keyset) (bool, error) {
	for _, op := range tx.Operations {
		acct, ok := q.Store.Accounts.Get(op.FeePayer())
		if !ok {
			return false, chainerr.New(chainerr.Precondition, "api.verify_authority", "unknown fee payer")
		}
		ok2, err := q.Authority.Satisfies(acct.Active, available)
		if err != nil {
			return false, err
		}
		if !ok2 {
			return false, nil
		}
	}
	return true, nil
}

// ValidateTransaction runs tx through the full evaluator pipeline against
// current head state inside a session that is always undone afterward, so
// the check never leaves a trace in the store regardless of outcome.
func (q *QueryService) ValidateTransaction(tx objects.Transaction, blockTime time.Time, keys authority.Keyset) error {
	if tx.Expiration.Before(blockTime) {
		return chainerr.New(chainerr.Session, "api.validate_transaction", "transaction has expired")
	}
	sess := q.Store.StartUndoSession()
	defer sess.Undo()
	ctx := &eval.Context{
		Store:     q.Store,
		Params:    q.Params,
		Authority: q.Authority,
		BlockTime: blockTime,
		Keys:      keys,
		Engine:    q.Engine,
	}
	for _, op := range tx.Operations {
		if _, err := q.Engine.Apply(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// GetProposedTransactions returns every pending proposal naming account in
// either its required active or required owner approval list.
func (q *QueryService) GetProposedTransactions(account objects.ID) []*objects.Proposal {
	var out []*objects.Proposal
	q.Store.Proposals.Ascend(func(_ objects.ID, p *objects.Proposal) bool {
		for _, id := range p.RequiredActiveApprovals {
			if id == account {
				out = append(out, p)
				return true
			}
		}
		for _, id := range p.RequiredOwnerApprovals {
			if id == account {
				out = append(out, p)
				return true
			}
		}
		return true
	})
	return out
}

// GetBlockHeader returns block height's metadata without its transaction
// list.
func (q *QueryService) GetBlockHeader(height uint64) (objects.Block, bool, error) {
	b, ok, err := q.Chain.BlockAt(height)
	if err != nil || !ok {
		return objects.Block{}, ok, err
	}
	b.Transactions = nil
	return b, true, nil
}

// GetBlock returns the full block at height, transactions included.
func (q *QueryService) GetBlock(height uint64) (objects.Block, bool, error) {
	return q.Chain.BlockAt(height)
}

// GetTransaction returns the index'th transaction of the block at height.
func (q *QueryService) GetTransaction(height uint64, index int) (objects.Transaction, bool, error) {
	b, ok, err := q.Chain.BlockAt(height)
	if err != nil || !ok {
		return objects.Transaction{}, false, err
	}
	if index < 0 || index >= len(b.Transactions) {
		return objects.Transaction{}, false, nil
	}
	return b.Transactions[index], true, nil
}

