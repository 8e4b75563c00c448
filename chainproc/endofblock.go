package chainproc

import (
	"time"

	"github.com/graphene-chain/core/market"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

// runEndOfBlockHook performs the per-block housekeeping that runs after every
// transaction has applied: it removes proposals past their deadline, then,
// for every bitasset, runs the market engine's margin-call sweep and matures
// due force-settlements. Limit orders are not expired here: an order past
// its Expiration stays on the book until it fills or is cancelled. Vesting
// balances are not auto-credited either; they mature only through an
// explicit withdraw.
func runEndOfBlockHook(s *store.Store, mkt *market.Engine, blockTime time.Time) {
	expireProposals(s, blockTime)

	var bitassetIDs []objects.ID
	s.BitassetData.Ascend(func(id objects.ID, _ *objects.BitassetData) bool {
		bitassetIDs = append(bitassetIDs, id)
		return true
	})
	for _, id := range bitassetIDs {
		mkt.CheckCallOrders(id)
		mkt.ProcessForceSettlements(id, blockTime)
	}
}

// expireProposals removes every proposal past its expiration time that
// never collected enough approvals to execute.
func expireProposals(s *store.Store, blockTime time.Time) {
	var expired []objects.ID
	s.Proposals.Ascend(func(id objects.ID, p *objects.Proposal) bool {
		if blockTime.After(p.ExpirationTime) {
			expired = append(expired, id)
		}
		return true
	})
	for _, id := range expired {
		store.Remove(s, s.Proposals, id)
	}
}
