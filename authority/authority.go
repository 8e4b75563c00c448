// Package authority implements the recursive multi-signature authority
// resolver: whether a presented set of keys/accounts satisfies an Authority,
// walking delegated account authorities up to a bounded depth, and, given a
// surplus of available keys, finding a minimal sufficient subset.
//
// Grounded on the teacher's threshold-of-weighted-votes check in
// native/governance/engine.go (a proposal "passes" once its weighted yes
// tally clears a threshold), generalized from a flat vote tally to a
// recursive tree of delegated authorities.
package authority

import (
	"sort"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

// Resolver checks Authority satisfaction against a store snapshot, bounded
// by MaxDepth (spec.md §4.B invariant: authority resolution must terminate).
type Resolver struct {
	Store    *store.Store
	MaxDepth uint32
}

// New returns a resolver bound to maxDepth levels of account-auth delegation.
func New(s *store.Store, maxDepth uint32) *Resolver {
	return &Resolver{Store: s, MaxDepth: maxDepth}
}

// Keyset is the set of keys and legacy addresses a caller has presented
// signatures for.
type Keyset struct {
	Keys      map[objects.PubKey]struct{}
	Addresses map[objects.LegacyAddress]struct{}
}

// NewKeyset builds a Keyset out of a list of public keys; its Addresses set
// starts empty.
func NewKeyset(keys []objects.PubKey) Keyset {
	ks := Keyset{Keys: make(map[objects.PubKey]struct{}, len(keys)), Addresses: make(map[objects.LegacyAddress]struct{})}
	for _, k := range keys {
		ks.Keys[k] = struct{}{}
	}
	return ks
}

// Satisfies reports whether auth is met by the presented keyset, recursing
// into delegated account authorities up to MaxDepth. No account is
// special-cased: the committee account is resolved by the same recursion as
// any other, and nothing rewrites its authorities at a maintenance pass.
func (r *Resolver) Satisfies(auth objects.Authority, ks Keyset) (bool, error) {
	return r.satisfiesAt(auth, ks, 0)
}

func (r *Resolver) satisfiesAt(auth objects.Authority, ks Keyset, depth uint32) (bool, error) {
	if depth > r.MaxDepth {
		return false, chainerr.Newf(chainerr.Capacity, "authority.satisfies", "authority depth exceeds %d", r.MaxDepth)
	}
	var total uint64
	for k, w := range auth.KeyAuths {
		if _, ok := ks.Keys[k]; ok {
			total += uint64(w)
		}
	}
	for a, w := range auth.AddressAuths {
		if _, ok := ks.Addresses[a]; ok {
			total += uint64(w)
		}
	}
	for id, w := range auth.AccountAuths {
		acct, ok := r.Store.Accounts.Get(id)
		if !ok {
			continue
		}
		ok2, err := r.satisfiesAt(acct.Active, ks, depth+1)
		if err != nil {
			return false, err
		}
		if ok2 {
			total += uint64(w)
		}
	}
	return total >= uint64(auth.Threshold), nil
}

// candidate is one directly-presentable authorization entry, flattened out
// of an authority tree for the greedy minimal-set search below.
type candidate struct {
	key    objects.PubKey
	hasKey bool
	addr   objects.LegacyAddress
	hasAddr bool
	account objects.ID
	hasAccount bool
	weight uint32
}

// MinimalSignatures greedily picks the fewest available keys (by weight,
// highest first) needed to satisfy auth. Direct keys, addresses and every
// delegated account whose active authority can itself be satisfied from
// available all compete as candidates in that one weight order.
// This mirrors get_required_signatures' purpose in the original protocol:
// pruning a signer's full keyring down to the subset actually needed.
func (r *Resolver) MinimalSignatures(auth objects.Authority, available Keyset) ([]objects.PubKey, error) {
	return r.minimalAt(auth, available, 0)
}

func (r *Resolver) minimalAt(auth objects.Authority, available Keyset, depth uint32) ([]objects.PubKey, error) {
	if depth > r.MaxDepth {
		return nil, chainerr.Newf(chainerr.Capacity, "authority.minimal_signatures", "authority depth exceeds %d", r.MaxDepth)
	}

	var candidates []candidate
	for k, w := range auth.KeyAuths {
		if _, ok := available.Keys[k]; ok {
			candidates = append(candidates, candidate{key: k, hasKey: true, weight: w})
		}
	}
	for a, w := range auth.AddressAuths {
		if _, ok := available.Addresses[a]; ok {
			candidates = append(candidates, candidate{addr: a, hasAddr: true, weight: w})
		}
	}
	// Delegated account candidates: only considered usable if that
	// sub-account's own authority can be satisfied from the same keyset.
	accountSigs := make(map[objects.ID][]objects.PubKey)
	for id, w := range auth.AccountAuths {
		acct, ok := r.Store.Accounts.Get(id)
		if !ok {
			continue
		}
		sigs, err := r.minimalAt(acct.Active, available, depth+1)
		if err != nil {
			if ce, ok := err.(*chainerr.Error); ok && ce.Kind == chainerr.Precondition {
				continue
			}
			return nil, err
		}
		if sigs != nil {
			candidates = append(candidates, candidate{account: id, hasAccount: true, weight: w})
			accountSigs[id] = sigs
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].weight > candidates[j].weight })

	var chosen []objects.PubKey
	var total uint64
	for _, c := range candidates {
		if total >= uint64(auth.Threshold) {
			break
		}
		switch {
		case c.hasKey:
			chosen = append(chosen, c.key)
		case c.hasAccount:
			chosen = append(chosen, accountSigs[c.account]...)
		}
		total += uint64(c.weight)
	}
	if total < uint64(auth.Threshold) {
		return nil, chainerr.New(chainerr.Precondition, "authority.minimal_signatures", "insufficient keys to satisfy authority")
	}
	return chosen, nil
}
