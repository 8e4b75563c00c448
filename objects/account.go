package objects

import (
	"sort"
)

// PubKey is a compressed secp256k1 public key, used as a key-authorization
// entry distinct from an account-authorization entry.
type PubKey [33]byte

// LegacyAddress is a 20-byte hash-based address accepted as an authorization
// entry alongside direct public keys, per spec.md §4.B ("pts/legacy-address
// forms").
type LegacyAddress [20]byte

// CompactSignature is a recoverable secp256k1 signature: one header/recovery
// byte followed by the 64-byte (r, s) pair, matching the compact format the
// authority resolver needs to recover a PubKey without a separate lookup.
type CompactSignature [65]byte

// Authority is satisfied when the summed weight of the presented
// authorizers meets or exceeds Threshold. Entries may reference other
// accounts (AccountAuths), creating an implicit DAG resolved recursively by
// the authority resolver bounded by max_authority_depth.
type Authority struct {
	Threshold    uint32
	AccountAuths map[ID]uint32
	KeyAuths     map[PubKey]uint32
	AddressAuths map[LegacyAddress]uint32
}

// NewAuthority returns an empty authority with a given threshold.
func NewAuthority(threshold uint32) Authority {
	return Authority{
		Threshold:    threshold,
		AccountAuths: make(map[ID]uint32),
		KeyAuths:     make(map[PubKey]uint32),
		AddressAuths: make(map[LegacyAddress]uint32),
	}
}

// MembershipCount returns the total number of distinct authorization entries
// (keys + accounts + addresses), checked against max_authority_membership.
func (a Authority) MembershipCount() int {
	return len(a.AccountAuths) + len(a.KeyAuths) + len(a.AddressAuths)
}

// Clone returns a deep copy, used by the store's undo-session before-image
// capture so mutations to the live object never alias a recorded snapshot.
func (a Authority) Clone() Authority {
	out := NewAuthority(a.Threshold)
	for k, v := range a.AccountAuths {
		out.AccountAuths[k] = v
	}
	for k, v := range a.KeyAuths {
		out.KeyAuths[k] = v
	}
	for k, v := range a.AddressAuths {
		out.AddressAuths[k] = v
	}
	return out
}

// SortedAccountAuths returns the account authorizations ordered by id, used
// wherever deterministic iteration over a map is required (hashing,
// serialization, recursive resolution).
func (a Authority) SortedAccountAuths() []struct {
	ID     ID
	Weight uint32
} {
	out := make([]struct {
		ID     ID
		Weight uint32
	}, 0, len(a.AccountAuths))
	for id, w := range a.AccountAuths {
		out = append(out, struct {
			ID     ID
			Weight uint32
		}{id, w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}

// VotingOptions bundles an account's non-authority configurable settings.
type VotingOptions struct {
	MemoKey     PubKey
	VotingProxy ID // zero value means "no proxy"
	Votes       []ID
}

// Account is the core identity object: a name, two authorities (owner,
// active), voting/memo options, and registrar/membership bookkeeping.
type Account struct {
	ID                ID
	Name              string // RFC-1035-like label, lowercase, dot-separated, 3-63 chars
	Owner             Authority
	Active            Authority
	Options           VotingOptions
	Registrar         ID
	LifetimeMember    bool
	StatisticsPointer ID
}

// Clone returns a deep copy suitable for undo-session before-images.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Owner = a.Owner.Clone()
	cp.Active = a.Active.Clone()
	cp.Options.Votes = append([]ID(nil), a.Options.Votes...)
	return &cp
}
