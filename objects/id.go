// Package objects defines the persistent data model of the core: the typed,
// id-addressed entities that live in the object store (store.Store) and the
// operation/transaction/block envelopes that the evaluators and block
// processor operate on.
package objects

import "fmt"

// Space partitions protocol-visible objects from implementation-detail
// objects, per spec.md §3.
type Space uint8

const (
	// SpaceProtocol holds objects directly meaningful to the replicated
	// state machine: accounts, assets, orders, proposals, and so on.
	SpaceProtocol Space = 1
	// SpaceImplementation holds bookkeeping objects private to this
	// implementation (recent-slots trackers, budget ledgers) that have no
	// counterpart in the wire protocol.
	SpaceImplementation Space = 2
)

// Type selects the object variant within a space. Values are stable and
// never reused, matching spec.md §3's "object identity is stable across the
// object's lifetime".
type Type uint8

const (
	TypeAccount Type = iota
	TypeAsset
	TypeBitassetData
	TypeAssetDynamicData
	TypeAccountBalance
	TypeLimitOrder
	TypeCallOrder
	TypeForceSettlement
	TypeCollateralBid
	TypeProposal
	TypeWitness
	TypeCommitteeMember
	TypeWorker
	TypeVestingBalance
	TypeWithdrawPermission
	TypeRecentSlots
	TypeBudgetRecord
	TypeGenesisBalance
)

// ID is the globally unique identifier of an object: (space, type,
// instance). instance is a monotonically assigned 48-bit integer scoped to
// (space, type); invariant 6 in spec.md §3 requires these to be dense and
// monotonic.
type ID struct {
	Space    Space
	Type     Type
	Instance uint64 // only the low 48 bits are significant
}

// NewID constructs an id, masking the instance to 48 bits.
func NewID(space Space, typ Type, instance uint64) ID {
	return ID{Space: space, Type: typ, Instance: instance & 0xFFFFFFFFFFFF}
}

// String renders the id in the canonical "space.type.instance" text form
// (spec.md §6 Identifier text form).
func (id ID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Space, id.Type, id.Instance)
}

// Less provides the strict weak ordering used by the store's primary index
// and by deterministic tie-breaks elsewhere (lowest id first).
func (id ID) Less(other ID) bool {
	if id.Space != other.Space {
		return id.Space < other.Space
	}
	if id.Type != other.Type {
		return id.Type < other.Type
	}
	return id.Instance < other.Instance
}

// IsZero reports whether the id is the unset zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}
