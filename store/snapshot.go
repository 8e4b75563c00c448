package store

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/storage"
)

// Snapshot persists the full live object set to db, one key per object plus
// a per-type high-water-mark count, so a restart can rebuild an identical
// Store without replaying every historical transaction. Each object is
// stored under one key, RLP-encoded exactly as every wire type already is
// (objects/rlp.go makes every stored type safe for this), rather than
// through a separate snapshot format.
//
// Snapshot takes no undo-session lock: callers only snapshot between blocks,
// so there is nothing concurrent for this to race with. The undo sessions the
// chain keeps open for its applied blocks stay on the stack, and the snapshot
// includes their changes.
func (s *Store) Snapshot(db storage.Database) error {
	if err := saveIndex(db, s.Accounts, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot accounts: %w", err)
	}
	if err := saveIndex(db, s.Assets, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot assets: %w", err)
	}
	if err := saveIndex(db, s.BitassetData, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot bitasset data: %w", err)
	}
	if err := saveIndex(db, s.AssetDynamicData, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot asset dynamic data: %w", err)
	}
	if err := saveIndex(db, s.Balances, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot balances: %w", err)
	}
	if err := saveIndex(db, s.LimitOrders, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot limit orders: %w", err)
	}
	if err := saveIndex(db, s.CallOrders, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot call orders: %w", err)
	}
	if err := saveIndex(db, s.ForceSettlements, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot force settlements: %w", err)
	}
	if err := saveIndex(db, s.CollateralBids, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot collateral bids: %w", err)
	}
	if err := saveIndex(db, s.Proposals, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot proposals: %w", err)
	}
	if err := saveIndex(db, s.Witnesses, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot witnesses: %w", err)
	}
	if err := saveIndex(db, s.CommitteeMembers, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot committee members: %w", err)
	}
	if err := saveIndex(db, s.Workers, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot workers: %w", err)
	}
	if err := saveIndex(db, s.VestingBalances, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot vesting balances: %w", err)
	}
	if err := saveIndex(db, s.WithdrawPermissions, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot withdraw permissions: %w", err)
	}
	if err := saveIndex(db, s.RecentSlots, objects.SpaceImplementation); err != nil {
		return fmt.Errorf("store: snapshot recent slots: %w", err)
	}
	if err := saveIndex(db, s.BudgetRecords, objects.SpaceImplementation); err != nil {
		return fmt.Errorf("store: snapshot budget records: %w", err)
	}
	if err := saveIndex(db, s.GenesisBalances, objects.SpaceProtocol); err != nil {
		return fmt.Errorf("store: snapshot genesis balances: %w", err)
	}
	return nil
}

// LoadSnapshot rebuilds a Store from a prior Snapshot. Any type with no
// persisted count key (a brand-new database) is simply left empty.
func LoadSnapshot(db storage.Database) (*Store, error) {
	s := New()
	if err := loadIndex(db, s.Accounts, objects.SpaceProtocol, func() *objects.Account { return &objects.Account{} }); err != nil {
		return nil, fmt.Errorf("store: load accounts: %w", err)
	}
	if err := loadIndex(db, s.Assets, objects.SpaceProtocol, func() *objects.Asset { return &objects.Asset{} }); err != nil {
		return nil, fmt.Errorf("store: load assets: %w", err)
	}
	if err := loadIndex(db, s.BitassetData, objects.SpaceProtocol, func() *objects.BitassetData { return &objects.BitassetData{} }); err != nil {
		return nil, fmt.Errorf("store: load bitasset data: %w", err)
	}
	if err := loadIndex(db, s.AssetDynamicData, objects.SpaceProtocol, func() *objects.AssetDynamicData { return &objects.AssetDynamicData{} }); err != nil {
		return nil, fmt.Errorf("store: load asset dynamic data: %w", err)
	}
	if err := loadIndex(db, s.Balances, objects.SpaceProtocol, func() *objects.AccountBalance { return &objects.AccountBalance{} }); err != nil {
		return nil, fmt.Errorf("store: load balances: %w", err)
	}
	if err := loadIndex(db, s.LimitOrders, objects.SpaceProtocol, func() *objects.LimitOrder { return &objects.LimitOrder{} }); err != nil {
		return nil, fmt.Errorf("store: load limit orders: %w", err)
	}
	if err := loadIndex(db, s.CallOrders, objects.SpaceProtocol, func() *objects.CallOrder { return &objects.CallOrder{} }); err != nil {
		return nil, fmt.Errorf("store: load call orders: %w", err)
	}
	if err := loadIndex(db, s.ForceSettlements, objects.SpaceProtocol, func() *objects.ForceSettlement { return &objects.ForceSettlement{} }); err != nil {
		return nil, fmt.Errorf("store: load force settlements: %w", err)
	}
	if err := loadIndex(db, s.CollateralBids, objects.SpaceProtocol, func() *objects.CollateralBid { return &objects.CollateralBid{} }); err != nil {
		return nil, fmt.Errorf("store: load collateral bids: %w", err)
	}
	if err := loadIndex(db, s.Proposals, objects.SpaceProtocol, func() *objects.Proposal { return &objects.Proposal{} }); err != nil {
		return nil, fmt.Errorf("store: load proposals: %w", err)
	}
	if err := loadIndex(db, s.Witnesses, objects.SpaceProtocol, func() *objects.Witness { return &objects.Witness{} }); err != nil {
		return nil, fmt.Errorf("store: load witnesses: %w", err)
	}
	if err := loadIndex(db, s.CommitteeMembers, objects.SpaceProtocol, func() *objects.CommitteeMember { return &objects.CommitteeMember{} }); err != nil {
		return nil, fmt.Errorf("store: load committee members: %w", err)
	}
	if err := loadIndex(db, s.Workers, objects.SpaceProtocol, func() *objects.Worker { return &objects.Worker{} }); err != nil {
		return nil, fmt.Errorf("store: load workers: %w", err)
	}
	if err := loadIndex(db, s.VestingBalances, objects.SpaceProtocol, func() *objects.VestingBalance { return &objects.VestingBalance{} }); err != nil {
		return nil, fmt.Errorf("store: load vesting balances: %w", err)
	}
	if err := loadIndex(db, s.WithdrawPermissions, objects.SpaceProtocol, func() *objects.WithdrawPermission { return &objects.WithdrawPermission{} }); err != nil {
		return nil, fmt.Errorf("store: load withdraw permissions: %w", err)
	}
	if err := loadIndex(db, s.RecentSlots, objects.SpaceImplementation, func() *objects.RecentSlots { return &objects.RecentSlots{} }); err != nil {
		return nil, fmt.Errorf("store: load recent slots: %w", err)
	}
	if err := loadIndex(db, s.BudgetRecords, objects.SpaceImplementation, func() *objects.BudgetRecord { return &objects.BudgetRecord{} }); err != nil {
		return nil, fmt.Errorf("store: load budget records: %w", err)
	}
	if err := loadIndex(db, s.GenesisBalances, objects.SpaceProtocol, func() *objects.GenesisBalance { return &objects.GenesisBalance{} }); err != nil {
		return nil, fmt.Errorf("store: load genesis balances: %w", err)
	}
	return s, nil
}

var (
	snapshotObjPrefix   = []byte("store/snap/obj:")
	snapshotCountPrefix = []byte("store/snap/count:")
)

func snapshotObjectKey(id objects.ID) []byte {
	k := make([]byte, 0, len(snapshotObjPrefix)+10)
	k = append(k, snapshotObjPrefix...)
	k = append(k, byte(id.Space), byte(id.Type))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id.Instance)
	return append(k, buf[:]...)
}

func snapshotCountKey(space objects.Space, typ objects.Type) []byte {
	k := make([]byte, 0, len(snapshotCountPrefix)+2)
	k = append(k, snapshotCountPrefix...)
	return append(k, byte(space), byte(typ))
}

// saveIndex writes every live object in idx plus its high-water instance
// count. Every object type is RLP-encodable directly (objects/rlp.go covers
// the handful that hold maps or time.Time fields rlp.Encode can't handle on
// its own), so this needs no per-type dispatch.
func saveIndex[T any](db storage.Database, idx *Index[T], space objects.Space) error {
	var outerErr error
	idx.Ascend(func(id objects.ID, v T) bool {
		b, err := rlp.EncodeToBytes(v)
		if err != nil {
			outerErr = fmt.Errorf("encode %s: %w", id, err)
			return false
		}
		if err := db.Put(snapshotObjectKey(id), b); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	if outerErr != nil {
		return outerErr
	}
	var countBuf [8]byte
	binary.BigEndian.PutUint64(countBuf[:], idx.nextInstance)
	return db.Put(snapshotCountKey(space, idx.objType), countBuf[:])
}

// loadIndex reads back what saveIndex wrote, skipping any instance that was
// removed before the snapshot was taken (its key is simply absent).
func loadIndex[T any](db storage.Database, idx *Index[T], space objects.Space, newT func() T) error {
	countBytes, err := db.Get(snapshotCountKey(space, idx.objType))
	if err != nil {
		return nil
	}
	count := binary.BigEndian.Uint64(countBytes)
	for i := uint64(0); i < count; i++ {
		// Index.NextID allocates every id in SpaceProtocol; space only
		// namespaces the count key.
		id := objects.NewID(objects.SpaceProtocol, idx.objType, i)
		raw, err := db.Get(snapshotObjectKey(id))
		if err != nil {
			continue
		}
		v := newT()
		if err := rlp.DecodeBytes(raw, v); err != nil {
			return fmt.Errorf("decode %s: %w", id, err)
		}
		idx.Insert(id, v)
	}
	return nil
}
