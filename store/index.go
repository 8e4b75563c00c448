// Package store implements the undoable, multi-indexed object database the
// rest of the chain core is built on: every object type lives in its own
// Index, kept in id order plus whatever secondary orderings its evaluators
// need, with create/modify/remove going through a session stack so any
// prefix of recent mutations can be rolled back.
package store

import (
	"github.com/google/btree"

	"github.com/graphene-chain/core/objects"
)

// entry is what actually lives in the primary btree: an object id paired
// with its current value as an opaque interface, compared only by ID.
type entry[T any] struct {
	id    objects.ID
	value T
}

func lessEntry[T any](a, b entry[T]) bool {
	return a.id.Less(b.id)
}

// secondaryEntry orders objects by a derived key rather than id; ties are
// broken by id so the ordering stays total even when two objects share a
// key (e.g. two call orders at the same call price).
type secondaryEntry[K any, T any] struct {
	key   K
	id    objects.ID
	value T
}

// KeyFunc derives a secondary-index key from an object, and Less orders two
// keys. Index registration supplies both, following the same
// derived-key-as-sort-key shape as the teacher's balanceKey/lendingMarketKey
// helpers in core/state/manager.go, generalized from a hashed KV key to an
// ordered btree key.
type KeyFunc[K any, T any] func(T) K
type LessFunc[K any] func(a, b K) bool

// Index is a single object type's storage: one btree ordered by ObjectID,
// plus any number of named secondary btrees ordered by a derived key.
type Index[T any] struct {
	objType objects.Type
	primary *btree.BTreeG[entry[T]]
	nextInstance uint64
	secondaries map[string]secondaryIndex[T]
}

type secondaryIndex[T any] interface {
	insert(id objects.ID, v T)
	remove(id objects.ID, v T)
}

type concreteSecondary[K any, T any] struct {
	tree    *btree.BTreeG[secondaryEntry[K, T]]
	keyFunc KeyFunc[K, T]
	less    LessFunc[K]
}

func (s *concreteSecondary[K, T]) itemLess(a, b secondaryEntry[K, T]) bool {
	if s.less(a.key, b.key) {
		return true
	}
	if s.less(b.key, a.key) {
		return false
	}
	return a.id.Less(b.id)
}

func (s *concreteSecondary[K, T]) insert(id objects.ID, v T) {
	s.tree.ReplaceOrInsert(secondaryEntry[K, T]{key: s.keyFunc(v), id: id, value: v})
}

func (s *concreteSecondary[K, T]) remove(id objects.ID, v T) {
	s.tree.Delete(secondaryEntry[K, T]{key: s.keyFunc(v), id: id, value: v})
}

// NewIndex creates an empty index for a given object type.
func NewIndex[T any](objType objects.Type) *Index[T] {
	return &Index[T]{
		objType:      objType,
		primary:      btree.NewG(32, lessEntry[T]),
		nextInstance: 0,
		secondaries:  make(map[string]secondaryIndex[T]),
	}
}

// AddSecondary registers a named ordered index over this type. Must be
// called before any objects are inserted; the store builds all secondary
// indexes for a type at construction time.
func AddSecondary[K any, T any](idx *Index[T], name string, keyFunc KeyFunc[K, T], less LessFunc[K]) {
	cs := &concreteSecondary[K, T]{
		tree:    btree.NewG(32, (&concreteSecondary[K, T]{keyFunc: keyFunc, less: less}).itemLess),
		keyFunc: keyFunc,
		less:    less,
	}
	idx.secondaries[name] = cs
}

// NextID allocates the next sequential instance number for this type
// without reserving it; the caller is expected to Insert immediately.
func (idx *Index[T]) NextID() objects.ID {
	return objects.NewID(objects.SpaceProtocol, idx.objType, idx.nextInstance)
}

func (idx *Index[T]) Insert(id objects.ID, v T) {
	idx.primary.ReplaceOrInsert(entry[T]{id: id, value: v})
	if id.Instance >= idx.nextInstance {
		idx.nextInstance = id.Instance + 1
	}
	for _, sec := range idx.secondaries {
		sec.insert(id, v)
	}
}

func (idx *Index[T]) Get(id objects.ID) (T, bool) {
	e, ok := idx.primary.Get(entry[T]{id: id})
	return e.value, ok
}

func (idx *Index[T]) Remove(id objects.ID, old T) {
	idx.primary.Delete(entry[T]{id: id})
	for _, sec := range idx.secondaries {
		sec.remove(id, old)
	}
}

// Replace swaps an object's value in the primary and every secondary index,
// since a field mutation can move the object within any derived ordering
// (e.g. a call order's collateral ratio after CallOrderUpdate).
func (idx *Index[T]) Replace(id objects.ID, old, updated T) {
	idx.primary.ReplaceOrInsert(entry[T]{id: id, value: updated})
	for _, sec := range idx.secondaries {
		sec.remove(id, old)
		sec.insert(id, updated)
	}
}

// Ascend visits every object in id order, stopping early if fn returns false.
func (idx *Index[T]) Ascend(fn func(objects.ID, T) bool) {
	idx.primary.Ascend(func(e entry[T]) bool {
		return fn(e.id, e.value)
	})
}

// Len returns the number of live objects of this type.
func (idx *Index[T]) Len() int {
	return idx.primary.Len()
}

func secondaryOf[K any, T any](idx *Index[T], name string) *concreteSecondary[K, T] {
	s, ok := idx.secondaries[name]
	if !ok {
		return nil
	}
	cs, _ := s.(*concreteSecondary[K, T])
	return cs
}

// AscendSecondary visits objects in the named secondary index's order,
// lowest key first.
func AscendSecondary[K any, T any](idx *Index[T], name string, fn func(K, objects.ID, T) bool) {
	cs := secondaryOf[K, T](idx, name)
	if cs == nil {
		return
	}
	cs.tree.Ascend(func(e secondaryEntry[K, T]) bool {
		return fn(e.key, e.id, e.value)
	})
}

// LowerBound visits objects whose secondary key is >= key, in ascending
// order, implementing spec.md §9's lower_bound/equal_range requirement.
func LowerBound[K any, T any](idx *Index[T], name string, key K, fn func(K, objects.ID, T) bool) {
	cs := secondaryOf[K, T](idx, name)
	if cs == nil {
		return
	}
	pivot := secondaryEntry[K, T]{key: key}
	cs.tree.AscendGreaterOrEqual(pivot, func(e secondaryEntry[K, T]) bool {
		return fn(e.key, e.id, e.value)
	})
}

// UpperBound visits objects whose secondary key is < key, in descending
// order starting just below key (used to scan a book from the best price
// downward/upward depending on side).
func UpperBound[K any, T any](idx *Index[T], name string, key K, fn func(K, objects.ID, T) bool) {
	cs := secondaryOf[K, T](idx, name)
	if cs == nil {
		return
	}
	pivot := secondaryEntry[K, T]{key: key}
	cs.tree.DescendLessOrEqual(pivot, func(e secondaryEntry[K, T]) bool {
		if !cs.less(e.key, key) {
			return true // skip entries equal to key, keep scanning below
		}
		return fn(e.key, e.id, e.value)
	})
}
