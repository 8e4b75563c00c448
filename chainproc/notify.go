package chainproc

import (
	"log/slog"

	"github.com/graphene-chain/core/objects"
)

// Notification is one change-notification, published by the Processor once
// a block has been applied: the ids of objects the block's operations
// created, the block itself, and the accounts its operations touched.
// ChangedObjects and RemovedObjects are part of the shape, but the Processor
// leaves them empty; modified and removed objects are not reported.
//
// Grounded on core/events/event.go's Event/Emitter shape, narrowed from a
// family of per-domain typed events to the single id-list shape spec.md §4.E
// and §5 describe ("new_objects / changed_objects / removed_objects /
// applied_block notifications").
type Notification struct {
	NewObjects      []objects.ID
	ChangedObjects  []objects.ID
	RemovedObjects  []objects.ID
	AppliedBlock    *objects.Block
	ImpactedAccounts []objects.ID
}

// Subscriber receives notifications. Implementations must return quickly;
// Notifier does not wait for a subscriber before moving to the next.
type Subscriber interface {
	Notify(Notification)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(Notification)

func (f SubscriberFunc) Notify(n Notification) { f(n) }

// Notifier dispatches notifications on one dedicated goroutine, fed only
// once a block has been applied (never from inside Modify/Create/Remove
// themselves), per spec.md §5's concurrency model: the single mutation path
// stays synchronous and uncontended, and subscriber work never blocks it.
// Grounded on core/events/event.go's Emitter, generalized from a direct
// synchronous call to a buffered channel plus worker goroutine so a slow
// subscriber cannot stall block application.
type Notifier struct {
	subscribers []Subscriber
	ch          chan Notification
	log         *slog.Logger
}

// NewNotifier starts the dispatch goroutine with a bounded queue. Queue
// overflow drops the notification being published and logs it, rather than
// blocking the core on a slow or stalled subscriber.
func NewNotifier(log *slog.Logger, queueDepth int) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	n := &Notifier{ch: make(chan Notification, queueDepth), log: log}
	go n.run()
	return n
}

// Subscribe registers s to receive every future notification. Not safe to
// call concurrently with Publish; callers register subscribers during setup.
func (n *Notifier) Subscribe(s Subscriber) {
	n.subscribers = append(n.subscribers, s)
}

// Publish enqueues a notification for dispatch. Never blocks: if the queue
// is full, the notification is dropped and logged rather than stalling the
// caller (which is always the core's single mutation path).
func (n *Notifier) Publish(note Notification) {
	select {
	case n.ch <- note:
	default:
		n.log.Warn("notification queue full, dropping", "new", len(note.NewObjects), "changed", len(note.ChangedObjects), "removed", len(note.RemovedObjects))
	}
}

func (n *Notifier) run() {
	for note := range n.ch {
		for _, s := range n.subscribers {
			dispatchOne(n.log, s, note)
		}
	}
}

// dispatchOne recovers from a panicking subscriber so one broken callback
// never takes down notification dispatch for the rest.
func dispatchOne(log *slog.Logger, s Subscriber, note Notification) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("subscriber panicked", "recover", r)
		}
	}()
	s.Notify(note)
}

// impactedAccounts returns the accounts an operation's evaluation touches,
// used to build Notification.ImpactedAccounts for a block. Grounded on
// spec.md §6's "impacted accounts" query surface; derived here from each
// operation's FeePayer plus whatever extra accounts each operation kind
// names explicitly, since spec.md never specifies a single generic accessor.
func impactedAccounts(op objects.Operation) []objects.ID {
	ids := []objects.ID{op.FeePayer()}
	switch o := op.(type) {
	case objects.Transfer:
		ids = append(ids, o.From, o.To)
	case objects.AccountUpdate:
		ids = append(ids, o.Account)
	case objects.BalanceClaim:
		ids = append(ids, o.DepositToAccount)
	}
	return dedupeIDs(ids)
}

func dedupeIDs(ids []objects.ID) []objects.ID {
	seen := make(map[objects.ID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
