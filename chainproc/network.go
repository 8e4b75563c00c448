package chainproc

import "github.com/graphene-chain/core/objects"

// Network is the collaborator interface a gossip/P2P layer implements
// against the core (spec.md §6, "network layer -> core"). The core only
// ever calls back through NetworkCallbacks; it never dials out itself.
//
// There is no implementation of this interface in this repository: a
// gossip/RPC server is explicitly out of scope (§1), but the shape is part
// of the core's public surface so one can be wired in later without
// touching chainproc.
type Network interface {
	// PushTransaction hands a wire-encoded transaction to the core for
	// validation and pool insertion.
	PushTransaction(raw []byte) error
	// PushBlock hands a wire-encoded block to the core for validation and
	// application (or fork staging).
	PushBlock(raw []byte) error
}

// NetworkCallbacks is what the core calls back into the network layer with
// (spec.md §6, "core -> network layer").
type NetworkCallbacks interface {
	// OnPendingTransaction receives a transaction accepted into the pending
	// pool. The core does not call it: NewNetworkSubscriber forwards only
	// applied blocks, and PushTransaction publishes no notification.
	OnPendingTransaction(tx objects.Transaction)
	// OnAppliedBlock fires once a block has been applied to the canonical
	// chain.
	OnAppliedBlock(block objects.Block)
}

// networkCallbackAdapter lets a Notifier drive NetworkCallbacks without the
// network layer needing to know about Notification's internal shape.
type networkCallbackAdapter struct {
	cb NetworkCallbacks
}

// NewNetworkSubscriber wraps cb as a Subscriber a Notifier can dispatch to.
// It forwards applied blocks to cb.OnAppliedBlock and nothing else.
func NewNetworkSubscriber(cb NetworkCallbacks) Subscriber {
	return SubscriberFunc(func(n Notification) {
		if n.AppliedBlock != nil {
			cb.OnAppliedBlock(*n.AppliedBlock)
		}
	})
}
