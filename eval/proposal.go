package eval

import (
	"time"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
	"github.com/graphene-chain/core/wire"
)

type proposalCreateEvaluator struct{}

func (proposalCreateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.ProposalCreate)
	if len(op.Operations) == 0 {
		return chainerr.New(chainerr.Validation, "proposal_create.validate", "proposal must contain at least one operation")
	}
	return nil
}

func (proposalCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.ProposalCreate)
	if op.ExpirationTime.Before(ctx.BlockTime) {
		return nil, chainerr.New(chainerr.Precondition, "proposal_create.evaluate", "expiration time is in the past")
	}
	if uint32(op.ExpirationTime.Sub(ctx.BlockTime).Seconds()) > ctx.Params.MaxProposalLifetimeSeconds {
		return nil, chainerr.New(chainerr.Precondition, "proposal_create.evaluate", "proposal lifetime exceeds the chain maximum")
	}
	return nil, nil
}

func (proposalCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.ProposalCreate)

	var reviewTime *time.Time
	if op.ReviewPeriodSeconds != nil {
		t := op.ExpirationTime.Add(-time.Duration(*op.ReviewPeriodSeconds) * time.Second)
		reviewTime = &t
	}

	required := requiredAccountsFor(op.Operations)

	encoded, err := wire.EncodeOperations(op.Operations)
	if err != nil {
		return objects.OperationResult{}, chainerr.Newf(chainerr.Validation, "proposal_create.apply", "encode nested operations: %v", err)
	}

	id, _ := store.Create(ctx.Store, ctx.Store.Proposals, func(id objects.ID) *objects.Proposal {
		return &objects.Proposal{
			ID:                      id,
			ProposedTransaction:     objects.RawTransaction{Encoded: encoded},
			RequiredActiveApprovals: required,
			AvailableApprovals:      objects.NewApprovalSet(),
			ExpirationTime:          op.ExpirationTime,
			ReviewPeriodTime:        reviewTime,
		}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}

// requiredAccountsFor collects every operation's fee payer as a required
// active approval, a simplification of the original protocol's
// per-operation "whose authority does this operation actually need" walk,
// which in this codebase is computed identically from Operation.FeePayer.
func requiredAccountsFor(ops []objects.Operation) []objects.ID {
	seen := make(map[objects.ID]struct{})
	var out []objects.ID
	for _, op := range ops {
		id := op.FeePayer()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type proposalUpdateEvaluator struct{}

func (proposalUpdateEvaluator) Validate(opAny objects.Operation) error {
	return nil
}

func (proposalUpdateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.ProposalUpdate)
	prop, ok := ctx.Store.Proposals.Get(op.Proposal)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "proposal_update.evaluate", "unknown proposal")
	}
	if prop.InReviewPeriod(ctx.BlockTime) {
		return nil, chainerr.New(chainerr.Precondition, "proposal_update.evaluate", "proposal is in its review period")
	}
	if ctx.BlockTime.After(prop.ExpirationTime) {
		return nil, chainerr.New(chainerr.Precondition, "proposal_update.evaluate", "proposal has expired")
	}
	return prop, nil
}

func (proposalUpdateEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.ProposalUpdate)
	prop := evaluatedAny.(*objects.Proposal)

	updated, ok := store.Modify(ctx.Store, ctx.Store.Proposals, prop.ID, func(p *objects.Proposal) *objects.Proposal {
		cp := p.Clone()
		for _, id := range op.ActiveApprovalsToAdd {
			cp.AvailableApprovals.Accounts[id] = struct{}{}
		}
		for _, id := range op.ActiveApprovalsToRemove {
			delete(cp.AvailableApprovals.Accounts, id)
		}
		for _, id := range op.OwnerApprovalsToAdd {
			cp.AvailableApprovals.Owners[id] = struct{}{}
		}
		for _, id := range op.OwnerApprovalsToRemove {
			delete(cp.AvailableApprovals.Owners, id)
		}
		for _, k := range op.KeyApprovalsToAdd {
			cp.AvailableApprovals.Keys[k] = struct{}{}
		}
		for _, k := range op.KeyApprovalsToRemove {
			delete(cp.AvailableApprovals.Keys, k)
		}
		return cp
	})
	if !ok {
		return objects.OperationResult{}, chainerr.New(chainerr.Fatal, "proposal_update.apply", "proposal vanished mid-evaluation")
	}

	if updated.DirectlyAuthorized() {
		if err := executeProposal(ctx, updated); err != nil {
			return objects.OperationResult{}, err
		}
		store.Remove(ctx.Store, ctx.Store.Proposals, prop.ID)
	}
	return objects.OperationResult{NewObjectID: prop.ID}, nil
}

// executeProposal decodes a fully-authorized proposal's nested transaction
// and applies each operation through the same engine dispatch used for
// top-level transactions, in order.
func executeProposal(ctx *Context, prop *objects.Proposal) error {
	if ctx.Engine == nil {
		return chainerr.New(chainerr.Fatal, "proposal.execute", "no engine bound to context")
	}
	ops, err := wire.DecodeOperations(prop.ProposedTransaction.Encoded)
	if err != nil {
		return chainerr.Newf(chainerr.Fatal, "proposal.execute", "decode nested operations: %v", err)
	}
	for _, op := range ops {
		if _, err := ctx.Engine.Apply(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

type proposalDeleteEvaluator struct{}

func (proposalDeleteEvaluator) Validate(opAny objects.Operation) error { return nil }

func (proposalDeleteEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.ProposalDelete)
	if _, ok := ctx.Store.Proposals.Get(op.Proposal); !ok {
		return nil, chainerr.New(chainerr.Precondition, "proposal_delete.evaluate", "unknown proposal")
	}
	return nil, nil
}

func (proposalDeleteEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.ProposalDelete)
	store.Remove(ctx.Store, ctx.Store.Proposals, op.Proposal)
	return objects.OperationResult{NewObjectID: op.Proposal}, nil
}
