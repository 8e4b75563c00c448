package eval

import (
	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

type witnessCreateEvaluator struct{}

func (witnessCreateEvaluator) Validate(opAny objects.Operation) error { return nil }

func (witnessCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.WitnessCreate)
	if _, ok := ctx.Store.Accounts.Get(op.WitnessAccount); !ok {
		return nil, chainerr.New(chainerr.Precondition, "witness_create.evaluate", "unknown account")
	}
	return nil, nil
}

func (witnessCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.WitnessCreate)
	id, _ := store.Create(ctx.Store, ctx.Store.Witnesses, func(id objects.ID) *objects.Witness {
		return &objects.Witness{ID: id, WitnessAccount: op.WitnessAccount, SigningKey: op.SigningKey}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}

type witnessUpdateEvaluator struct{}

func (witnessUpdateEvaluator) Validate(opAny objects.Operation) error { return nil }

func (witnessUpdateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.WitnessUpdate)
	w, ok := ctx.Store.Witnesses.Get(op.Witness)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "witness_update.evaluate", "unknown witness")
	}
	if w.WitnessAccount != op.WitnessAccount {
		return nil, chainerr.New(chainerr.Precondition, "witness_update.evaluate", "only the witness account may update its own key")
	}
	return nil, nil
}

func (witnessUpdateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.WitnessUpdate)
	store.Modify(ctx.Store, ctx.Store.Witnesses, op.Witness, func(w *objects.Witness) *objects.Witness {
		cp := w.Clone()
		cp.SigningKey = op.NewSigningKey
		return cp
	})
	return objects.OperationResult{NewObjectID: op.Witness}, nil
}

type committeeMemberCreateEvaluator struct{}

func (committeeMemberCreateEvaluator) Validate(opAny objects.Operation) error { return nil }

func (committeeMemberCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.CommitteeMemberCreate)
	if _, ok := ctx.Store.Accounts.Get(op.MemberAccount); !ok {
		return nil, chainerr.New(chainerr.Precondition, "committee_member_create.evaluate", "unknown account")
	}
	return nil, nil
}

func (committeeMemberCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.CommitteeMemberCreate)
	id, _ := store.Create(ctx.Store, ctx.Store.CommitteeMembers, func(id objects.ID) *objects.CommitteeMember {
		return &objects.CommitteeMember{ID: id, MemberAccount: op.MemberAccount}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}

type committeeMemberUpdateEvaluator struct{}

func (committeeMemberUpdateEvaluator) Validate(opAny objects.Operation) error { return nil }

func (committeeMemberUpdateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.CommitteeMemberUpdate)
	m, ok := ctx.Store.CommitteeMembers.Get(op.CommitteeMember)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "committee_member_update.evaluate", "unknown committee member")
	}
	if m.MemberAccount != op.MemberAccount {
		return nil, chainerr.New(chainerr.Precondition, "committee_member_update.evaluate", "only the member account may update itself")
	}
	return nil, nil
}

func (committeeMemberUpdateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.CommitteeMemberUpdate)
	return objects.OperationResult{NewObjectID: op.CommitteeMember}, nil
}

type workerCreateEvaluator struct{}

func (workerCreateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.WorkerCreate)
	if op.DailyPay == nil || op.DailyPay.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "worker_create.validate", "daily pay must be positive")
	}
	if !op.WorkBegin.Before(op.WorkEnd) {
		return chainerr.New(chainerr.Validation, "worker_create.validate", "work window must be non-empty")
	}
	return nil
}

func (workerCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.WorkerCreate)
	if _, ok := ctx.Store.Accounts.Get(op.Owner); !ok {
		return nil, chainerr.New(chainerr.Precondition, "worker_create.evaluate", "unknown owner")
	}
	return nil, nil
}

func (workerCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.WorkerCreate)
	id, _ := store.Create(ctx.Store, ctx.Store.Workers, func(id objects.ID) *objects.Worker {
		return &objects.Worker{
			ID:            id,
			WorkerAccount: op.Owner,
			DailyPay:      op.DailyPay,
			WorkBegin:     op.WorkBegin,
			WorkEnd:       op.WorkEnd,
			Type:          op.Type,
		}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}
