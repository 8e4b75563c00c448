package eval

import (
	"strings"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

type accountCreateEvaluator struct{}

func validAccountName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

func (accountCreateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.AccountCreate)
	if !validAccountName(op.Name) {
		return chainerr.New(chainerr.Validation, "account_create.validate", "malformed account name")
	}
	if op.Owner.Threshold == 0 || op.Active.Threshold == 0 {
		return chainerr.New(chainerr.Validation, "account_create.validate", "authority threshold must be positive")
	}
	return nil
}

func (accountCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.AccountCreate)
	if op.Owner.MembershipCount() > int(ctx.Params.MaxAuthorityMembership) ||
		op.Active.MembershipCount() > int(ctx.Params.MaxAuthorityMembership) {
		return nil, chainerr.Newf(chainerr.Capacity, "account_create.evaluate", "authority membership exceeds %d", ctx.Params.MaxAuthorityMembership)
	}
	if _, exists := ctx.Store.FindByName(strings.ToLower(op.Name)); exists {
		return nil, chainerr.New(chainerr.Precondition, "account_create.evaluate", "account name already registered")
	}
	if _, ok := ctx.Store.Accounts.Get(op.Registrar); !ok {
		return nil, chainerr.New(chainerr.Precondition, "account_create.evaluate", "unknown registrar")
	}
	return nil, nil
}

func (accountCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.AccountCreate)
	id, _ := store.Create(ctx.Store, ctx.Store.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{
			ID:        id,
			Name:      strings.ToLower(op.Name),
			Owner:     op.Owner,
			Active:    op.Active,
			Options:   op.Options,
			Registrar: op.Registrar,
		}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}

type accountUpdateEvaluator struct{}

func (accountUpdateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.AccountUpdate)
	if op.Owner == nil && op.Active == nil && op.Options == nil {
		return chainerr.New(chainerr.Validation, "account_update.validate", "update must change at least one field")
	}
	if op.Owner != nil && op.Owner.Threshold == 0 {
		return chainerr.New(chainerr.Validation, "account_update.validate", "owner authority threshold must be positive")
	}
	if op.Active != nil && op.Active.Threshold == 0 {
		return chainerr.New(chainerr.Validation, "account_update.validate", "active authority threshold must be positive")
	}
	return nil
}

func (accountUpdateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.AccountUpdate)
	if _, ok := ctx.Store.Accounts.Get(op.Account); !ok {
		return nil, chainerr.New(chainerr.Precondition, "account_update.evaluate", "unknown account")
	}
	if op.Owner != nil && op.Owner.MembershipCount() > int(ctx.Params.MaxAuthorityMembership) {
		return nil, chainerr.Newf(chainerr.Capacity, "account_update.evaluate", "owner authority membership exceeds %d", ctx.Params.MaxAuthorityMembership)
	}
	if op.Active != nil && op.Active.MembershipCount() > int(ctx.Params.MaxAuthorityMembership) {
		return nil, chainerr.Newf(chainerr.Capacity, "account_update.evaluate", "active authority membership exceeds %d", ctx.Params.MaxAuthorityMembership)
	}
	return nil, nil
}

func (accountUpdateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.AccountUpdate)
	_, ok := store.Modify(ctx.Store, ctx.Store.Accounts, op.Account, func(a *objects.Account) *objects.Account {
		cp := a.Clone()
		if op.Owner != nil {
			cp.Owner = op.Owner.Clone()
		}
		if op.Active != nil {
			cp.Active = op.Active.Clone()
		}
		if op.Options != nil {
			cp.Options = *op.Options
		}
		return cp
	})
	if !ok {
		return objects.OperationResult{}, chainerr.New(chainerr.Fatal, "account_update.apply", "account vanished mid-evaluation")
	}
	return objects.OperationResult{NewObjectID: op.Account}, nil
}
