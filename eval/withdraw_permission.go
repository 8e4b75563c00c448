package eval

import (
	"time"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

type withdrawPermissionCreateEvaluator struct{}

func (withdrawPermissionCreateEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.WithdrawPermissionCreate)
	if op.WithdrawalLimit.Value == nil || op.WithdrawalLimit.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "withdraw_permission_create.validate", "withdrawal limit must be positive")
	}
	if op.WithdrawalPeriodSeconds == 0 || op.PeriodsUntilExpiration == 0 {
		return chainerr.New(chainerr.Validation, "withdraw_permission_create.validate", "period and expiration count must be positive")
	}
	return nil
}

func (withdrawPermissionCreateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.WithdrawPermissionCreate)
	if _, ok := ctx.Store.Accounts.Get(op.Withdrawer); !ok {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_create.evaluate", "unknown withdrawer")
	}
	if _, ok := ctx.Store.Accounts.Get(op.Authorized); !ok {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_create.evaluate", "unknown authorized account")
	}
	return nil, nil
}

func (withdrawPermissionCreateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.WithdrawPermissionCreate)
	expiration := op.PeriodStartTime.Add(periodsAsDuration(op.WithdrawalPeriodSeconds, op.PeriodsUntilExpiration))
	id, _ := store.Create(ctx.Store, ctx.Store.WithdrawPermissions, func(id objects.ID) *objects.WithdrawPermission {
		return &objects.WithdrawPermission{
			ID:                      id,
			Withdrawer:              op.Withdrawer,
			Authorized:              op.Authorized,
			WithdrawalLimit:         op.WithdrawalLimit,
			WithdrawalPeriodSeconds: op.WithdrawalPeriodSeconds,
			PeriodStartTime:         op.PeriodStartTime,
			ExpirationTime:          expiration,
		}
	})
	return objects.OperationResult{NewObjectID: id}, nil
}

type withdrawPermissionUpdateEvaluator struct{}

func (withdrawPermissionUpdateEvaluator) Validate(opAny objects.Operation) error { return nil }

func (withdrawPermissionUpdateEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.WithdrawPermissionUpdate)
	p, ok := ctx.Store.WithdrawPermissions.Get(op.Permission)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_update.evaluate", "unknown permission")
	}
	if p.Withdrawer != op.Withdrawer {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_update.evaluate", "only the withdrawer may update this grant")
	}
	return nil, nil
}

func (withdrawPermissionUpdateEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.WithdrawPermissionUpdate)
	store.Modify(ctx.Store, ctx.Store.WithdrawPermissions, op.Permission, func(p *objects.WithdrawPermission) *objects.WithdrawPermission {
		cp := p.Clone()
		cp.Authorized = op.Authorized
		cp.WithdrawalLimit = op.WithdrawalLimit
		cp.WithdrawalPeriodSeconds = op.WithdrawalPeriodSeconds
		cp.PeriodStartTime = op.PeriodStartTime
		return cp
	})
	return objects.OperationResult{NewObjectID: op.Permission}, nil
}

type withdrawPermissionClaimEvaluator struct{}

func (withdrawPermissionClaimEvaluator) Validate(opAny objects.Operation) error {
	op := opAny.(objects.WithdrawPermissionClaim)
	if op.Amount.Value == nil || op.Amount.Value.Sign() <= 0 {
		return chainerr.New(chainerr.Validation, "withdraw_permission_claim.validate", "amount must be positive")
	}
	return nil
}

func (withdrawPermissionClaimEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.WithdrawPermissionClaim)
	p, ok := ctx.Store.WithdrawPermissions.Get(op.Permission)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_claim.evaluate", "unknown permission")
	}
	if p.Authorized != op.Authorized {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_claim.evaluate", "claimant is not the authorized party")
	}
	if !p.ClaimableNow(ctx.BlockTime) {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_claim.evaluate", "outside the claimable window")
	}
	if op.Amount.Value.Cmp(p.WithdrawalLimit.Value) > 0 {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_claim.evaluate", "amount exceeds the per-period limit")
	}
	bal, ok := ctx.Store.FindBalance(p.Withdrawer, op.Amount.Asset)
	if !ok || bal.Amount.Cmp(op.Amount.Value) < 0 {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_claim.evaluate", "withdrawer has insufficient balance")
	}
	return struct {
		perm *objects.WithdrawPermission
		bal  *objects.AccountBalance
	}{p, bal}, nil
}

func (withdrawPermissionClaimEvaluator) Apply(ctx *Context, opAny objects.Operation, evaluatedAny any) (objects.OperationResult, error) {
	op := opAny.(objects.WithdrawPermissionClaim)
	ev := evaluatedAny.(struct {
		perm *objects.WithdrawPermission
		bal  *objects.AccountBalance
	})

	store.Modify(ctx.Store, ctx.Store.Balances, ev.bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
		cp := b.Clone()
		cp.Amount.Sub(cp.Amount, op.Amount.Value)
		return cp
	})
	creditBalanceEval(ctx, op.Authorized, op.Amount.Asset, op.Amount.Value)

	store.Modify(ctx.Store, ctx.Store.WithdrawPermissions, ev.perm.ID, func(p *objects.WithdrawPermission) *objects.WithdrawPermission {
		cp := p.Clone()
		cp.PeriodStartTime = cp.PeriodStartTime.Add(periodsAsDuration(cp.WithdrawalPeriodSeconds, 1))
		return cp
	})
	return objects.OperationResult{NewObjectID: ev.perm.ID}, nil
}

type withdrawPermissionDeleteEvaluator struct{}

func (withdrawPermissionDeleteEvaluator) Validate(opAny objects.Operation) error { return nil }

func (withdrawPermissionDeleteEvaluator) Evaluate(ctx *Context, opAny objects.Operation) (any, error) {
	op := opAny.(objects.WithdrawPermissionDelete)
	p, ok := ctx.Store.WithdrawPermissions.Get(op.Permission)
	if !ok {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_delete.evaluate", "unknown permission")
	}
	if p.Withdrawer != op.Withdrawer {
		return nil, chainerr.New(chainerr.Precondition, "withdraw_permission_delete.evaluate", "only the withdrawer may revoke this grant")
	}
	return nil, nil
}

func (withdrawPermissionDeleteEvaluator) Apply(ctx *Context, opAny objects.Operation, _ any) (objects.OperationResult, error) {
	op := opAny.(objects.WithdrawPermissionDelete)
	store.Remove(ctx.Store, ctx.Store.WithdrawPermissions, op.Permission)
	return objects.OperationResult{NewObjectID: op.Permission}, nil
}

func periodsAsDuration(periodSeconds uint32, periods uint32) time.Duration {
	return time.Duration(periodSeconds) * time.Duration(periods) * time.Second
}
