// Package eval implements the validate/evaluate/apply operation pipeline:
// every operation in objects.Operation has a concrete Evaluator here that
// first rejects structurally malformed input (Validate), then checks it
// against current chain state without mutating anything (Evaluate), then
// performs the mutation (Apply). The block processor calls all three in
// sequence for every operation in a transaction, inside one undo session
// per transaction.
//
// The three-stage split and the Engine-holds-injected-collaborators shape
// are both grounded on native/lending/engine.go's Engine/SetState pattern,
// generalized from one engine-per-market to one engine dispatching across
// every Graphene operation kind.
package eval

import (
	"time"

	"github.com/graphene-chain/core/authority"
	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

// Context carries the per-transaction evaluation state: the store, current
// chain parameters, the authority resolver, the head block time used for
// expiration checks, and the signatures presented for this transaction.
type Context struct {
	Store     *store.Store
	Params    chainparams.Parameters
	Authority *authority.Resolver
	BlockTime time.Time
	Keys      authority.Keyset
	// Engine lets an evaluator recurse into the dispatch table, used by
	// proposalUpdateEvaluator to execute a proposal's nested operations once
	// fully authorized.
	Engine *Engine
}

// Evaluator is implemented once per operation kind.
type Evaluator interface {
	Validate(op objects.Operation) error
	Evaluate(ctx *Context, op objects.Operation) (any, error)
	Apply(ctx *Context, op objects.Operation, evaluated any) (objects.OperationResult, error)
}

// Engine dispatches an operation to its registered Evaluator.
type Engine struct {
	evaluators map[objects.OperationTag]Evaluator
}

// NewEngine builds an Engine with every built-in evaluator registered.
func NewEngine() *Engine {
	e := &Engine{evaluators: make(map[objects.OperationTag]Evaluator)}
	e.Register(objects.OpTransfer, transferEvaluator{})
	e.Register(objects.OpAccountCreate, accountCreateEvaluator{})
	e.Register(objects.OpAccountUpdate, accountUpdateEvaluator{})
	e.Register(objects.OpAssetCreate, assetCreateEvaluator{})
	e.Register(objects.OpAssetUpdate, assetUpdateEvaluator{})
	e.Register(objects.OpAssetIssue, assetIssueEvaluator{})
	e.Register(objects.OpAssetReserve, assetReserveEvaluator{})
	e.Register(objects.OpAssetPublishFeed, publishFeedEvaluator{})
	e.Register(objects.OpAssetGlobalSettle, globalSettleEvaluator{})
	e.Register(objects.OpLimitOrderCreate, limitOrderCreateEvaluator{})
	e.Register(objects.OpLimitOrderCancel, limitOrderCancelEvaluator{})
	e.Register(objects.OpCallOrderUpdate, callOrderUpdateEvaluator{})
	e.Register(objects.OpForceSettle, forceSettleEvaluator{})
	e.Register(objects.OpBidCollateral, bidCollateralEvaluator{})
	e.Register(objects.OpProposalCreate, proposalCreateEvaluator{})
	e.Register(objects.OpProposalUpdate, proposalUpdateEvaluator{})
	e.Register(objects.OpProposalDelete, proposalDeleteEvaluator{})
	e.Register(objects.OpWitnessCreate, witnessCreateEvaluator{})
	e.Register(objects.OpWitnessUpdate, witnessUpdateEvaluator{})
	e.Register(objects.OpCommitteeMemberCreate, committeeMemberCreateEvaluator{})
	e.Register(objects.OpCommitteeMemberUpdate, committeeMemberUpdateEvaluator{})
	e.Register(objects.OpWorkerCreate, workerCreateEvaluator{})
	e.Register(objects.OpVestingBalanceCreate, vestingBalanceCreateEvaluator{})
	e.Register(objects.OpVestingBalanceWithdraw, vestingBalanceWithdrawEvaluator{})
	e.Register(objects.OpBalanceClaim, balanceClaimEvaluator{})
	e.Register(objects.OpWithdrawPermissionCreate, withdrawPermissionCreateEvaluator{})
	e.Register(objects.OpWithdrawPermissionUpdate, withdrawPermissionUpdateEvaluator{})
	e.Register(objects.OpWithdrawPermissionClaim, withdrawPermissionClaimEvaluator{})
	e.Register(objects.OpWithdrawPermissionDelete, withdrawPermissionDeleteEvaluator{})
	return e
}

// Register wires (or overrides) the evaluator used for a given tag.
func (e *Engine) Register(tag objects.OperationTag, ev Evaluator) {
	e.evaluators[tag] = ev
}

// Apply runs the full validate/evaluate/apply pipeline for one operation.
func (e *Engine) Apply(ctx *Context, op objects.Operation) (objects.OperationResult, error) {
	ev, ok := e.evaluators[op.Tag()]
	if !ok {
		return objects.OperationResult{}, chainerr.Newf(chainerr.Validation, "eval.apply", "no evaluator registered for operation tag %d", op.Tag())
	}
	if err := ev.Validate(op); err != nil {
		return objects.OperationResult{}, err
	}
	evaluated, err := ev.Evaluate(ctx, op)
	if err != nil {
		return objects.OperationResult{}, err
	}
	return ev.Apply(ctx, op, evaluated)
}

// chargeFee debits base from payer's core-asset balance. It adds no
// network-fee surcharge and credits no accumulated-fee pool, and no
// evaluator calls it.
// Grounded on native/fees/apply.go's fee-splitting shape.
func chargeFee(ctx *Context, payer objects.ID, coreAsset objects.ID, base int64) error {
	bal, ok := ctx.Store.FindBalance(payer, coreAsset)
	if !ok {
		return chainerr.New(chainerr.Precondition, "eval.charge_fee", "fee payer has no core-asset balance")
	}
	if bal.Amount.Int64() < base {
		return chainerr.New(chainerr.Precondition, "eval.charge_fee", "insufficient balance for fee")
	}
	_, ok2 := store.Modify(ctx.Store, ctx.Store.Balances, bal.ID, func(b *objects.AccountBalance) *objects.AccountBalance {
		cp := b.Clone()
		cp.Amount.Sub(cp.Amount, bigFromInt64(base))
		return cp
	})
	if !ok2 {
		return chainerr.New(chainerr.Fatal, "eval.charge_fee", "balance vanished mid-evaluation")
	}
	return nil
}
