// Package wire implements the deterministic binary encoding used for
// transactions and blocks: RLP (the teacher's universal wire codec, see
// native/swap/ledger.go, core/sync/snapshot_writer.go) plus a single
// leading operation-tag byte dispatching the Operation sum type to its
// concrete Go type on decode, per spec.md §6.
package wire

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/graphene-chain/core/chainerr"
	"github.com/graphene-chain/core/objects"
)

// wireProposalCreate mirrors objects.ProposalCreate but holds its nested
// operations as pre-tagged RLP blobs, since the go-ethereum rlp encoder has
// no way to encode the objects.Operation interface directly.
type wireProposalCreate struct {
	FeePayingAccount    objects.ID
	Operations          [][]byte
	ExpirationTime      uint64
	HasReviewPeriod     bool
	ReviewPeriodSeconds uint32
}

// EncodeOperations serializes a list of operations as an RLP list of
// tag-prefixed operation blobs, used both for top-level transactions and for
// a proposal's nested operation list.
func EncodeOperations(ops []objects.Operation) ([]byte, error) {
	encoded := make([][]byte, 0, len(ops))
	for _, op := range ops {
		b, err := EncodeOperation(op)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, b)
	}
	out, err := rlp.EncodeToBytes(encoded)
	if err != nil {
		return nil, fmt.Errorf("wire: encode operations: %w", err)
	}
	return out, nil
}

// DecodeOperations is the inverse of EncodeOperations.
func DecodeOperations(data []byte) ([]objects.Operation, error) {
	var encoded [][]byte
	if err := rlp.DecodeBytes(data, &encoded); err != nil {
		return nil, fmt.Errorf("wire: decode operations: %w", err)
	}
	out := make([]objects.Operation, 0, len(encoded))
	for _, b := range encoded {
		op, err := DecodeOperation(b)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

// EncodeOperation serializes an operation as its tag byte followed by its
// RLP encoding.
func EncodeOperation(op objects.Operation) ([]byte, error) {
	switch o := op.(type) {
	case objects.ProposalCreate:
		return encodeProposalCreate(o)
	case objects.AccountUpdate:
		return encodeAccountUpdate(o)
	case objects.AssetCreate:
		return encodeAssetCreate(o)
	case objects.LimitOrderCreate:
		return encodeLimitOrderCreate(o)
	case objects.WorkerCreate:
		return encodeWorkerCreate(o)
	case objects.WithdrawPermissionCreate:
		return encodeWithdrawPermissionCreate(o)
	case objects.WithdrawPermissionUpdate:
		return encodeWithdrawPermissionUpdate(o)
	}

	body, err := rlp.EncodeToBytes(op)
	if err != nil {
		return nil, fmt.Errorf("wire: encode operation: %w", err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(op.Tag()))
	out = append(out, body...)
	return out, nil
}

func encodeProposalCreate(pc objects.ProposalCreate) ([]byte, error) {
	nested, err := EncodeOperations(pc.Operations)
	if err != nil {
		return nil, fmt.Errorf("wire: encode proposal operations: %w", err)
	}
	w := wireProposalCreate{
		FeePayingAccount: pc.FeePayingAccount,
		Operations:       [][]byte{nested},
		ExpirationTime:   uint64(pc.ExpirationTime.Unix()),
	}
	if pc.ReviewPeriodSeconds != nil {
		w.HasReviewPeriod = true
		w.ReviewPeriodSeconds = *pc.ReviewPeriodSeconds
	}
	body, err := rlp.EncodeToBytes(w)
	if err != nil {
		return nil, fmt.Errorf("wire: encode proposal_create: %w", err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(objects.OpProposalCreate))
	out = append(out, body...)
	return out, nil
}

// DecodeOperation reads a tag byte and dispatches the remaining bytes to the
// matching concrete Operation type's RLP decoder.
func DecodeOperation(data []byte) (objects.Operation, error) {
	if len(data) == 0 {
		return nil, chainerr.New(chainerr.Validation, "wire.decode_operation", "empty operation payload")
	}
	tag := objects.OperationTag(data[0])
	body := data[1:]

	switch tag {
	case objects.OpProposalCreate:
		return decodeProposalCreate(body)
	case objects.OpProposalUpdate:
		var v objects.ProposalUpdate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpProposalDelete:
		var v objects.ProposalDelete
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpBalanceClaim:
		var v objects.BalanceClaim
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpTransfer:
		var v objects.Transfer
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, fmt.Errorf("wire: decode transfer: %w", err)
		}
		return v, nil
	case objects.OpAccountCreate:
		var v objects.AccountCreate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpAccountUpdate:
		return decodeAccountUpdate(body)
	case objects.OpAssetCreate:
		return decodeAssetCreate(body)
	case objects.OpAssetUpdate:
		var v objects.AssetUpdate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpAssetIssue:
		var v objects.AssetIssue
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpAssetReserve:
		var v objects.AssetReserve
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpAssetPublishFeed:
		var v objects.AssetPublishFeed
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpAssetGlobalSettle:
		var v objects.AssetGlobalSettle
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpLimitOrderCreate:
		return decodeLimitOrderCreate(body)
	case objects.OpLimitOrderCancel:
		var v objects.LimitOrderCancel
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpCallOrderUpdate:
		var v objects.CallOrderUpdate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpForceSettle:
		var v objects.ForceSettle
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpBidCollateral:
		var v objects.BidCollateral
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpWitnessCreate:
		var v objects.WitnessCreate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpWitnessUpdate:
		var v objects.WitnessUpdate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpCommitteeMemberCreate:
		var v objects.CommitteeMemberCreate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpCommitteeMemberUpdate:
		var v objects.CommitteeMemberUpdate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpWorkerCreate:
		return decodeWorkerCreate(body)
	case objects.OpVestingBalanceCreate:
		var v objects.VestingBalanceCreate
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpVestingBalanceWithdraw:
		var v objects.VestingBalanceWithdraw
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpWithdrawPermissionCreate:
		return decodeWithdrawPermissionCreate(body)
	case objects.OpWithdrawPermissionUpdate:
		return decodeWithdrawPermissionUpdate(body)
	case objects.OpWithdrawPermissionClaim:
		var v objects.WithdrawPermissionClaim
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case objects.OpWithdrawPermissionDelete:
		var v objects.WithdrawPermissionDelete
		if err := rlp.DecodeBytes(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, chainerr.Newf(chainerr.Validation, "wire.decode_operation", "unknown operation tag %d", tag)
	}
}

func decodeProposalCreate(body []byte) (objects.Operation, error) {
	var w wireProposalCreate
	if err := rlp.DecodeBytes(body, &w); err != nil {
		return nil, fmt.Errorf("wire: decode proposal_create: %w", err)
	}
	var nested []byte
	if len(w.Operations) > 0 {
		nested = w.Operations[0]
	}
	ops, err := DecodeOperations(nested)
	if err != nil {
		return nil, fmt.Errorf("wire: decode proposal_create operations: %w", err)
	}
	pc := objects.ProposalCreate{
		FeePayingAccount: w.FeePayingAccount,
		Operations:       ops,
		ExpirationTime:   time.Unix(int64(w.ExpirationTime), 0).UTC(),
	}
	if w.HasReviewPeriod {
		s := w.ReviewPeriodSeconds
		pc.ReviewPeriodSeconds = &s
	}
	return pc, nil
}

// wireAccountUpdate mirrors objects.AccountUpdate with its three "leave
// unchanged" pointer fields flattened to explicit presence flags, since RLP
// has no native nil-pointer-vs-absent-field distinction for arbitrary
// struct fields the way it does for trailing "optional"-tagged fields.
type wireAccountUpdate struct {
	Account    objects.ID
	HasOwner   bool
	Owner      objects.Authority
	HasActive  bool
	Active     objects.Authority
	HasOptions bool
	Options    objects.VotingOptions
}

func encodeAccountUpdate(au objects.AccountUpdate) ([]byte, error) {
	w := wireAccountUpdate{Account: au.Account}
	if au.Owner != nil {
		w.HasOwner = true
		w.Owner = *au.Owner
	}
	if au.Active != nil {
		w.HasActive = true
		w.Active = *au.Active
	}
	if au.Options != nil {
		w.HasOptions = true
		w.Options = *au.Options
	}
	body, err := rlp.EncodeToBytes(w)
	if err != nil {
		return nil, fmt.Errorf("wire: encode account_update: %w", err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(objects.OpAccountUpdate))
	out = append(out, body...)
	return out, nil
}

func decodeAccountUpdate(body []byte) (objects.Operation, error) {
	var w wireAccountUpdate
	if err := rlp.DecodeBytes(body, &w); err != nil {
		return nil, fmt.Errorf("wire: decode account_update: %w", err)
	}
	au := objects.AccountUpdate{Account: w.Account}
	if w.HasOwner {
		o := w.Owner
		au.Owner = &o
	}
	if w.HasActive {
		a := w.Active
		au.Active = &a
	}
	if w.HasOptions {
		opts := w.Options
		au.Options = &opts
	}
	return au, nil
}

// wireAssetCreate mirrors objects.AssetCreate with its optional
// BitassetOpts pointer flattened to a presence flag, for the same reason as
// wireAccountUpdate above.
type wireAssetCreate struct {
	Issuer          objects.ID
	Symbol          string
	Precision       uint8
	Options         objects.AssetOptions
	HasBitassetOpts bool
	BitassetOpts    objects.BitassetOptions
	BackingAsset    objects.ID
}

func encodeAssetCreate(ac objects.AssetCreate) ([]byte, error) {
	w := wireAssetCreate{
		Issuer:       ac.Issuer,
		Symbol:       ac.Symbol,
		Precision:    ac.Precision,
		Options:      ac.Options,
		BackingAsset: ac.BackingAsset,
	}
	if ac.BitassetOpts != nil {
		w.HasBitassetOpts = true
		w.BitassetOpts = *ac.BitassetOpts
	}
	body, err := rlp.EncodeToBytes(w)
	if err != nil {
		return nil, fmt.Errorf("wire: encode asset_create: %w", err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(objects.OpAssetCreate))
	out = append(out, body...)
	return out, nil
}

func decodeAssetCreate(body []byte) (objects.Operation, error) {
	var w wireAssetCreate
	if err := rlp.DecodeBytes(body, &w); err != nil {
		return nil, fmt.Errorf("wire: decode asset_create: %w", err)
	}
	ac := objects.AssetCreate{
		Issuer:       w.Issuer,
		Symbol:       w.Symbol,
		Precision:    w.Precision,
		Options:      w.Options,
		BackingAsset: w.BackingAsset,
	}
	if w.HasBitassetOpts {
		o := w.BitassetOpts
		ac.BitassetOpts = &o
	}
	return ac, nil
}

// wireLimitOrderCreate mirrors objects.LimitOrderCreate with its Expiration
// collapsed to a unix timestamp, since go-ethereum's rlp package has no
// built-in support for time.Time (its fields are all unexported, so passed
// through directly it would silently encode as an empty value).
type wireLimitOrderCreate struct {
	Seller       objects.ID
	Amount       objects.Amount
	MinToReceive objects.Amount
	Expiration   uint64
	FillOrKill   bool
}

func encodeLimitOrderCreate(o objects.LimitOrderCreate) ([]byte, error) {
	body, err := rlp.EncodeToBytes(wireLimitOrderCreate{
		Seller:       o.Seller,
		Amount:       o.Amount,
		MinToReceive: o.MinToReceive,
		Expiration:   uint64(o.Expiration.Unix()),
		FillOrKill:   o.FillOrKill,
	})
	if err != nil {
		return nil, fmt.Errorf("wire: encode limit_order_create: %w", err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(objects.OpLimitOrderCreate))
	out = append(out, body...)
	return out, nil
}

func decodeLimitOrderCreate(body []byte) (objects.Operation, error) {
	var w wireLimitOrderCreate
	if err := rlp.DecodeBytes(body, &w); err != nil {
		return nil, fmt.Errorf("wire: decode limit_order_create: %w", err)
	}
	return objects.LimitOrderCreate{
		Seller:       w.Seller,
		Amount:       w.Amount,
		MinToReceive: w.MinToReceive,
		Expiration:   time.Unix(int64(w.Expiration), 0).UTC(),
		FillOrKill:   w.FillOrKill,
	}, nil
}

// wireWorkerCreate mirrors objects.WorkerCreate, collapsing WorkBegin/WorkEnd
// the same way, for the same reason as wireLimitOrderCreate above.
type wireWorkerCreate struct {
	Owner     objects.ID
	DailyPay  *big.Int
	WorkBegin uint64
	WorkEnd   uint64
	Type      objects.WorkerType
}

func encodeWorkerCreate(o objects.WorkerCreate) ([]byte, error) {
	body, err := rlp.EncodeToBytes(wireWorkerCreate{
		Owner:     o.Owner,
		DailyPay:  o.DailyPay,
		WorkBegin: uint64(o.WorkBegin.Unix()),
		WorkEnd:   uint64(o.WorkEnd.Unix()),
		Type:      o.Type,
	})
	if err != nil {
		return nil, fmt.Errorf("wire: encode worker_create: %w", err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(objects.OpWorkerCreate))
	out = append(out, body...)
	return out, nil
}

func decodeWorkerCreate(body []byte) (objects.Operation, error) {
	var w wireWorkerCreate
	if err := rlp.DecodeBytes(body, &w); err != nil {
		return nil, fmt.Errorf("wire: decode worker_create: %w", err)
	}
	return objects.WorkerCreate{
		Owner:     w.Owner,
		DailyPay:  w.DailyPay,
		WorkBegin: time.Unix(int64(w.WorkBegin), 0).UTC(),
		WorkEnd:   time.Unix(int64(w.WorkEnd), 0).UTC(),
		Type:      w.Type,
	}, nil
}

// wireWithdrawPermissionCreate mirrors objects.WithdrawPermissionCreate,
// collapsing PeriodStartTime the same way.
type wireWithdrawPermissionCreate struct {
	Withdrawer              objects.ID
	Authorized              objects.ID
	WithdrawalLimit         objects.Amount
	WithdrawalPeriodSeconds uint32
	PeriodsUntilExpiration  uint32
	PeriodStartTime         uint64
}

func encodeWithdrawPermissionCreate(o objects.WithdrawPermissionCreate) ([]byte, error) {
	body, err := rlp.EncodeToBytes(wireWithdrawPermissionCreate{
		Withdrawer:              o.Withdrawer,
		Authorized:              o.Authorized,
		WithdrawalLimit:         o.WithdrawalLimit,
		WithdrawalPeriodSeconds: o.WithdrawalPeriodSeconds,
		PeriodsUntilExpiration:  o.PeriodsUntilExpiration,
		PeriodStartTime:         uint64(o.PeriodStartTime.Unix()),
	})
	if err != nil {
		return nil, fmt.Errorf("wire: encode withdraw_permission_create: %w", err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(objects.OpWithdrawPermissionCreate))
	out = append(out, body...)
	return out, nil
}

func decodeWithdrawPermissionCreate(body []byte) (objects.Operation, error) {
	var w wireWithdrawPermissionCreate
	if err := rlp.DecodeBytes(body, &w); err != nil {
		return nil, fmt.Errorf("wire: decode withdraw_permission_create: %w", err)
	}
	return objects.WithdrawPermissionCreate{
		Withdrawer:              w.Withdrawer,
		Authorized:              w.Authorized,
		WithdrawalLimit:         w.WithdrawalLimit,
		WithdrawalPeriodSeconds: w.WithdrawalPeriodSeconds,
		PeriodsUntilExpiration:  w.PeriodsUntilExpiration,
		PeriodStartTime:         time.Unix(int64(w.PeriodStartTime), 0).UTC(),
	}, nil
}

// wireWithdrawPermissionUpdate mirrors objects.WithdrawPermissionUpdate.
type wireWithdrawPermissionUpdate struct {
	Permission              objects.ID
	Withdrawer              objects.ID
	Authorized              objects.ID
	WithdrawalLimit         objects.Amount
	WithdrawalPeriodSeconds uint32
	PeriodStartTime         uint64
}

func encodeWithdrawPermissionUpdate(o objects.WithdrawPermissionUpdate) ([]byte, error) {
	body, err := rlp.EncodeToBytes(wireWithdrawPermissionUpdate{
		Permission:              o.Permission,
		Withdrawer:              o.Withdrawer,
		Authorized:              o.Authorized,
		WithdrawalLimit:         o.WithdrawalLimit,
		WithdrawalPeriodSeconds: o.WithdrawalPeriodSeconds,
		PeriodStartTime:         uint64(o.PeriodStartTime.Unix()),
	})
	if err != nil {
		return nil, fmt.Errorf("wire: encode withdraw_permission_update: %w", err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(objects.OpWithdrawPermissionUpdate))
	out = append(out, body...)
	return out, nil
}

func decodeWithdrawPermissionUpdate(body []byte) (objects.Operation, error) {
	var w wireWithdrawPermissionUpdate
	if err := rlp.DecodeBytes(body, &w); err != nil {
		return nil, fmt.Errorf("wire: decode withdraw_permission_update: %w", err)
	}
	return objects.WithdrawPermissionUpdate{
		Permission:              w.Permission,
		Withdrawer:              w.Withdrawer,
		Authorized:              w.Authorized,
		WithdrawalLimit:         w.WithdrawalLimit,
		WithdrawalPeriodSeconds: w.WithdrawalPeriodSeconds,
		PeriodStartTime:         time.Unix(int64(w.PeriodStartTime), 0).UTC(),
	}, nil
}

// wireTx is the RLP shape of objects.Transaction: operations become
// tag-prefixed blobs and the expiration collapses to a unix timestamp.
type wireTx struct {
	RefBlockNum    uint16
	RefBlockPrefix uint32
	Expiration     uint64
	Operations     [][]byte
	Signatures     [][65]byte
}

// EncodeTransaction encodes every operation in a transaction as a
// length-prefixed sequence of tagged operation blobs wrapped in a single RLP
// list, giving the whole transaction one deterministic byte representation.
func EncodeTransaction(tx objects.Transaction) ([]byte, error) {
	encodedOps := make([][]byte, 0, len(tx.Operations))
	for _, op := range tx.Operations {
		b, err := EncodeOperation(op)
		if err != nil {
			return nil, err
		}
		encodedOps = append(encodedOps, b)
	}
	sigs := make([][65]byte, 0, len(tx.Signatures))
	for _, s := range tx.Signatures {
		sigs = append(sigs, [65]byte(s))
	}
	out, err := rlp.EncodeToBytes(wireTx{
		RefBlockNum:    tx.RefBlockNum,
		RefBlockPrefix: tx.RefBlockPrefix,
		Expiration:     uint64(tx.Expiration.Unix()),
		Operations:     encodedOps,
		Signatures:     sigs,
	})
	if err != nil {
		return nil, fmt.Errorf("wire: encode transaction: %w", err)
	}
	return out, nil
}

// DecodeTransaction is the inverse of EncodeTransaction.
func DecodeTransaction(data []byte) (objects.Transaction, error) {
	var w wireTx
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return objects.Transaction{}, fmt.Errorf("wire: decode transaction: %w", err)
	}
	ops := make([]objects.Operation, 0, len(w.Operations))
	for _, b := range w.Operations {
		op, err := DecodeOperation(b)
		if err != nil {
			return objects.Transaction{}, err
		}
		ops = append(ops, op)
	}
	sigs := make([]objects.CompactSignature, 0, len(w.Signatures))
	for _, s := range w.Signatures {
		sigs = append(sigs, objects.CompactSignature(s))
	}
	return objects.Transaction{
		RefBlockNum:    w.RefBlockNum,
		RefBlockPrefix: w.RefBlockPrefix,
		Expiration:     time.Unix(int64(w.Expiration), 0).UTC(),
		Operations:     ops,
		Signatures:     sigs,
	}, nil
}

// wireBlock is the RLP shape of objects.Block.
type wireBlock struct {
	Previous              [32]byte
	Timestamp             uint64
	Witness               objects.ID
	TransactionMerkleRoot [32]byte
	Transactions          [][]byte
	WitnessSignature      [65]byte
}

// EncodeBlock encodes a block as its header fields plus a list of
// independently RLP-encoded transactions.
func EncodeBlock(b objects.Block) ([]byte, error) {
	txs := make([][]byte, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		enc, err := EncodeTransaction(tx)
		if err != nil {
			return nil, err
		}
		txs = append(txs, enc)
	}
	out, err := rlp.EncodeToBytes(wireBlock{
		Previous:              b.Previous,
		Timestamp:             uint64(b.Timestamp.Unix()),
		Witness:               b.Witness,
		TransactionMerkleRoot: b.TransactionMerkleRoot,
		Transactions:          txs,
		WitnessSignature:      [65]byte(b.WitnessSignature),
	})
	if err != nil {
		return nil, fmt.Errorf("wire: encode block: %w", err)
	}
	return out, nil
}

// DecodeBlock is the inverse of EncodeBlock.
func DecodeBlock(data []byte) (objects.Block, error) {
	var w wireBlock
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return objects.Block{}, fmt.Errorf("wire: decode block: %w", err)
	}
	txs := make([]objects.Transaction, 0, len(w.Transactions))
	for _, enc := range w.Transactions {
		tx, err := DecodeTransaction(enc)
		if err != nil {
			return objects.Block{}, err
		}
		txs = append(txs, tx)
	}
	return objects.Block{
		Previous:              w.Previous,
		Timestamp:             time.Unix(int64(w.Timestamp), 0).UTC(),
		Witness:               w.Witness,
		TransactionMerkleRoot: w.TransactionMerkleRoot,
		Transactions:          txs,
		WitnessSignature:      objects.CompactSignature(w.WitnessSignature),
	}, nil
}
