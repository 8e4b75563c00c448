package objects

import (
	"math/big"
	"time"
)

// OperationTag is the single leading byte the wire codec uses to dispatch a
// RawTransaction's operation payload to the right evaluator and to the right
// concrete Operation type during decode.
type OperationTag uint8

const (
	OpTransfer OperationTag = iota
	OpAccountCreate
	OpAccountUpdate
	OpAssetCreate
	OpAssetUpdate
	OpAssetIssue
	OpAssetReserve
	OpAssetPublishFeed
	OpAssetGlobalSettle
	OpLimitOrderCreate
	OpLimitOrderCancel
	OpCallOrderUpdate
	OpForceSettle
	OpBidCollateral
	OpProposalCreate
	OpProposalUpdate
	OpProposalDelete
	OpWitnessCreate
	OpWitnessUpdate
	OpCommitteeMemberCreate
	OpCommitteeMemberUpdate
	OpWorkerCreate
	OpVestingBalanceCreate
	OpVestingBalanceWithdraw
	OpBalanceClaim
	OpWithdrawPermissionCreate
	OpWithdrawPermissionUpdate
	OpWithdrawPermissionClaim
	OpWithdrawPermissionDelete
)

// Operation is implemented by every concrete operation payload. FeePayer
// identifies the account whose balance the base fee is charged against,
// independent of which account(s) must authorize the operation.
type Operation interface {
	Tag() OperationTag
	FeePayer() ID
}

// Transfer moves Amount from From to To, optionally carrying an opaque
// memo. Evaluator: eval's transferEvaluator, grounded on native/bank/transfer.go.
type Transfer struct {
	From   ID
	To     ID
	Amount Amount
	Memo   []byte
}

func (Transfer) Tag() OperationTag { return OpTransfer }
func (t Transfer) FeePayer() ID    { return t.From }

// AccountCreate registers a new named account with its initial authorities.
type AccountCreate struct {
	Registrar ID
	Name      string
	Owner     Authority
	Active    Authority
	Options   VotingOptions
}

func (AccountCreate) Tag() OperationTag { return OpAccountCreate }
func (a AccountCreate) FeePayer() ID    { return a.Registrar }

// AccountUpdate replaces one or more of an existing account's configurable
// fields; nil pointers mean "leave unchanged".
type AccountUpdate struct {
	Account ID
	Owner   *Authority
	Active  *Authority
	Options *VotingOptions
}

func (AccountUpdate) Tag() OperationTag { return OpAccountUpdate }
func (a AccountUpdate) FeePayer() ID    { return a.Account }

// AssetCreate defines a new asset, optionally market-issued (BitassetOpts
// non-nil creates a companion BitassetData object).
type AssetCreate struct {
	Issuer       ID
	Symbol       string
	Precision    uint8
	Options      AssetOptions
	BitassetOpts *BitassetOptions
	BackingAsset ID
}

func (AssetCreate) Tag() OperationTag { return OpAssetCreate }
func (a AssetCreate) FeePayer() ID    { return a.Issuer }

// AssetUpdate changes an existing asset's mutable options.
type AssetUpdate struct {
	Issuer     ID
	Asset      ID
	NewOptions AssetOptions
}

func (AssetUpdate) Tag() OperationTag { return OpAssetUpdate }
func (a AssetUpdate) FeePayer() ID    { return a.Issuer }

// AssetIssue mints NewSupply of Asset to IssueTo, increasing current supply.
type AssetIssue struct {
	Issuer    ID
	Asset     ID
	IssueTo   ID
	NewSupply *big.Int
}

func (AssetIssue) Tag() OperationTag { return OpAssetIssue }
func (a AssetIssue) FeePayer() ID    { return a.Issuer }

// AssetReserve burns Amount of an asset out of Payer's balance.
type AssetReserve struct {
	Payer  ID
	Amount Amount
}

func (AssetReserve) Tag() OperationTag { return OpAssetReserve }
func (a AssetReserve) FeePayer() ID    { return a.Payer }

// AssetPublishFeed submits Publisher's price quote for a market-issued asset.
type AssetPublishFeed struct {
	Publisher ID
	Asset     ID
	Feed      PriceFeed
}

func (AssetPublishFeed) Tag() OperationTag { return OpAssetPublishFeed }
func (a AssetPublishFeed) FeePayer() ID    { return a.Publisher }

// AssetGlobalSettle forces every open position in Asset to settle at a
// fixed swan price. Only the issuer submits it; the margin-call sweep never
// triggers global settlement.
type AssetGlobalSettle struct {
	Issuer      ID
	Asset       ID
	SettlePrice Price
}

func (AssetGlobalSettle) Tag() OperationTag { return OpAssetGlobalSettle }
func (a AssetGlobalSettle) FeePayer() ID    { return a.Issuer }

// LimitOrderCreate offers Amount for sale at MinToReceive or better, expiring
// at Expiration (zero value means good-till-cancel up to the chain maximum).
type LimitOrderCreate struct {
	Seller        ID
	Amount        Amount
	MinToReceive  Amount
	Expiration    time.Time
	FillOrKill    bool
}

func (LimitOrderCreate) Tag() OperationTag { return OpLimitOrderCreate }
func (o LimitOrderCreate) FeePayer() ID    { return o.Seller }

// LimitOrderCancel removes an open order and refunds its remaining balance
// and deferred fee to its owner.
type LimitOrderCancel struct {
	Order ID
	Owner ID
}

func (LimitOrderCancel) Tag() OperationTag { return OpLimitOrderCancel }
func (o LimitOrderCancel) FeePayer() ID    { return o.Owner }

// CallOrderUpdate adjusts collateral/debt on an existing or new CDP.
// DeltaCollateral/DeltaDebt may be negative to withdraw collateral or repay
// debt respectively.
type CallOrderUpdate struct {
	Borrower       ID
	DeltaCollateral *big.Int
	DeltaDebt       *big.Int
	DebtAsset       ID
	FundingAccount  ID
}

func (CallOrderUpdate) Tag() OperationTag { return OpCallOrderUpdate }
func (o CallOrderUpdate) FeePayer() ID    { return o.FundingAccount }

// ForceSettle queues Amount of a market-issued asset for redemption at the
// feed price (minus the force-settlement offset), per BitassetOptions.
type ForceSettle struct {
	Account ID
	Amount  Amount
}

func (ForceSettle) Tag() OperationTag { return OpForceSettle }
func (o ForceSettle) FeePayer() ID    { return o.Account }

// BidCollateral offers additional collateral during a globally-settled
// asset's revival auction. Zero Collateral cancels a standing bid.
type BidCollateral struct {
	Bidder      ID
	Asset       ID
	Collateral  *big.Int
	DebtCovered *big.Int
}

func (BidCollateral) Tag() OperationTag { return OpBidCollateral }
func (o BidCollateral) FeePayer() ID    { return o.Bidder }

// ProposalCreate packages Operations into a pending proposal requiring the
// listed authorities' approval before ExpirationTime.
type ProposalCreate struct {
	FeePayingAccount ID
	Operations       []Operation
	ExpirationTime   time.Time
	ReviewPeriodSeconds *uint32
}

func (ProposalCreate) Tag() OperationTag { return OpProposalCreate }
func (o ProposalCreate) FeePayer() ID    { return o.FeePayingAccount }

// ProposalUpdate adds or removes approvals on a pending proposal.
type ProposalUpdate struct {
	FeePayingAccount    ID
	Proposal            ID
	ActiveApprovalsToAdd    []ID
	ActiveApprovalsToRemove []ID
	OwnerApprovalsToAdd     []ID
	OwnerApprovalsToRemove  []ID
	KeyApprovalsToAdd       []PubKey
	KeyApprovalsToRemove    []PubKey
}

func (ProposalUpdate) Tag() OperationTag { return OpProposalUpdate }
func (o ProposalUpdate) FeePayer() ID    { return o.FeePayingAccount }

// ProposalDelete withdraws a pending proposal before it executes.
type ProposalDelete struct {
	FeePayingAccount ID
	Proposal         ID
	UsingOwnerAuthority bool
}

func (ProposalDelete) Tag() OperationTag { return OpProposalDelete }
func (o ProposalDelete) FeePayer() ID    { return o.FeePayingAccount }

// WitnessCreate registers a new block-production candidate.
type WitnessCreate struct {
	WitnessAccount ID
	SigningKey     PubKey
}

func (WitnessCreate) Tag() OperationTag { return OpWitnessCreate }
func (o WitnessCreate) FeePayer() ID    { return o.WitnessAccount }

// WitnessUpdate changes a witness's signing key.
type WitnessUpdate struct {
	Witness        ID
	WitnessAccount ID
	NewSigningKey  PubKey
}

func (WitnessUpdate) Tag() OperationTag { return OpWitnessUpdate }
func (o WitnessUpdate) FeePayer() ID    { return o.WitnessAccount }

// CommitteeMemberCreate registers a new parameter-setting candidate.
type CommitteeMemberCreate struct {
	MemberAccount ID
}

func (CommitteeMemberCreate) Tag() OperationTag { return OpCommitteeMemberCreate }
func (o CommitteeMemberCreate) FeePayer() ID    { return o.MemberAccount }

// CommitteeMemberUpdate is a no-op placeholder distinguishing member-detail
// edits from the global parameter vote, per spec.md §4.C.
type CommitteeMemberUpdate struct {
	CommitteeMember ID
	MemberAccount   ID
}

func (CommitteeMemberUpdate) Tag() OperationTag { return OpCommitteeMemberUpdate }
func (o CommitteeMemberUpdate) FeePayer() ID    { return o.MemberAccount }

// WorkerCreate proposes a funded worker over [WorkBegin, WorkEnd).
type WorkerCreate struct {
	Owner     ID
	DailyPay  *big.Int
	WorkBegin time.Time
	WorkEnd   time.Time
	Type      WorkerType
}

func (WorkerCreate) Tag() OperationTag { return OpWorkerCreate }
func (o WorkerCreate) FeePayer() ID    { return o.Owner }

// VestingBalanceCreate opens a new vesting balance for Owner.
type VestingBalanceCreate struct {
	Creator        ID
	Owner          ID
	Amount         Amount
	Policy         VestingPolicy
	VestingSeconds uint32
}

func (VestingBalanceCreate) Tag() OperationTag { return OpVestingBalanceCreate }
func (o VestingBalanceCreate) FeePayer() ID    { return o.Creator }

// VestingBalanceWithdraw pulls up to the currently-vested amount out.
type VestingBalanceWithdraw struct {
	VestingBalance ID
	Owner          ID
	Amount         Amount
}

func (VestingBalanceWithdraw) Tag() OperationTag { return OpVestingBalanceWithdraw }
func (o VestingBalanceWithdraw) FeePayer() ID    { return o.Owner }

// BalanceClaim redeems a pre-chain-genesis balance commitment into a
// regular account balance.
type BalanceClaim struct {
	DepositToAccount ID
	BalanceToClaim   ID
	BalanceOwnerKey  PubKey
	TotalClaimed     Amount
}

func (BalanceClaim) Tag() OperationTag { return OpBalanceClaim }
func (o BalanceClaim) FeePayer() ID    { return o.DepositToAccount }

// WithdrawPermissionCreate authorizes Authorized to pull funds from
// Withdrawer on a recurring schedule.
type WithdrawPermissionCreate struct {
	Withdrawer              ID
	Authorized              ID
	WithdrawalLimit         Amount
	WithdrawalPeriodSeconds uint32
	PeriodsUntilExpiration  uint32
	PeriodStartTime         time.Time
}

func (WithdrawPermissionCreate) Tag() OperationTag { return OpWithdrawPermissionCreate }
func (o WithdrawPermissionCreate) FeePayer() ID    { return o.Withdrawer }

// WithdrawPermissionUpdate replaces the limit/schedule on an existing grant.
type WithdrawPermissionUpdate struct {
	Permission              ID
	Withdrawer              ID
	Authorized              ID
	WithdrawalLimit         Amount
	WithdrawalPeriodSeconds uint32
	PeriodStartTime         time.Time
}

func (WithdrawPermissionUpdate) Tag() OperationTag { return OpWithdrawPermissionUpdate }
func (o WithdrawPermissionUpdate) FeePayer() ID    { return o.Withdrawer }

// WithdrawPermissionClaim exercises a grant, pulling Amount from Withdrawer.
type WithdrawPermissionClaim struct {
	Permission  ID
	Withdrawer  ID
	Authorized  ID
	Amount      Amount
}

func (WithdrawPermissionClaim) Tag() OperationTag { return OpWithdrawPermissionClaim }
func (o WithdrawPermissionClaim) FeePayer() ID    { return o.Authorized }

// WithdrawPermissionDelete revokes a standing grant.
type WithdrawPermissionDelete struct {
	Permission ID
	Withdrawer ID
	Authorized ID
}

func (WithdrawPermissionDelete) Tag() OperationTag { return OpWithdrawPermissionDelete }
func (o WithdrawPermissionDelete) FeePayer() ID    { return o.Withdrawer }

// RawTransaction is the wire-encoded operation list a Proposal carries
// (wire.EncodeOperations output, unsigned): proposals hold these opaque bytes
// rather than a live Operation list, so they round-trip through the same
// wire codec used for blocks.
type RawTransaction struct {
	Encoded []byte
}

func (r RawTransaction) Clone() RawTransaction {
	return RawTransaction{Encoded: append([]byte(nil), r.Encoded...)}
}

// Transaction is a signed envelope of one or more operations sharing a
// single expiration and reference-block binding (spec.md §4.A, TaPoS).
type Transaction struct {
	RefBlockNum    uint16
	RefBlockPrefix uint32
	Expiration     time.Time
	Operations     []Operation
	Signatures     []CompactSignature
}

// OperationResult carries the evaluator-produced side information a client
// needs after a transaction applies (e.g. the id of a newly created object).
type OperationResult struct {
	NewObjectID ID
}

// Block is a signed batch of transactions produced by one witness.
type Block struct {
	Previous             [32]byte
	Timestamp            time.Time
	Witness              ID
	TransactionMerkleRoot [32]byte
	Transactions         []Transaction
	WitnessSignature     CompactSignature
}
