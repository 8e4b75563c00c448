package objects

import (
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
)

// Authority, and a handful of other object-model types, hold Go maps for
// convenient mutation (see account.go, proposal.go); RLP
// (github.com/ethereum/go-ethereum/rlp, this module's universal wire codec,
// per wire/codec.go) has no support for Go map types. Rather than make every
// call site that might embed an Authority (wire.EncodeOperation today, a
// future object-store snapshot writer tomorrow) aware of that, Authority
// implements rlp.Encoder/rlp.Decoder directly: maps become key-sorted
// slices on the wire and are rebuilt into maps on decode.

type rlpAccountWeight struct {
	Account ID
	Weight  uint32
}

type rlpKeyWeight struct {
	Key    PubKey
	Weight uint32
}

type rlpAddressWeight struct {
	Address LegacyAddress
	Weight  uint32
}

type rlpAuthority struct {
	Threshold    uint32
	AccountAuths []rlpAccountWeight
	KeyAuths     []rlpKeyWeight
	AddressAuths []rlpAddressWeight
}

// EncodeRLP implements rlp.Encoder.
func (a Authority) EncodeRLP(w io.Writer) error {
	out := rlpAuthority{Threshold: a.Threshold}
	for id, weight := range a.AccountAuths {
		out.AccountAuths = append(out.AccountAuths, rlpAccountWeight{Account: id, Weight: weight})
	}
	sort.Slice(out.AccountAuths, func(i, j int) bool {
		return out.AccountAuths[i].Account.Less(out.AccountAuths[j].Account)
	})
	for k, weight := range a.KeyAuths {
		out.KeyAuths = append(out.KeyAuths, rlpKeyWeight{Key: k, Weight: weight})
	}
	sort.Slice(out.KeyAuths, func(i, j int) bool {
		return lessBytes(out.KeyAuths[i].Key[:], out.KeyAuths[j].Key[:])
	})
	for addr, weight := range a.AddressAuths {
		out.AddressAuths = append(out.AddressAuths, rlpAddressWeight{Address: addr, Weight: weight})
	}
	sort.Slice(out.AddressAuths, func(i, j int) bool {
		return lessBytes(out.AddressAuths[i].Address[:], out.AddressAuths[j].Address[:])
	})
	return rlp.Encode(w, out)
}

// DecodeRLP implements rlp.Decoder.
func (a *Authority) DecodeRLP(s *rlp.Stream) error {
	var in rlpAuthority
	if err := s.Decode(&in); err != nil {
		return err
	}
	*a = NewAuthority(in.Threshold)
	for _, e := range in.AccountAuths {
		a.AccountAuths[e.Account] = e.Weight
	}
	for _, e := range in.KeyAuths {
		a.KeyAuths[e.Key] = e.Weight
	}
	for _, e := range in.AddressAuths {
		a.AddressAuths[e.Address] = e.Weight
	}
	return nil
}

type rlpApprovalSet struct {
	Accounts []ID
	Owners   []ID
	Keys     []PubKey
}

// EncodeRLP implements rlp.Encoder. ApprovalSet (objects/proposal.go) holds
// the same kind of map-for-mutation, slice-for-wire split as Authority
// above, for the same reason: proposal snapshotting needs it RLP-safe too.
func (s ApprovalSet) EncodeRLP(w io.Writer) error {
	out := rlpApprovalSet{}
	for id := range s.Accounts {
		out.Accounts = append(out.Accounts, id)
	}
	sort.Slice(out.Accounts, func(i, j int) bool { return out.Accounts[i].Less(out.Accounts[j]) })
	for id := range s.Owners {
		out.Owners = append(out.Owners, id)
	}
	sort.Slice(out.Owners, func(i, j int) bool { return out.Owners[i].Less(out.Owners[j]) })
	for k := range s.Keys {
		out.Keys = append(out.Keys, k)
	}
	sort.Slice(out.Keys, func(i, j int) bool { return lessBytes(out.Keys[i][:], out.Keys[j][:]) })
	return rlp.Encode(w, out)
}

// DecodeRLP implements rlp.Decoder.
func (s *ApprovalSet) DecodeRLP(st *rlp.Stream) error {
	var in rlpApprovalSet
	if err := st.Decode(&in); err != nil {
		return err
	}
	*s = NewApprovalSet()
	for _, id := range in.Accounts {
		s.Accounts[id] = struct{}{}
	}
	for _, id := range in.Owners {
		s.Owners[id] = struct{}{}
	}
	for _, k := range in.Keys {
		s.Keys[k] = struct{}{}
	}
	return nil
}

// The six object types below each carry one or more time.Time fields
// directly. Like Authority/ApprovalSet above, time.Time has no native RLP
// support (its fields are all unexported), so each gets an EncodeRLP/
// DecodeRLP pair collapsing those fields to unix timestamps. This lets a
// store snapshot (or any other RLP caller) encode *LimitOrder etc. with a
// plain rlp.EncodeToBytes, the same as every other object type.

type rlpLimitOrder struct {
	ID           ID
	Seller       ID
	ForSale      *big.Int
	SellPrice    Price
	Expiration   uint64
	FillOrKill   bool
	DeferredFee  *big.Int
}

func (o LimitOrder) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, rlpLimitOrder{
		ID: o.ID, Seller: o.Seller, ForSale: o.ForSale, SellPrice: o.SellPrice,
		Expiration: uint64(o.Expiration.Unix()), DeferredFee: o.DeferredFee,
	})
}

func (o *LimitOrder) DecodeRLP(s *rlp.Stream) error {
	var in rlpLimitOrder
	if err := s.Decode(&in); err != nil {
		return err
	}
	*o = LimitOrder{
		ID: in.ID, Seller: in.Seller, ForSale: in.ForSale, SellPrice: in.SellPrice,
		Expiration: time.Unix(int64(in.Expiration), 0).UTC(), DeferredFee: in.DeferredFee,
	}
	return nil
}

type rlpForceSettlement struct {
	ID             ID
	Owner          ID
	Balance        Amount
	SettlementDate uint64
}

func (f ForceSettlement) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, rlpForceSettlement{ID: f.ID, Owner: f.Owner, Balance: f.Balance, SettlementDate: uint64(f.SettlementDate.Unix())})
}

func (f *ForceSettlement) DecodeRLP(s *rlp.Stream) error {
	var in rlpForceSettlement
	if err := s.Decode(&in); err != nil {
		return err
	}
	*f = ForceSettlement{ID: in.ID, Owner: in.Owner, Balance: in.Balance, SettlementDate: time.Unix(int64(in.SettlementDate), 0).UTC()}
	return nil
}

type rlpWorker struct {
	ID               ID
	WorkerAccount    ID
	DailyPay         *big.Int
	WorkBegin        uint64
	WorkEnd          uint64
	VotesID          ID
	Type             WorkerType
	VestingBalanceID ID
}

func (w Worker) EncodeRLP(wr io.Writer) error {
	return rlp.Encode(wr, rlpWorker{
		ID: w.ID, WorkerAccount: w.WorkerAccount, DailyPay: w.DailyPay,
		WorkBegin: uint64(w.WorkBegin.Unix()), WorkEnd: uint64(w.WorkEnd.Unix()),
		VotesID: w.VotesID, Type: w.Type, VestingBalanceID: w.VestingBalanceID,
	})
}

func (w *Worker) DecodeRLP(s *rlp.Stream) error {
	var in rlpWorker
	if err := s.Decode(&in); err != nil {
		return err
	}
	*w = Worker{
		ID: in.ID, WorkerAccount: in.WorkerAccount, DailyPay: in.DailyPay,
		WorkBegin: time.Unix(int64(in.WorkBegin), 0).UTC(), WorkEnd: time.Unix(int64(in.WorkEnd), 0).UTC(),
		VotesID: in.VotesID, Type: in.Type, VestingBalanceID: in.VestingBalanceID,
	}
	return nil
}

type rlpVestingBalance struct {
	ID             ID
	Owner          ID
	Balance        Amount
	Policy         VestingPolicy
	StartClaim     uint64
	VestingSeconds uint32
	Withdrawn      *big.Int
}

func (v VestingBalance) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, rlpVestingBalance{
		ID: v.ID, Owner: v.Owner, Balance: v.Balance, Policy: v.Policy,
		StartClaim: uint64(v.StartClaim.Unix()), VestingSeconds: v.VestingSeconds, Withdrawn: v.Withdrawn,
	})
}

func (v *VestingBalance) DecodeRLP(s *rlp.Stream) error {
	var in rlpVestingBalance
	if err := s.Decode(&in); err != nil {
		return err
	}
	*v = VestingBalance{
		ID: in.ID, Owner: in.Owner, Balance: in.Balance, Policy: in.Policy,
		StartClaim: time.Unix(int64(in.StartClaim), 0).UTC(), VestingSeconds: in.VestingSeconds, Withdrawn: in.Withdrawn,
	}
	return nil
}

type rlpWithdrawPermission struct {
	ID                      ID
	Withdrawer              ID
	Authorized              ID
	WithdrawalLimit         Amount
	WithdrawalPeriodSeconds uint32
	PeriodStartTime         uint64
	ExpirationTime          uint64
}

func (p WithdrawPermission) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, rlpWithdrawPermission{
		ID: p.ID, Withdrawer: p.Withdrawer, Authorized: p.Authorized, WithdrawalLimit: p.WithdrawalLimit,
		WithdrawalPeriodSeconds: p.WithdrawalPeriodSeconds,
		PeriodStartTime:         uint64(p.PeriodStartTime.Unix()),
		ExpirationTime:          uint64(p.ExpirationTime.Unix()),
	})
}

func (p *WithdrawPermission) DecodeRLP(s *rlp.Stream) error {
	var in rlpWithdrawPermission
	if err := s.Decode(&in); err != nil {
		return err
	}
	*p = WithdrawPermission{
		ID: in.ID, Withdrawer: in.Withdrawer, Authorized: in.Authorized, WithdrawalLimit: in.WithdrawalLimit,
		WithdrawalPeriodSeconds: in.WithdrawalPeriodSeconds,
		PeriodStartTime:         time.Unix(int64(in.PeriodStartTime), 0).UTC(),
		ExpirationTime:          time.Unix(int64(in.ExpirationTime), 0).UTC(),
	}
	return nil
}

type rlpBudgetRecord struct {
	ID             ID
	Time           uint64
	TotalBudget    *big.Int
	WitnessBudget  *big.Int
	WorkerBudget   *big.Int
	LeftoverBurned *big.Int
}

func (b BudgetRecord) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, rlpBudgetRecord{
		ID: b.ID, Time: uint64(b.Time.Unix()), TotalBudget: b.TotalBudget,
		WitnessBudget: b.WitnessBudget, WorkerBudget: b.WorkerBudget, LeftoverBurned: b.LeftoverBurned,
	})
}

func (b *BudgetRecord) DecodeRLP(s *rlp.Stream) error {
	var in rlpBudgetRecord
	if err := s.Decode(&in); err != nil {
		return err
	}
	*b = BudgetRecord{
		ID: in.ID, Time: time.Unix(int64(in.Time), 0).UTC(), TotalBudget: in.TotalBudget,
		WitnessBudget: in.WitnessBudget, WorkerBudget: in.WorkerBudget, LeftoverBurned: in.LeftoverBurned,
	}
	return nil
}

// ProducerFeed.Timestamp and BitassetOptions.ForceSettleDelay need the same
// treatment: go-ethereum's rlp package additionally rejects every signed
// integer kind outright (only unsigned ints and big.Int are supported), and
// time.Duration is int64-kinded, so it needs converting same as time.Time.

type rlpProducerFeed struct {
	Producer  ID
	Feed      PriceFeed
	Timestamp uint64
}

func (f ProducerFeed) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, rlpProducerFeed{Producer: f.Producer, Feed: f.Feed, Timestamp: uint64(f.Timestamp.Unix())})
}

func (f *ProducerFeed) DecodeRLP(s *rlp.Stream) error {
	var in rlpProducerFeed
	if err := s.Decode(&in); err != nil {
		return err
	}
	*f = ProducerFeed{Producer: in.Producer, Feed: in.Feed, Timestamp: time.Unix(int64(in.Timestamp), 0).UTC()}
	return nil
}

type rlpBitassetOptions struct {
	ForceSettleOffsetPercent uint16
	ForceSettleDelaySeconds  uint64
	MinimumFeeds             uint16
}

func (o BitassetOptions) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, rlpBitassetOptions{
		ForceSettleOffsetPercent: o.ForceSettleOffsetPercent,
		ForceSettleDelaySeconds:  uint64(o.ForceSettleDelay / time.Second),
		MinimumFeeds:             o.MinimumFeeds,
	})
}

func (o *BitassetOptions) DecodeRLP(s *rlp.Stream) error {
	var in rlpBitassetOptions
	if err := s.Decode(&in); err != nil {
		return err
	}
	*o = BitassetOptions{
		ForceSettleOffsetPercent: in.ForceSettleOffsetPercent,
		ForceSettleDelay:         time.Duration(in.ForceSettleDelaySeconds) * time.Second,
		MinimumFeeds:             in.MinimumFeeds,
	}
	return nil
}

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
