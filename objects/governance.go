package objects

import (
	"math/big"
	"time"
)

// Witness is a block-production authority, elected by stake-weighted vote,
// owning a signing key distinct from its account's active authority.
type Witness struct {
	ID              ID
	WitnessAccount  ID
	SigningKey      PubKey
	VotesID         ID // tally object id, not a raw vote count
	TotalMissed     uint64
	LastConfirmedBlock uint64
}

func (w *Witness) Clone() *Witness {
	if w == nil {
		return nil
	}
	cp := *w
	return &cp
}

// CommitteeMember registers MemberAccount as a committee member, with
// VotesID naming its vote tally. The authority resolver treats the committee
// account like any other account, and no maintenance step recomputes its
// authorities from the committee members.
type CommitteeMember struct {
	ID             ID
	MemberAccount  ID
	VotesID        ID
}

func (c *CommitteeMember) Clone() *CommitteeMember {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// WorkerType distinguishes how a funded worker's budget is disbursed.
type WorkerType uint8

const (
	WorkerRefund WorkerType = iota
	WorkerVestingBalance
	WorkerBurn
)

// Worker is paid DailyPay at each maintenance pass while inside its bounded
// [WorkBegin, WorkEnd) window; only WorkerRefund workers are paid. Votes are
// not consulted: the maintenance pass pays every active worker regardless of
// VotesID.
type Worker struct {
	ID            ID
	WorkerAccount ID
	DailyPay      *big.Int
	WorkBegin     time.Time
	WorkEnd       time.Time
	VotesID       ID
	Type          WorkerType
	VestingBalanceID ID // only meaningful when Type == WorkerVestingBalance
}

func (w *Worker) Clone() *Worker {
	if w == nil {
		return nil
	}
	cp := *w
	if w.DailyPay != nil {
		cp.DailyPay = new(big.Int).Set(w.DailyPay)
	}
	return &cp
}

// IsActive reports whether the worker is within its funded window at t.
func (w *Worker) IsActive(t time.Time) bool {
	return !t.Before(w.WorkBegin) && t.Before(w.WorkEnd)
}

// VestingPolicy distinguishes linear drip-out from cliff release.
type VestingPolicy uint8

const (
	VestingLinear VestingPolicy = iota
	VestingCliff
)

// VestingBalance holds funds that unlock gradually (or at a cliff) and can
// be withdrawn by Owner up to the unlocked amount.
type VestingBalance struct {
	ID             ID
	Owner          ID
	Balance        Amount
	Policy         VestingPolicy
	StartClaim     time.Time
	VestingSeconds uint32
	Withdrawn      *big.Int // cumulative amount already withdrawn
}

func (v *VestingBalance) Clone() *VestingBalance {
	if v == nil {
		return nil
	}
	cp := *v
	cp.Balance = v.Balance.Clone()
	if v.Withdrawn != nil {
		cp.Withdrawn = new(big.Int).Set(v.Withdrawn)
	}
	return &cp
}

// Vested returns the amount unlocked as of t.
func (v *VestingBalance) Vested(t time.Time) *big.Int {
	total := v.Balance.Value
	if total == nil {
		return big.NewInt(0)
	}
	if t.Before(v.StartClaim) {
		return big.NewInt(0)
	}
	elapsed := t.Sub(v.StartClaim).Seconds()
	switch v.Policy {
	case VestingCliff:
		if uint32(elapsed) >= v.VestingSeconds {
			return new(big.Int).Set(total)
		}
		return big.NewInt(0)
	default: // VestingLinear
		if v.VestingSeconds == 0 || uint32(elapsed) >= v.VestingSeconds {
			return new(big.Int).Set(total)
		}
		num := new(big.Int).Mul(total, big.NewInt(int64(elapsed)))
		return num.Div(num, big.NewInt(int64(v.VestingSeconds)))
	}
}

// Available returns the amount currently withdrawable at t.
func (v *VestingBalance) Available(t time.Time) *big.Int {
	avail := new(big.Int).Sub(v.Vested(t), v.Withdrawn)
	if avail.Sign() < 0 {
		return big.NewInt(0)
	}
	return avail
}

// WithdrawPermission authorizes Authorized to pull up to WithdrawalLimit
// from Withdrawer's balance once per WithdrawalPeriodSeconds, between
// PeriodStartTime and ExpirationTime.
type WithdrawPermission struct {
	ID                     ID
	Withdrawer             ID
	Authorized             ID
	WithdrawalLimit        Amount
	WithdrawalPeriodSeconds uint32
	PeriodStartTime        time.Time
	ExpirationTime         time.Time
}

func (p *WithdrawPermission) Clone() *WithdrawPermission {
	if p == nil {
		return nil
	}
	cp := *p
	cp.WithdrawalLimit = p.WithdrawalLimit.Clone()
	return &cp
}

// ClaimableNow reports whether a claim at t falls within the current period
// and before expiration.
func (p *WithdrawPermission) ClaimableNow(t time.Time) bool {
	if t.Before(p.PeriodStartTime) || !t.Before(p.ExpirationTime) {
		return false
	}
	return true
}

// RecentSlots concretizes the "recent past 128 block-production slots" bit
// register spec.md §4.E references for participation-rate accounting: bit i
// set means the slot i positions back from head produced a block.
type RecentSlots struct {
	ID   ID
	Bits big.Int // treated as a 128-bit shift register, bit 0 == most recent slot
}

func (r *RecentSlots) Clone() *RecentSlots {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Bits.Set(&r.Bits)
	return &cp
}

// RecordSlot shifts the register by one and sets bit 0 to produced.
func (r *RecentSlots) RecordSlot(produced bool) {
	r.Bits.Lsh(&r.Bits, 1)
	mask := new(big.Int).Lsh(big.NewInt(1), 128)
	mask.Sub(mask, big.NewInt(1))
	r.Bits.And(&r.Bits, mask)
	if produced {
		r.Bits.SetBit(&r.Bits, 0, 1)
	}
}

// ParticipationPercent returns the fraction of the last 128 slots that
// produced a block, as a basis-points integer (0..10000).
func (r *RecentSlots) ParticipationPercent() uint16 {
	count := 0
	for i := 0; i < 128; i++ {
		if r.Bits.Bit(i) == 1 {
			count++
		}
	}
	return uint16(count * 10000 / 128)
}

// BudgetRecord is the per-maintenance-interval ledger of the witness and
// worker payout totals a maintenance pass computed, kept for auditability.
type BudgetRecord struct {
	ID                ID
	Time              time.Time
	TotalBudget       *big.Int
	WitnessBudget     *big.Int
	WorkerBudget      *big.Int
	LeftoverBurned    *big.Int
}

func (b *BudgetRecord) Clone() *BudgetRecord {
	if b == nil {
		return nil
	}
	cp := *b
	if b.TotalBudget != nil {
		cp.TotalBudget = new(big.Int).Set(b.TotalBudget)
	}
	if b.WitnessBudget != nil {
		cp.WitnessBudget = new(big.Int).Set(b.WitnessBudget)
	}
	if b.WorkerBudget != nil {
		cp.WorkerBudget = new(big.Int).Set(b.WorkerBudget)
	}
	if b.LeftoverBurned != nil {
		cp.LeftoverBurned = new(big.Int).Set(b.LeftoverBurned)
	}
	return &cp
}
