package chainproc

import (
	"math/big"
	"time"

	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/observability"
	"github.com/graphene-chain/core/store"
)

// maintenanceTracker decides when a maintenance pass is due, independent of
// block height (spec.md ties it to wall-clock interval, not block count).
type maintenanceTracker struct {
	last time.Time
}

func newMaintenanceTracker() *maintenanceTracker {
	return &maintenanceTracker{}
}

func (t *maintenanceTracker) due(now time.Time, interval time.Duration) bool {
	if t.last.IsZero() {
		return true
	}
	return now.Sub(t.last) >= interval
}

func (t *maintenanceTracker) record(now time.Time) {
	t.last = now
}

// runMaintenance performs the per-interval housekeeping spec.md §4.E
// assigns to the maintenance pass: fold the slot-production record into a
// participation rate, and pay witnesses and active workers (see
// allocateBudget), recording the payouts for audit.
// Grounded on native/fees/apply.go's split-and-credit shape, generalized
// from a single fee split to a witness/worker budget split running once per
// interval rather than once per transaction.
func runMaintenance(s *store.Store, params chainparams.Parameters, now time.Time) {
	participation := recordParticipation(s)
	observability.Core().RecordMaintenanceRun(participation)
	allocateBudget(s, params, now)
}

// recordParticipation shifts the chain's single RecentSlots register
// (creating it on first use) and returns the resulting participation
// fraction in [0, 1].
func recordParticipation(s *store.Store) float64 {
	var id objects.ID
	found := false
	s.RecentSlots.Ascend(func(existing objects.ID, _ *objects.RecentSlots) bool {
		id, found = existing, true
		return false
	})
	if !found {
		id, _ = store.Create(s, s.RecentSlots, func(newID objects.ID) *objects.RecentSlots {
			return &objects.RecentSlots{ID: newID}
		})
	}
	store.Modify(s, s.RecentSlots, id, func(r *objects.RecentSlots) *objects.RecentSlots {
		cp := r.Clone()
		cp.RecordSlot(true)
		return cp
	})
	updated, _ := s.RecentSlots.Get(id)
	return float64(updated.ParticipationPercent()) / 10000
}

// allocateBudget pays every witness a flat allowance equal to the "transfer"
// base fee and every active refund-type worker its DailyPay, then records the
// totals in a BudgetRecord. Payouts are not limited by any accumulated
// budget and nothing is burned: LeftoverBurned is always zero, and
// WorkerBudget sums the DailyPay of every active worker, including types
// payWorker does not pay. Payouts land in an objects.VestingBalance rather
// than a direct balance credit.
func allocateBudget(s *store.Store, params chainparams.Parameters, now time.Time) {
	var witnessIDs []objects.ID
	s.Witnesses.Ascend(func(id objects.ID, _ *objects.Witness) bool {
		witnessIDs = append(witnessIDs, id)
		return true
	})

	var activeWorkers []*objects.Worker
	s.Workers.Ascend(func(_ objects.ID, w *objects.Worker) bool {
		if w.IsActive(now) {
			activeWorkers = append(activeWorkers, w)
		}
		return true
	})

	perWitnessPay := big.NewInt(0)
	if base, ok := new(big.Int).SetString(params.BaseFee["transfer"], 10); ok {
		perWitnessPay = base
	}
	witnessBudget := new(big.Int).Mul(perWitnessPay, big.NewInt(int64(len(witnessIDs))))

	workerBudget := big.NewInt(0)
	for _, w := range activeWorkers {
		workerBudget.Add(workerBudget, w.DailyPay)
	}

	total := new(big.Int).Add(witnessBudget, workerBudget)

	for _, id := range witnessIDs {
		w, ok := s.Witnesses.Get(id)
		if !ok || perWitnessPay.Sign() <= 0 {
			continue
		}
		payWitness(s, w, perWitnessPay, now, params.WitnessPayVestingSeconds)
	}
	for _, w := range activeWorkers {
		payWorker(s, w, now)
	}

	store.Create(s, s.BudgetRecords, func(id objects.ID) *objects.BudgetRecord {
		return &objects.BudgetRecord{
			ID:             id,
			Time:           now,
			TotalBudget:    total,
			WitnessBudget:  witnessBudget,
			WorkerBudget:   workerBudget,
			LeftoverBurned: big.NewInt(0),
		}
	})
}

func payWitness(s *store.Store, w *objects.Witness, amount *big.Int, now time.Time, vestingSeconds uint32) {
	store.Create(s, s.VestingBalances, func(id objects.ID) *objects.VestingBalance {
		return &objects.VestingBalance{
			ID:             id,
			Owner:          w.WitnessAccount,
			Balance:        objects.Amount{Asset: coreAssetID(), Value: new(big.Int).Set(amount)},
			Policy:         objects.VestingLinear,
			StartClaim:     now,
			VestingSeconds: vestingSeconds,
			Withdrawn:      big.NewInt(0),
		}
	})
}

// payWorker disburses a refund-type worker's daily pay as an immediate
// vesting grant; vesting-balance and burn worker types receive nothing here,
// and no other code pays them.
func payWorker(s *store.Store, w *objects.Worker, now time.Time) {
	if w.Type != objects.WorkerRefund {
		return
	}
	store.Create(s, s.VestingBalances, func(id objects.ID) *objects.VestingBalance {
		return &objects.VestingBalance{
			ID:             id,
			Owner:          w.WorkerAccount,
			Balance:        objects.Amount{Asset: coreAssetID(), Value: new(big.Int).Set(w.DailyPay)},
			Policy:         objects.VestingCliff,
			StartClaim:     now,
			VestingSeconds: 0,
			Withdrawn:      big.NewInt(0),
		}
	})
}

// coreAssetID is the chain's base asset, always the first asset created at
// genesis (instance 0 in the protocol space).
func coreAssetID() objects.ID {
	return objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 0)
}
