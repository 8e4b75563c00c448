// Package chainparams holds the chain-wide tunables every evaluator and the
// block processor read, loaded once at startup and not changed afterwards:
// no operation and no maintenance step modifies them (spec.md §9, resolving
// the "where do max_authority_depth and friends live" open question). The
// shape here follows the teacher's
// native/swap config structs: toml struct tags plus a Normalise/Validate
// pair rather than validating ad hoc at every call site.
package chainparams

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Parameters is the full set of chain-wide tunables.
type Parameters struct {
	MaxAuthorityDepth      uint32        `toml:"MaxAuthorityDepth"`
	MaxAuthorityMembership uint32        `toml:"MaxAuthorityMembership"`
	MaintenanceInterval    time.Duration `toml:"MaintenanceInterval"`
	MaxOperationsPerBlock  uint32        `toml:"MaxOperationsPerBlock"`
	BlockInterval          time.Duration `toml:"BlockInterval"`

	BaseFee                map[string]string `toml:"BaseFee"` // operation name -> decimal string amount, in core-asset units
	NetworkFeePercent      uint16            `toml:"NetworkFeePercent"`

	MinimumFeedsDefault    uint16 `toml:"MinimumFeedsDefault"`
	FeedLifetimeSeconds    uint32 `toml:"FeedLifetimeSeconds"`
	ForceSettleMaxBps      uint16 `toml:"ForceSettleMaxBps"`

	CashbackVestingSeconds uint32 `toml:"CashbackVestingSeconds"`
	WitnessPayVestingSeconds uint32 `toml:"WitnessPayVestingSeconds"`

	MaxProposalLifetimeSeconds uint32 `toml:"MaxProposalLifetimeSeconds"`
}

// Default returns a conservative parameter set suitable for tests and for
// bootstrapping a fresh genesis.
func Default() Parameters {
	return Parameters{
		MaxAuthorityDepth:          2,
		MaxAuthorityMembership:     10,
		MaintenanceInterval:        24 * time.Hour,
		MaxOperationsPerBlock:      1000,
		BlockInterval:              3 * time.Second,
		BaseFee:                    map[string]string{"transfer": "10000"},
		NetworkFeePercent:          2000,
		MinimumFeedsDefault:        1,
		FeedLifetimeSeconds:        86400,
		ForceSettleMaxBps:          200,
		CashbackVestingSeconds:     86400 * 120,
		WitnessPayVestingSeconds:   86400,
		MaxProposalLifetimeSeconds: 86400 * 14,
	}
}

// Load reads a toml parameter file, normalising and validating the result.
func Load(path string) (Parameters, error) {
	p := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Parameters{}, fmt.Errorf("chainparams: decode %s: %w", path, err)
	}
	p = p.Normalise()
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Normalise fills MaxAuthorityDepth, MaxAuthorityMembership,
// MaintenanceInterval, MaxOperationsPerBlock, BlockInterval, BaseFee and
// MinimumFeedsDefault from Default when they are zero (nil for BaseFee), and
// clamps NetworkFeePercent and ForceSettleMaxBps to 10000. Other zero-valued
// fields are left at zero.
func (p Parameters) Normalise() Parameters {
	d := Default()
	if p.MaxAuthorityDepth == 0 {
		p.MaxAuthorityDepth = d.MaxAuthorityDepth
	}
	if p.MaxAuthorityMembership == 0 {
		p.MaxAuthorityMembership = d.MaxAuthorityMembership
	}
	if p.MaintenanceInterval == 0 {
		p.MaintenanceInterval = d.MaintenanceInterval
	}
	if p.MaxOperationsPerBlock == 0 {
		p.MaxOperationsPerBlock = d.MaxOperationsPerBlock
	}
	if p.BlockInterval == 0 {
		p.BlockInterval = d.BlockInterval
	}
	if p.BaseFee == nil {
		p.BaseFee = d.BaseFee
	}
	if p.NetworkFeePercent > 10000 {
		p.NetworkFeePercent = 10000
	}
	if p.MinimumFeedsDefault == 0 {
		p.MinimumFeedsDefault = d.MinimumFeedsDefault
	}
	if p.ForceSettleMaxBps > 10000 {
		p.ForceSettleMaxBps = 10000
	}
	return p
}

// FeedLifetimeDuration returns FeedLifetimeSeconds as a time.Duration.
func (p Parameters) FeedLifetimeDuration() time.Duration {
	return time.Duration(p.FeedLifetimeSeconds) * time.Second
}

// Validate rejects parameter sets that would make the chain unsafe to run.
func (p Parameters) Validate() error {
	if p.MaxAuthorityDepth == 0 {
		return fmt.Errorf("chainparams: MaxAuthorityDepth must be positive")
	}
	if p.MaxAuthorityMembership == 0 {
		return fmt.Errorf("chainparams: MaxAuthorityMembership must be positive")
	}
	if p.MaintenanceInterval <= 0 {
		return fmt.Errorf("chainparams: MaintenanceInterval must be positive")
	}
	if p.BlockInterval <= 0 {
		return fmt.Errorf("chainparams: BlockInterval must be positive")
	}
	if p.NetworkFeePercent > 10000 {
		return fmt.Errorf("chainparams: NetworkFeePercent must not exceed 10000 bps")
	}
	return nil
}
