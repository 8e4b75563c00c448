// Package genesis builds the initial object-store state a fresh chain
// starts from: the core asset, the initial witness/committee set, and any
// pre-funded accounts or pre-chain balance commitments. A JSON-decoded,
// validated Spec is walked in deterministic (sorted) order and written
// through the normal state-mutation API rather than poking storage
// directly.
package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/store"
)

// Spec is the JSON-decoded description of a chain's starting state.
type Spec struct {
	GenesisTime string `json:"genesisTime"`

	CoreAsset AssetSpec `json:"coreAsset"`

	Witnesses   []WitnessSpec   `json:"witnesses"`
	Committee   []CommitteeSpec `json:"committee"`
	Accounts    []AccountSpec   `json:"accounts"`
	BalanceSeed []BalanceSeed   `json:"genesisBalances"`

	timestamp time.Time
}

// AssetSpec describes the chain's single core (fee/collateral) asset,
// created as object id (SpaceProtocol, TypeAsset, 0).
type AssetSpec struct {
	Symbol    string `json:"symbol"`
	Precision uint8  `json:"precision"`
	MaxSupply string `json:"maxSupply"`
}

// WitnessSpec seeds one initial block-production authority.
type WitnessSpec struct {
	AccountName string `json:"accountName"`
	SigningKey  string `json:"signingKey"` // hex-encoded compressed pubkey
}

// CommitteeSpec seeds one initial parameter-setting authority.
type CommitteeSpec struct {
	AccountName string `json:"accountName"`
}

// AccountSpec seeds a named account with a single-key owner/active
// authority and an optional starting balance of the core asset.
type AccountSpec struct {
	Name       string `json:"name"`
	OwnerKey   string `json:"ownerKey"`  // hex-encoded compressed pubkey
	ActiveKey  string `json:"activeKey"` // defaults to OwnerKey if empty
	CoreAmount string `json:"coreAmount,omitempty"`
}

// BalanceSeed seeds a GenesisBalance, claimable post-launch via
// BalanceClaim, independent of any account created above.
type BalanceSeed struct {
	OwnerKey       string `json:"ownerKey"`
	Amount         string `json:"amount"`
	VestingSeconds uint32 `json:"vestingSeconds,omitempty"`
}

// Load reads and validates a genesis spec from path, in the same strict
// (unknown-field-rejecting) style as the teacher's LoadGenesisSpec.
func Load(path string) (*Spec, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("genesis: spec path must be provided")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genesis: read %q: %w", path, err)
	}
	var spec Spec
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("genesis: decode %q: %w", path, err)
	}
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("genesis: invalid spec %q: %w", path, err)
	}
	return &spec, nil
}

func (s *Spec) validate() error {
	ts, err := parseGenesisTime(s.GenesisTime)
	if err != nil {
		return err
	}
	s.timestamp = ts
	if strings.TrimSpace(s.CoreAsset.Symbol) == "" {
		return fmt.Errorf("coreAsset.symbol must be provided")
	}
	if len(s.Witnesses) == 0 {
		return fmt.Errorf("at least one witness is required")
	}
	seen := make(map[string]struct{})
	for i, a := range s.Accounts {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("accounts[%d]: name must be provided", i)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("accounts[%d]: duplicate name %q", i, a.Name)
		}
		seen[a.Name] = struct{}{}
		if strings.TrimSpace(a.OwnerKey) == "" {
			return fmt.Errorf("accounts[%d]: ownerKey must be provided", i)
		}
	}
	return nil
}

func parseGenesisTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("genesisTime must be provided")
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid genesisTime %q", value)
}

func parsePubKey(hexStr string) (objects.PubKey, error) {
	var out objects.PubKey
	hexStr = strings.TrimPrefix(strings.TrimSpace(hexStr), "0x")
	raw, err := decodeHex(hexStr)
	if err != nil {
		return out, err
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("public key must be %d bytes, got %d", len(out), len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string")
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexNibble(s[2*i])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[2*i+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(b byte) (byte, error) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex character %q", b)
	}
}

// Apply seeds s with every object the spec describes, under one top-level
// undo session committed at the end. The returned block is the block the
// caller should pass to a fresh chainproc.Chain as block 0.
func Apply(s *store.Store, params chainparams.Parameters, spec *Spec) (objects.Block, error) {
	if spec.timestamp.IsZero() {
		ts, err := parseGenesisTime(spec.GenesisTime)
		if err != nil {
			return objects.Block{}, err
		}
		spec.timestamp = ts
	}

	sess := s.StartUndoSession()

	coreAssetID, err := applyCoreAsset(s, spec.CoreAsset)
	if err != nil {
		sess.Undo()
		return objects.Block{}, err
	}

	accountsByName := make(map[string]objects.ID, len(spec.Accounts))
	names := append([]AccountSpec(nil), spec.Accounts...)
	sort.Slice(names, func(i, j int) bool { return names[i].Name < names[j].Name })
	for _, a := range names {
		id, err := applyAccount(s, a)
		if err != nil {
			sess.Undo()
			return objects.Block{}, err
		}
		accountsByName[a.Name] = id
		if strings.TrimSpace(a.CoreAmount) != "" {
			amt, ok := new(big.Int).SetString(strings.TrimSpace(a.CoreAmount), 10)
			if !ok {
				sess.Undo()
				return objects.Block{}, fmt.Errorf("account %q: invalid coreAmount %q", a.Name, a.CoreAmount)
			}
			store.Create(s, s.Balances, func(balID objects.ID) *objects.AccountBalance {
				return &objects.AccountBalance{ID: balID, Account: id, Asset: coreAssetID, Amount: amt}
			})
		}
	}

	witnesses := append([]WitnessSpec(nil), spec.Witnesses...)
	sort.Slice(witnesses, func(i, j int) bool { return witnesses[i].AccountName < witnesses[j].AccountName })
	for _, w := range witnesses {
		accountID, ok := accountsByName[w.AccountName]
		if !ok {
			sess.Undo()
			return objects.Block{}, fmt.Errorf("witness references unknown account %q", w.AccountName)
		}
		key, err := parsePubKey(w.SigningKey)
		if err != nil {
			sess.Undo()
			return objects.Block{}, fmt.Errorf("witness %q: %w", w.AccountName, err)
		}
		store.Create(s, s.Witnesses, func(id objects.ID) *objects.Witness {
			return &objects.Witness{ID: id, WitnessAccount: accountID, SigningKey: key}
		})
	}

	committee := append([]CommitteeSpec(nil), spec.Committee...)
	sort.Slice(committee, func(i, j int) bool { return committee[i].AccountName < committee[j].AccountName })
	for _, c := range committee {
		accountID, ok := accountsByName[c.AccountName]
		if !ok {
			sess.Undo()
			return objects.Block{}, fmt.Errorf("committee member references unknown account %q", c.AccountName)
		}
		store.Create(s, s.CommitteeMembers, func(id objects.ID) *objects.CommitteeMember {
			return &objects.CommitteeMember{ID: id, MemberAccount: accountID}
		})
	}

	for _, b := range spec.BalanceSeed {
		key, err := parsePubKey(b.OwnerKey)
		if err != nil {
			sess.Undo()
			return objects.Block{}, fmt.Errorf("genesis balance: %w", err)
		}
		amt, ok := new(big.Int).SetString(strings.TrimSpace(b.Amount), 10)
		if !ok {
			sess.Undo()
			return objects.Block{}, fmt.Errorf("genesis balance: invalid amount %q", b.Amount)
		}
		store.Create(s, s.GenesisBalances, func(id objects.ID) *objects.GenesisBalance {
			return &objects.GenesisBalance{
				ID:             id,
				OwnerKey:       key,
				Balance:        objects.Amount{Asset: coreAssetID, Value: amt},
				VestingSeconds: b.VestingSeconds,
			}
		})
	}

	store.Create(s, s.RecentSlots, func(id objects.ID) *objects.RecentSlots {
		return &objects.RecentSlots{ID: id}
	})

	sess.Commit()

	return objects.Block{
		Previous:  [32]byte{},
		Timestamp: spec.timestamp,
	}, nil
}

func applyCoreAsset(s *store.Store, spec AssetSpec) (objects.ID, error) {
	var maxSupply *big.Int
	if strings.TrimSpace(spec.MaxSupply) != "" {
		v, ok := new(big.Int).SetString(strings.TrimSpace(spec.MaxSupply), 10)
		if !ok {
			return objects.ID{}, fmt.Errorf("coreAsset: invalid maxSupply %q", spec.MaxSupply)
		}
		maxSupply = v
	} else {
		maxSupply = big.NewInt(0)
	}

	assetID, _ := store.Create(s, s.Assets, func(id objects.ID) *objects.Asset {
		return &objects.Asset{
			ID:        id,
			Symbol:    strings.ToUpper(spec.Symbol),
			Precision: spec.Precision,
			Issuer:    objects.ID{}, // self-issued, no issuer account at genesis
			Options: objects.AssetOptions{
				MaxSupply: maxSupply,
			},
		}
	})
	store.Create(s, s.AssetDynamicData, func(id objects.ID) *objects.AssetDynamicData {
		return &objects.AssetDynamicData{
			ID:              id,
			AssetID:         assetID,
			CurrentSupply:   big.NewInt(0),
			AccumulatedFees: big.NewInt(0),
		}
	})
	return assetID, nil
}

func applyAccount(s *store.Store, spec AccountSpec) (objects.ID, error) {
	ownerKey, err := parsePubKey(spec.OwnerKey)
	if err != nil {
		return objects.ID{}, fmt.Errorf("account %q owner key: %w", spec.Name, err)
	}
	activeKeyHex := spec.ActiveKey
	if strings.TrimSpace(activeKeyHex) == "" {
		activeKeyHex = spec.OwnerKey
	}
	activeKey, err := parsePubKey(activeKeyHex)
	if err != nil {
		return objects.ID{}, fmt.Errorf("account %q active key: %w", spec.Name, err)
	}

	owner := objects.NewAuthority(1)
	owner.KeyAuths[ownerKey] = 1
	active := objects.NewAuthority(1)
	active.KeyAuths[activeKey] = 1

	id, _ := store.Create(s, s.Accounts, func(id objects.ID) *objects.Account {
		return &objects.Account{
			ID:     id,
			Name:   spec.Name,
			Owner:  owner,
			Active: active,
		}
	})
	return id, nil
}
