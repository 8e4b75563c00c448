package genesis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/graphene-chain/core/chainparams"
	"github.com/graphene-chain/core/store"
)

const testOwnerKeyHex = "02" + "0000000000000000000000000000000000000000000000000000000000000001"

func writeSpecFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "genesis.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write spec file: %v", err)
	}
	return path
}

func validSpecJSON() string {
	return `{
		"genesisTime": "2026-01-01T00:00:00Z",
		"coreAsset": {"symbol": "GPH", "precision": 5, "maxSupply": "1000000000"},
		"witnesses": [{"accountName": "alice", "signingKey": "` + testOwnerKeyHex + `"}],
		"committee": [{"accountName": "alice"}],
		"accounts": [{"name": "alice", "ownerKey": "` + testOwnerKeyHex + `", "coreAmount": "500"}],
		"genesisBalances": [{"ownerKey": "` + testOwnerKeyHex + `", "amount": "1000", "vestingSeconds": 60}]
	}`
}

func TestLoadRejectsEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error for an empty path")
	}
}

func TestLoadRejectsMissingGenesisTime(t *testing.T) {
	path := writeSpecFile(t, `{"coreAsset": {"symbol": "GPH"}, "witnesses": [{"accountName": "a", "signingKey": "`+testOwnerKeyHex+`"}], "accounts": [{"name": "a", "ownerKey": "`+testOwnerKeyHex+`"}]}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for a missing genesisTime")
	}
}

func TestLoadRejectsDuplicateAccountNames(t *testing.T) {
	path := writeSpecFile(t, `{
		"genesisTime": "2026-01-01T00:00:00Z",
		"coreAsset": {"symbol": "GPH"},
		"witnesses": [{"accountName": "a", "signingKey": "`+testOwnerKeyHex+`"}],
		"accounts": [
			{"name": "a", "ownerKey": "`+testOwnerKeyHex+`"},
			{"name": "a", "ownerKey": "`+testOwnerKeyHex+`"}
		]
	}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for duplicate account names")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeSpecFile(t, `{
		"genesisTime": "2026-01-01T00:00:00Z",
		"coreAsset": {"symbol": "GPH"},
		"witnesses": [{"accountName": "a", "signingKey": "`+testOwnerKeyHex+`"}],
		"accounts": [{"name": "a", "ownerKey": "`+testOwnerKeyHex+`"}],
		"unknownField": true
	}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for an unknown top-level field")
	}
}

func TestLoadAcceptsValidSpec(t *testing.T) {
	path := writeSpecFile(t, validSpecJSON())
	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec.CoreAsset.Symbol != "GPH" {
		t.Fatalf("CoreAsset.Symbol = %q, want GPH", spec.CoreAsset.Symbol)
	}
	if len(spec.Witnesses) != 1 || len(spec.Accounts) != 1 {
		t.Fatalf("expected one witness and one account, got %+v", spec)
	}
}

func TestApplySeedsAssetAccountWitnessCommitteeAndBalances(t *testing.T) {
	path := writeSpecFile(t, validSpecJSON())
	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := store.New()
	block, err := Apply(s, chainparams.Default(), spec)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if block.Previous != ([32]byte{}) {
		t.Fatalf("expected genesis block to have a zero previous hash")
	}
	if s.Accounts.Len() != 1 {
		t.Fatalf("expected 1 account, got %d", s.Accounts.Len())
	}
	if s.Witnesses.Len() != 1 {
		t.Fatalf("expected 1 witness, got %d", s.Witnesses.Len())
	}
	if s.CommitteeMembers.Len() != 1 {
		t.Fatalf("expected 1 committee member, got %d", s.CommitteeMembers.Len())
	}
	if s.Assets.Len() != 1 {
		t.Fatalf("expected 1 asset, got %d", s.Assets.Len())
	}
	if s.Balances.Len() != 1 {
		t.Fatalf("expected 1 seeded core-amount balance, got %d", s.Balances.Len())
	}
	if s.GenesisBalances.Len() != 1 {
		t.Fatalf("expected 1 genesis balance claim, got %d", s.GenesisBalances.Len())
	}
}

func TestApplyRejectsWitnessReferencingUnknownAccount(t *testing.T) {
	path := writeSpecFile(t, `{
		"genesisTime": "2026-01-01T00:00:00Z",
		"coreAsset": {"symbol": "GPH"},
		"witnesses": [{"accountName": "ghost", "signingKey": "`+testOwnerKeyHex+`"}],
		"accounts": [{"name": "alice", "ownerKey": "`+testOwnerKeyHex+`"}]
	}`)
	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := store.New()
	if _, err := Apply(s, chainparams.Default(), spec); err == nil {
		t.Fatalf("expected an error for a witness referencing an unknown account")
	}
	if s.Accounts.Len() != 0 {
		t.Fatalf("expected the undo session to roll back the partially-applied account, got %d remaining", s.Accounts.Len())
	}
}
