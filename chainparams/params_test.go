package chainparams

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(p, Default()) {
		t.Fatalf("expected default parameters for a missing file, got %+v", p)
	}
}

func TestLoadDecodesAndNormalisesPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chainparams.toml")
	contents := `MaxAuthorityDepth = 5
NetworkFeePercent = 50000
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.MaxAuthorityDepth != 5 {
		t.Fatalf("expected explicit MaxAuthorityDepth to survive, got %d", p.MaxAuthorityDepth)
	}
	if p.NetworkFeePercent != 10000 {
		t.Fatalf("expected NetworkFeePercent clamped to 10000, got %d", p.NetworkFeePercent)
	}
	if p.MaxAuthorityMembership != Default().MaxAuthorityMembership {
		t.Fatalf("expected unset field to fall back to default")
	}
}

func TestValidateRejectsZeroAuthorityDepth(t *testing.T) {
	p := Default()
	p.MaxAuthorityDepth = 0
	if err := p.Validate(); err == nil {
		t.Fatalf("expected Validate to reject a zero MaxAuthorityDepth")
	}
}

func TestValidateRejectsOversizedNetworkFeePercent(t *testing.T) {
	p := Default()
	p.NetworkFeePercent = 10001
	if err := p.Validate(); err == nil {
		t.Fatalf("expected Validate to reject NetworkFeePercent above 10000 bps")
	}
}

func TestFeedLifetimeDurationConvertsSeconds(t *testing.T) {
	p := Default()
	p.FeedLifetimeSeconds = 60
	if got, want := p.FeedLifetimeDuration().Seconds(), 60.0; got != want {
		t.Fatalf("FeedLifetimeDuration() = %v, want %vs", got, want)
	}
}
