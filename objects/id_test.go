package objects

import "testing"

func TestNewIDMasksInstanceTo48Bits(t *testing.T) {
	id := NewID(SpaceProtocol, TypeAccount, 0xFFFFFFFFFFFFFF)
	if id.Instance != 0xFFFFFFFFFFFF {
		t.Fatalf("expected instance masked to 48 bits, got %x", id.Instance)
	}
}

func TestIDStringCanonicalForm(t *testing.T) {
	id := NewID(SpaceProtocol, TypeAccount, 7)
	if got, want := id.String(), "1.0.7"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestIDLessOrdersBySpaceThenTypeThenInstance(t *testing.T) {
	low := NewID(SpaceProtocol, TypeAccount, 1)
	high := NewID(SpaceProtocol, TypeAccount, 2)
	if !low.Less(high) {
		t.Fatalf("expected lower instance to sort first")
	}
	if high.Less(low) {
		t.Fatalf("expected higher instance to not sort first")
	}

	protocolAsset := NewID(SpaceProtocol, TypeAsset, 0)
	protocolAccount := NewID(SpaceProtocol, TypeAccount, 999)
	if !protocolAccount.Less(protocolAsset) {
		t.Fatalf("expected lower type to sort first regardless of instance")
	}

	implementation := NewID(SpaceImplementation, TypeAccount, 0)
	if !protocolAccount.Less(implementation) {
		t.Fatalf("expected lower space to sort first regardless of type/instance")
	}
}

func TestIDIsZero(t *testing.T) {
	var zero ID
	if !zero.IsZero() {
		t.Fatalf("expected zero value ID to report IsZero")
	}
	if NewID(SpaceProtocol, TypeAccount, 1).IsZero() {
		t.Fatalf("expected non-zero ID to not report IsZero")
	}
}
