package crypto

import (
	"bytes"
	"testing"
)

func TestGeneratePrivateKeyRoundTripsThroughBytes(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	recovered, err := PrivateKeyFromBytes(priv.Bytes())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	if !bytes.Equal(priv.Bytes(), recovered.Bytes()) {
		t.Fatalf("expected private key bytes to round-trip")
	}
}

func TestPublicKeyCompressedIs33Bytes(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	compressed := priv.PubKey().Compressed()
	if len(compressed) != 33 {
		t.Fatalf("expected a 33-byte compressed public key, got %d", len(compressed))
	}
}

func TestAddressStringRoundTripsThroughDecodeAddress(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	addr := priv.PubKey().Address()
	if addr.Prefix() != GraphenePrefix {
		t.Fatalf("expected prefix %q, got %q", GraphenePrefix, addr.Prefix())
	}

	decoded, err := DecodeAddress(addr.String())
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), addr.Bytes()) {
		t.Fatalf("expected decoded address bytes to match the original")
	}
	if decoded.Prefix() != addr.Prefix() {
		t.Fatalf("expected decoded prefix to match the original")
	}
}

func TestNewAddressRejectsWrongLength(t *testing.T) {
	if _, err := NewAddress(GraphenePrefix, []byte{0x01, 0x02}); err == nil {
		t.Fatalf("expected an error for a non-20-byte address")
	}
}

func TestAddressLegacyPreservesBytes(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	addr := priv.PubKey().Address()
	legacy := addr.Legacy()
	if !bytes.Equal(legacy[:], addr.Bytes()) {
		t.Fatalf("expected Legacy() bytes to match Address.Bytes()")
	}
}
