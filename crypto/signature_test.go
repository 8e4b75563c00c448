package crypto

import "testing"

func TestSignAndVerifySignatureRoundTrips(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	var digest [32]byte
	digest[0] = 0xAB

	sig, err := priv.Sign(digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	addr := priv.PubKey().Address()
	if !VerifySignature(digest, sig, addr) {
		t.Fatalf("expected the signature to verify against the signer's own address")
	}
}

func TestVerifySignatureFailsForWrongDigest(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	var digest, other [32]byte
	digest[0] = 0x01
	other[0] = 0x02

	sig, err := priv.Sign(digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	addr := priv.PubKey().Address()
	if VerifySignature(other, sig, addr) {
		t.Fatalf("expected verification to fail against a different digest")
	}
}

func TestRecoverAddressMatchesSigner(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	var digest [32]byte
	digest[0] = 0x42

	sig, err := priv.Sign(digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	recovered, err := RecoverAddress(digest, sig)
	if err != nil {
		t.Fatalf("RecoverAddress: %v", err)
	}
	want := priv.PubKey().Address()
	if recovered.String() != want.String() {
		t.Fatalf("RecoverAddress = %s, want %s", recovered.String(), want.String())
	}
}

func TestSigningDigestMixesChainID(t *testing.T) {
	var payloadHash [32]byte
	payloadHash[0] = 0x11
	var chainA, chainB ChainID
	chainA[0] = 0x01
	chainB[0] = 0x02

	digestA := SigningDigest(chainA, payloadHash)
	digestB := SigningDigest(chainB, payloadHash)
	if digestA == digestB {
		t.Fatalf("expected different chain ids to produce different signing digests")
	}
}
