package crypto

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// ChainID mixes a 32-byte chain identity into every signature digest so that
// transactions signed for one network can never replay on another.
type ChainID [32]byte

// SigningDigest combines the chain id with the transaction's canonical
// payload hash, matching spec.md §6 ("Chain identity is a 32-byte hash mixed
// into every signature").
func SigningDigest(chainID ChainID, payloadHash [32]byte) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, chainID[:]...)
	buf = append(buf, payloadHash[:]...)
	return crypto.Keccak256Hash(buf)
}

// CompactSignature is a 65-byte compact-recoverable ECDSA signature over
// secp256k1 (R || S || V).
type CompactSignature [65]byte

// Sign produces a compact-recoverable signature over the supplied digest.
func (k *PrivateKey) Sign(digest [32]byte) (CompactSignature, error) {
	raw, err := crypto.Sign(digest[:], k.PrivateKey)
	if err != nil {
		return CompactSignature{}, err
	}
	var sig CompactSignature
	copy(sig[:], raw)
	return sig, nil
}

// RecoverAddress recovers the signer address from a digest and compact
// signature without requiring the claimed public key up front.
func RecoverAddress(digest [32]byte, sig CompactSignature) (Address, error) {
	pub, err := crypto.SigToPub(digest[:], sig[:])
	if err != nil {
		return Address{}, fmt.Errorf("crypto: recover signer: %w", err)
	}
	addrBytes := crypto.PubkeyToAddress(*pub).Bytes()
	return NewAddress(GraphenePrefix, addrBytes)
}

// VerifySignature reports whether the signature recovers to the expected
// address.
func VerifySignature(digest [32]byte, sig CompactSignature, expected Address) bool {
	recovered, err := RecoverAddress(digest, sig)
	if err != nil {
		return false
	}
	return recovered.Bytes() != nil && string(recovered.Bytes()) == string(expected.Bytes())
}
