package wire

import (
	"crypto/sha256"

	"github.com/graphene-chain/core/objects"
)

// Sum256 hashes arbitrary bytes with sha256, the hash function used
// throughout for block ids and the transaction merkle tree.
func Sum256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// HashBlock returns a block's content hash, computed over its RLP encoding.
// This is the id other blocks reference as Previous.
func HashBlock(b objects.Block) ([32]byte, error) {
	enc, err := EncodeBlock(b)
	if err != nil {
		return [32]byte{}, err
	}
	return Sum256(enc), nil
}
