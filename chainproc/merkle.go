package chainproc

import (
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/wire"
)

// TransactionMerkleRoot reduces a block's transactions into a single digest
// via binary, left-heavy pairwise hashing: an odd element at any level is
// paired with itself rather than dropped, so the tree shape is fully
// determined by the transaction count.
func TransactionMerkleRoot(txs []objects.Transaction) ([32]byte, error) {
	if len(txs) == 0 {
		return [32]byte{}, nil
	}
	level := make([][32]byte, 0, len(txs))
	for _, tx := range txs {
		enc, err := wire.EncodeTransaction(tx)
		if err != nil {
			return [32]byte{}, err
		}
		level = append(level, wire.Sum256(enc))
	}
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			buf := make([]byte, 0, 64)
			buf = append(buf, left[:]...)
			buf = append(buf, right[:]...)
			next = append(next, wire.Sum256(buf))
		}
		level = next
	}
	return level[0], nil
}
