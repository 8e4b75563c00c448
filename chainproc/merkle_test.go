package chainproc

import (
	"testing"
	"time"

	"github.com/graphene-chain/core/objects"
)

func TestTransactionMerkleRootEmptyIsZero(t *testing.T) {
	root, err := TransactionMerkleRoot(nil)
	if err != nil {
		t.Fatalf("TransactionMerkleRoot: %v", err)
	}
	if root != ([32]byte{}) {
		t.Fatalf("expected zero root for an empty transaction list, got %x", root)
	}
}

func TestTransactionMerkleRootIsDeterministic(t *testing.T) {
	txs := []objects.Transaction{
		{RefBlockNum: 1, Expiration: time.Unix(100, 0).UTC()},
		{RefBlockNum: 2, Expiration: time.Unix(200, 0).UTC()},
	}
	r1, err := TransactionMerkleRoot(txs)
	if err != nil {
		t.Fatalf("TransactionMerkleRoot: %v", err)
	}
	r2, err := TransactionMerkleRoot(txs)
	if err != nil {
		t.Fatalf("TransactionMerkleRoot: %v", err)
	}
	if r1 != r2 {
		t.Fatalf("expected identical transaction sets to produce identical roots")
	}
}

func TestTransactionMerkleRootDiffersOnOddCountVsEven(t *testing.T) {
	one := []objects.Transaction{{RefBlockNum: 1, Expiration: time.Unix(100, 0).UTC()}}
	two := []objects.Transaction{
		{RefBlockNum: 1, Expiration: time.Unix(100, 0).UTC()},
		{RefBlockNum: 2, Expiration: time.Unix(200, 0).UTC()},
	}
	r1, err := TransactionMerkleRoot(one)
	if err != nil {
		t.Fatalf("TransactionMerkleRoot: %v", err)
	}
	r2, err := TransactionMerkleRoot(two)
	if err != nil {
		t.Fatalf("TransactionMerkleRoot: %v", err)
	}
	if r1 == r2 {
		t.Fatalf("expected differing transaction sets to produce differing roots")
	}
}
