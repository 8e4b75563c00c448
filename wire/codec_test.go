package wire

import (
	"math/big"
	"testing"
	"time"

	"github.com/graphene-chain/core/objects"
)

func TestEncodeDecodeOperationTransferRoundTrip(t *testing.T) {
	op := objects.Transfer{
		From:   objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1),
		To:     objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 2),
		Amount: objects.Amount{Asset: objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1), Value: big.NewInt(500)},
		Memo:   []byte("hello"),
	}

	encoded, err := EncodeOperation(op)
	if err != nil {
		t.Fatalf("EncodeOperation: %v", err)
	}
	if encoded[0] != byte(objects.OpTransfer) {
		t.Fatalf("expected leading tag byte %d, got %d", objects.OpTransfer, encoded[0])
	}

	decoded, err := DecodeOperation(encoded)
	if err != nil {
		t.Fatalf("DecodeOperation: %v", err)
	}
	got, ok := decoded.(objects.Transfer)
	if !ok {
		t.Fatalf("expected decoded operation to be a Transfer, got %T", decoded)
	}
	if got.From != op.From || got.To != op.To {
		t.Fatalf("From/To mismatch: got %+v, want %+v", got, op)
	}
	if got.Amount.Value.Cmp(op.Amount.Value) != 0 {
		t.Fatalf("Amount mismatch: got %s, want %s", got.Amount.Value, op.Amount.Value)
	}
	if string(got.Memo) != string(op.Memo) {
		t.Fatalf("Memo mismatch: got %q, want %q", got.Memo, op.Memo)
	}
}

func TestEncodeDecodeOperationAccountUpdatePreservesNilFields(t *testing.T) {
	active := objects.NewAuthority(1)
	op := objects.AccountUpdate{
		Account: objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1),
		Active:  &active,
	}

	encoded, err := EncodeOperation(op)
	if err != nil {
		t.Fatalf("EncodeOperation: %v", err)
	}
	decoded, err := DecodeOperation(encoded)
	if err != nil {
		t.Fatalf("DecodeOperation: %v", err)
	}
	got, ok := decoded.(objects.AccountUpdate)
	if !ok {
		t.Fatalf("expected decoded operation to be an AccountUpdate, got %T", decoded)
	}
	if got.Owner != nil {
		t.Fatalf("expected Owner to remain nil, got %+v", got.Owner)
	}
	if got.Active == nil || got.Active.Threshold != 1 {
		t.Fatalf("expected Active authority to round-trip, got %+v", got.Active)
	}
}

func TestEncodeDecodeOperationsPreservesOrder(t *testing.T) {
	ops := []objects.Operation{
		objects.Transfer{From: objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1), To: objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 2), Amount: objects.Amount{Asset: objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1), Value: big.NewInt(1)}},
		objects.Transfer{From: objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 2), To: objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1), Amount: objects.Amount{Asset: objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1), Value: big.NewInt(2)}},
	}

	encoded, err := EncodeOperations(ops)
	if err != nil {
		t.Fatalf("EncodeOperations: %v", err)
	}
	decoded, err := DecodeOperations(encoded)
	if err != nil {
		t.Fatalf("DecodeOperations: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 decoded operations, got %d", len(decoded))
	}
	first := decoded[0].(objects.Transfer)
	second := decoded[1].(objects.Transfer)
	if first.Amount.Value.Cmp(big.NewInt(1)) != 0 || second.Amount.Value.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected operation order preserved, got %v then %v", first.Amount.Value, second.Amount.Value)
	}
}

func TestDecodeOperationRejectsEmptyPayload(t *testing.T) {
	if _, err := DecodeOperation(nil); err == nil {
		t.Fatalf("expected an error decoding an empty payload")
	}
}

func TestEncodeDecodeTransactionRoundTrip(t *testing.T) {
	tx := objects.Transaction{
		RefBlockNum:    7,
		RefBlockPrefix: 12345,
		Expiration:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Operations: []objects.Operation{
			objects.Transfer{
				From:   objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1),
				To:     objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 2),
				Amount: objects.Amount{Asset: objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1), Value: big.NewInt(99)},
			},
		},
		Signatures: []objects.CompactSignature{{0x01}},
	}

	encoded, err := EncodeTransaction(tx)
	if err != nil {
		t.Fatalf("EncodeTransaction: %v", err)
	}
	decoded, err := DecodeTransaction(encoded)
	if err != nil {
		t.Fatalf("DecodeTransaction: %v", err)
	}
	if decoded.RefBlockNum != tx.RefBlockNum || decoded.RefBlockPrefix != tx.RefBlockPrefix {
		t.Fatalf("header mismatch: %+v", decoded)
	}
	if !decoded.Expiration.Equal(tx.Expiration) {
		t.Fatalf("Expiration mismatch: got %v, want %v", decoded.Expiration, tx.Expiration)
	}
	if len(decoded.Operations) != 1 {
		t.Fatalf("expected 1 decoded operation, got %d", len(decoded.Operations))
	}
	if len(decoded.Signatures) != 1 || decoded.Signatures[0] != tx.Signatures[0] {
		t.Fatalf("signature mismatch: %+v", decoded.Signatures)
	}
}

func TestEncodeDecodeBlockRoundTrip(t *testing.T) {
	b := objects.Block{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Witness:   objects.NewID(objects.SpaceProtocol, objects.TypeWitness, 1),
		Transactions: []objects.Transaction{
			{
				Expiration: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
				Operations: []objects.Operation{
					objects.Transfer{
						From:   objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 1),
						To:     objects.NewID(objects.SpaceProtocol, objects.TypeAccount, 2),
						Amount: objects.Amount{Asset: objects.NewID(objects.SpaceProtocol, objects.TypeAsset, 1), Value: big.NewInt(1)},
					},
				},
			},
		},
	}

	encoded, err := EncodeBlock(b)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	decoded, err := DecodeBlock(encoded)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if decoded.Witness != b.Witness {
		t.Fatalf("Witness mismatch: got %v, want %v", decoded.Witness, b.Witness)
	}
	if !decoded.Timestamp.Equal(b.Timestamp) {
		t.Fatalf("Timestamp mismatch: got %v, want %v", decoded.Timestamp, b.Timestamp)
	}
	if len(decoded.Transactions) != 1 {
		t.Fatalf("expected 1 decoded transaction, got %d", len(decoded.Transactions))
	}
}
