package chainproc

import (
	"github.com/graphene-chain/core/objects"
	"github.com/graphene-chain/core/wire"
)

func transactionSize(tx objects.Transaction) (int, error) {
	enc, err := wire.EncodeTransaction(tx)
	if err != nil {
		return 0, err
	}
	return len(enc), nil
}
