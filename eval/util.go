package eval

import "math/big"

func bigFromInt64(v int64) *big.Int {
	return big.NewInt(v)
}

func newZero() *big.Int {
	return big.NewInt(0)
}
