package splitter

import (
	"math"
	"math/bits"

	"github.com/iov-one/splitweave/errors"
)

// TotalWeight returns the sum of all weights.
func TotalWeight(weights []uint32) (uint64, error) {
	var total uint64
	for _, w := range weights {
		var carry uint64
		total, carry = bits.Add64(total, uint64(w), 0)
		if carry != 0 {
			return 0, errors.Wrap(errors.ErrOverflow, "total weight")
		}
	}
	return total, nil
}

// Shares returns floor(balance*weight/total) for every weight, in order.
// The multiplication is done on 128 bits so it cannot overflow before the
// division.
func Shares(balance int64, weights []uint32) ([]int64, error) {
	if balance < 0 {
		return nil, errors.Wrapf(ErrInvalidBalance, "negative balance %d", balance)
	}
	total, err := TotalWeight(weights)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrZeroTotalWeight
	}

	amounts := make([]int64, len(weights))
	for i, w := range weights {
		hi, lo := bits.Mul64(uint64(balance), uint64(w))
		// Div64 panics when the quotient does not fit in 64 bits.
		if hi >= total {
			return nil, errors.Wrapf(errors.ErrOverflow, "share %d", i)
		}
		q, _ := bits.Div64(hi, lo, total)
		if q > math.MaxInt64 {
			return nil, errors.Wrapf(errors.ErrOverflow, "share %d does not fit", i)
		}
		amounts[i] = int64(q)
	}
	return amounts, nil
}
