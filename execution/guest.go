package execution

import (
	"errors"
	"math/bits"
)

// MaxIndex is the largest index the guest can compute: fib(94) overflows
// uint64, and overflow aborts the whole execution.
const MaxIndex = 93

// ErrInvalidInput rejects indexes the guest refuses to run (n < 1).
var ErrInvalidInput = errors.New("fibonacci index must be at least 1")

// ErrOverflow is the guest's terminal overflow outcome. The run aborts
// before anything is committed, so no journal and no receipt exist for it.
var ErrOverflow = errors.New("guest arithmetic overflow")

// Run executes the Fibonacci guest program: it walks the sequence from
// fib(1) = fib(2) = 1 with carry-checked uint64 additions and returns the
// value the guest commits as its journal. A carry aborts with ErrOverflow.
func Run(n uint64) (uint64, error) {
	if n < 1 {
		return 0, ErrInvalidInput
	}
	prev, cur := uint64(1), uint64(1)
	for i := uint64(3); i <= n; i++ {
		next, carry := bits.Add64(prev, cur, 0)
		if carry != 0 {
			return 0, ErrOverflow
		}
		prev, cur = cur, next
	}
	return cur, nil
}
