package circuits

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/bits"
)

// FibonacciSteps bounds the guest trace. fib(93) is the largest Fibonacci
// number representable in a uint64, so the trace holds fib(1)..fib(93) and
// nothing past the overflow point exists in the circuit.
const FibonacciSteps = 93

// FibonacciCircuit encodes one full run of the Fibonacci guest program.
// Steps is the guest's execution trace with Steps[i] = fib(i+1); N is the
// requested index, private to the prover; Result is the committed journal.
// An index outside [1, FibonacciSteps] admits no satisfying assignment, so
// a run the guest would abort on is structurally unprovable.
type FibonacciCircuit struct {
	Steps  [FibonacciSteps]frontend.Variable
	N      frontend.Variable
	Result frontend.Variable `gnark:",public"`
}

func (c *FibonacciCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(c.Steps[0], 1)
	api.AssertIsEqual(c.Steps[1], 1)
	for i := 2; i < len(c.Steps); i++ {
		api.AssertIsEqual(c.Steps[i], api.Add(c.Steps[i-1], c.Steps[i-2]))
	}

	// Every step must fit in 64 bits, mirroring the guest's checked uint64
	// arithmetic.
	for i := 0; i < len(c.Steps); i++ {
		bits.ToBinary(api, c.Steps[i], bits.WithNbDigits(64))
	}

	// Select Steps[N-1]. Exactly one selector may fire, which confines N to
	// [1, FibonacciSteps].
	found := frontend.Variable(0)
	selected := frontend.Variable(0)
	for i := 0; i < len(c.Steps); i++ {
		sel := api.IsZero(api.Sub(c.N, i+1))
		found = api.Add(found, sel)
		selected = api.Add(selected, api.Mul(sel, c.Steps[i]))
	}
	api.AssertIsEqual(found, 1)
	api.AssertIsEqual(selected, c.Result)
	return nil
}

// NewFibonacciAssignment builds the full witness for proving fib(n) == result.
func NewFibonacciAssignment(n, result uint64) *FibonacciCircuit {
	assignment := &FibonacciCircuit{N: n, Result: result}
	assignment.Steps[0] = 1
	assignment.Steps[1] = 1
	prev, cur := uint64(1), uint64(1)
	for i := 2; i < FibonacciSteps; i++ {
		prev, cur = cur, prev+cur
		assignment.Steps[i] = cur
	}
	return assignment
}
