package execution

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/MartinCastroAlvarez/zk-proof/circuits"
	"github.com/MartinCastroAlvarez/zk-proof/proving"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/semaphore"
)

// Prover executes the guest program natively and attests each run with a
// Groth16 proof over the guest circuit.
type Prover struct {
	circuit *proving.CompiledCircuit
	imageID common.Hash
	sem     *semaphore.Weighted
}

// NewProver wraps the guest circuit's setup handle. expected is the program
// image id receipts must verify against; the zero hash pins the handle's own
// fingerprint.
func NewProver(circuit *proving.CompiledCircuit, expected common.Hash, maxProvingJobs int64) *Prover {
	if expected == (common.Hash{}) {
		expected = circuit.Fingerprint
	}
	if maxProvingJobs < 1 {
		maxProvingJobs = 1
	}
	return &Prover{
		circuit: circuit,
		imageID: expected,
		sem:     semaphore.NewWeighted(maxProvingJobs),
	}
}

// ImageID is the program image identifier receipts are verified against.
func (p *Prover) ImageID() common.Hash {
	return p.imageID
}

func (p *Prover) Circuit() *proving.CompiledCircuit {
	return p.circuit
}

// Phi proves the n-th Fibonacci number: it runs the guest, proves the
// execution trace, and verifies the resulting receipt against the expected
// image id before returning it. Guest aborts surface before any proving
// work starts.
func (p *Prover) Phi(ctx context.Context, n uint64) (*Receipt, error) {
	journal, err := Run(n)
	if err != nil {
		return nil, err
	}

	if err = p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	result := make(chan proving.ProveResult, 1)
	log.Info("Proving guest execution", "n", n, "imageId", p.circuit.Fingerprint)
	proving.ProveAsync(p.circuit, circuits.NewFibonacciAssignment(n, journal), result)
	var seal []byte
	select {
	case r := <-result:
		if r.Err != nil {
			return nil, r.Err
		}
		seal = r.Data
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	receipt := &Receipt{ImageID: p.circuit.Fingerprint, Journal: journal, Seal: seal}
	if err = receipt.Verify(p.imageID, p.circuit.Vk); err != nil {
		return nil, err
	}
	log.Info("Guest execution proven", "n", n, "journal", journal)
	return receipt, nil
}

// ParseImageID parses a 32-byte hex program image id, with or without the 0x
// prefix.
func ParseImageID(s string) (common.Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid image id %q: want %d hex-encoded bytes", s, common.HashLength)
	}
	return common.BytesToHash(b), nil
}
