package proving

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"runtime/debug"

	"github.com/MartinCastroAlvarez/zk-proof/circuits"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/semaphore"
)

// ErrInvalidScalar is returned when text is not a canonical scalar field element
var ErrInvalidScalar = errors.New("value is not a canonical scalar field element")

// ErrMalformedProof is returned when a transported proof cannot be decoded
var ErrMalformedProof = errors.New("malformed proof encoding")

// ParseScalar parses decimal text into a BN254 scalar, rejecting values
// outside [0, r).
func ParseScalar(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScalar, s)
	}
	return v, nil
}

// Prover generates and verifies Groth16 proofs for the sum relation.
// Concurrent proving jobs are bounded by maxProvingJobs.
type Prover struct {
	circuit *CompiledCircuit
	sem     *semaphore.Weighted
}

func NewProver(circuit *CompiledCircuit, maxProvingJobs int64) *Prover {
	if maxProvingJobs < 1 {
		maxProvingJobs = 1
	}
	return &Prover{
		circuit: circuit,
		sem:     semaphore.NewWeighted(maxProvingJobs),
	}
}

func (p *Prover) Circuit() *CompiledCircuit {
	return p.circuit
}

// Generate proves knowledge of the private pair (a, b) for the public sum
// c = a + b mod r, and returns the base64 proof together with c.
func (p *Prover) Generate(ctx context.Context, a, b *big.Int) (string, *big.Int, error) {
	c := new(big.Int).Add(a, b)
	c.Mod(c, fr.Modulus())

	data, err := p.prove(ctx, &circuits.SumCircuit{A: a, B: b, C: c})
	if err != nil {
		return "", nil, err
	}
	return base64.StdEncoding.EncodeToString(data), c, nil
}

// Verify decodes a base64 proof and checks it against a single public input.
// Decode failures return ErrMalformedProof; a well-formed proof that does not
// verify is (false, nil).
func (p *Prover) Verify(proofText string, publicInput *big.Int) (bool, error) {
	data, err := base64.StdEncoding.DecodeString(proofText)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err = proof.ReadFrom(bytes.NewReader(data)); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}

	publicWitness, err := frontend.NewWitness(&circuits.SumCircuit{C: publicInput}, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, err
	}
	if err = groth16.Verify(proof, p.circuit.Vk, publicWitness); err != nil {
		log.Debug("Proof rejected", "error", err)
		return false, nil
	}
	return true, nil
}

func (p *Prover) prove(ctx context.Context, assignment frontend.Circuit) ([]byte, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	result := make(chan ProveResult, 1)
	log.Info("Proving", "fingerprint", p.circuit.Fingerprint)
	ProveAsync(p.circuit, assignment, result)
	select {
	case r := <-result:
		log.Info("Proof generation complete", "fingerprint", p.circuit.Fingerprint, "error", r.Err)
		return r.Data, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ProveAsync proves assignment on its own goroutine and delivers the
// serialized proof on result. Panics in the proving stack surface as errors.
func ProveAsync(compiled *CompiledCircuit, assignment frontend.Circuit, result chan ProveResult) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- ProveResult{Err: fmt.Errorf("panic: %v, stack: %s", r, string(debug.Stack()))}
			}
		}()

		w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
		if err != nil {
			result <- ProveResult{Err: err}
			return
		}

		proof, err := Prove(compiled, w)
		if err != nil {
			result <- ProveResult{Err: err}
			return
		}

		var buf bytes.Buffer
		if _, err = proof.WriteTo(&buf); err != nil {
			result <- ProveResult{Err: err}
			return
		}

		result <- ProveResult{Data: buf.Bytes()}
	}()
}

func Prove(compiled *CompiledCircuit, wit witness.Witness) (groth16.Proof, error) {
	publicWitness, err := wit.Public()
	if err != nil {
		return nil, err
	}
	proof, err := groth16.Prove(compiled.Ccs, compiled.Pk, wit)
	if err != nil {
		return nil, err
	}
	err = groth16.Verify(proof, compiled.Vk, publicWitness)
	if err != nil {
		return nil, err
	}
	return proof, nil
}
