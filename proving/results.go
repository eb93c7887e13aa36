package proving

import (
	"bytes"
	"crypto/sha256"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/ethereum/go-ethereum/common"
)

type ProveResult struct {
	Data []byte
	Err  error
}

// CompiledCircuit holds the compiled constraint system, its Groth16 key pair
// and the sha256 fingerprint of the serialized constraint system.
type CompiledCircuit struct {
	Ccs         constraint.ConstraintSystem
	Pk          groth16.ProvingKey
	Vk          groth16.VerifyingKey
	Fingerprint common.Hash
}

// VkDigest hashes the serialized verifying key
func (c *CompiledCircuit) VkDigest() (common.Hash, error) {
	var buf bytes.Buffer
	if _, err := c.Vk.WriteTo(&buf); err != nil {
		return common.Hash{}, err
	}
	return common.Hash(sha256.Sum256(buf.Bytes())), nil
}
