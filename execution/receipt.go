package execution

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/MartinCastroAlvarez/zk-proof/circuits"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/ethereum/go-ethereum/common"
)

// ErrCorruptReceipt is returned when receipt bytes cannot be decoded.
var ErrCorruptReceipt = errors.New("corrupt receipt encoding")

// ErrReceiptVerification is returned when a receipt's attestation does not
// hold. The proof is withheld entirely in that case.
var ErrReceiptVerification = errors.New("receipt verification failed")

// Receipt binds a committed journal to an attestation that the guest program
// identified by ImageID produced it.
type Receipt struct {
	ImageID common.Hash
	Journal uint64
	Seal    []byte
}

const receiptHeaderSize = common.HashLength + 8 + 4

// MarshalBinary encodes the receipt as image id, journal, and a
// length-prefixed seal, all big-endian.
func (r *Receipt) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, receiptHeaderSize+len(r.Seal))
	b = append(b, r.ImageID.Bytes()...)
	b = binary.BigEndian.AppendUint64(b, r.Journal)
	b = binary.BigEndian.AppendUint32(b, uint32(len(r.Seal)))
	b = append(b, r.Seal...)
	return b, nil
}

// UnmarshalBinary decodes a receipt produced by MarshalBinary.
func (r *Receipt) UnmarshalBinary(b []byte) error {
	if len(b) < receiptHeaderSize {
		return fmt.Errorf("%w: %d bytes is shorter than the receipt header", ErrCorruptReceipt, len(b))
	}
	sealLen := binary.BigEndian.Uint32(b[common.HashLength+8:])
	if uint64(len(b)) != uint64(receiptHeaderSize)+uint64(sealLen) {
		return fmt.Errorf("%w: seal length %d does not match payload", ErrCorruptReceipt, sealLen)
	}
	r.ImageID = common.BytesToHash(b[:common.HashLength])
	r.Journal = binary.BigEndian.Uint64(b[common.HashLength:])
	r.Seal = append([]byte(nil), b[receiptHeaderSize:]...)
	return nil
}

// Verify checks the receipt against the expected program image and the guest
// circuit's verifying key, with the journal as the attestation's sole public
// input. Every failure mode wraps ErrReceiptVerification.
func (r *Receipt) Verify(imageID common.Hash, vk groth16.VerifyingKey) error {
	if r.ImageID != imageID {
		return fmt.Errorf("%w: image id %s does not match expected %s", ErrReceiptVerification, r.ImageID, imageID)
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(r.Seal)); err != nil {
		return fmt.Errorf("%w: seal does not deserialize: %v", ErrReceiptVerification, err)
	}
	publicWitness, err := frontend.NewWitness(&circuits.FibonacciCircuit{Result: r.Journal}, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReceiptVerification, err)
	}
	if err = groth16.Verify(proof, vk, publicWitness); err != nil {
		return fmt.Errorf("%w: %v", ErrReceiptVerification, err)
	}
	return nil
}
