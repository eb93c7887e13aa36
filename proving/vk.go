package proving

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
)

// ErrInvalidVk is returned when the verification key is not valid
var ErrInvalidVk = errors.New("invalid verification key")

// VkToBase64 serializes only the verifying key and wraps it in base64 for
// transport. The encoding carries no verifier-side precomputation, so any
// consumer can rebuild whatever pairing setup it needs.
func VkToBase64(vk groth16.VerifyingKey) (string, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// VkFromBase64 decodes a verifying key produced by VkToBase64.
func VkFromBase64(s string) (groth16.VerifyingKey, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVk, err)
	}
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err = vk.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVk, err)
	}
	return vk, nil
}

// VkParams is the flattened constructor layout an on-chain verifier expects
// for a relation with exactly one public input. Quadratic-extension
// coordinates are ordered [A0, A1].
type VkParams struct {
	AlphaX *big.Int
	AlphaY *big.Int
	BetaX  [2]*big.Int
	BetaY  [2]*big.Int
	GammaX [2]*big.Int
	GammaY [2]*big.Int
	DeltaX [2]*big.Int
	DeltaY [2]*big.Int
	K0X    *big.Int
	K0Y    *big.Int
	K1X    *big.Int
	K1Y    *big.Int
}

// ExtractVkParams decomposes a BN254 verifying key into VkParams. The key
// must carry exactly two linear-combination generator points; any other
// count means it was produced for a different circuit shape, and extraction
// fails with ErrInvalidVk rather than truncating or padding.
func ExtractVkParams(vk groth16.VerifyingKey) (*VkParams, error) {
	concrete, ok := vk.(*groth16_bn254.VerifyingKey)
	if !ok {
		return nil, ErrInvalidVk
	}
	if len(concrete.G1.K) != 2 {
		return nil, fmt.Errorf("%w: expected 2 generator points, got %d", ErrInvalidVk, len(concrete.G1.K))
	}

	betaX, betaY := g2BigInts(concrete.G2.Beta)
	gammaX, gammaY := g2BigInts(concrete.G2.Gamma)
	deltaX, deltaY := g2BigInts(concrete.G2.Delta)
	return &VkParams{
		AlphaX: concrete.G1.Alpha.X.BigInt(new(big.Int)),
		AlphaY: concrete.G1.Alpha.Y.BigInt(new(big.Int)),
		BetaX:  betaX,
		BetaY:  betaY,
		GammaX: gammaX,
		GammaY: gammaY,
		DeltaX: deltaX,
		DeltaY: deltaY,
		K0X:    concrete.G1.K[0].X.BigInt(new(big.Int)),
		K0Y:    concrete.G1.K[0].Y.BigInt(new(big.Int)),
		K1X:    concrete.G1.K[1].X.BigInt(new(big.Int)),
		K1Y:    concrete.G1.K[1].Y.BigInt(new(big.Int)),
	}, nil
}

func g2BigInts(g bn254.G2Affine) (x, y [2]*big.Int) {
	x = [2]*big.Int{g.X.A0.BigInt(new(big.Int)), g.X.A1.BigInt(new(big.Int))}
	y = [2]*big.Int{g.Y.A0.BigInt(new(big.Int)), g.Y.A1.BigInt(new(big.Int))}
	return x, y
}
