package proving

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/require"
)

func TestVkBase64RoundTrip(t *testing.T) {
	prover := sumProver(t)

	encoded, err := VkToBase64(prover.Circuit().Vk)
	require.NoError(t, err)

	decoded, err := VkFromBase64(encoded)
	require.NoError(t, err)

	var want, got bytes.Buffer
	_, err = prover.Circuit().Vk.WriteTo(&want)
	require.NoError(t, err)
	_, err = decoded.WriteTo(&got)
	require.NoError(t, err)
	require.Equal(t, want.Bytes(), got.Bytes())
}

func TestVkFromBase64Malformed(t *testing.T) {
	_, err := VkFromBase64("@@@")
	require.ErrorIs(t, err, ErrInvalidVk)

	_, err = VkFromBase64(bytesOfGarbage)
	require.ErrorIs(t, err, ErrInvalidVk)
}

// valid base64, not a verifying key
const bytesOfGarbage = "Z2FyYmFnZQ=="

func TestExtractVkParams(t *testing.T) {
	prover := sumProver(t)

	params, err := ExtractVkParams(prover.Circuit().Vk)
	require.NoError(t, err)
	for _, v := range []*big.Int{
		params.AlphaX, params.AlphaY,
		params.BetaX[0], params.BetaX[1], params.BetaY[0], params.BetaY[1],
		params.GammaX[0], params.GammaX[1], params.GammaY[0], params.GammaY[1],
		params.DeltaX[0], params.DeltaX[1], params.DeltaY[0], params.DeltaY[1],
		params.K0X, params.K0Y, params.K1X, params.K1Y,
	} {
		require.NotNil(t, v)
	}
}

func TestExtractVkParamsRejectsWrongShape(t *testing.T) {
	// Two public inputs produce three generator points, one more than the
	// on-chain verifier constructor has slots for.
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &twoPublicCircuit{})
	require.NoError(t, err)
	_, vk, err := groth16.Setup(ccs)
	require.NoError(t, err)

	_, err = ExtractVkParams(vk)
	require.ErrorIs(t, err, ErrInvalidVk)
}

func TestExtractVkParamsRejectsForeignCurve(t *testing.T) {
	_, err := ExtractVkParams(groth16.NewVerifyingKey(ecc.BLS12_381))
	require.ErrorIs(t, err, ErrInvalidVk)
}

type twoPublicCircuit struct {
	X frontend.Variable `gnark:",public"`
	Y frontend.Variable `gnark:",public"`
	Z frontend.Variable
}

func (c *twoPublicCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Add(c.X, c.Y), c.Z)
	return nil
}
