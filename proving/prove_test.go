package proving

import (
	"bytes"
	"context"
	"encoding/base64"
	"math/big"
	"sync"
	"testing"

	"github.com/MartinCastroAlvarez/zk-proof/circuits"
	"github.com/MartinCastroAlvarez/zk-proof/proving/storage"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/stretchr/testify/require"
)

// The sum setup is shared across the package's tests; compiling and setting
// up once keeps the suite fast.
var (
	sumOnce    sync.Once
	sumCircuit *CompiledCircuit
	sumErr     error
)

func sumProver(t *testing.T) *Prover {
	t.Helper()
	sumOnce.Do(func() {
		sumCircuit, sumErr = NewSetupManager(storage.NewMemStorage()).LoadOrCreate("sum", &circuits.SumCircuit{})
	})
	require.NoError(t, sumErr)
	return NewProver(sumCircuit, 1)
}

func TestGenerateAndVerify(t *testing.T) {
	prover := sumProver(t)

	proof, publicInput, err := prover.Generate(context.Background(), big.NewInt(2), big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, "5", publicInput.String())

	valid, err := prover.Verify(proof, publicInput)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestVerifyRejectsWrongPublicInput(t *testing.T) {
	prover := sumProver(t)

	proof, _, err := prover.Generate(context.Background(), big.NewInt(2), big.NewInt(3))
	require.NoError(t, err)

	valid, err := prover.Verify(proof, big.NewInt(6))
	require.NoError(t, err)
	require.False(t, valid)
}

func TestGenerateWrapsAroundModulus(t *testing.T) {
	prover := sumProver(t)

	a := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	proof, publicInput, err := prover.Generate(context.Background(), a, big.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, "1", publicInput.String())

	valid, err := prover.Verify(proof, publicInput)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestProofBytesRoundTrip(t *testing.T) {
	prover := sumProver(t)

	proof, _, err := prover.Generate(context.Background(), big.NewInt(7), big.NewInt(11))
	require.NoError(t, err)

	data, err := base64.StdEncoding.DecodeString(proof)
	require.NoError(t, err)
	decoded := groth16.NewProof(ecc.BN254)
	_, err = decoded.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)

	var reserialized bytes.Buffer
	_, err = decoded.WriteTo(&reserialized)
	require.NoError(t, err)
	require.Equal(t, data, reserialized.Bytes())
}

func TestVerifyRejectsMalformedProof(t *testing.T) {
	prover := sumProver(t)

	_, err := prover.Verify("not base64!!!", big.NewInt(5))
	require.ErrorIs(t, err, ErrMalformedProof)

	_, err = prover.Verify(base64.StdEncoding.EncodeToString([]byte("garbage")), big.NewInt(5))
	require.ErrorIs(t, err, ErrMalformedProof)
}

func TestGenerateHonorsContext(t *testing.T) {
	prover := sumProver(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := prover.Generate(ctx, big.NewInt(2), big.NewInt(3))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseScalar(t *testing.T) {
	v, err := ParseScalar("42")
	require.NoError(t, err)
	require.Equal(t, "42", v.String())

	max := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	v, err = ParseScalar(max.String())
	require.NoError(t, err)
	require.Equal(t, max, v)

	for _, s := range []string{"", "abc", "-1", "1.5", "0x12", fr.Modulus().String()} {
		_, err := ParseScalar(s)
		require.ErrorIs(t, err, ErrInvalidScalar, s)
	}
}
