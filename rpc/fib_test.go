package api

import (
	"net/http"
	"sync"
	"testing"

	"github.com/MartinCastroAlvarez/zk-proof/circuits"
	"github.com/MartinCastroAlvarez/zk-proof/execution"
	"github.com/MartinCastroAlvarez/zk-proof/proving"
	"github.com/MartinCastroAlvarez/zk-proof/proving/storage"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	fibOnce    sync.Once
	fibCircuit *proving.CompiledCircuit
	fibErr     error
)

func newFibHandler(t *testing.T) http.Handler {
	t.Helper()
	fibOnce.Do(func() {
		fibCircuit, fibErr = proving.NewSetupManager(storage.NewMemStorage()).LoadOrCreate("fib", &circuits.FibonacciCircuit{})
	})
	require.NoError(t, fibErr)
	return NewFibService(execution.NewProver(fibCircuit, common.Hash{}, 1)).Handler()
}

func TestFibProvesAndVerifies(t *testing.T) {
	w := do(t, newFibHandler(t), http.MethodPost, "/fib/10", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp FibResponse
	decode(t, w, &resp)
	require.Equal(t, uint64(55), resp.Result)

	var receipt execution.Receipt
	require.NoError(t, receipt.UnmarshalBinary(resp.Proof))
	require.Equal(t, uint64(55), receipt.Journal)
	require.Equal(t, fibCircuit.Fingerprint, receipt.ImageID)
	require.NoError(t, receipt.Verify(fibCircuit.Fingerprint, fibCircuit.Vk))
}

func TestFibRejectsBadIndex(t *testing.T) {
	handler := newFibHandler(t)

	for _, path := range []string{"/fib/abc", "/fib/-1", "/fib/0"} {
		w := do(t, handler, http.MethodPost, path, "")
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		var resp errorResponse
		decode(t, w, &resp)
		require.NotEmpty(t, resp.Error, path)
	}
}

func TestFibOverflowIsTerminal(t *testing.T) {
	w := do(t, newFibHandler(t), http.MethodPost, "/fib/94", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp errorResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Error)
}

func TestFibHealth(t *testing.T) {
	w := do(t, newFibHandler(t), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Ok", w.Body.String())
}
