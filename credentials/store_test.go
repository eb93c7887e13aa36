package credentials

import (
	"testing"

	"github.com/MartinCastroAlvarez/zk-proof/proving/storage"
	"github.com/stretchr/testify/require"
)

func TestStoreEmptyUntilConfigured(t *testing.T) {
	store := NewStore(storage.NewMemStorage())

	address, secret, err := store.LoadKeyPair()
	require.NoError(t, err)
	require.Empty(t, address)
	require.Empty(t, secret)

	public, err := store.PublicAddress()
	require.NoError(t, err)
	require.Empty(t, public)

	contract, err := store.ContractAddress()
	require.NoError(t, err)
	require.Empty(t, contract)
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemStorage())

	require.NoError(t, store.SaveKeyPair("0xdead", "0xbeef"))
	address, secret, err := store.LoadKeyPair()
	require.NoError(t, err)
	require.Equal(t, "0xdead", address)
	require.Equal(t, "0xbeef", secret)

	public, err := store.PublicAddress()
	require.NoError(t, err)
	require.Equal(t, "0xdead", public)

	// Saving again replaces both values.
	require.NoError(t, store.SaveKeyPair("0xfeed", "0xface"))
	address, secret, err = store.LoadKeyPair()
	require.NoError(t, err)
	require.Equal(t, "0xfeed", address)
	require.Equal(t, "0xface", secret)
}

func TestStoreContractAddress(t *testing.T) {
	store := NewStore(storage.NewMemStorage())

	require.NoError(t, store.SaveContractAddress("0xc0de"))
	contract, err := store.ContractAddress()
	require.NoError(t, err)
	require.Equal(t, "0xc0de", contract)
}

func TestStoreSurvivesReopen(t *testing.T) {
	backing := storage.NewFileStorage(t.TempDir())

	require.NoError(t, NewStore(backing).SaveKeyPair("0xdead", "0xbeef"))

	address, secret, err := NewStore(backing).LoadKeyPair()
	require.NoError(t, err)
	require.Equal(t, "0xdead", address)
	require.Equal(t, "0xbeef", secret)
}
