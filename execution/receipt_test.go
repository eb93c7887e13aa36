package execution

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestReceiptRoundTrip(t *testing.T) {
	receipt := &Receipt{
		ImageID: common.HexToHash("0xdeadbeef"),
		Journal: 12200160415121876738,
		Seal:    []byte{1, 2, 3, 4, 5},
	}
	encoded, err := receipt.MarshalBinary()
	require.NoError(t, err)

	var decoded Receipt
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	require.Equal(t, *receipt, decoded)
}

func TestReceiptRoundTripEmptySeal(t *testing.T) {
	receipt := &Receipt{ImageID: common.HexToHash("0x01"), Journal: 1}
	encoded, err := receipt.MarshalBinary()
	require.NoError(t, err)

	var decoded Receipt
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	require.Equal(t, receipt.ImageID, decoded.ImageID)
	require.Equal(t, receipt.Journal, decoded.Journal)
	require.Empty(t, decoded.Seal)
}

func TestReceiptRejectsBadFraming(t *testing.T) {
	receipt := &Receipt{ImageID: common.HexToHash("0x01"), Journal: 5, Seal: []byte{9, 9}}
	encoded, err := receipt.MarshalBinary()
	require.NoError(t, err)

	var decoded Receipt
	require.ErrorIs(t, decoded.UnmarshalBinary(nil), ErrCorruptReceipt)
	require.ErrorIs(t, decoded.UnmarshalBinary(encoded[:receiptHeaderSize-1]), ErrCorruptReceipt)
	require.ErrorIs(t, decoded.UnmarshalBinary(encoded[:len(encoded)-1]), ErrCorruptReceipt)
	require.ErrorIs(t, decoded.UnmarshalBinary(append(encoded[:len(encoded):len(encoded)], 0)), ErrCorruptReceipt)
}
