package objectio_test

import (
	"testing"
	"unsafe"

	"github.com/buildbarn/bb-zonestore/pkg/objectio"
	"github.com/stretchr/testify/require"
)

const pageSizeBytes = 4096

func newPageAlignedBuffer(pageCount int) []byte {
	return objectio.NewPageAlignedBuffer(pageCount, pageSizeBytes)
}

func TestGetTransferLengthAndAlignment(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		lengthBytes, fault := objectio.GetTransferLengthAndAlignment(nil, pageSizeBytes)
		require.Equal(t, int64(0), lengthBytes)
		require.Equal(t, objectio.AlignmentFault(0), fault)
	})

	t.Run("Aligned", func(t *testing.T) {
		lengthBytes, fault := objectio.GetTransferLengthAndAlignment([][]byte{
			newPageAlignedBuffer(1),
			newPageAlignedBuffer(2),
		}, pageSizeBytes)
		require.Equal(t, int64(3*pageSizeBytes), lengthBytes)
		require.Equal(t, objectio.AlignmentFault(0), fault)
	})

	t.Run("AddressMisaligned", func(t *testing.T) {
		buffer := newPageAlignedBuffer(2)
		lengthBytes, fault := objectio.GetTransferLengthAndAlignment([][]byte{
			newPageAlignedBuffer(1),
			buffer[512 : 512+pageSizeBytes],
		}, pageSizeBytes)
		require.Equal(t, int64(2*pageSizeBytes), lengthBytes)
		require.Equal(t, objectio.AlignmentFaultAddress, fault)
	})

	t.Run("LengthMisaligned", func(t *testing.T) {
		lengthBytes, fault := objectio.GetTransferLengthAndAlignment([][]byte{
			newPageAlignedBuffer(1)[:100],
			newPageAlignedBuffer(1),
		}, pageSizeBytes)
		require.Equal(t, int64(100+pageSizeBytes), lengthBytes)
		require.Equal(t, objectio.AlignmentFaultLength, fault)
	})

	t.Run("Both", func(t *testing.T) {
		// Address and length problems in different buffers
		// should both be reported.
		buffer := newPageAlignedBuffer(2)
		lengthBytes, fault := objectio.GetTransferLengthAndAlignment([][]byte{
			buffer[8 : 8+pageSizeBytes],
			newPageAlignedBuffer(1)[:pageSizeBytes-1],
		}, pageSizeBytes)
		require.Equal(t, int64(2*pageSizeBytes-1), lengthBytes)
		require.Equal(t, objectio.AlignmentFaultAddress|objectio.AlignmentFaultLength, fault)
	})
}

func TestAlignmentFaultString(t *testing.T) {
	require.Equal(t, "none", objectio.AlignmentFault(0).String())
	require.Equal(t, "address", objectio.AlignmentFaultAddress.String())
	require.Equal(t, "length", objectio.AlignmentFaultLength.String())
	require.Equal(t, "address|length", (objectio.AlignmentFaultAddress | objectio.AlignmentFaultLength).String())
}

func TestNewPageAlignedBuffer(t *testing.T) {
	for pageCount := 0; pageCount < 4; pageCount++ {
		buffer := objectio.NewPageAlignedBuffer(pageCount, pageSizeBytes)
		require.Len(t, buffer, pageCount*pageSizeBytes)
		require.Equal(t, pageCount*pageSizeBytes, cap(buffer))
		if pageCount > 0 {
			require.Zero(t, uintptr(unsafe.Pointer(&buffer[0]))%pageSizeBytes)
		}
	}
}
