package zone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdvanceVectors(t *testing.T) {
	vectors := [][]byte{[]byte("Hello"), []byte(", "), []byte("world")}

	require.Equal(t, vectors, advanceVectors(vectors, 0))
	require.Equal(t, [][]byte{[]byte("llo"), []byte(", "), []byte("world")}, advanceVectors(vectors, 2))
	require.Equal(t, [][]byte{[]byte(", "), []byte("world")}, advanceVectors(vectors, 5))
	require.Equal(t, [][]byte{[]byte("orld")}, advanceVectors(vectors, 8))
	require.Empty(t, advanceVectors(vectors, 12))

	// The original list should not have been modified.
	require.Equal(t, [][]byte{[]byte("Hello"), []byte(", "), []byte("world")}, vectors)
}
