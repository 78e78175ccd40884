package zone

// advanceVectors drops the first n bytes from a list of vectors. The
// list provided by the caller is left intact.
func advanceVectors(vectors [][]byte, n int) [][]byte {
	for len(vectors) > 0 && n >= len(vectors[0]) {
		n -= len(vectors[0])
		vectors = vectors[1:]
	}
	if n > 0 {
		head := vectors[0][n:]
		vectors = append([][]byte{head}, vectors[1:]...)
	}
	return vectors
}
