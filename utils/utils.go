package utils

// ChunkSlice splits a slice into consecutive chunks of at most size
// elements. The batch orchestrator uses it to partition URLs into
// fixed-size concurrency windows.
func ChunkSlice[T any](items []T, size int) [][]T {
	if size < 1 {
		panic("ChunkSlice: size must be greater than 0")
	}

	length := len(items)
	if length == 0 {
		return nil
	}
	capacity := (length + size - 1) / size
	chunks := make([][]T, 0, capacity)

	for i := 0; i < length; i += size {
		end := min(i+size, length)
		chunks = append(chunks, items[i:end])
	}

	return chunks
}
