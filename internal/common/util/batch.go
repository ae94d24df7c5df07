package util

// Batch splits elements into contiguous batches of at most batchSize elements, preserving order.
// The last batch holds the remainder and is never padded. An empty input yields no batches.
func Batch[T any](elements []T, batchSize int) [][]T {
	if batchSize <= 0 {
		panic("batch size must be positive")
	}
	total := len(elements)
	n := total / batchSize
	lastBatchSize := total % batchSize
	totalBatches := n
	if lastBatchSize != 0 {
		totalBatches++
	}

	batches := make([][]T, totalBatches)

	for i := 0; i < n; i++ {
		batches[i] = elements[i*batchSize : (i+1)*batchSize : (i+1)*batchSize]
	}

	if lastBatchSize != 0 {
		batches[n] = elements[n*batchSize : total : total]
	}

	return batches
}
