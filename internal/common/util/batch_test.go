package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]string{}, Batch([]string{}, 1))
	assert.Equal(t, [][]string{{"a"}}, Batch([]string{"a"}, 1))
	assert.Equal(t, [][]string{{"a"}}, Batch([]string{"a"}, 10))
	assert.Equal(t, [][]string{{"a"}, {"b"}}, Batch([]string{"a", "b"}, 1))
	assert.Equal(t, [][]string{{"a", "b"}}, Batch([]string{"a", "b"}, 2))
	assert.Equal(t, [][]string{{"a", "b"}}, Batch([]string{"a", "b"}, 3))
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e"}}, Batch([]string{"a", "b", "c", "d", "e"}, 3))
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e", "f"}}, Batch([]string{"a", "b", "c", "d", "e", "f"}, 3))
	assert.Equal(t, [][]int{{1, 2}, {3}}, Batch([]int{1, 2, 3}, 2))
}

func TestBatch_AppendDoesNotClobberNextBatch(t *testing.T) {
	batches := Batch([]int{1, 2, 3, 4}, 2)
	_ = append(batches[0], 99)
	assert.Equal(t, []int{3, 4}, batches[1])
}

func TestBatch_NonPositiveSizePanics(t *testing.T) {
	assert.Panics(t, func() { Batch([]int{1}, 0) })
}
