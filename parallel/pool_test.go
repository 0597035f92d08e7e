package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_CoversEveryIndexOnce(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	tests := []struct {
		name string
		n    int
	}{
		{"empty", 0},
		{"serial", parallelThreshold - 1},
		{"threshold", parallelThreshold},
		{"uneven", 1001},
		{"large", 1 << 14},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hits := make([]int32, tc.n)
			pool.For(tc.n, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times, want 1", i, h)
				}
			}
		})
	}
}

func TestFor_IsBarrier(t *testing.T) {
	pool := NewPool(8)
	defer pool.Close()

	const n = 4096
	a := make([]int, n)
	b := make([]int, n)

	// Second pass reads a neighbour written by another chunk in the first.
	pool.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			a[i] = i
		}
	})
	pool.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			b[i] = a[(i+n/2)%n]
		}
	})

	for i := range b {
		assert.Equal(t, (i+n/2)%n, b[i])
	}
}

func TestNilPoolRunsInline(t *testing.T) {
	var pool *Pool
	sum := 0
	pool.For(1000, func(start, end int) {
		for i := start; i < end; i++ {
			sum += i
		}
	})
	assert.Equal(t, 999*1000/2, sum)
	pool.Close()
}

func TestClose_Restart(t *testing.T) {
	pool := NewPool(2)
	var count atomic.Int64
	add := func(start, end int) { count.Add(int64(end - start)) }

	pool.For(500, add)
	pool.Close()
	pool.For(500, add)
	pool.Close()

	assert.EqualValues(t, 1000, count.Load())
}

func TestNewPool_DefaultWorkers(t *testing.T) {
	assert.Positive(t, NewPool(0).Workers())
	assert.Equal(t, 3, NewPool(3).Workers())
}
