package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_IncrementDecrement(t *testing.T) {
	tr := New()
	tr.Increment("a1")
	tr.Increment("a1")
	assert.Equal(t, 2, tr.ActiveCalls("a1"))

	tr.Decrement("a1")
	assert.Equal(t, 1, tr.ActiveCalls("a1"))
}

func TestTracker_DecrementClampsAtZero(t *testing.T) {
	tr := New()
	tr.Decrement("a1")
	assert.Equal(t, 0, tr.ActiveCalls("a1"))
}

func TestTracker_NextCursorWraps(t *testing.T) {
	tr := New()
	assert.Equal(t, 0, tr.NextCursor("c1", 3))
	assert.Equal(t, 1, tr.NextCursor("c1", 3))
	assert.Equal(t, 2, tr.NextCursor("c1", 3))
	assert.Equal(t, 0, tr.NextCursor("c1", 3))
}

func TestTracker_ConcurrentIncrementIsSafe(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Increment("a1")
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, tr.ActiveCalls("a1"))
}

func TestTracker_Reset(t *testing.T) {
	tr := New()
	tr.Increment("a1")
	tr.NextCursor("c1", 2)
	tr.Reset()
	assert.Equal(t, 0, tr.ActiveCalls("a1"))
	assert.Equal(t, 0, tr.NextCursor("c1", 2))
}

func TestTracker_Snapshot(t *testing.T) {
	tr := New()
	tr.Increment("a1")
	tr.Increment("a2")
	snap := tr.Snapshot()
	assert.Equal(t, map[string]int{"a1": 1, "a2": 1}, snap)
}
