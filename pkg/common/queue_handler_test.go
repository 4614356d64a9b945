package common

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueHandlerBatches(t *testing.T) {
	var mu sync.Mutex
	var batches [][]int
	q := NewQueueHandler[int](func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]int(nil), items...))
	}, 2, time.Hour)

	q.Add(1, 2, 3)
	q.Add(4, 5)
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, batches)
	assert.Equal(t, 0, q.Len())
}

func TestQueueHandlerTicks(t *testing.T) {
	seen := make(chan int, 4)
	q := NewQueueHandler[int](func(items []int) {
		for _, i := range items {
			seen <- i
		}
	}, 10, 10*time.Millisecond)
	defer q.Close()

	q.Add(7)
	select {
	case v := <-seen:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("queue was never processed")
	}
}

func TestCloseTwice(t *testing.T) {
	q := NewQueueHandler[string](func([]string) {}, 1, time.Hour)
	q.Close()
	assert.NotPanics(t, q.Close)
}

func TestAddAfterCloseIsRefused(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	q := NewQueueHandler[string](func(items []string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, items...)
	}, 10, time.Hour)

	assert.True(t, q.Add("before"))
	q.Close()
	assert.False(t, q.Add("after"))
	assert.Equal(t, 0, q.Len())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"before"}, seen)
}
