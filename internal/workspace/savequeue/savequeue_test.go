package savequeue

import (
	"sync"
	"testing"
)

func TestFor_ReturnsSameQueueForSameID(t *testing.T) {
	a := For("arch-1")
	b := For("arch-1")
	if a != b {
		t.Fatal("expected For to return the same queue instance for the same archive ID")
	}
}

func TestFor_DistinctIDsGetDistinctQueues(t *testing.T) {
	a := For("arch-distinct-a")
	b := For("arch-distinct-b")
	if a == b {
		t.Fatal("expected distinct queues for distinct archive IDs")
	}
}

func TestQueue_RunsTasksInFIFOOrder(t *testing.T) {
	q := For("arch-fifo")

	var mu sync.Mutex
	var order []int
	var handles []*Handle
	for i := 0; i < 5; i++ {
		i := i
		handles = append(handles, q.Enqueue(0, "saving", func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}
	for _, h := range handles {
		if err := h.Wait(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for i, v := range order {
		if v != i {
			t.Fatalf("tasks ran out of order: %v", order)
		}
	}
}

func TestQueue_FailureDoesNotBlockSubsequentTasks(t *testing.T) {
	q := For("arch-failure")

	h1 := q.Enqueue(0, "saving", func() error { return ErrCancelled })
	h2 := q.Enqueue(0, "saving", func() error { return nil })

	if err := h1.Wait(); err == nil {
		t.Fatal("expected first task to report its error")
	}
	if err := h2.Wait(); err != nil {
		t.Fatalf("expected second task to succeed, got %v", err)
	}
}

func TestQueue_HigherPriorityRunsBeforeLowerAmongPending(t *testing.T) {
	q := For("arch-priority")

	var mu sync.Mutex
	var order []string

	release := make(chan struct{})
	blocker := q.Enqueue(0, "saving", func() error {
		<-release
		return nil
	})

	// Enqueued while the blocker is still running, so all three are
	// guaranteed to still be pending when the drain loop next picks.
	low := q.Enqueue(0, "saving", func() error {
		mu.Lock()
		order = append(order, "low")
		mu.Unlock()
		return nil
	})
	high := q.Enqueue(5, "saving", func() error {
		mu.Lock()
		order = append(order, "high")
		mu.Unlock()
		return nil
	})
	mid := q.Enqueue(2, "saving", func() error {
		mu.Lock()
		order = append(order, "mid")
		mu.Unlock()
		return nil
	})

	close(release)
	for _, h := range []*Handle{blocker, low, high, mid} {
		if err := h.Wait(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []string{"high", "mid", "low"}
	mu.Lock()
	got := append([]string(nil), order...)
	mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestQueue_EqualPriorityIsFIFO(t *testing.T) {
	q := For("arch-priority-fifo")

	var mu sync.Mutex
	var order []int

	release := make(chan struct{})
	blocker := q.Enqueue(0, "saving", func() error {
		<-release
		return nil
	})

	var handles []*Handle
	for i := 0; i < 4; i++ {
		i := i
		handles = append(handles, q.Enqueue(3, "saving", func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}

	close(release)
	if err := blocker.Wait(); err != nil {
		t.Fatalf("blocker: %v", err)
	}
	for _, h := range handles {
		if err := h.Wait(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for i, v := range order {
		if v != i {
			t.Fatalf("equal-priority tasks ran out of enqueue order: %v", order)
		}
	}
}

func TestHandle_CancelBeforeStartSkipsTask(t *testing.T) {
	q := For("arch-cancel")

	release := make(chan struct{})
	blocker := q.Enqueue(0, "saving", func() error {
		<-release
		return nil
	})

	ran := false
	h := q.Enqueue(0, "saving", func() error {
		ran = true
		return nil
	})
	// The blocker task is still running, so h is guaranteed to still be
	// pending: this cancel is unambiguously "before start".
	h.Cancel()
	close(release)

	if err := blocker.Wait(); err != nil {
		t.Fatalf("blocker: %v", err)
	}
	err := h.Wait()
	if ran {
		t.Fatal("cancelled task should not have run")
	}
	if err != ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}
