package relay

import (
	"testing"
	"time"
)

func TestPutGet(t *testing.T) {
	q := New[int](2)
	q.Put(1)
	q.Put(2)

	if got, ok := q.Get(time.Second); !ok || got != 1 {
		t.Errorf("Get = %v/%v, want 1/true", got, ok)
	}
	if got, ok := q.Get(time.Second); !ok || got != 2 {
		t.Errorf("Get = %v/%v, want 2/true", got, ok)
	}
}

func TestPutEvictsOldestWhenFull(t *testing.T) {
	q := New[int](2)
	for i := 1; i <= 5; i++ {
		q.Put(i)
	}

	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}

	// The two most recent entries survive.
	if got, _ := q.Get(time.Second); got != 4 {
		t.Errorf("first Get = %v, want 4", got)
	}
	if got, _ := q.Get(time.Second); got != 5 {
		t.Errorf("second Get = %v, want 5", got)
	}
}

func TestGetTimesOutOnEmptyQueue(t *testing.T) {
	q := New[string](1)

	start := time.Now()
	_, ok := q.Get(20 * time.Millisecond)
	elapsed := time.Since(start)

	if ok {
		t.Error("Get on empty queue = true, want false")
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("Get returned after %v, want >= 20ms", elapsed)
	}
}

func TestGetSeesLatePut(t *testing.T) {
	q := New[int](1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Put(42)
	}()

	if got, ok := q.Get(time.Second); !ok || got != 42 {
		t.Errorf("Get = %v/%v, want 42/true", got, ok)
	}
}

func TestTryGet(t *testing.T) {
	q := New[int](1)

	if _, ok := q.TryGet(); ok {
		t.Error("TryGet on empty queue = true, want false")
	}

	q.Put(7)
	if got, ok := q.TryGet(); !ok || got != 7 {
		t.Errorf("TryGet = %v/%v, want 7/true", got, ok)
	}
}

func TestMinimumCapacity(t *testing.T) {
	q := New[int](0)
	if q.Cap() != 1 {
		t.Errorf("Cap = %d, want 1", q.Cap())
	}
}
