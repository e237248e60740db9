package buffer

import (
	"sync"
	"testing"
)

func TestNewRingRejectsBadCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		if _, err := NewRing[int](c); err == nil {
			t.Fatalf("NewRing(%d) expected error", c)
		}
	}
}

func TestRingOverflowDropsExactlyOne(t *testing.T) {
	const capacity = 64
	r, err := NewRing[int](capacity)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	for i := range capacity + 1 {
		ok := r.Push(i)
		if i < capacity && !ok {
			t.Fatalf("Push(%d) rejected before ring was full", i)
		}
		if i == capacity && ok {
			t.Fatal("Push accepted a value into a full ring")
		}
	}

	if r.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", r.Dropped())
	}
	if r.Len() != capacity {
		t.Fatalf("Len() = %d, want %d", r.Len(), capacity)
	}

	for i := range capacity {
		v, ok := r.Pop()
		if !ok || v != i {
			t.Fatalf("Pop() = %d,%v, want %d,true", v, ok, i)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("Pop() on empty ring returned a value")
	}
}

func TestRingWrapsAround(t *testing.T) {
	r, _ := NewRing[int](3)
	next := 0
	want := 0
	for range 10 {
		for r.Push(next) {
			next++
		}
		v, ok := r.Pop()
		if !ok || v != want {
			t.Fatalf("Pop() = %d,%v, want %d,true", v, ok, want)
		}
		want++
	}
}

func TestRingClearsPoppedSlots(t *testing.T) {
	r, _ := NewRing[*int](2)
	x := 7
	r.Push(&x)
	r.Pop()
	for i, p := range r.slots {
		if p != nil {
			t.Fatalf("slot %d still references a popped value", i)
		}
	}
}

func TestRingConcurrentProducersPreserveOrderPerProducer(t *testing.T) {
	type item struct{ producer, seq int }

	const (
		producers = 4
		perProd   = 2000
	)

	r, _ := NewRing[item](16)

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := 0; s < perProd; {
				if r.Push(item{producer: p, seq: s}) {
					s++
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}

	received := 0
	for received < producers*perProd {
		v, ok := r.Pop()
		if !ok {
			select {
			case <-done:
				if r.Len() == 0 {
					t.Fatalf("received %d items, want %d", received, producers*perProd)
				}
			default:
			}
			continue
		}
		if v.seq != last[v.producer]+1 {
			t.Fatalf("producer %d: got seq %d after %d", v.producer, v.seq, last[v.producer])
		}
		last[v.producer] = v.seq
		received++
	}

	if r.Pushed() != producers*perProd {
		t.Fatalf("Pushed() = %d, want %d", r.Pushed(), producers*perProd)
	}
}

func TestRingDiscard(t *testing.T) {
	r, _ := NewRing[int](8)
	for i := range 5 {
		r.Push(i)
	}
	if n := r.Discard(); n != 5 {
		t.Fatalf("Discard() = %d, want 5", n)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after Discard, want 0", r.Len())
	}
}

func TestRingPopDoesNotAllocate(t *testing.T) {
	r, _ := NewRing[[4]float64](4)
	allocs := testing.AllocsPerRun(100, func() {
		r.Push([4]float64{1, 2, 3, 4})
		r.Pop()
	})
	if allocs != 0 {
		t.Fatalf("Push/Pop allocated %v times per run", allocs)
	}
}

func TestRingLenFromObserverStaysInRange(t *testing.T) {
	const capacity = 8
	r, err := NewRing[int](capacity)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			r.Push(i)
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			r.Pop()
		}
	}()

	for range 100000 {
		if n := r.Len(); n < 0 || n > capacity {
			close(stop)
			wg.Wait()
			t.Fatalf("Len() = %d, want within [0, %d]", n, capacity)
		}
	}
	close(stop)
	wg.Wait()
}
