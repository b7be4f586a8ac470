package game

import (
	"fmt"
	"sync"
	"testing"
)

func TestStoreGetOrCreate(t *testing.T) {
	st, err := NewStore(8)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	h1, created := st.GetOrCreate("room-a")
	if !created {
		t.Fatal("expected first lookup to create")
	}
	h2, created := st.GetOrCreate("room-a")
	if created {
		t.Fatal("expected second lookup to reuse")
	}
	if h1 != h2 {
		t.Fatal("same id resolved to different handles")
	}
	if h1.Session == nil || h1.Session.UUID() == "" {
		t.Fatal("created handle carries no session")
	}
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	st, err := NewStore(2)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	st.GetOrCreate("a")
	st.GetOrCreate("b")
	st.GetOrCreate("c")

	if _, ok := st.Peek("a"); ok {
		t.Fatal("expected oldest entry to be evicted")
	}
	if _, ok := st.Peek("c"); !ok {
		t.Fatal("newest entry missing")
	}
	if st.Len() != 2 {
		t.Fatalf("Len = %d, want 2", st.Len())
	}
}

func TestStoreAdoptKeepsExistingEntry(t *testing.T) {
	st, err := NewStore(4)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	existing, _ := st.GetOrCreate("room")
	adopted := st.Adopt("room", NewSession())
	if adopted != existing {
		t.Fatal("Adopt replaced a live entry")
	}

	fresh := NewSession()
	h := st.Adopt("other", fresh)
	if h.Session != fresh {
		t.Fatal("Adopt did not install the session for a new id")
	}
}

func TestStoreConcurrentAccessSerializesPerSession(t *testing.T) {
	st, err := NewStore(16)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("room-%d", i%4)
			h, _ := st.GetOrCreate(id)
			h.Lock()
			defer h.Unlock()
			rm, err := Resolve(h.Session.Position(), "e2e4")
			if err != nil {
				// Another goroutine already played it.
				return
			}
			_ = h.Session.Apply(rm)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		h, ok := st.Peek(fmt.Sprintf("room-%d", i))
		if !ok {
			t.Fatalf("room-%d missing", i)
		}
		h.Lock()
		if h.Session.HistoryLen() != 1 {
			t.Fatalf("room-%d history len = %d, want 1", i, h.Session.HistoryLen())
		}
		h.Unlock()
	}
}
