package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ysalloum/pulsedesk/internal/db"
)

func newTestStore(t *testing.T, cap int) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	s, err := NewStore(database, cap)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestGetOrCreateFirstContactDefaults(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	p, err := s.GetOrCreate(ctx, "cust-1", "Fahad", "whatsapp")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if p.Tone != ToneFormal {
		t.Errorf("expected formal default tone, got %q", p.Tone)
	}
	if p.Channel != "whatsapp" {
		t.Errorf("expected inbound channel preserved, got %q", p.Channel)
	}

	// Second call returns the same profile, not a new one.
	again, err := s.GetOrCreate(ctx, "cust-1", "ignored", "sms")
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if again.Name != "Fahad" || again.Channel != "whatsapp" {
		t.Errorf("expected original profile back, got %+v", again)
	}
}

func TestLearnPreferencesLastWriteWins(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	if _, err := s.GetOrCreate(ctx, "cust-1", "", "web"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if err := s.LearnPreferences(ctx, "cust-1", "هلا والله", ""); err != nil {
		t.Fatalf("LearnPreferences: %v", err)
	}
	p, _ := s.Get(ctx, "cust-1")
	if p.Tone != ToneCasual {
		t.Errorf("casual greeting should flip tone, got %q", p.Tone)
	}

	if err := s.LearnPreferences(ctx, "cust-1", "من فضلك أرسل العرض", ""); err != nil {
		t.Fatalf("LearnPreferences: %v", err)
	}
	p, _ = s.Get(ctx, "cust-1")
	if p.Tone != ToneFormal {
		t.Errorf("politeness marker should flip tone back, got %q", p.Tone)
	}

	// No marker: no change.
	if err := s.LearnPreferences(ctx, "cust-1", "ok", ""); err != nil {
		t.Fatalf("LearnPreferences: %v", err)
	}
	p, _ = s.Get(ctx, "cust-1")
	if p.Tone != ToneFormal {
		t.Errorf("tone must not change without a marker, got %q", p.Tone)
	}
}

func TestAppendNeverExceedsCap(t *testing.T) {
	const cap = 5
	s := newTestStore(t, cap)
	ctx := context.Background()

	if _, err := s.GetOrCreate(ctx, "cust-1", "", "web"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	for i := 0; i < 23; i++ {
		rec := InteractionRecord{Summary: fmt.Sprintf("turn %d", i)}
		if err := s.AppendInteraction(ctx, "cust-1", rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		n, err := s.LogLength(ctx, "cust-1")
		if err != nil {
			t.Fatalf("LogLength: %v", err)
		}
		if n > cap {
			t.Fatalf("after %d appends log length %d exceeds cap %d", i+1, n, cap)
		}
	}

	// The survivors are the most recent cap entries, oldest first.
	window, err := s.ContextWindow(ctx, "cust-1", cap)
	if err != nil {
		t.Fatalf("ContextWindow: %v", err)
	}
	if len(window) != cap {
		t.Fatalf("expected %d records, got %d", cap, len(window))
	}
	if window[0].Summary != "turn 18" || window[cap-1].Summary != "turn 22" {
		t.Errorf("unexpected window bounds: %q .. %q", window[0].Summary, window[cap-1].Summary)
	}
}

func TestContextWindowChronologicalAndPure(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	if _, err := s.GetOrCreate(ctx, "cust-1", "", "web"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := s.AppendInteraction(ctx, "cust-1", InteractionRecord{Summary: fmt.Sprintf("turn %d", i)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	window, err := s.ContextWindow(ctx, "cust-1", 3)
	if err != nil {
		t.Fatalf("ContextWindow: %v", err)
	}
	want := []string{"turn 1", "turn 2", "turn 3"}
	for i, w := range want {
		if window[i].Summary != w {
			t.Errorf("window[%d] = %q, want %q", i, window[i].Summary, w)
		}
	}

	// Reading must not mutate the log.
	n, _ := s.LogLength(ctx, "cust-1")
	if n != 4 {
		t.Errorf("log length changed after read: %d", n)
	}
}

func TestContextWindowEmptyHistory(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	if _, err := s.GetOrCreate(ctx, "cust-1", "", "web"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	window, err := s.ContextWindow(ctx, "cust-1", 5)
	if err != nil {
		t.Fatalf("ContextWindow: %v", err)
	}
	if len(window) != 0 {
		t.Errorf("expected empty window, got %d records", len(window))
	}
}

func TestRepeatedMessagesAreNotDeduplicated(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	if _, err := s.GetOrCreate(ctx, "cust-1", "", "web"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	before, _ := s.LogLength(ctx, "cust-1")

	rec := InteractionRecord{Summary: "same message"}
	if err := s.AppendInteraction(ctx, "cust-1", rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	rec.ID = "" // fresh id for the second identical turn
	if err := s.AppendInteraction(ctx, "cust-1", rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	after, _ := s.LogLength(ctx, "cust-1")
	if after-before != 2 {
		t.Errorf("expected log to grow by exactly 2, grew by %d", after-before)
	}
}

func TestConcurrentAppendsSameCustomerLoseNothing(t *testing.T) {
	const writers = 20
	s := newTestStore(t, 100)
	ctx := context.Background()

	if _, err := s.GetOrCreate(ctx, "cust-1", "", "web"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.AppendInteraction(ctx, "cust-1", InteractionRecord{Summary: fmt.Sprintf("c%d", i)})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent append: %v", err)
		}
	}

	n, _ := s.LogLength(ctx, "cust-1")
	if n != writers {
		t.Errorf("expected %d records, got %d", writers, n)
	}
}
