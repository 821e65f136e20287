package specialist

import (
	"sync"
	"testing"
	"time"

	"github.com/ysalloum/pulsedesk/internal/config"
	"github.com/ysalloum/pulsedesk/internal/intent"
)

func testWeights() config.RoutingConfig {
	return config.RoutingConfig{
		KeywordWeight:        2.0,
		PerformanceWeight:    1.0,
		ExperienceWeight:     0.5,
		ExperienceSaturation: 100,
	}
}

func testRoster() []config.SpecialistConfig {
	return []config.SpecialistConfig{
		{ID: "sales", Role: "Sales Consultant", Keywords: []string{"price", "سعر"}, Style: "casual"},
		{ID: "support", Role: "Support Agent", Keywords: []string{"problem", "مشكلة"}, Style: "formal"},
		{ID: "general", Role: "Account Manager", Keywords: []string{"hello"}, Style: "casual"},
	}
}

func TestNewDirectoryRejectsEmptyRoster(t *testing.T) {
	if _, err := NewDirectory(nil, testWeights()); err == nil {
		t.Fatal("expected error for empty roster")
	}
}

func TestNewDirectoryRejectsDuplicateIDs(t *testing.T) {
	roster := testRoster()
	roster = append(roster, roster[0])
	if _, err := NewDirectory(roster, testWeights()); err == nil {
		t.Fatal("expected error for duplicate ids")
	}
}

func TestSelectPrefersKeywordAffinity(t *testing.T) {
	d, err := NewDirectory(testRoster(), testWeights())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}

	res := intent.Result{Intent: intent.PriceInquiry, Specialist: "sales"}
	p := d.Select(res, "what is the price?")
	if p.ID != "sales" {
		t.Errorf("expected sales, got %q", p.ID)
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	d, err := NewDirectory(testRoster(), testWeights())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}

	res := intent.Result{Intent: intent.GeneralInquiry, Specialist: "general"}
	first := d.Select(res, "عندي استفسار")
	for i := 0; i < 20; i++ {
		if got := d.Select(res, "عندي استفسار"); got.ID != first.ID {
			t.Fatalf("selection not deterministic: %q vs %q", got.ID, first.ID)
		}
	}
}

func TestSelectNeverLeavesDirectory(t *testing.T) {
	d, err := NewDirectory(testRoster(), testWeights())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}

	valid := map[string]bool{"sales": true, "support": true, "general": true}
	messages := []string{"", "random text", "price problem hello", "مشكلة وسعر"}
	for _, msg := range messages {
		p := d.Select(intent.Result{Specialist: "nobody"}, msg)
		if !valid[p.ID] {
			t.Errorf("message %q selected unknown specialist %q", msg, p.ID)
		}
	}
}

func TestSelectTieBreaksByExperienceThenOrder(t *testing.T) {
	d, err := NewDirectory(testRoster(), testWeights())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}

	// No keyword matches anywhere; all scores equal at first, so declaration
	// order wins.
	p := d.Select(intent.Result{}, "zzz")
	if p.ID != "sales" {
		t.Errorf("expected declaration-order winner sales, got %q", p.ID)
	}

	// Give support more history with the same success rate as the prior; its
	// experience bonus should now break the tie.
	d.RecordOutcome("support", true, 100*time.Millisecond)
	d.RecordOutcome("support", false, 100*time.Millisecond)
	p = d.Select(intent.Result{}, "zzz")
	if p.ID != "support" {
		t.Errorf("expected experienced support, got %q", p.ID)
	}
}

func TestPerformanceMonotonicity(t *testing.T) {
	d, err := NewDirectory(testRoster(), testWeights())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}

	// Equal experience, different success rates.
	for i := 0; i < 10; i++ {
		d.RecordOutcome("sales", false, time.Millisecond)
		d.RecordOutcome("support", true, time.Millisecond)
	}

	p := d.Select(intent.Result{}, "no keywords at all")
	if p.ID != "support" {
		t.Errorf("higher performance should win, got %q", p.ID)
	}
}

func TestRecordOutcomeInvariantUnderConcurrency(t *testing.T) {
	d, err := NewDirectory(testRoster(), testWeights())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.RecordOutcome("sales", i%2 == 0, time.Millisecond)
		}(i)
	}
	wg.Wait()

	p := d.Get("sales")
	if p.TotalInteractions != 50 {
		t.Errorf("expected 50 interactions, got %d", p.TotalInteractions)
	}
	if p.SuccessfulResponses > p.TotalInteractions {
		t.Errorf("invariant violated: %d successes > %d totals", p.SuccessfulResponses, p.TotalInteractions)
	}
	if p.SuccessfulResponses != 25 {
		t.Errorf("expected 25 successes, got %d", p.SuccessfulResponses)
	}
}

func TestGetUnknownReturnsNil(t *testing.T) {
	d, err := NewDirectory(testRoster(), testWeights())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	if d.Get("ghost") != nil {
		t.Error("expected nil for unknown id")
	}
}
