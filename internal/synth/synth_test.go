package synth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/llm"
	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/specialist"
)

// fakeProvider returns a canned completion, an error, or blocks until the
// context is cancelled.
type fakeProvider struct {
	content string
	err     error
	block   bool
	calls   int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content}, nil
}

func testVocabulary() []intent.Label {
	return []intent.Label{
		intent.PriceInquiry, intent.TechnicalSupport, intent.Complaint,
		intent.Greeting, intent.GeneralInquiry,
	}
}

func testProfile() *memory.CustomerProfile {
	return &memory.CustomerProfile{
		ID:       "cust-1",
		Name:     "فهد",
		Language: "ar",
		Tone:     memory.ToneFormal,
		Channel:  "whatsapp",
	}
}

func testSpecialist() *specialist.Profile {
	return &specialist.Profile{ID: "general", Name: "Noura", Role: "Account Manager", Style: "casual"}
}

func TestNewRejectsMissingTemplate(t *testing.T) {
	vocab := append(testVocabulary(), intent.Label("telepathy"))
	_, err := New(nil, "", time.Second, vocab)
	if err == nil {
		t.Fatal("expected configuration error for intent without template")
	}
}

func TestNewAcceptsFullVocabulary(t *testing.T) {
	if _, err := New(nil, "", time.Second, testVocabulary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSynthesizeNilProviderUsesFallback(t *testing.T) {
	s, err := New(nil, "", time.Second, testVocabulary())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := intent.Result{Intent: intent.Greeting, Urgency: intent.UrgencyMedium}
	resp := s.Synthesize(context.Background(), "مرحبا", testProfile(), testSpecialist(), res, nil)

	if resp.Source != "fallback" {
		t.Errorf("expected fallback source, got %q", resp.Source)
	}
	if resp.Text == "" {
		t.Fatal("fallback must produce a non-empty response")
	}
	if resp.Confidence != fallbackConfidence {
		t.Errorf("expected fallback confidence %v, got %v", fallbackConfidence, resp.Confidence)
	}
	if !strings.Contains(resp.Text, "Noura, Account Manager") {
		t.Errorf("missing attribution footer: %q", resp.Text)
	}
}

func TestSynthesizeNewCustomerVariant(t *testing.T) {
	s, _ := New(nil, "", time.Second, testVocabulary())
	res := intent.Result{Intent: intent.Greeting, Urgency: intent.UrgencyMedium}

	fresh := s.Synthesize(context.Background(), "مرحبا", testProfile(), testSpecialist(), res, nil)
	returning := s.Synthesize(context.Background(), "مرحبا", testProfile(), testSpecialist(), res,
		[]memory.InteractionRecord{{Summary: "earlier turn"}})

	if fresh.Text == returning.Text {
		t.Error("new-customer and returning-customer variants must differ")
	}
	if !strings.Contains(fresh.Text, "فهد") {
		t.Errorf("customer name not filled: %q", fresh.Text)
	}
}

func TestSynthesizeParsesStructuredCompletion(t *testing.T) {
	fake := &fakeProvider{content: `{"response": "تم استلام طلبك وسنتواصل قريبا", "confidence": 0.9, "suggestions": ["send quote"]}`}
	s, _ := New(fake, "test-model", time.Second, testVocabulary())

	res := intent.Result{Intent: intent.PriceInquiry, Urgency: intent.UrgencyMedium}
	resp := s.Synthesize(context.Background(), "كم السعر؟", testProfile(), testSpecialist(), res, nil)

	if resp.Source != "llm" {
		t.Fatalf("expected llm source, got %q", resp.Source)
	}
	if !strings.Contains(resp.Text, "تم استلام طلبك") {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if resp.Confidence != 0.9 {
		t.Errorf("expected parsed confidence 0.9, got %v", resp.Confidence)
	}
	if len(resp.Suggestions) != 1 || resp.Suggestions[0] != "send quote" {
		t.Errorf("suggestions not carried: %v", resp.Suggestions)
	}
	if fake.calls != 1 {
		t.Errorf("expected exactly one completion call, got %d", fake.calls)
	}
}

func TestSynthesizeFailedProviderDegradesWithLowerConfidence(t *testing.T) {
	good := &fakeProvider{content: `{"response": "ok", "confidence": 0.85}`}
	bad := &fakeProvider{err: errors.New("quota exceeded")}

	res := intent.Result{Intent: intent.GeneralInquiry, Urgency: intent.UrgencyMedium}

	sGood, _ := New(good, "m", time.Second, testVocabulary())
	sBad, _ := New(bad, "m", time.Second, testVocabulary())

	okResp := sGood.Synthesize(context.Background(), "سؤال", testProfile(), testSpecialist(), res, nil)
	degraded := sBad.Synthesize(context.Background(), "سؤال", testProfile(), testSpecialist(), res, nil)

	if degraded.Text == "" {
		t.Fatal("degraded response must be non-empty")
	}
	if degraded.Source != "fallback" {
		t.Errorf("expected fallback source, got %q", degraded.Source)
	}
	if degraded.Confidence >= okResp.Confidence {
		t.Errorf("degraded confidence %v must be below primary %v", degraded.Confidence, okResp.Confidence)
	}
}

func TestSynthesizeTimeoutTakesFallback(t *testing.T) {
	blocked := &fakeProvider{block: true}
	s, _ := New(blocked, "m", 20*time.Millisecond, testVocabulary())

	res := intent.Result{Intent: intent.TechnicalSupport, Urgency: intent.UrgencyHigh}
	start := time.Now()
	resp := s.Synthesize(context.Background(), "النظام لا يعمل", testProfile(), testSpecialist(), res, nil)

	if resp.Source != "fallback" {
		t.Errorf("expected fallback after timeout, got %q", resp.Source)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestSynthesizeUnparseableCompletionFallsBack(t *testing.T) {
	garbage := &fakeProvider{content: "sure, happy to help!"}
	s, _ := New(garbage, "m", time.Second, testVocabulary())

	res := intent.Result{Intent: intent.GeneralInquiry, Urgency: intent.UrgencyMedium}
	resp := s.Synthesize(context.Background(), "hi", testProfile(), testSpecialist(), res, nil)

	if resp.Source != "fallback" {
		t.Errorf("expected fallback for unparseable output, got %q", resp.Source)
	}
}

func TestParseStructuredStripsCodeFences(t *testing.T) {
	content := "```json\n{\"response\": \"hello\", \"confidence\": 0.8}\n```"
	resp, err := parseStructured(content)
	if err != nil {
		t.Fatalf("parseStructured: %v", err)
	}
	if resp.Text != "hello" || resp.Confidence != 0.8 {
		t.Errorf("unexpected parse result %+v", resp)
	}
}

func TestFormalTonePostProcessing(t *testing.T) {
	fake := &fakeProvider{content: `{"response": "Great news!! Your quote is ready!", "confidence": 0.8}`}
	s, _ := New(fake, "m", time.Second, testVocabulary())

	profile := testProfile()
	profile.Tone = memory.ToneFormal
	res := intent.Result{Intent: intent.PriceInquiry, Urgency: intent.UrgencyMedium}
	resp := s.Synthesize(context.Background(), "quote please", profile, testSpecialist(), res, nil)

	if strings.Contains(resp.Text, "!") {
		t.Errorf("formal customer should not receive exclamations: %q", resp.Text)
	}
}
