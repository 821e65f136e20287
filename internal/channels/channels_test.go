package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ysalloum/pulsedesk/internal/config"
	"github.com/ysalloum/pulsedesk/internal/db"
	"github.com/ysalloum/pulsedesk/internal/dispatch"
	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/records"
	"github.com/ysalloum/pulsedesk/internal/router"
	"github.com/ysalloum/pulsedesk/internal/specialist"
	"github.com/ysalloum/pulsedesk/internal/synth"
)

func newTestProcessor(t *testing.T) (*Processor, *memory.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	mem, err := memory.NewStore(database, cfg.Memory.HistoryCap)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	dir, err := specialist.NewDirectory(cfg.Specialists, cfg.Routing)
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	classifier := intent.NewClassifier()
	synthesizer, err := synth.New(nil, "", time.Second, classifier.Vocabulary())
	if err != nil {
		t.Fatalf("synth.New: %v", err)
	}
	d := dispatch.New(nil, nil, records.NewStore(database), cfg.Dispatch)
	rt := router.New(classifier, dir, mem, synthesizer, d, cfg.Memory.ContextWindow)

	return NewProcessor(rt), mem
}

func TestProcessorRejectsEmptyMessages(t *testing.T) {
	p, _ := newTestProcessor(t)

	if _, err := p.HandleMessage(context.Background(), InboundMessage{
		Platform: PlatformWhatsApp, CustomerID: "966501", Text: "   ",
	}); err == nil {
		t.Error("expected error for blank text")
	}
	if _, err := p.HandleMessage(context.Background(), InboundMessage{
		Platform: PlatformWhatsApp, Text: "hello",
	}); err == nil {
		t.Error("expected error for missing sender id")
	}
}

func TestProcessorPrefixesPlatformInCustomerID(t *testing.T) {
	p, mem := newTestProcessor(t)

	result, err := p.HandleMessage(context.Background(), InboundMessage{
		Platform:   PlatformWhatsApp,
		CustomerID: "966566100095",
		Name:       "فهد",
		Text:       "مرحبا",
	})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if result.Response == "" {
		t.Error("expected a routed response")
	}

	profile, err := mem.Get(context.Background(), "whatsapp:966566100095")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if profile == nil {
		t.Fatal("expected a profile under the platform-prefixed id")
	}
	if profile.Channel != "whatsapp" {
		t.Errorf("expected whatsapp channel, got %q", profile.Channel)
	}
}

func TestWhatsAppVerifyHandshake(t *testing.T) {
	p, _ := newTestProcessor(t)
	h := NewWhatsAppHandler(NewGateway(p), "tok-123")
	r := chi.NewRouter()
	RegisterRoutes(r, h)

	req := httptest.NewRequest(http.MethodGet,
		"/api/channels/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=tok-123&hub.challenge=42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "42" {
		t.Errorf("expected the challenge echoed, got %d %q", rec.Code, rec.Body.String())
	}

	bad := httptest.NewRequest(http.MethodGet,
		"/api/channels/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=42", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, bad)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a bad token, got %d", rec.Code)
	}
}

func TestWhatsAppWebhookRoutesTextMessages(t *testing.T) {
	p, _ := newTestProcessor(t)
	h := NewWhatsAppHandler(NewGateway(p), "tok-123")
	r := chi.NewRouter()
	RegisterRoutes(r, h)

	payload := `{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"wa_id": "966566100095", "profile": {"name": "فهد"}}],
					"messages": [
						{"from": "966566100095", "timestamp": "1700000000", "type": "text", "text": {"body": "مرحبا"}},
						{"from": "966566100095", "timestamp": "1700000001", "type": "image"}
					]
				}
			}]
		}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/channels/whatsapp/webhook", bytes.NewReader([]byte(payload)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Replies []struct {
			To   string `json:"to"`
			Text string `json:"text"`
		} `json:"replies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Replies) != 1 {
		t.Fatalf("only the text message is routed, got %d replies", len(resp.Replies))
	}
	if resp.Replies[0].To != "966566100095" || resp.Replies[0].Text == "" {
		t.Errorf("unexpected reply %+v", resp.Replies[0])
	}
}
