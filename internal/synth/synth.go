// Package synth turns a classified message into the outbound response text.
// The primary strategy is one structured completion against the hosted LLM;
// the fallback is a deterministic per-intent template. The choice between
// them is explicit (nil provider, timeout, call failure, unparseable output),
// and a fallback response always carries a strictly lower confidence.
package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/llm"
	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/specialist"
)

const (
	// llmDefaultConfidence is used when the model omits its own estimate.
	llmDefaultConfidence = 0.75
	// fallbackConfidence marks template responses; it stays below every
	// confidence a successful completion can report.
	fallbackConfidence = 0.35
	llmMaxTokens       = 512
	llmTemperature     = 0.4
)

// Response is the synthesized reply plus its provenance.
type Response struct {
	Text        string   `json:"text"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions,omitempty"`
	Source      string   `json:"source"` // "llm" or "fallback"
}

// Synthesizer builds responses from context. A nil provider is valid and
// means every response takes the fallback path.
type Synthesizer struct {
	provider llm.Provider
	model    string
	timeout  time.Duration
}

// New creates a synthesizer and verifies at construction time that every
// intent in the vocabulary has a fallback template. A missing template is a
// configuration error; requests must never discover it.
func New(provider llm.Provider, model string, timeout time.Duration, vocabulary []intent.Label) (*Synthesizer, error) {
	if err := validateTemplates(vocabulary); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("llm timeout must be positive")
	}
	return &Synthesizer{provider: provider, model: model, timeout: timeout}, nil
}

// Synthesize produces the response for one turn. window is the customer's
// bounded context window, oldest first. It never returns an error for
// collaborator failures; those degrade to the fallback path.
func (s *Synthesizer) Synthesize(ctx context.Context, message string, profile *memory.CustomerProfile, spec *specialist.Profile, res intent.Result, window []memory.InteractionRecord) Response {
	if s.provider != nil {
		if resp, ok := s.completePrimary(ctx, message, profile, spec, res, window); ok {
			return finish(resp, profile, spec)
		}
	}

	text := fillTemplate(res.Intent, profile, res, len(window) > 0)
	return finish(Response{
		Text:       text,
		Confidence: fallbackConfidence,
		Source:     "fallback",
	}, profile, spec)
}

// completePrimary runs the hosted completion under the configured timeout.
// The bool result is the explicit strategy signal: false means "use the
// fallback", regardless of why.
func (s *Synthesizer) completePrimary(ctx context.Context, message string, profile *memory.CustomerProfile, spec *specialist.Profile, res intent.Result, window []memory.InteractionRecord) (Response, bool) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.Complete(callCtx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: buildSystemPrompt(spec, profile)},
			{Role: llm.RoleUser, Content: buildTurnPrompt(message, res, window)},
		},
		MaxTokens:   llmMaxTokens,
		Temperature: llmTemperature,
		JSONMode:    true,
	})
	if err != nil {
		log.Printf("synth: completion failed, taking fallback: %v", err)
		return Response{}, false
	}

	parsed, err := parseStructured(resp.Content)
	if err != nil {
		log.Printf("synth: unparseable completion, taking fallback: %v", err)
		return Response{}, false
	}
	return parsed, true
}

// structuredCompletion is the JSON contract requested from the model.
type structuredCompletion struct {
	Response    string   `json:"response"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions"`
}

// parseStructured extracts the structured fields from the completion. The
// JSON may be wrapped in markdown code fences.
func parseStructured(content string) (Response, error) {
	jsonStr := content
	if idx := strings.Index(content, "{"); idx >= 0 {
		jsonStr = content[idx:]
	}
	if idx := strings.LastIndex(jsonStr, "}"); idx >= 0 {
		jsonStr = jsonStr[:idx+1]
	}

	var sc structuredCompletion
	if err := json.Unmarshal([]byte(jsonStr), &sc); err != nil {
		return Response{}, fmt.Errorf("unmarshalling completion: %w", err)
	}
	if strings.TrimSpace(sc.Response) == "" {
		return Response{}, fmt.Errorf("completion contained no response field")
	}

	confidence := sc.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = llmDefaultConfidence
	}
	// A primary response never reports less confidence than a fallback
	// would; the caller relies on the ordering to mark degradation.
	if confidence <= fallbackConfidence {
		confidence = fallbackConfidence + 0.05
	}

	return Response{
		Text:        strings.TrimSpace(sc.Response),
		Confidence:  confidence,
		Suggestions: sc.Suggestions,
		Source:      "llm",
	}, nil
}

// finish applies the personality post-processor and attribution footer to
// either path's raw text.
func finish(resp Response, profile *memory.CustomerProfile, spec *specialist.Profile) Response {
	resp.Text = applyPersonality(resp.Text, profile, spec)
	resp.Text = resp.Text + "\n\n— " + spec.Name + ", " + spec.Role
	return resp
}
