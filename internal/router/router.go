// Package router wires the pipeline for one inbound message: command check,
// intent classification, specialist selection, response synthesis and the
// memory update. Each request walks a linear state machine; collaborator
// failures degrade the response rather than abort the request.
package router

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ysalloum/pulsedesk/internal/dispatch"
	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/specialist"
	"github.com/ysalloum/pulsedesk/internal/synth"
)

// state names one stop in the per-request lifecycle.
type state string

const (
	stateReceived           state = "RECEIVED"
	stateCommandCheck       state = "COMMAND_CHECK"
	stateExecuted           state = "EXECUTED"
	stateClassified         state = "CLASSIFIED"
	stateSpecialistSelected state = "SPECIALIST_SELECTED"
	stateResponseReady      state = "RESPONSE_READY"
	stateLogged             state = "LOGGED"
	stateDone               state = "DONE"
)

// Input validation errors; everything else degrades instead of failing.
var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrEmptyCustomerID = errors.New("customerId is required")
)

// Request is one inbound message to route.
type Request struct {
	Message    string `json:"message"`
	CustomerID string `json:"customerId"`
	Channel    string `json:"channel,omitempty"`
	Name       string `json:"name,omitempty"`
}

// RouteResult is the outcome returned to the caller. Report is present only
// when the message carried an actionable command.
type RouteResult struct {
	Response    string           `json:"response"`
	Agent       string           `json:"agent"`
	Confidence  float64          `json:"confidence"`
	Intent      string           `json:"intent,omitempty"`
	Urgency     string           `json:"urgency,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Report      *dispatch.Report `json:"executionReport,omitempty"`
}

// Router coordinates the per-message pipeline.
type Router struct {
	classifier    *intent.Classifier
	directory     *specialist.Directory
	memory        *memory.Store
	synthesizer   *synth.Synthesizer
	dispatcher    *dispatch.Dispatcher
	contextWindow int
}

// New assembles the router from its collaborators.
func New(classifier *intent.Classifier, directory *specialist.Directory, mem *memory.Store, synthesizer *synth.Synthesizer, dispatcher *dispatch.Dispatcher, contextWindow int) *Router {
	if contextWindow <= 0 {
		contextWindow = 5
	}
	return &Router{
		classifier:    classifier,
		directory:     directory,
		memory:        mem,
		synthesizer:   synthesizer,
		dispatcher:    dispatcher,
		contextWindow: contextWindow,
	}
}

// Route processes one inbound message end to end. The returned error is set
// only for malformed input; collaborator failures surface as a degraded but
// well-formed result.
func (r *Router) Route(ctx context.Context, req Request) (*RouteResult, error) {
	cur := stateReceived
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}
	if req.CustomerID == "" {
		return nil, ErrEmptyCustomerID
	}

	profile, err := r.memory.GetOrCreate(ctx, req.CustomerID, req.Name, req.Channel)
	if err != nil {
		// Memory is down; serve the turn with an ephemeral profile.
		log.Printf("router: profile load failed for %s, using ephemeral profile: %v", req.CustomerID, err)
		profile = &memory.CustomerProfile{
			ID:       req.CustomerID,
			Name:     req.Name,
			Channel:  req.Channel,
			Language: "ar",
			Tone:     memory.ToneFormal,
		}
	} else if err := r.memory.LearnPreferences(ctx, req.CustomerID, req.Message, req.Channel); err != nil {
		log.Printf("router: preference learning failed for %s: %v", req.CustomerID, err)
	}

	cur = stateCommandCheck
	report, err := r.dispatcher.DetectAndExecute(ctx, req.Message, profile)
	if err != nil {
		log.Printf("router: command execution failed: %v", err)
		report = &dispatch.Report{
			Command: dispatch.CommandReport,
			Summary: localizedFailure(profile.Language),
		}
	}
	if report != nil {
		cur = stateExecuted
		result := r.executedResult(report)
		r.logTurn(ctx, &cur, req, profile, nil, intent.Result{}, result)
		cur = stateDone
		log.Printf("router: customer=%s state=%s command=%s completed=%v", req.CustomerID, cur, report.Command, report.Completed)
		return result, nil
	}

	res := r.classifier.Classify(req.Message, profile.Needs)
	cur = stateClassified

	chosen := r.directory.Select(res, req.Message)
	cur = stateSpecialistSelected

	window, err := r.memory.ContextWindow(ctx, req.CustomerID, r.contextWindow)
	if err != nil {
		log.Printf("router: context window load failed for %s: %v", req.CustomerID, err)
		window = nil
	}

	started := time.Now()
	resp := r.synthesizer.Synthesize(ctx, req.Message, profile, chosen, res, window)
	cur = stateResponseReady

	result := &RouteResult{
		Response:    resp.Text,
		Agent:       chosen.ID,
		Confidence:  resp.Confidence,
		Intent:      string(res.Intent),
		Urgency:     string(res.Urgency),
		Suggestions: resp.Suggestions,
	}

	r.directory.RecordOutcome(chosen.ID, resp.Source == "llm", time.Since(started))
	r.logTurn(ctx, &cur, req, profile, chosen, res, result)

	cur = stateDone
	log.Printf("router: customer=%s state=%s intent=%s agent=%s source=%s", req.CustomerID, cur, res.Intent, chosen.ID, resp.Source)
	return result, nil
}

// executedResult wraps a command report into the caller-facing result. The
// dispatcher is deterministic, so a completed command reports high
// confidence and an incomplete one reports the degraded band.
func (r *Router) executedResult(report *dispatch.Report) *RouteResult {
	confidence := 0.9
	if !report.Completed {
		confidence = 0.4
	}
	return &RouteResult{
		Response:   report.Summary,
		Agent:      "dispatcher",
		Confidence: confidence,
		Intent:     report.Command,
		Report:     report,
	}
}

// logTurn appends exactly one interaction record for the turn, best effort.
func (r *Router) logTurn(ctx context.Context, cur *state, req Request, profile *memory.CustomerProfile, chosen *specialist.Profile, res intent.Result, result *RouteResult) {
	rec := memory.InteractionRecord{
		CustomerID: req.CustomerID,
		Channel:    firstNonEmpty(req.Channel, profile.Channel),
		Summary:    summarize(req.Message, result),
		Sentiment:  inferSentiment(res, result.Report),
		Outcome:    inferOutcome(res, result.Report),
		FollowUp:   needsFollowUp(res, result.Report),
	}
	if chosen != nil {
		rec.SpecialistID = chosen.ID
	}
	if err := r.memory.AppendInteraction(ctx, req.CustomerID, rec); err != nil {
		log.Printf("router: interaction log failed for %s: %v", req.CustomerID, err)
		return
	}
	*cur = stateLogged
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func localizedFailure(lang string) string {
	if lang == "ar" {
		return "تعذر تنفيذ الطلب حالياً، سيتابع فريقنا معك."
	}
	return "The request could not be executed right now; our team will follow up."
}
