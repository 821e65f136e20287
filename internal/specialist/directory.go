// Package specialist holds the responder roster and the scoring function the
// router uses to pick one. The directory exclusively owns the rolling
// performance counters; everything else reads profiles as snapshots.
package specialist

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ysalloum/pulsedesk/internal/config"
	"github.com/ysalloum/pulsedesk/internal/intent"
)

// neutralPerformance is the prior used before a specialist has handled any
// interaction, so newcomers are not starved of selections.
const neutralPerformance = 0.5

// Profile is one responder with capability keywords and rolling stats.
type Profile struct {
	ID       string
	Name     string
	Role     string
	Keywords []string
	Style    string // "formal" or "casual"

	TotalInteractions   int
	SuccessfulResponses int
	AvgResponseMillis   float64
}

// PerformanceScore returns successes over totals, or the neutral prior when
// the specialist has no history yet.
func (p *Profile) PerformanceScore() float64 {
	if p.TotalInteractions == 0 {
		return neutralPerformance
	}
	score := float64(p.SuccessfulResponses) / float64(p.TotalInteractions)
	if score > 1 {
		return 1
	}
	return score
}

// Directory is the dependency-injected roster. Construction fails on an
// empty roster; that is a configuration error, not a request-time one.
type Directory struct {
	mu       sync.Mutex
	order    []string
	profiles map[string]*Profile
	weights  config.RoutingConfig
}

// NewDirectory builds a directory from the configured roster and scoring
// weights.
func NewDirectory(roster []config.SpecialistConfig, weights config.RoutingConfig) (*Directory, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("specialist roster is empty")
	}

	d := &Directory{
		profiles: make(map[string]*Profile, len(roster)),
		weights:  weights,
	}
	for _, s := range roster {
		if s.ID == "" {
			return nil, fmt.Errorf("specialist with empty id in roster")
		}
		if _, exists := d.profiles[s.ID]; exists {
			return nil, fmt.Errorf("duplicate specialist id %q", s.ID)
		}
		style := s.Style
		if style == "" {
			style = "formal"
		}
		name := s.Name
		if name == "" {
			name = s.ID
		}
		d.profiles[s.ID] = &Profile{
			ID:       s.ID,
			Name:     name,
			Role:     s.Role,
			Keywords: append([]string(nil), s.Keywords...),
			Style:    style,
		}
		d.order = append(d.order, s.ID)
	}
	return d, nil
}

// Get returns a snapshot of the profile with the given id, or nil.
func (d *Directory) Get(id string) *Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.profiles[id]
	if !ok {
		return nil
	}
	snapshot := *p
	return &snapshot
}

// List returns snapshots of all profiles in declaration order.
func (d *Directory) List() []*Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Profile, 0, len(d.order))
	for _, id := range d.order {
		snapshot := *d.profiles[id]
		out = append(out, &snapshot)
	}
	return out
}

// Select scores every specialist against the message and returns the winner
// as a snapshot. Ties resolve to the candidate with more total interactions,
// then to declaration order. Selection itself has no side effects; stats
// move only through RecordOutcome after the turn completes.
func (d *Directory) Select(res intent.Result, message string) *Profile {
	d.mu.Lock()
	defer d.mu.Unlock()

	lower := strings.ToLower(message)

	var best *Profile
	var bestScore float64
	for _, id := range d.order {
		p := d.profiles[id]
		score := d.score(p, lower, res)
		switch {
		case best == nil, score > bestScore:
			best, bestScore = p, score
		case score == bestScore && p.TotalInteractions > best.TotalInteractions:
			best = p
		}
	}

	snapshot := *best
	return &snapshot
}

// score computes affinity*Wk + performance*Wp + experience*We. The weights
// come from configuration; only monotonicity is relied upon.
func (d *Directory) score(p *Profile, lowerMessage string, res intent.Result) float64 {
	affinity := 0.0
	for _, kw := range p.Keywords {
		if strings.Contains(lowerMessage, strings.ToLower(kw)) {
			affinity++
		}
	}
	// The classifier's recommendation counts as one extra capability hit.
	if res.Specialist == p.ID {
		affinity++
	}

	experience := float64(p.TotalInteractions) / float64(d.weights.ExperienceSaturation)
	if experience > 1 {
		experience = 1
	}

	return affinity*d.weights.KeywordWeight +
		p.PerformanceScore()*d.weights.PerformanceWeight +
		experience*d.weights.ExperienceWeight
}

// RecordOutcome updates the rolling counters for one completed turn. The
// mutex serializes concurrent increments so successes can never outrun
// totals; malformed counters are clamped rather than propagated.
func (d *Directory) RecordOutcome(id string, success bool, latency time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.profiles[id]
	if !ok {
		return
	}

	p.TotalInteractions++
	if success {
		p.SuccessfulResponses++
	}
	if p.SuccessfulResponses > p.TotalInteractions {
		p.SuccessfulResponses = p.TotalInteractions
	}

	// Exponential-ish running mean; enough for a selection signal.
	ms := float64(latency.Milliseconds())
	if p.AvgResponseMillis == 0 {
		p.AvgResponseMillis = ms
	} else {
		p.AvgResponseMillis = (p.AvgResponseMillis*float64(p.TotalInteractions-1) + ms) / float64(p.TotalInteractions)
	}
}
