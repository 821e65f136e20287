package intent

import "strings"

// Confidence model: each trigger match adds confidenceStep on top of
// confidenceBase, saturating at confidenceCap. Only a high-signal marker can
// push past the cap, and nothing ever reaches 1.0.
const (
	confidenceBase    = 0.35
	confidenceStep    = 0.15
	confidenceCap     = 0.80
	markerConfidence  = 0.95
	defaultConfidence = 0.20
)

// Classifier maps raw message text to an intent Result. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	defs    []intentDef
	urgency []struct {
		tier     Urgency
		triggers []string
	}
}

// NewClassifier returns a classifier over the built-in bilingual vocabulary.
func NewClassifier() *Classifier {
	return &Classifier{defs: intentDefs, urgency: urgencyDefs}
}

// Vocabulary returns every intent label the classifier can emit, in
// declaration order. The synthesizer validates template coverage against it.
func (c *Classifier) Vocabulary() []Label {
	labels := make([]Label, 0, len(c.defs))
	for _, d := range c.defs {
		labels = append(labels, d.label)
	}
	return labels
}

// Classify maps a message plus the customer's declared needs to an intent
// Result. Declared needs count as weak extra signal: a need mentioning an
// intent's trigger adds one match for that intent. Classify never fails;
// a message with no recognized keyword yields GeneralInquiry at low
// confidence.
func (c *Classifier) Classify(message string, declaredNeeds []string) Result {
	lower := strings.ToLower(message)

	best := intentDef{}
	bestMatches := 0
	bestMarker := false

	for _, def := range c.defs {
		matches := 0
		for _, trigger := range def.triggers {
			if strings.Contains(lower, trigger) {
				matches++
			}
			for _, need := range declaredNeeds {
				if strings.Contains(strings.ToLower(need), trigger) {
					matches++
					break
				}
			}
		}
		// Strict greater-than keeps declaration order as the tie-break.
		if matches > bestMatches {
			best = def
			bestMatches = matches
			bestMarker = false
			for _, m := range def.markers {
				if strings.Contains(lower, m) {
					bestMarker = true
					break
				}
			}
		}
	}

	label := GeneralInquiry
	confidence := defaultConfidence
	if bestMatches > 0 {
		label = best.label
		confidence = confidenceBase + float64(bestMatches)*confidenceStep
		if confidence > confidenceCap {
			confidence = confidenceCap
		}
		if bestMarker {
			confidence = markerConfidence
		}
	}

	return Result{
		Intent:     label,
		Confidence: confidence,
		Entities:   ExtractEntities(message),
		Urgency:    c.resolveUrgency(lower),
		Category:   categoryFor(label),
		Specialist: specialistFor(label),
	}
}

// resolveUrgency runs the tiered urgency lookup; tiers are checked in
// declaration order and the default is medium.
func (c *Classifier) resolveUrgency(lower string) Urgency {
	for _, tier := range c.urgency {
		for _, trigger := range tier.triggers {
			if strings.Contains(lower, trigger) {
				return tier.tier
			}
		}
	}
	return UrgencyMedium
}

func categoryFor(label Label) Category {
	if cat, ok := categoryByIntent[label]; ok {
		return cat
	}
	return defaultCategory
}

func specialistFor(label Label) string {
	if id, ok := specialistByIntent[label]; ok {
		return id
	}
	return defaultSpecialist
}
