package synth

import (
	"strings"

	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/specialist"
)

// applyPersonality reconciles the specialist's declared style with the
// customer's learned tone. The customer's preference wins: a formal customer
// gets measured punctuation even from a casual specialist, and a casual
// customer gets a lighter register from a formal one.
func applyPersonality(text string, profile *memory.CustomerProfile, spec *specialist.Profile) string {
	formal := profile.Tone == memory.ToneFormal
	if profile.Tone == "" {
		formal = spec.Style != "casual"
	}

	if formal {
		return formalize(text)
	}
	return casualize(text)
}

// formalize tempers exclamation marks and stray emphasis.
func formalize(text string) string {
	text = strings.ReplaceAll(text, "!!", "!")
	text = strings.ReplaceAll(text, "!", ".")
	text = strings.ReplaceAll(text, "..", ".")
	return text
}

// casualize keeps at most one exclamation per sentence end and softens a
// fully stopped register; it deliberately changes less than formalize does.
func casualize(text string) string {
	return strings.ReplaceAll(text, "!!", "!")
}
