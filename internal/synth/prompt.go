package synth

import (
	"fmt"
	"strings"

	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/specialist"
)

// buildSystemPrompt assembles the agent persona and customer context.
func buildSystemPrompt(spec *specialist.Profile, profile *memory.CustomerProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a %s at a Saudi business-automation company.\n", spec.Name, spec.Role)
	fmt.Fprintf(&b, "Your conversational style is %s. Reply in the customer's language.\n\n", spec.Style)

	b.WriteString("Customer:\n")
	if profile.Name != "" {
		fmt.Fprintf(&b, "- name: %s\n", profile.Name)
	}
	fmt.Fprintf(&b, "- preferred tone: %s\n", profile.Tone)
	fmt.Fprintf(&b, "- language: %s\n", profile.Language)
	fmt.Fprintf(&b, "- channel: %s\n", profile.Channel)
	if len(profile.Needs) > 0 {
		fmt.Fprintf(&b, "- declared needs: %s\n", strings.Join(profile.Needs, "; "))
	}

	b.WriteString(`
Respond with a JSON object only:
{"response": "<your reply to the customer>", "confidence": <0..1>, "suggestions": ["<optional follow-up>", ...]}`)

	return b.String()
}

// buildTurnPrompt assembles the current turn: recent history, the classified
// intent and the message itself.
func buildTurnPrompt(message string, res intent.Result, window []memory.InteractionRecord) string {
	var b strings.Builder

	if len(window) == 0 {
		b.WriteString("This is the customer's first recorded interaction.\n")
	} else {
		b.WriteString("Recent interactions (oldest first):\n")
		for _, rec := range window {
			fmt.Fprintf(&b, "- [%s] %s (%s, %s)\n",
				rec.OccurredAt.Format("2006-01-02"), rec.Summary, rec.Sentiment, rec.Outcome)
		}
	}

	fmt.Fprintf(&b, "\nDetected intent: %s (category %s, urgency %s)\n", res.Intent, res.Category, res.Urgency)
	if res.Entities.Company != "" {
		fmt.Fprintf(&b, "Customer company: %s\n", res.Entities.Company)
	}
	fmt.Fprintf(&b, "\nCustomer message:\n%s\n", message)

	return b.String()
}
