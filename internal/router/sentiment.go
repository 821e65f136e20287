package router

import (
	"strings"

	"github.com/ysalloum/pulsedesk/internal/dispatch"
	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/memory"
)

const summaryRuneLimit = 120

// inferSentiment derives a coarse sentiment tag for the interaction log from
// the classified intent.
func inferSentiment(res intent.Result, report *dispatch.Report) string {
	if report != nil {
		if report.Completed {
			return "neutral"
		}
		return "negative"
	}
	switch res.Intent {
	case intent.Complaint:
		return "negative"
	case intent.Greeting:
		return "positive"
	case intent.TechnicalSupport:
		if res.Urgency == intent.UrgencyHigh {
			return "negative"
		}
		return "neutral"
	default:
		return "neutral"
	}
}

// inferOutcome sets the logged outcome: commands resolve or stay pending with
// their report, complaints escalate, everything else awaits follow-through.
func inferOutcome(res intent.Result, report *dispatch.Report) memory.Outcome {
	if report != nil {
		if report.Completed {
			return memory.OutcomeResolved
		}
		return memory.OutcomePending
	}
	if res.Intent == intent.Complaint {
		return memory.OutcomeEscalated
	}
	return memory.OutcomePending
}

// needsFollowUp flags turns a human should revisit.
func needsFollowUp(res intent.Result, report *dispatch.Report) bool {
	if report != nil {
		return !report.Completed
	}
	return res.Intent == intent.Complaint || res.Urgency == intent.UrgencyHigh
}

// summarize condenses the turn for the bounded history log.
func summarize(message string, result *RouteResult) string {
	msg := strings.TrimSpace(message)
	if runes := []rune(msg); len(runes) > summaryRuneLimit {
		msg = string(runes[:summaryRuneLimit]) + "…"
	}
	if result.Intent == "" {
		return msg
	}
	return msg + " [" + result.Intent + "]"
}
