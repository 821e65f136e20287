// Package dispatch detects actionable commands embedded in inbound messages
// and executes them against external gateways. A message with no command
// produces a nil report so the caller falls through to conversational
// handling. Gateway failures are captured per step inside the report; the
// only errors returned are for broken collaborators the dispatcher cannot
// work around.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ysalloum/pulsedesk/internal/config"
	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/records"
)

// Dispatcher executes detected commands. Gateways may be nil when the
// deployment has no provider configured; affected commands then report
// Completed:false with guidance instead of failing the request.
type Dispatcher struct {
	telephony Telephony
	messenger Messenger
	records   *records.Store

	bulkConcurrency  int64
	recipientPreview int
	gatewayTimeout   time.Duration
}

// New creates a dispatcher from the configured limits.
func New(telephony Telephony, messenger Messenger, recs *records.Store, cfg config.DispatchConfig) *Dispatcher {
	concurrency := int64(cfg.BulkConcurrency)
	if concurrency <= 0 {
		concurrency = 1
	}
	timeout := time.Duration(cfg.GatewayTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		telephony:        telephony,
		messenger:        messenger,
		records:          recs,
		bulkConcurrency:  concurrency,
		recipientPreview: cfg.RecipientPreview,
		gatewayTimeout:   timeout,
	}
}

// DetectAndExecute checks the message for an actionable command and runs it.
// A nil report means no command was detected and the message should be
// handled conversationally.
func (d *Dispatcher) DetectAndExecute(ctx context.Context, message string, customer *memory.CustomerProfile) (*Report, error) {
	lang := languageOf(customer)

	switch detectCommand(message) {
	case CommandCall:
		return d.executeCall(ctx, message, lang), nil
	case CommandBulkSend:
		return d.executeBulkSend(ctx, message, lang)
	case CommandReport:
		return d.executeReport(ctx, lang)
	case CommandWorkflow:
		return d.acknowledgeWorkflow(lang), nil
	default:
		return nil, nil
	}
}

// executeCall places a single outbound call to the number found in the
// message. A missing number or unconfigured gateway is a reported failure
// with guidance, never an error.
func (d *Dispatcher) executeCall(ctx context.Context, message, lang string) *Report {
	report := &Report{Command: CommandCall}

	number := intent.ExtractEntities(message).Phone
	if number == "" {
		report.Summary = localized(lang,
			"لم أجد رقم هاتف في رسالتك. اكتب الرقم بصيغة 05xxxxxxxx أو +9665xxxxxxxx.",
			"I couldn't find a phone number in your message. Include it as 05xxxxxxxx or +9665xxxxxxxx.")
		return report
	}
	if d.telephony == nil {
		report.Summary = localized(lang,
			"خدمة الاتصال غير مفعلة حالياً.",
			"The telephony gateway is not configured.")
		return report
	}

	callCtx, cancel := context.WithTimeout(ctx, d.gatewayTimeout)
	defer cancel()

	step := Step{Action: CommandCall, Target: number}
	ref, err := d.telephony.PlaceCall(callCtx, number, message)
	if err != nil {
		step.Error = err.Error()
		report.Summary = localized(lang,
			fmt.Sprintf("تعذر إجراء الاتصال بالرقم %s.", number),
			fmt.Sprintf("The call to %s could not be placed.", number))
	} else {
		step.Success = true
		step.ReferenceID = ref
		report.Completed = true
		report.Summary = localized(lang,
			fmt.Sprintf("تم بدء الاتصال بالرقم %s.", number),
			fmt.Sprintf("Call to %s initiated.", number))
	}
	report.Steps = append(report.Steps, step)
	report.tally()
	return report
}

// executeReport builds a pipeline summary from the business records.
func (d *Dispatcher) executeReport(ctx context.Context, lang string) (*Report, error) {
	report := &Report{Command: CommandReport}

	stages, err := d.records.PipelineSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("building pipeline report: %w", err)
	}
	if len(stages) == 0 {
		report.Completed = true
		report.Summary = localized(lang,
			"لا توجد فرص مسجلة في خط المبيعات بعد.",
			"No opportunities recorded in the pipeline yet.")
		report.Steps = append(report.Steps, Step{Action: CommandReport, Success: true})
		report.tally()
		return report, nil
	}

	var b strings.Builder
	b.WriteString(localized(lang, "ملخص خط المبيعات:", "Pipeline summary:"))
	for _, sc := range stages {
		fmt.Fprintf(&b, "\n- %s: %d (%.0f SAR)", sc.Stage, sc.Count, sc.ValueSAR)
	}

	report.Completed = true
	report.Summary = b.String()
	report.Steps = append(report.Steps, Step{Action: CommandReport, Success: true})
	report.tally()
	return report, nil
}

// acknowledgeWorkflow records the request; the workflow editor itself lives
// outside this service.
func (d *Dispatcher) acknowledgeWorkflow(lang string) *Report {
	report := &Report{
		Command:   CommandWorkflow,
		Completed: true,
		Summary: localized(lang,
			"تم تسجيل طلب الأتمتة وسيجهز فريقنا سير العمل المناسب.",
			"Your automation request is logged; our team will set up the workflow."),
		Steps: []Step{{Action: CommandWorkflow, Success: true}},
	}
	report.tally()
	return report
}

func languageOf(customer *memory.CustomerProfile) string {
	if customer == nil || customer.Language == "" {
		return "ar"
	}
	return customer.Language
}

func localized(lang, ar, en string) string {
	if lang == "ar" {
		return ar
	}
	return en
}
