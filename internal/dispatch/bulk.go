package dispatch

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ysalloum/pulsedesk/internal/records"
)

// executeBulkSend resolves the audience and fans the message out, one
// Messenger call per recipient. Concurrency is bounded by the configured
// limit; one recipient's failure never aborts the others. Cancellation stops
// issuing new sends but already in-flight calls run to their own timeout.
func (d *Dispatcher) executeBulkSend(ctx context.Context, message, lang string) (*Report, error) {
	report := &Report{Command: CommandBulkSend}

	if d.messenger == nil {
		report.Summary = localized(lang,
			"خدمة الرسائل غير مفعلة حالياً.",
			"The messaging gateway is not configured.")
		return report, nil
	}

	stage := detectStage(message)
	recipients, err := d.resolveAudience(ctx, stage)
	if err != nil {
		return nil, fmt.Errorf("resolving bulk audience: %w", err)
	}
	if len(recipients) == 0 {
		report.Summary = localized(lang,
			"لا يوجد عملاء لديهم رقم هاتف مسجل يطابق هذا الطلب.",
			"No customers with a registered phone number match this request.")
		return report, nil
	}

	content := bulkContent(message)
	steps := make([]Step, len(recipients))
	issued := len(recipients)

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(d.bulkConcurrency)
	for i, rec := range recipients {
		// The semaphore grants free slots without consulting the
		// context, so cancellation is checked explicitly too.
		if gctx.Err() != nil {
			markCancelled(steps, recipients, i)
			issued = i
			break
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			markCancelled(steps, recipients, i)
			issued = i
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			steps[i] = d.sendOne(gctx, rec.Address, content)
			return nil
		})
	}
	g.Wait()

	report.Steps = steps
	report.tally()
	report.Completed = issued == len(recipients)

	names := make([]string, len(recipients))
	for i, rec := range recipients {
		names[i] = rec.Name
	}
	scope := localized(lang, "جميع العملاء", "all customers")
	if stage != "" {
		scope = localized(lang,
			fmt.Sprintf("عملاء مرحلة %s", stage),
			fmt.Sprintf("customers in stage %s", stage))
	}
	report.Summary = localized(lang,
		fmt.Sprintf("تم الإرسال إلى %s: نجح %d وفشل %d. المستلمون: %s.",
			scope, report.SuccessCount, report.FailureCount, previewNames(names, d.recipientPreview)),
		fmt.Sprintf("Sent to %s: %d succeeded, %d failed. Recipients: %s.",
			scope, report.SuccessCount, report.FailureCount, previewNames(names, d.recipientPreview)))
	return report, nil
}

// markCancelled records the steps that were never issued because the caller
// cancelled mid-fan-out.
func markCancelled(steps []Step, recipients []records.Recipient, from int) {
	for j := from; j < len(recipients); j++ {
		steps[j] = Step{Action: "send", Target: recipients[j].Address, Error: "cancelled before send"}
	}
}

// sendOne performs one gateway call under its own timeout so a slow provider
// only fails its own step.
func (d *Dispatcher) sendOne(ctx context.Context, address, content string) Step {
	callCtx, cancel := context.WithTimeout(ctx, d.gatewayTimeout)
	defer cancel()

	step := Step{Action: "send", Target: address}
	ref, err := d.messenger.Send(callCtx, address, content)
	if err != nil {
		step.Error = err.Error()
		return step
	}
	step.Success = true
	step.ReferenceID = ref
	return step
}

// resolveAudience maps the detected scope to recipients with phone contacts.
func (d *Dispatcher) resolveAudience(ctx context.Context, stage string) ([]records.Recipient, error) {
	if stage != "" {
		return d.records.CustomersInStage(ctx, stage)
	}
	return d.records.AllCustomers(ctx)
}

// bulkContent extracts the payload to send. Operators phrase bulk commands
// as "send to all customers in X: <payload>"; without a colon the whole
// instruction is forwarded.
func bulkContent(message string) string {
	if idx := strings.Index(message, ":"); idx >= 0 {
		if payload := strings.TrimSpace(message[idx+1:]); payload != "" {
			return payload
		}
	}
	return strings.TrimSpace(message)
}
