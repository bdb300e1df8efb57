package wizard

import (
	"strings"
	"time"

	"github.com/markwize/quotewizard-backend/internal/pricing"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// GuardNext validates the current step before a forward transition.
// A blocked transition carries one actionable message per missing
// field in the error details.
func GuardNext(sess *Session) error {
	sess.ensure()
	details := map[string]any{}

	switch sess.Step {
	case StepCompany:
		if sess.Company == nil || sess.Company.IsZero() {
			details["company"] = "select a company to continue"
		}
	case StepCompanyContact:
		if sess.Company == nil || sess.Company.IsZero() {
			details["company"] = "select a company to continue"
		}
		contactGuard(sess, details)
	case StepProducts:
		if sess.Selection.Size() == 0 {
			details["products"] = "select at least one product"
		}
	case StepServices:
		if sess.Services.IsEmpty() {
			details["services"] = "select at least one service"
		}
	case StepContact:
		contactGuard(sess, details)
	case StepDetails:
		missing := []string{}
		for _, entry := range sess.Selection.Entries {
			if len(entry.Source) == 0 {
				missing = append(missing, entry.ID)
			}
		}
		if len(missing) > 0 {
			details["source"] = "set at least one provenance tag for every product"
			details["products"] = missing
		}
	}

	if len(details) > 0 {
		details["step"] = string(sess.Step)
		return pkgerrors.New(pkgerrors.CodeStateConflict, "step requirements not met").
			WithDetails(details)
	}
	return nil
}

func contactGuard(sess *Session, details map[string]any) {
	if sess.Contact == nil {
		details["name"] = "enter a contact name"
		details["phone"] = "enter a phone number"
		details["consent"] = "consent is required"
		return
	}
	if strings.TrimSpace(sess.Contact.Name) == "" {
		details["name"] = "enter a contact name"
	}
	if strings.TrimSpace(sess.Contact.Phone) == "" {
		details["phone"] = "enter a phone number"
	}
	if !sess.Contact.Consent {
		details["consent"] = "consent is required"
	}
}

// Next advances the session one step after its guard passes. The
// terminal result step is never reachable this way; only a successful
// submission (or a completed assessment batch) moves a session there.
func Next(sess *Session) error {
	idx := sess.stepIndex()
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeInternal, "session step out of sequence")
	}
	steps := sequences[sess.Variant]
	if sess.Step == StepResult {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "quote already completed").
			WithDetails(map[string]any{"step": string(sess.Step)})
	}
	if err := GuardNext(sess); err != nil {
		return err
	}
	if steps[idx+1] == StepResult {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "submit to finish the quote").
			WithDetails(map[string]any{"step": string(sess.Step)})
	}
	sess.Step = steps[idx+1]
	return nil
}

// Back moves one step backwards. At the first step it reports an exit
// signal instead: leaving the wizard is the caller's concern, not a
// state of this machine.
func Back(sess *Session) (exited bool, err error) {
	idx := sess.stepIndex()
	if idx < 0 {
		return false, pkgerrors.New(pkgerrors.CodeInternal, "session step out of sequence")
	}
	if idx == 0 {
		return true, nil
	}
	if sess.Step == StepResult {
		return false, pkgerrors.New(pkgerrors.CodeStateConflict, "quote already completed").
			WithDetails(map[string]any{"step": string(sess.Step)})
	}
	sess.Step = sequences[sess.Variant][idx-1]
	return false, nil
}

// Reset tears the carts, company, and contact down and returns to the
// first step of the active variant. The visitor's referral code lives
// outside the session and survives.
func Reset(sess *Session, now time.Time) {
	sess.ensure()
	sess.Selection.Reset()
	sess.Services.Reset()
	sess.Company = nil
	sess.Contact = nil
	sess.Assessment = nil
	sess.QuoteID = ""
	sess.Step = Sequence(sess.Variant)[0]
	sess.UpdatedAt = now
}

// CompleteSubmission marks the session as finished with its quote.
func CompleteSubmission(sess *Session, quoteID string, now time.Time) {
	sess.QuoteID = quoteID
	sess.Step = StepResult
	sess.UpdatedAt = now
}

// ValidateForSubmission checks that the session sits on the last step
// before the result with every guard satisfied and a resolvable cart.
// Submission failures leave the session untouched on its current step.
func ValidateForSubmission(sess *Session, book *pricing.Book) error {
	sess.ensure()
	if sess.Variant == enums.FlowVariantCheck {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "compliance check sessions cannot submit quotes").
			WithDetails(map[string]any{"step": string(sess.Step)})
	}
	if sess.Submitted() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "quote already completed").
			WithDetails(map[string]any{"step": string(sess.Step)})
	}

	idx := sess.stepIndex()
	steps := sequences[sess.Variant]
	if idx < 0 || idx+1 >= len(steps) || steps[idx+1] != StepResult {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "complete the remaining steps before submitting").
			WithDetails(map[string]any{"step": string(sess.Step)})
	}
	if err := GuardNext(sess); err != nil {
		return err
	}
	if sess.Company == nil || sess.Company.IsZero() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "select a company before submitting").
			WithDetails(map[string]any{"step": string(sess.Step), "company": "select a company to continue"})
	}
	if sess.Services.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "select at least one service").
			WithDetails(map[string]any{"step": string(StepServices)})
	}
	if _, err := sess.Services.Lines(book); err != nil {
		return err
	}
	return nil
}
