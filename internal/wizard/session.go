package wizard

import (
	"time"

	"github.com/markwize/quotewizard-backend/internal/assessment"
	"github.com/markwize/quotewizard-backend/internal/pricing"
	"github.com/markwize/quotewizard-backend/internal/selection"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	"github.com/markwize/quotewizard-backend/pkg/types"
)

// Step names one state of a wizard flow.
type Step string

const (
	StepCompany        Step = "company"
	StepProducts       Step = "products"
	StepServices       Step = "services"
	StepContact        Step = "contact"
	StepCompanyContact Step = "company_contact"
	StepDetails        Step = "details"
	StepResult         Step = "result"
)

var sequences = map[enums.FlowVariant][]Step{
	enums.FlowVariantFull:  {StepCompany, StepProducts, StepServices, StepContact, StepResult},
	enums.FlowVariantShort: {StepCompanyContact, StepServices, StepResult},
	enums.FlowVariantCheck: {StepProducts, StepDetails, StepResult},
}

// Sequence returns the immutable step order of a flow variant.
func Sequence(variant enums.FlowVariant) []Step {
	steps := sequences[variant]
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// Session is the server-held wizard aggregate. The flow variant is
// fixed at creation; everything else mutates through the service.
type Session struct {
	ID         string                  `json:"id"`
	VisitorID  string                  `json:"visitor_id,omitempty"`
	Variant    enums.FlowVariant       `json:"variant"`
	Step       Step                    `json:"step"`
	Selection  *selection.Cart         `json:"selection"`
	Services   *pricing.ServiceCart    `json:"services"`
	Company    *types.Company          `json:"company,omitempty"`
	Contact    *types.Contact          `json:"contact,omitempty"`
	Assessment *assessment.BatchResult `json:"assessment,omitempty"`
	QuoteID    string                  `json:"quote_id,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// NewSession builds a fresh session at the first step of its variant.
func NewSession(id, visitorID string, variant enums.FlowVariant, now time.Time) *Session {
	return &Session{
		ID:        id,
		VisitorID: visitorID,
		Variant:   variant,
		Step:      Sequence(variant)[0],
		Selection: selection.NewCart(),
		Services:  pricing.NewServiceCart(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) ensure() {
	if s.Selection == nil {
		s.Selection = selection.NewCart()
	}
	if s.Services == nil {
		s.Services = pricing.NewServiceCart()
	}
}

// Submitted reports whether the session already produced a quote.
func (s *Session) Submitted() bool {
	return s.Step == StepResult && s.QuoteID != ""
}

func (s *Session) stepIndex() int {
	for i, step := range sequences[s.Variant] {
		if step == s.Step {
			return i
		}
	}
	return -1
}
