package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markwize/quotewizard-backend/internal/assessment"
	"github.com/markwize/quotewizard-backend/internal/catalog"
	"github.com/markwize/quotewizard-backend/internal/pricing"
	"github.com/markwize/quotewizard-backend/internal/selection"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
	"github.com/markwize/quotewizard-backend/pkg/logger"
	"github.com/markwize/quotewizard-backend/pkg/metrics"
	"github.com/markwize/quotewizard-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type productFinder interface {
	FindProduct(id string) (catalog.Product, string, string, error)
}

type bookProvider interface {
	Book() (*pricing.Book, error)
}

type refAttributor interface {
	Capture(ctx context.Context, visitorID, entryURL string) (string, error)
	Lookup(ctx context.Context, visitorID string) (string, error)
}

type batchAssessor interface {
	AssessAll(ctx context.Context, entries []selection.Entry) (assessment.BatchResult, error)
}

// Service drives wizard sessions: creation, step transitions, and the
// cart and detail mutations each step exposes.
type Service struct {
	store    Store
	catalog  productFinder
	books    bookProvider
	referral refAttributor
	assess   batchAssessor
	engine   *metrics.EngineMetrics
	logg     *logger.Logger
}

// NewService builds the wizard service.
func NewService(store Store, finder productFinder, books bookProvider, referral refAttributor, assess batchAssessor, engine *metrics.EngineMetrics, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if finder == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if books == nil {
		return nil, fmt.Errorf("price book provider required")
	}
	if referral == nil {
		return nil, fmt.Errorf("referral attributor required")
	}
	if assess == nil {
		return nil, fmt.Errorf("assessment service required")
	}
	return &Service{
		store:    store,
		catalog:  finder,
		books:    books,
		referral: referral,
		assess:   assess,
		engine:   engine,
		logg:     logg,
	}, nil
}

// CreateInput configures a new session. Pre-supplied products select
// the shortened flow; Check selects the stand-alone compliance check.
type CreateInput struct {
	VisitorID  string
	EntryURL   string
	ProductIDs []string
	Check      bool
}

// Snapshot is the wire-facing view of a session, with the running
// total recomputed from the live price book.
type Snapshot struct {
	ID         string                  `json:"id"`
	Variant    enums.FlowVariant       `json:"variant"`
	Step       Step                    `json:"step"`
	Steps      []Step                  `json:"steps"`
	Exited     bool                    `json:"exited,omitempty"`
	Products   []selection.Entry       `json:"products"`
	Services   *pricing.ServiceCart    `json:"services"`
	Lines      []pricing.Line          `json:"lines"`
	Total      decimal.Decimal         `json:"total"`
	Company    *types.Company          `json:"company,omitempty"`
	Contact    *types.Contact          `json:"contact,omitempty"`
	RefCode    string                  `json:"ref_code,omitempty"`
	Assessment *assessment.BatchResult `json:"assessment,omitempty"`
	QuoteID    string                  `json:"quote_id,omitempty"`
}

// Create opens a new session, captures the entry referral, and seeds
// pre-supplied products from the catalog.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Snapshot, error) {
	variant := enums.FlowVariantFull
	if input.Check {
		variant = enums.FlowVariantCheck
	} else if len(input.ProductIDs) > 0 {
		variant = enums.FlowVariantShort
	}

	now := time.Now().UTC()
	sess := NewSession(uuid.NewString(), input.VisitorID, variant, now)

	if _, err := s.referral.Capture(ctx, input.VisitorID, input.EntryURL); err != nil {
		return nil, err
	}

	for _, id := range input.ProductIDs {
		product, categoryID, subcategoryID, err := s.catalog.FindProduct(id)
		if err != nil {
			return nil, err
		}
		if err := sess.Selection.Add(selection.Entry{
			ID:            product.ID,
			Name:          product.Name,
			TariffCode:    product.TariffCode,
			CategoryID:    categoryID,
			SubcategoryID: subcategoryID,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.engine.IncWizardStep(variant.String(), string(sess.Step))
	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(ctx, sess.ID), "wizard.session_created")
	}
	return s.snapshot(ctx, sess)
}

// Get returns the current state of a session.
func (s *Service) Get(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, sess)
}

// Next advances the session when its step guard passes.
func (s *Service) Next(ctx context.Context, id string) (*Snapshot, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		if err := Next(sess); err != nil {
			return err
		}
		s.engine.IncWizardStep(sess.Variant.String(), string(sess.Step))
		return nil
	})
}

// Back steps backwards; at the first step the snapshot carries the
// exit signal instead of a step change.
func (s *Service) Back(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	exited, err := Back(sess)
	if err != nil {
		return nil, err
	}
	if !exited {
		sess.UpdatedAt = time.Now().UTC()
		if err := s.store.Save(ctx, sess); err != nil {
			return nil, err
		}
	}
	snap, err := s.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	snap.Exited = exited
	return snap, nil
}

// Reset starts a new quote in the same session: carts, company, and
// contact are torn down while the visitor's referral code persists.
func (s *Service) Reset(ctx context.Context, id string) (*Snapshot, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		Reset(sess, time.Now().UTC())
		return nil
	})
}

// AddProduct appends a catalog product to the selection.
func (s *Service) AddProduct(ctx context.Context, id, productID string) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		product, categoryID, subcategoryID, err := s.catalog.FindProduct(productID)
		if err != nil {
			return err
		}
		return sess.Selection.Add(selection.Entry{
			ID:            product.ID,
			Name:          product.Name,
			TariffCode:    product.TariffCode,
			CategoryID:    categoryID,
			SubcategoryID: subcategoryID,
		})
	})
}

// RemoveProduct drops a product from the selection; absent ids are a no-op.
func (s *Service) RemoveProduct(ctx context.Context, id, productID string) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		sess.Selection.Remove(productID)
		return nil
	})
}

// ToggleProductSource flips a provenance tag on a selected product.
func (s *Service) ToggleProductSource(ctx context.Context, id, productID, tag string) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		return sess.Selection.ToggleSource(productID, enums.Provenance(tag))
	})
}

// SetProductVolume stores the monthly volume on a selected product.
func (s *Service) SetProductVolume(ctx context.Context, id, productID, volume string) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		sess.Selection.SetVolume(productID, volume)
		return nil
	})
}

// ToggleFlatService toggles a flat service in the cart.
func (s *Service) ToggleFlatService(ctx context.Context, id, serviceID string) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		book, err := s.books.Book()
		if err != nil {
			return err
		}
		if _, ok := book.FlatService(serviceID); !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "service not found").
				WithDetails(map[string]any{"service_id": serviceID})
		}
		sess.Services.ToggleFlat(serviceID)
		return nil
	})
}

// SetFlatQuantity sets or shifts a flat selection's quantity.
func (s *Service) SetFlatQuantity(ctx context.Context, id, serviceID string, qty, delta *int) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		switch {
		case qty != nil:
			sess.Services.SetFlatQuantity(serviceID, *qty)
		case delta != nil:
			sess.Services.AdjustFlatQuantity(serviceID, *delta)
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity or delta is required")
		}
		return nil
	})
}

// ToggleTieredCategory flips a tiered category's active flag.
func (s *Service) ToggleTieredCategory(ctx context.Context, id, categoryID string) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		book, err := s.books.Book()
		if err != nil {
			return err
		}
		if !book.HasTieredCategory(categoryID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "tiered category not found").
				WithDetails(map[string]any{"category_id": categoryID})
		}
		sess.Services.ToggleTieredCategory(categoryID)
		return nil
	})
}

// SetTieredQuantity sets a tiered category's quantity.
func (s *Service) SetTieredQuantity(ctx context.Context, id, categoryID string, qty int) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		if !sess.Services.TieredActive(categoryID) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "activate the category before entering a quantity").
				WithDetails(map[string]any{"category_id": categoryID})
		}
		sess.Services.SetTieredQuantity(categoryID, qty)
		return nil
	})
}

// SetCompany attaches the registry-resolved company. A chosen company
// is immutable; it can only be replaced by clearing it first.
func (s *Service) SetCompany(ctx context.Context, id string, company types.Company) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		if company.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, "company name or registration number is required")
		}
		if sess.Company != nil && !sess.Company.IsZero() {
			return pkgerrors.New(pkgerrors.CodeConflict, "company already selected; clear it to choose another")
		}
		sess.Company = &company
		return nil
	})
}

// ClearCompany removes the selected company so a new search can run.
func (s *Service) ClearCompany(ctx context.Context, id string) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		sess.Company = nil
		return nil
	})
}

// SetContact stores the contact details captured on the contact step.
func (s *Service) SetContact(ctx context.Context, id string, contact types.Contact) (*Snapshot, error) {
	return s.mutateOpen(ctx, id, func(sess *Session) error {
		sess.Contact = &contact
		return nil
	})
}

// Assess runs the batch compliance check for a check-flow session and
// moves it to the result step. Partial failures keep their per-item
// detail; only a fully failed batch blocks the transition.
func (s *Service) Assess(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Variant != enums.FlowVariantCheck {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "assessment is only available in the compliance check flow").
			WithDetails(map[string]any{"variant": sess.Variant.String()})
	}
	if sess.Step != StepDetails {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "complete the details step before assessing").
			WithDetails(map[string]any{"step": string(sess.Step)})
	}
	if err := GuardNext(sess); err != nil {
		return nil, err
	}

	result, batchErr := s.assess.AssessAll(ctx, sess.Selection.Entries)
	if result.AllFailed() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, batchErr, "assessment failed for every product")
	}
	if batchErr != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sess.ID), "wizard.assessment_partial_failure")
	}

	sess.Assessment = &result
	sess.Step = StepResult
	sess.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.engine.IncWizardStep(sess.Variant.String(), string(sess.Step))
	return s.snapshot(ctx, sess)
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*Session) error) (*Snapshot, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, sess)
}

// mutateOpen is mutate with a submitted-session gate: once a quote
// exists only Get and Reset remain available.
func (s *Service) mutateOpen(ctx context.Context, id string, fn func(*Session) error) (*Snapshot, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		if sess.Submitted() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quote already completed; start a new one").
				WithDetails(map[string]any{"step": string(sess.Step)})
		}
		return fn(sess)
	})
}

func (s *Service) snapshot(ctx context.Context, sess *Session) (*Snapshot, error) {
	sess.ensure()

	snap := &Snapshot{
		ID:         sess.ID,
		Variant:    sess.Variant,
		Step:       sess.Step,
		Steps:      Sequence(sess.Variant),
		Products:   sess.Selection.Entries,
		Services:   sess.Services,
		Lines:      []pricing.Line{},
		Total:      decimal.Zero,
		Company:    sess.Company,
		Contact:    sess.Contact,
		Assessment: sess.Assessment,
		QuoteID:    sess.QuoteID,
	}

	if sess.Variant != enums.FlowVariantCheck {
		book, err := s.books.Book()
		if err != nil {
			return nil, err
		}
		lines, err := sess.Services.Lines(book)
		if err != nil {
			return nil, err
		}
		total := decimal.Zero
		for _, line := range lines {
			total = total.Add(line.LineTotal)
		}
		snap.Lines = lines
		snap.Total = total
	}

	refCode, err := s.referral.Lookup(ctx, sess.VisitorID)
	if err != nil {
		return nil, err
	}
	snap.RefCode = refCode
	return snap, nil
}
