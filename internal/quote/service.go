package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markwize/quotewizard-backend/internal/pricing"
	"github.com/markwize/quotewizard-backend/internal/wizard"
	"github.com/markwize/quotewizard-backend/pkg/config"
	"github.com/markwize/quotewizard-backend/pkg/db/models"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
	"github.com/markwize/quotewizard-backend/pkg/logger"
	"github.com/markwize/quotewizard-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type bookProvider interface {
	Book() (*pricing.Book, error)
}

type refLookup interface {
	Lookup(ctx context.Context, visitorID string) (string, error)
}

type submitLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SubmitLockKey(sessionID string) string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type quoteRepository interface {
	CreateInTx(tx *gorm.DB, quote *models.Quote) error
}

// Service turns a completed wizard session into a persisted quote.
// Submission is the only path to the result step of a quoting flow.
type Service struct {
	sessions wizard.Store
	books    bookProvider
	referral refLookup
	locker   submitLocker
	tx       txRunner
	repo     quoteRepository
	tokens   *TokenIssuer
	events   EventPublisher
	engine   *metrics.EngineMetrics
	logg     *logger.Logger

	validityDays int
	numberPrefix string
	lockTTL      time.Duration
}

// NewService builds the submission service. The event publisher is
// optional; everything else is required.
func NewService(
	sessions wizard.Store,
	books bookProvider,
	referral refLookup,
	locker submitLocker,
	tx txRunner,
	repo quoteRepository,
	tokens *TokenIssuer,
	events EventPublisher,
	engine *metrics.EngineMetrics,
	logg *logger.Logger,
	quoteCfg config.QuoteConfig,
	sessionCfg config.SessionConfig,
) (*Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if books == nil {
		return nil, fmt.Errorf("price book provider required")
	}
	if referral == nil {
		return nil, fmt.Errorf("referral lookup required")
	}
	if locker == nil {
		return nil, fmt.Errorf("submit locker required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer required")
	}
	validityDays := quoteCfg.ValidityDays
	if validityDays <= 0 {
		validityDays = 14
	}
	numberPrefix := strings.TrimSpace(quoteCfg.NumberPrefix)
	if numberPrefix == "" {
		numberPrefix = "MW"
	}
	lockTTL := sessionCfg.SubmitLockTTL
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &Service{
		sessions:     sessions,
		books:        books,
		referral:     referral,
		locker:       locker,
		tx:           tx,
		repo:         repo,
		tokens:       tokens,
		events:       events,
		engine:       engine,
		logg:         logg,
		validityDays: validityDays,
		numberPrefix: numberPrefix,
		lockTTL:      lockTTL,
	}, nil
}

// Receipt is returned to the client after a successful submission.
type Receipt struct {
	QuoteID    string          `json:"quote_id"`
	Number     string          `json:"number"`
	Total      decimal.Decimal `json:"total"`
	ValidUntil time.Time       `json:"valid_until"`
	DocToken   string          `json:"doc_token"`
	RefCode    string          `json:"ref_code,omitempty"`
}

// Submit validates the session, prices the cart one final time against
// the live book, and persists the quote with its line snapshots. A
// failed submission leaves the session on its current step; only
// success moves it to the result.
func (s *Service) Submit(ctx context.Context, sessionID string) (*Receipt, error) {
	start := time.Now()
	receipt, err := s.submit(ctx, sessionID)
	s.engine.ObserveSubmitDuration(time.Since(start))
	if err != nil {
		s.engine.IncSubmission("failed")
		return nil, err
	}
	s.engine.IncSubmission("success")
	return receipt, nil
}

func (s *Service) submit(ctx context.Context, sessionID string) (*Receipt, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	book, err := s.books.Book()
	if err != nil {
		return nil, err
	}
	if err := wizard.ValidateForSubmission(sess, book); err != nil {
		return nil, err
	}

	lockKey := s.locker.SubmitLockKey(sessionID)
	acquired, err := s.locker.SetNX(ctx, lockKey, "1", s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire submit lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission already in progress").
			WithDetails(map[string]any{"session_id": sessionID})
	}
	defer func() { _ = s.locker.Del(ctx, lockKey) }()

	lines, err := sess.Services.Lines(book)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}

	refCode, err := s.referral.Lookup(ctx, sess.VisitorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := s.buildQuote(sess, lines, total, refCode, now)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.CreateInTx(tx, record)
	}); err != nil {
		return nil, err
	}

	quoteID := record.ID.String()
	token, err := s.tokens.Issue(quoteID, record.Number, now)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		event := SubmittedEvent{
			QuoteID:     quoteID,
			Number:      record.Number,
			SessionID:   sess.ID,
			VisitorID:   sess.VisitorID,
			RefCode:     refCode,
			Total:       total,
			SubmittedAt: now,
		}
		if err := s.events.PublishSubmitted(ctx, event); err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sess.ID), "quote.event_publish_failed", err)
		}
	}

	wizard.CompleteSubmission(sess, quoteID, now)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(ctx, sess.ID), "quote.submitted")
	}

	return &Receipt{
		QuoteID:    quoteID,
		Number:     record.Number,
		Total:      total,
		ValidUntil: record.ValidUntil,
		DocToken:   token,
		RefCode:    refCode,
	}, nil
}

func (s *Service) buildQuote(sess *wizard.Session, lines []pricing.Line, total decimal.Decimal, refCode string, now time.Time) *models.Quote {
	record := &models.Quote{
		ID:               uuid.New(),
		Number:           s.nextNumber(now),
		SessionID:        sess.ID,
		CompanyName:      sess.Company.Name,
		CompanyRegNumber: sess.Company.RegistrationNumber,
		TotalAmount:      total,
		ValidUntil:       now.AddDate(0, 0, s.validityDays),
	}
	if sess.Company.Address != "" {
		addr := sess.Company.Address
		record.CompanyAddress = &addr
	}
	if sess.Contact != nil {
		record.ContactName = sess.Contact.Name
		record.ContactPhone = sess.Contact.Phone
		if sess.Contact.Email != "" {
			email := sess.Contact.Email
			record.ContactEmail = &email
		}
	}
	if refCode != "" {
		code := refCode
		record.RefCode = &code
	}
	for _, line := range lines {
		row := models.QuoteLine{
			ID:        uuid.New(),
			QuoteID:   record.ID,
			Kind:      line.Kind,
			Label:     line.Label,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		}
		if line.ServiceID != "" {
			id := line.ServiceID
			row.ServiceID = &id
		}
		if line.CategoryID != "" {
			id := line.CategoryID
			row.CategoryID = &id
		}
		if line.TierLabel != "" {
			label := line.TierLabel
			row.TierLabel = &label
		}
		record.Lines = append(record.Lines, row)
	}
	return record
}

// nextNumber derives a public quote number from the submission date
// and a random suffix. Uniqueness is enforced by the database index.
func (s *Service) nextNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", s.numberPrefix, now.Format("20060102"), suffix)
}
