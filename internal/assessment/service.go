package assessment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/markwize/quotewizard-backend/internal/selection"
	"github.com/markwize/quotewizard-backend/pkg/config"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	"github.com/markwize/quotewizard-backend/pkg/logger"
	"github.com/markwize/quotewizard-backend/pkg/metrics"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Outcome tracks one product through the batch: its status, the verdict
// when it succeeded, and the failure message when it did not. Tracking
// per item instead of failing the whole batch lets the caller tell
// "all failed" apart from "some succeeded".
type Outcome struct {
	Status enums.AssessmentStatus `json:"status"`
	Result *Result                `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// BatchResult maps product ids to their outcomes.
type BatchResult struct {
	Outcomes  map[string]Outcome `json:"outcomes"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

// AllFailed reports whether not a single product was assessed.
func (b BatchResult) AllFailed() bool {
	return b.Failed > 0 && b.Succeeded == 0
}

// Service fans assessment requests out over the selected products.
type Service struct {
	assessor    Assessor
	logg        *logger.Logger
	engine      *metrics.EngineMetrics
	maxParallel int
}

// NewService builds the batch assessment service.
func NewService(assessor Assessor, cfg config.AssessmentConfig, engine *metrics.EngineMetrics, logg *logger.Logger) (*Service, error) {
	if assessor == nil {
		return nil, fmt.Errorf("assessor required")
	}
	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 8
	}
	return &Service{
		assessor:    assessor,
		logg:        logg,
		engine:      engine,
		maxParallel: maxParallel,
	}, nil
}

// AssessAll issues one request per entry and waits for every one to
// settle. Individual failures are recorded per item; the aggregated
// error joins them without discarding the successful outcomes.
func (s *Service) AssessAll(ctx context.Context, entries []selection.Entry) (BatchResult, error) {
	result := BatchResult{Outcomes: make(map[string]Outcome, len(entries))}
	if len(entries) == 0 {
		return result, nil
	}

	start := time.Now()
	var mu sync.Mutex
	var joined error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for _, entry := range entries {
		entry := entry
		mu.Lock()
		result.Outcomes[entry.ID] = Outcome{Status: enums.AssessmentStatusPending}
		mu.Unlock()

		g.Go(func() error {
			source := make([]string, 0, len(entry.Source))
			for _, tag := range entry.Source {
				source = append(source, tag.String())
			}

			verdict, err := s.assessor.Assess(gctx, Request{
				Category:    entry.CategoryID,
				Subcategory: entry.SubcategoryID,
				Product:     entry.ID,
				Source:      source,
				Volume:      entry.Volume,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Outcomes[entry.ID] = Outcome{
					Status: enums.AssessmentStatusFailed,
					Error:  err.Error(),
				}
				result.Failed++
				joined = multierr.Append(joined, fmt.Errorf("assess %s: %w", entry.ID, err))
				s.engine.IncAssessmentItem("failed")
				return nil
			}
			result.Outcomes[entry.ID] = Outcome{
				Status: enums.AssessmentStatusSuccess,
				Result: &verdict,
			}
			result.Succeeded++
			s.engine.IncAssessmentItem("success")
			return nil
		})
	}

	// Goroutines never return errors; Wait is a pure join.
	_ = g.Wait()

	s.engine.ObserveAssessmentDuration(time.Since(start))
	if joined != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("assessment batch finished with %d failures", result.Failed))
	}
	return result, joined
}
