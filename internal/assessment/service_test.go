package assessment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/markwize/quotewizard-backend/internal/selection"
	"github.com/markwize/quotewizard-backend/pkg/config"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	"go.uber.org/multierr"
)

type fakeAssessor struct {
	mu      sync.Mutex
	calls   int
	failFor map[string]error
}

func (f *fakeAssessor) Assess(ctx context.Context, req Request) (Result, error) {
	f.mu.Lock()
	f.calls++
	err := f.failFor[req.Product]
	f.mu.Unlock()
	if err != nil {
		return Result{}, err
	}
	return Result{RequiresMarking: true, Status: "mandatory", Message: "marking required"}, nil
}

func entries(ids ...string) []selection.Entry {
	out := make([]selection.Entry, len(ids))
	for i, id := range ids {
		out[i] = selection.Entry{
			ID:         id,
			CategoryID: "apparel",
			Source:     []enums.Provenance{enums.ProvenanceProduced},
			Volume:     "100",
		}
	}
	return out
}

func newTestService(t *testing.T, assessor Assessor) *Service {
	t.Helper()
	svc, err := NewService(assessor, config.AssessmentConfig{MaxParallel: 4}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAssessAllTracksPerItemOutcomes(t *testing.T) {
	assessor := &fakeAssessor{failFor: map[string]error{
		"p2": errors.New("timeout"),
	}}
	svc := newTestService(t, assessor)

	result, err := svc.AssessAll(context.Background(), entries("p1", "p2", "p3"))
	if err == nil {
		t.Fatal("expected aggregated error for the failed item")
	}
	if got := len(multierr.Errors(err)); got != 1 {
		t.Fatalf("expected one joined error, got %d", got)
	}

	if result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if result.AllFailed() {
		t.Fatal("partial failure must not read as all failed")
	}

	if result.Outcomes["p1"].Status != enums.AssessmentStatusSuccess {
		t.Fatalf("p1 outcome %+v", result.Outcomes["p1"])
	}
	if result.Outcomes["p1"].Result == nil || !result.Outcomes["p1"].Result.RequiresMarking {
		t.Fatalf("p1 verdict missing: %+v", result.Outcomes["p1"])
	}
	if result.Outcomes["p2"].Status != enums.AssessmentStatusFailed || result.Outcomes["p2"].Error == "" {
		t.Fatalf("p2 outcome %+v", result.Outcomes["p2"])
	}
}

func TestAssessAllAllFailed(t *testing.T) {
	assessor := &fakeAssessor{failFor: map[string]error{
		"p1": errors.New("down"),
		"p2": errors.New("down"),
	}}
	svc := newTestService(t, assessor)

	result, err := svc.AssessAll(context.Background(), entries("p1", "p2"))
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !result.AllFailed() {
		t.Fatalf("expected all failed, got %+v", result)
	}
}

func TestAssessAllEmptySelection(t *testing.T) {
	svc := newTestService(t, &fakeAssessor{})

	result, err := svc.AssessAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Outcomes) != 0 || result.Succeeded != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestAssessAllIssuesOneRequestPerEntry(t *testing.T) {
	assessor := &fakeAssessor{}
	svc := newTestService(t, assessor)

	if _, err := svc.AssessAll(context.Background(), entries("p1", "p2", "p3", "p4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assessor.calls != 4 {
		t.Fatalf("expected 4 requests, got %d", assessor.calls)
	}
}
