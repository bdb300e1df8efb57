package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/markwize/quotewizard-backend/pkg/config"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// Request describes one product to assess.
type Request struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Product     string   `json:"product"`
	Source      []string `json:"source"`
	Volume      string   `json:"volume"`
}

// Result is the assessment verdict for one product.
type Result struct {
	RequiresMarking bool   `json:"requires_marking"`
	Status          string `json:"status"`
	Deadline        string `json:"deadline,omitempty"`
	Message         string `json:"message"`
	Timeline        string `json:"timeline,omitempty"`
}

// Assessor is the boundary contract for the compliance assessment collaborator.
type Assessor interface {
	Assess(ctx context.Context, req Request) (Result, error)
}

// HTTPAssessor talks to the remote assessment service.
type HTTPAssessor struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAssessor builds an assessment client from config.
func NewHTTPAssessor(cfg config.AssessmentConfig) (*HTTPAssessor, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("assessment base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPAssessor{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Assess submits one product for assessment.
func (a *HTTPAssessor) Assess(ctx context.Context, input Request) (Result, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode assessment request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/assess", bytes.NewReader(payload))
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build assessment request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assessment request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := "assessment service returned non-success"
		var body struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil && body.Message != "" {
			msg = body.Message
		}
		return Result{}, pkgerrors.New(pkgerrors.CodeDependency, msg).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode assessment response")
	}
	return result, nil
}
