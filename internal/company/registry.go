package company

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markwize/quotewizard-backend/pkg/config"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// Suggestion is one registry match for a partial name or registration number.
type Suggestion struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	Address            string `json:"address,omitempty"`
	Status             string `json:"status,omitempty"`
}

// Registry is the boundary contract for the company lookup collaborator.
type Registry interface {
	Suggest(ctx context.Context, query string) ([]Suggestion, error)
}

// HTTPRegistry talks to the remote company registry.
type HTTPRegistry struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRegistry builds a registry client from config.
func NewHTTPRegistry(cfg config.RegistryConfig) (*HTTPRegistry, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("registry base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRegistry{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type suggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest queries the registry for matching companies.
func (r *HTTPRegistry) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	endpoint := fmt.Sprintf("%s/suggest?%s", r.baseURL, url.Values{
		"q": []string{query},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build registry request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "registry request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "company registry returned non-success").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var body suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode registry response")
	}
	return body.Suggestions, nil
}

// Service enforces the lookup threshold in front of the registry.
type Service struct {
	registry    Registry
	minQueryLen int
}

// NewService builds the company lookup service.
func NewService(registry Registry, cfg config.RegistryConfig) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("company registry required")
	}
	minLen := cfg.MinQueryLen
	if minLen <= 0 {
		minLen = 3
	}
	return &Service{registry: registry, minQueryLen: minLen}, nil
}

// Suggest returns registry matches for queries at or above the
// threshold; shorter queries yield an empty list without a lookup.
func (s *Service) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < s.minQueryLen {
		return nil, nil
	}
	return s.registry.Suggest(ctx, trimmed)
}

// MinQueryLen exposes the configured threshold.
func (s *Service) MinQueryLen() int {
	return s.minQueryLen
}
