package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/markwize/quotewizard-backend/pkg/config"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// Hit is one classification-code match from the search index.
type Hit struct {
	Code          string              `json:"code"`
	Name          string              `json:"name"`
	MarkingStatus enums.MarkingStatus `json:"marking_status"`
}

// Index is the boundary contract for the full-text classification search.
type Index interface {
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

// HTTPIndex talks to the remote search collaborator.
type HTTPIndex struct {
	baseURL string
	client  *http.Client
}

// NewHTTPIndex builds a search client from config.
func NewHTTPIndex(cfg config.SearchConfig) (*HTTPIndex, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("search base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPIndex{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type searchResponse struct {
	Results []Hit `json:"results"`
}

// Search queries the index and returns the matching hits.
func (i *HTTPIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	endpoint := fmt.Sprintf("%s/search?%s", i.baseURL, url.Values{
		"q":     []string{query},
		"limit": []string{strconv.Itoa(limit)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build search request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "search index returned non-success").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode search response")
	}
	return body.Results, nil
}
