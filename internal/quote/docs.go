package quote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/markwize/quotewizard-backend/pkg/config"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// DocumentClient streams generated quote documents from the document
// service. Callers own the returned reader.
type DocumentClient interface {
	QuotePDF(ctx context.Context, quoteID string) (io.ReadCloser, error)
}

// HTTPDocs talks to the document generation collaborator over HTTP.
type HTTPDocs struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDocs builds the document client from configuration.
func NewHTTPDocs(cfg config.DocsConfig) (*HTTPDocs, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("docs base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPDocs{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (d *HTTPDocs) QuotePDF(ctx context.Context, quoteID string) (io.ReadCloser, error) {
	endpoint := fmt.Sprintf("%s/quotes/%s/pdf", d.baseURL, url.PathEscape(quoteID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build docs request")
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "document service unreachable")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote document not found").
				WithDetails(map[string]any{"quote_id": quoteID})
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "document service error").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	return resp.Body, nil
}
