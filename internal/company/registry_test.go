package company

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markwize/quotewizard-backend/pkg/config"
)

type fakeRegistry struct {
	calls       int
	suggestions []Suggestion
}

func (f *fakeRegistry) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	f.calls++
	return f.suggestions, nil
}

func TestSuggestSkipsSubThresholdQueries(t *testing.T) {
	registry := &fakeRegistry{suggestions: []Suggestion{{Name: "Acme LLC", RegistrationNumber: "1157746000000"}}}
	svc, err := NewService(registry, config.RegistryConfig{MinQueryLen: 3})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Suggest(context.Background(), "ac")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got != nil || registry.calls != 0 {
		t.Fatalf("sub-threshold query must not hit the registry: %+v calls=%d", got, registry.calls)
	}

	got, err = svc.Suggest(context.Background(), "  acme ")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 1 || registry.calls != 1 {
		t.Fatalf("expected one lookup, got %+v calls=%d", got, registry.calls)
	}
}

func TestHTTPRegistryDecodesSuggestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "acme" {
			t.Fatalf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"suggestions":[{"name":"Acme LLC","registration_number":"1157746000000","address":"Moscow","status":"active"}]}`))
	}))
	defer server.Close()

	registry, err := NewHTTPRegistry(config.RegistryConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	got, err := registry.Suggest(context.Background(), "acme")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 1 || got[0].RegistrationNumber != "1157746000000" {
		t.Fatalf("unexpected suggestions %+v", got)
	}
}

func TestHTTPRegistrySurfacesNonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	registry, err := NewHTTPRegistry(config.RegistryConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := registry.Suggest(context.Background(), "acme"); err == nil {
		t.Fatal("expected error for non-success status")
	}
}
