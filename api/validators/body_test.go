package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Qty   int    `json:"qty" validate:"omitempty,min=1"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Acme","qty":5}`))
	var dest samplePayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Name != "Acme" || dest.Qty != 5 {
		t.Fatalf("unexpected payload %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Acme","bogus":true}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldMessages(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope"}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected message for name: %q", details["name"])
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected message for email: %q", details["email"])
	}
}

func TestRequireQueryEnforcesMinLength(t *testing.T) {
	r := httptest.NewRequest("GET", "/?q=a", nil)
	if _, err := RequireQuery(r, "q", 2); err == nil {
		t.Fatal("expected error for short query")
	}

	r = httptest.NewRequest("GET", "/?q=ab", nil)
	got, err := RequireQuery(r, "q", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ab" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=50", nil)
	got, err := ParseQueryInt(r, "limit", 20, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}

	r = httptest.NewRequest("GET", "/?limit=500", nil)
	if _, err := ParseQueryInt(r, "limit", 20, 1, 100); err == nil {
		t.Fatal("expected out of range error")
	}

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(r, "limit", 20, 1, 100)
	if err != nil || got != 20 {
		t.Fatalf("expected default 20, got %d err=%v", got, err)
	}
}
