package referral

import (
	"context"
	"testing"
)

func TestCaptureStoresRefParam(t *testing.T) {
	store := NewMemoryStore()
	attr, err := NewAttributor(store)
	if err != nil {
		t.Fatalf("new attributor: %v", err)
	}

	code, err := attr.Capture(context.Background(), "visitor-1", "https://markwize.ru/?ref=partner123&utm_source=x")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if code != "partner123" {
		t.Fatalf("expected partner123, got %q", code)
	}

	got, err := attr.Lookup(context.Background(), "visitor-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != "partner123" {
		t.Fatalf("expected stored code, got %q", got)
	}
}

func TestCaptureOverwritesPreviousCode(t *testing.T) {
	store := NewMemoryStore()
	attr, _ := NewAttributor(store)

	if _, err := attr.Capture(context.Background(), "visitor-1", "https://markwize.ru/?ref=old"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, err := attr.Capture(context.Background(), "visitor-1", "https://markwize.ru/?ref=new"); err != nil {
		t.Fatalf("capture: %v", err)
	}

	got, _ := attr.Lookup(context.Background(), "visitor-1")
	if got != "new" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestCaptureWithoutRefParamKeepsStoredValue(t *testing.T) {
	store := NewMemoryStore()
	attr, _ := NewAttributor(store)

	if _, err := attr.Capture(context.Background(), "visitor-1", "https://markwize.ru/?ref=partner123"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, err := attr.Capture(context.Background(), "visitor-1", "https://markwize.ru/pricing"); err != nil {
		t.Fatalf("capture: %v", err)
	}

	got, _ := attr.Lookup(context.Background(), "visitor-1")
	if got != "partner123" {
		t.Fatalf("plain navigation must not clear the code, got %q", got)
	}
}

func TestLookupUnknownVisitorIsEmpty(t *testing.T) {
	attr, _ := NewAttributor(NewMemoryStore())
	got, err := attr.Lookup(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty code, got %q", got)
	}
}
