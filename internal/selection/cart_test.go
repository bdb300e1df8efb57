package selection

import (
	"testing"

	"github.com/markwize/quotewizard-backend/pkg/enums"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

func TestAddDeduplicatesByID(t *testing.T) {
	cart := NewCart()
	if err := cart.Add(Entry{ID: "p1", Name: "Shoes", TariffCode: "6403"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := cart.Add(Entry{ID: "p1", Name: "Shoes again"})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if cart.Size() != 1 {
		t.Fatalf("cart changed on duplicate add: %d entries", cart.Size())
	}
	if cart.Entries[0].Name != "Shoes" {
		t.Fatalf("original entry mutated: %+v", cart.Entries[0])
	}
}

func TestAddStartsWithEmptyAttributes(t *testing.T) {
	cart := NewCart()
	if err := cart.Add(Entry{ID: "p1", Source: []enums.Provenance{enums.ProvenanceImported}, Volume: "500"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Entries[0].Source) != 0 || cart.Entries[0].Volume != "" {
		t.Fatalf("attributes must start empty, got %+v", cart.Entries[0])
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	cart := NewCart()
	if err := cart.Add(Entry{ID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart.Remove("p1")
	cart.Remove("p1")
	cart.Remove("ghost")
	if cart.Size() != 0 {
		t.Fatalf("expected empty cart, got %d entries", cart.Size())
	}
}

func TestToggleSourceFlipsMembership(t *testing.T) {
	cart := NewCart()
	if err := cart.Add(Entry{ID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := cart.ToggleSource("p1", enums.ProvenanceProduced); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cart.ToggleSource("p1", enums.ProvenanceImported); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cart.Entries[0].HasSource(enums.ProvenanceProduced) || !cart.Entries[0].HasSource(enums.ProvenanceImported) {
		t.Fatalf("expected both tags, got %+v", cart.Entries[0].Source)
	}

	if err := cart.ToggleSource("p1", enums.ProvenanceProduced); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Entries[0].HasSource(enums.ProvenanceProduced) {
		t.Fatalf("expected tag removed, got %+v", cart.Entries[0].Source)
	}

	if err := cart.ToggleSource("p1", "smuggled"); err == nil {
		t.Fatal("expected error for unknown tag")
	}

	// Absent ids are ignored.
	if err := cart.ToggleSource("ghost", enums.ProvenanceResold); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetVolumeOnAbsentIDIsNoop(t *testing.T) {
	cart := NewCart()
	if err := cart.Add(Entry{ID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart.SetVolume("p1", " 1200 ")
	cart.SetVolume("ghost", "5")
	if cart.Entries[0].Volume != "1200" {
		t.Fatalf("expected trimmed volume, got %q", cart.Entries[0].Volume)
	}
}

func TestResetClearsEntries(t *testing.T) {
	cart := NewCart()
	_ = cart.Add(Entry{ID: "p1"})
	_ = cart.Add(Entry{ID: "p2"})
	cart.Reset()
	if cart.Size() != 0 {
		t.Fatalf("expected empty cart, got %d", cart.Size())
	}
	if cart.IsSelected("p1") {
		t.Fatal("p1 still selected after reset")
	}
}
