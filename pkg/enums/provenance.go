package enums

import "fmt"

// Provenance marks where the goods on a selected product entry come from.
// A single entry may carry several tags (produced and imported at once).
type Provenance string

const (
	ProvenanceProduced Provenance = "produced"
	ProvenanceImported Provenance = "imported"
	ProvenanceResold   Provenance = "resold"
)

var validProvenances = []Provenance{
	ProvenanceProduced,
	ProvenanceImported,
	ProvenanceResold,
}

// String implements fmt.Stringer.
func (p Provenance) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Provenance.
func (p Provenance) IsValid() bool {
	for _, candidate := range validProvenances {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProvenance converts raw input into a Provenance.
func ParseProvenance(value string) (Provenance, error) {
	for _, candidate := range validProvenances {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid provenance %q", value)
}
