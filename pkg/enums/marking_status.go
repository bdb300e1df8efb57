package enums

import "fmt"

// MarkingStatus tags a catalog product with its regulatory marking regime.
type MarkingStatus string

const (
	MarkingStatusMandatory    MarkingStatus = "mandatory"
	MarkingStatusExperimental MarkingStatus = "experimental"
	MarkingStatusNotRequired  MarkingStatus = "not_required"
)

var validMarkingStatuses = []MarkingStatus{
	MarkingStatusMandatory,
	MarkingStatusExperimental,
	MarkingStatusNotRequired,
}

// String implements fmt.Stringer.
func (m MarkingStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MarkingStatus.
func (m MarkingStatus) IsValid() bool {
	for _, candidate := range validMarkingStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMarkingStatus converts raw input into a MarkingStatus.
func ParseMarkingStatus(value string) (MarkingStatus, error) {
	for _, candidate := range validMarkingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid marking status %q", value)
}
