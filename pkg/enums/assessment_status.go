package enums

import "fmt"

// AssessmentStatus tracks a single product inside a batch compliance check.
type AssessmentStatus string

const (
	AssessmentStatusPending AssessmentStatus = "pending"
	AssessmentStatusSuccess AssessmentStatus = "success"
	AssessmentStatusFailed  AssessmentStatus = "failed"
)

var validAssessmentStatuses = []AssessmentStatus{
	AssessmentStatusPending,
	AssessmentStatusSuccess,
	AssessmentStatusFailed,
}

// String implements fmt.Stringer.
func (a AssessmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssessmentStatus.
func (a AssessmentStatus) IsValid() bool {
	for _, candidate := range validAssessmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssessmentStatus converts raw input into an AssessmentStatus.
func ParseAssessmentStatus(value string) (AssessmentStatus, error) {
	for _, candidate := range validAssessmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assessment status %q", value)
}
