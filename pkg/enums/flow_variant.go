package enums

import "fmt"

// FlowVariant selects which step sequence a wizard session runs. The
// variant is fixed at session creation and never changes afterwards.
type FlowVariant string

const (
	// FlowVariantFull walks company, products, services, contact, result.
	FlowVariantFull FlowVariant = "full"
	// FlowVariantShort is used when products arrive pre-selected from the
	// assessment flow: company+contact, services, result.
	FlowVariantShort FlowVariant = "short"
	// FlowVariantCheck is the stand-alone compliance check:
	// products, details, results.
	FlowVariantCheck FlowVariant = "check"
)

var validFlowVariants = []FlowVariant{
	FlowVariantFull,
	FlowVariantShort,
	FlowVariantCheck,
}

// String implements fmt.Stringer.
func (f FlowVariant) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FlowVariant.
func (f FlowVariant) IsValid() bool {
	for _, candidate := range validFlowVariants {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFlowVariant converts raw input into a FlowVariant.
func ParseFlowVariant(value string) (FlowVariant, error) {
	for _, candidate := range validFlowVariants {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid flow variant %q", value)
}
