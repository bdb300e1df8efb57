package enums

import "fmt"

// QuoteLineKind distinguishes flat-fee lines from tier-resolved lines.
type QuoteLineKind string

const (
	QuoteLineKindFlat   QuoteLineKind = "flat"
	QuoteLineKindTiered QuoteLineKind = "tiered"
)

var validQuoteLineKinds = []QuoteLineKind{
	QuoteLineKindFlat,
	QuoteLineKindTiered,
}

// String implements fmt.Stringer.
func (k QuoteLineKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known QuoteLineKind.
func (k QuoteLineKind) IsValid() bool {
	for _, candidate := range validQuoteLineKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseQuoteLineKind converts raw input into a QuoteLineKind.
func ParseQuoteLineKind(value string) (QuoteLineKind, error) {
	for _, candidate := range validQuoteLineKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote line kind %q", value)
}
