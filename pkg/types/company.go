package types

import "strings"

// Company is the registry entity attached to a wizard session. It is
// resolved externally and stored verbatim; once chosen it is only
// replaceable by clearing and re-searching.
type Company struct {
	RegistrationNumber string `json:"registration_number"`
	Name               string `json:"name"`
	Address            string `json:"address,omitempty"`
	Status             string `json:"status,omitempty"`
}

// IsZero reports whether no company has been selected.
func (c Company) IsZero() bool {
	return strings.TrimSpace(c.RegistrationNumber) == "" && strings.TrimSpace(c.Name) == ""
}

// Contact holds the customer details captured on the contact step.
type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Consent bool   `json:"consent"`
}
