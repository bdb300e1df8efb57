package selection

import (
	"strings"

	"github.com/markwize/quotewizard-backend/pkg/enums"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// Entry is one product chosen by the user, with per-entry attributes
// filled in later steps. Entries are unique by product id.
type Entry struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	TariffCode    string             `json:"tariff_code"`
	CategoryID    string             `json:"category_id,omitempty"`
	SubcategoryID string             `json:"subcategory_id,omitempty"`
	Source        []enums.Provenance `json:"source"`
	Volume        string             `json:"volume"`
}

// HasSource reports whether the entry carries the given provenance tag.
func (e Entry) HasSource(tag enums.Provenance) bool {
	for _, existing := range e.Source {
		if existing == tag {
			return true
		}
	}
	return false
}

// Cart holds the selected product entries in insertion order.
type Cart struct {
	Entries []Entry `json:"entries"`
}

// NewCart returns an empty selection cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) index(id string) int {
	for i, entry := range c.Entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// IsSelected reports whether a product id is already in the cart.
func (c *Cart) IsSelected(id string) bool {
	return c.index(id) >= 0
}

// Add appends a new entry with empty attributes. Adding an id already
// present leaves the cart unchanged and reports a conflict so the
// caller can surface the duplicate notice.
func (c *Cart) Add(entry Entry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if c.IsSelected(entry.ID) {
		return pkgerrors.New(pkgerrors.CodeConflict, "product already selected").
			WithDetails(map[string]any{"product_id": entry.ID})
	}
	entry.Source = nil
	entry.Volume = ""
	c.Entries = append(c.Entries, entry)
	return nil
}

// Remove deletes an entry by id. Removing an absent id is a no-op.
func (c *Cart) Remove(id string) {
	if i := c.index(id); i >= 0 {
		c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
	}
}

// ToggleSource flips membership of a provenance tag on an entry.
// No-op when the id is absent.
func (c *Cart) ToggleSource(id string, tag enums.Provenance) error {
	if !tag.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid provenance tag").
			WithDetails(map[string]any{"source": string(tag)})
	}
	i := c.index(id)
	if i < 0 {
		return nil
	}
	entry := &c.Entries[i]
	for j, existing := range entry.Source {
		if existing == tag {
			entry.Source = append(entry.Source[:j], entry.Source[j+1:]...)
			return nil
		}
	}
	entry.Source = append(entry.Source, tag)
	return nil
}

// SetVolume stores the free-form monthly volume string on an entry.
// No-op when the id is absent.
func (c *Cart) SetVolume(id, volume string) {
	if i := c.index(id); i >= 0 {
		c.Entries[i].Volume = strings.TrimSpace(volume)
	}
}

// Size returns the number of selected entries.
func (c *Cart) Size() int {
	return len(c.Entries)
}

// Reset drops every entry.
func (c *Cart) Reset() {
	c.Entries = nil
}
