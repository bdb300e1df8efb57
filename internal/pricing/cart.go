package pricing

import (
	"github.com/markwize/quotewizard-backend/pkg/enums"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// FlatSelection is one selected flat-fee service.
type FlatSelection struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

// TieredState tracks a tiered category inside the cart. The category
// contributes to the total only while active with a positive quantity;
// an active category at quantity zero keeps its input visible without
// producing a line.
type TieredState struct {
	Active   bool `json:"active"`
	Quantity int  `json:"quantity"`
}

// ServiceCart aggregates flat selections and tiered category states.
// The total is never stored; it is recomputed from the selections on
// every read.
type ServiceCart struct {
	Flat   []FlatSelection         `json:"flat"`
	Tiered map[string]*TieredState `json:"tiered"`
}

// NewServiceCart returns an empty cart.
func NewServiceCart() *ServiceCart {
	return &ServiceCart{Tiered: map[string]*TieredState{}}
}

func (c *ServiceCart) ensure() {
	if c.Tiered == nil {
		c.Tiered = map[string]*TieredState{}
	}
}

func (c *ServiceCart) flatIndex(serviceID string) int {
	for i, sel := range c.Flat {
		if sel.ServiceID == serviceID {
			return i
		}
	}
	return -1
}

// ToggleFlat adds the service at quantity 1 if absent, removes it if present.
func (c *ServiceCart) ToggleFlat(serviceID string) {
	c.ensure()
	if i := c.flatIndex(serviceID); i >= 0 {
		c.Flat = append(c.Flat[:i], c.Flat[i+1:]...)
		return
	}
	c.Flat = append(c.Flat, FlatSelection{ServiceID: serviceID, Quantity: 1})
}

// SetFlatQuantity sets a flat selection's quantity, clamped to 1.
// No-op when the service is not selected.
func (c *ServiceCart) SetFlatQuantity(serviceID string, qty int) {
	i := c.flatIndex(serviceID)
	if i < 0 {
		return
	}
	if qty < 1 {
		qty = 1
	}
	c.Flat[i].Quantity = qty
}

// AdjustFlatQuantity shifts a flat selection's quantity by delta,
// clamped to 1. No-op when the service is not selected.
func (c *ServiceCart) AdjustFlatQuantity(serviceID string, delta int) {
	i := c.flatIndex(serviceID)
	if i < 0 {
		return
	}
	c.SetFlatQuantity(serviceID, c.Flat[i].Quantity+delta)
}

// ToggleTieredCategory flips a category's active flag. Activation keeps
// the previously entered quantity; deactivation resets it to zero.
func (c *ServiceCart) ToggleTieredCategory(categoryID string) {
	c.ensure()
	state, ok := c.Tiered[categoryID]
	if !ok {
		c.Tiered[categoryID] = &TieredState{Active: true}
		return
	}
	if state.Active {
		state.Active = false
		state.Quantity = 0
		return
	}
	state.Active = true
}

// SetTieredQuantity sets a tiered category's quantity, clamped to 0.
// No-op when the category has never been toggled on.
func (c *ServiceCart) SetTieredQuantity(categoryID string, qty int) {
	c.ensure()
	state, ok := c.Tiered[categoryID]
	if !ok {
		return
	}
	if qty < 0 {
		qty = 0
	}
	state.Quantity = qty
}

// TieredActive reports whether the category is currently toggled on.
func (c *ServiceCart) TieredActive(categoryID string) bool {
	state, ok := c.Tiered[categoryID]
	return ok && state.Active
}

// IsEmpty reports whether the cart contributes no lines at all.
func (c *ServiceCart) IsEmpty() bool {
	if len(c.Flat) > 0 {
		return false
	}
	for _, state := range c.Tiered {
		if state.Active && state.Quantity > 0 {
			return false
		}
	}
	return true
}

// Reset clears every selection.
func (c *ServiceCart) Reset() {
	c.Flat = nil
	c.Tiered = map[string]*TieredState{}
}

// Line is one priced position derived from the cart.
type Line struct {
	Kind       enums.QuoteLineKind `json:"kind"`
	ServiceID  string              `json:"service_id,omitempty"`
	CategoryID string              `json:"category_id,omitempty"`
	TierLabel  string              `json:"tier_label,omitempty"`
	Label      string              `json:"label"`
	Quantity   int                 `json:"quantity"`
	Unit       string              `json:"unit,omitempty"`
	UnitPrice  decimal.Decimal     `json:"unit_price"`
	LineTotal  decimal.Decimal     `json:"line_total"`
}

// Lines resolves the cart against the book: one line per flat
// selection, one line per active tiered category with quantity > 0.
func (c *ServiceCart) Lines(book *Book) ([]Line, error) {
	if book == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "service catalog not loaded")
	}

	lines := make([]Line, 0, len(c.Flat)+len(c.Tiered))
	for _, sel := range c.Flat {
		svc, ok := book.FlatService(sel.ServiceID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found").
				WithDetails(map[string]any{"service_id": sel.ServiceID})
		}
		qty := decimal.NewFromInt(int64(sel.Quantity))
		lines = append(lines, Line{
			Kind:      enums.QuoteLineKindFlat,
			ServiceID: svc.ID,
			Label:     svc.Name,
			Quantity:  sel.Quantity,
			Unit:      svc.Unit,
			UnitPrice: svc.Price,
			LineTotal: svc.Price.Mul(qty),
		})
	}

	for _, category := range book.Categories() {
		state, ok := c.Tiered[category.ID]
		if !ok || !state.Active || state.Quantity <= 0 {
			continue
		}
		tier, ok := Resolve(book.Tiers(category.ID), state.Quantity)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tier table not found").
				WithDetails(map[string]any{"category_id": category.ID})
		}
		qty := decimal.NewFromInt(int64(state.Quantity))
		lines = append(lines, Line{
			Kind:       enums.QuoteLineKindTiered,
			CategoryID: category.ID,
			TierLabel:  tier.TierLabel,
			Label:      category.Name,
			Quantity:   state.Quantity,
			Unit:       category.Unit,
			UnitPrice:  tier.UnitPrice,
			LineTotal:  tier.UnitPrice.Mul(qty),
		})
	}

	return lines, nil
}

// Total recomputes the cart total from the current selections.
func (c *ServiceCart) Total(book *Book) (decimal.Decimal, error) {
	lines, err := c.Lines(book)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}
	return total, nil
}
