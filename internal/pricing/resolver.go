package pricing

import (
	"sort"

	"github.com/markwize/quotewizard-backend/pkg/db/models"
)

// Resolve maps a quantity onto the matching tier of a category's tier
// table. Tiers are matched on min_qty <= qty <= max_qty, with a nil
// max_qty meaning open-ended. Quantities outside every range fall back
// to the first tier in position order.
func Resolve(tiers []models.ServiceTier, quantity int) (models.ServiceTier, bool) {
	if len(tiers) == 0 || quantity < 0 {
		return models.ServiceTier{}, false
	}

	ordered := make([]models.ServiceTier, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	for _, tier := range ordered {
		if quantity < tier.MinQty {
			continue
		}
		if tier.MaxQty != nil && quantity > *tier.MaxQty {
			continue
		}
		return tier, true
	}

	return ordered[0], true
}
