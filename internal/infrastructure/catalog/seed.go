// Package catalog provisions the item catalog at startup.
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

type seedItem struct {
	name        string
	description string
	price       string
	stock       int
}

// Deterministic sample catalog, one item per category.
var seedItems = []seedItem{
	{"Aurora Electronics", "Compact media player with a week of battery life.", "129.99", 42},
	{"Meridian Books", "Hardcover atlas of historical trade routes.", "54.50", 17},
	{"Juniper Clothing", "Waterproof field jacket in waxed cotton.", "189.00", 8},
	{"Basil Home & Kitchen", "Cast iron dutch oven, 5 quart.", "74.25", 31},
	{"Summit Sports", "Trail running pack with hydration sleeve.", "98.40", 12},
	{"Orbit Toys", "Magnetic building tiles, 64 pieces.", "39.99", 56},
	{"Willow Beauty", "Unscented shea butter hand cream.", "12.75", 90},
	{"Piston Automotive", "Digital tyre pressure gauge.", "24.00", 27},
	{"Cedar Health", "Insulated steel water bottle, 1 litre.", "29.95", 63},
	{"Fern Garden", "Self-watering planter for herbs.", "45.10", 22},
}

// Seed inserts the sample items when the catalog is empty. A non-empty
// catalog is left untouched, so restarts never duplicate or reset claims.
func Seed(ctx context.Context, repo ports.CatalogRepository, log zerolog.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count items: %w", err)
	}
	if n > 0 {
		log.Debug().Int64("items", n).Msg("catalog already provisioned, skipping seed")
		return nil
	}

	for i, s := range seedItems {
		item := &domain.Item{
			ID:          int64(i + 1),
			Name:        s.name,
			Description: s.description,
			Price:       decimal.RequireFromString(s.price),
			Stock:       s.stock,
		}
		if err := repo.Insert(ctx, item); err != nil {
			return fmt.Errorf("seed: insert item %d: %w", item.ID, err)
		}
	}

	log.Info().Int("items", len(seedItems)).Msg("catalog seeded")
	return nil
}
