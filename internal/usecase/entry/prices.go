package entry

import (
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
)

// BuildPriceMatrix keys the model's own prices by currency code.
// Currencies are expected to be unique per model; on duplicates the last price wins.
func BuildPriceMatrix(model PricedModel) domentry.PriceMatrix {
	prices := model.OwnPrices()
	m := make(domentry.PriceMatrix, len(prices))
	for _, p := range prices {
		m[p.CurrencyCode()] = p.Amount
	}
	return m
}

// BuildGroupPriceMatrix collects explicit overrides for every (group, currency)
// pair of the registries. Every group is present; a pair without an override
// has no entry and never falls back to a base price.
func BuildGroupPriceMatrix(
	model GroupPricedModel,
	groups []catalog.CustomerGroup,
	currencies []catalog.Currency,
	mode catalog.InheritanceMode,
) domentry.GroupPriceMatrix {
	m := make(domentry.GroupPriceMatrix, len(groups))
	for _, g := range groups {
		inner := make(domentry.PriceMatrix)
		for _, c := range currencies {
			price, ok := model.GroupPrice(g.ID, c.Code, mode)
			if !ok {
				continue
			}
			inner[price.CurrencyCode()] = price.Amount
		}
		m[g.ID] = inner
	}
	return m
}
