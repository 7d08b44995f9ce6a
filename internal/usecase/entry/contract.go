package entry

import (
	"context"

	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

// Materializer loads every relation the builder reads (prices and their
// currencies, property values and their properties, product with brand and
// categories, overrides on variant and product) so that building is a pure
// in-memory transform afterwards.
type Materializer interface {
	Materialize(ctx context.Context, v *catalog.Variant) error
}

// Registry enumerates the reference registries.
type Registry interface {
	CustomerGroups(ctx context.Context) ([]catalog.CustomerGroup, error)
	Currencies(ctx context.Context) ([]catalog.Currency, error)
	DefaultCurrency(ctx context.Context) (catalog.Currency, error)
}

// PricedModel is anything carrying a direct price list.
type PricedModel interface {
	OwnPrices() []catalog.Price
}

// GroupPricedModel is a PricedModel with customer-group overrides.
type GroupPricedModel interface {
	PricedModel
	GroupPrice(groupID int64, currencyCode string, mode catalog.InheritanceMode) (catalog.Price, bool)
}
