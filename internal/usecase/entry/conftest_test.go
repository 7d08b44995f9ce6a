package entry

import (
	"context"

	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

var (
	eur = catalog.Currency{ID: 1, Code: "EUR", IsDefault: true}
	usd = catalog.Currency{ID: 2, Code: "USD"}

	retail    = catalog.CustomerGroup{ID: 10, Name: "retail"}
	wholesale = catalog.CustomerGroup{ID: 20, Name: "wholesale"}
)

// mockRegistry implements Registry and Materializer.
type mockRegistry struct {
	groups        []catalog.CustomerGroup
	currencies    []catalog.Currency
	defaultErr    error
	groupsErr     error
	materializeFn func(v *catalog.Variant) error
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{
		groups:     []catalog.CustomerGroup{retail, wholesale},
		currencies: []catalog.Currency{eur, usd},
	}
}

func (m *mockRegistry) CustomerGroups(_ context.Context) ([]catalog.CustomerGroup, error) {
	return m.groups, m.groupsErr
}

func (m *mockRegistry) Currencies(_ context.Context) ([]catalog.Currency, error) {
	return m.currencies, nil
}

func (m *mockRegistry) DefaultCurrency(_ context.Context) (catalog.Currency, error) {
	if m.defaultErr != nil {
		return catalog.Currency{}, m.defaultErr
	}
	return eur, nil
}

func (m *mockRegistry) Materialize(_ context.Context, v *catalog.Variant) error {
	if m.materializeFn != nil {
		return m.materializeFn(v)
	}
	return nil
}

func price(c catalog.Currency, amount int64) catalog.Price {
	cur := c
	return catalog.Price{CurrencyID: c.ID, Currency: &cur, Amount: amount}
}

func groupPrice(g catalog.CustomerGroup, c catalog.Currency, amount int64) catalog.GroupPrice {
	return catalog.GroupPrice{CustomerGroupID: g.ID, Price: price(c, amount)}
}

func pv(propertyID int64, value string) catalog.PropertyValue {
	return catalog.PropertyValue{PropertyID: propertyID, IndexValue: value}
}

// testVariant returns a fully materialized published variant of a published product.
func testVariant() *catalog.Variant {
	product := &catalog.Product{
		ID:         7,
		Published:  true,
		Brand:      &catalog.Brand{ID: 5, Name: "Acme", Slug: "acme"},
		Categories: []catalog.Category{{ID: 3, Slug: "shoes"}, {ID: 9, Slug: "sale"}},
		Prices:     []catalog.Price{price(eur, 1499), price(usd, 1599)},
		GroupPrices: []catalog.GroupPrice{
			groupPrice(wholesale, usd, 1100),
		},
		PropertyValues: []catalog.PropertyValue{pv(1, "cotton"), pv(2, "unisex")},
		SortOrdersRaw:  []byte(`{"popular":4}`),
	}
	return &catalog.Variant{
		ID:             42,
		ProductID:      7,
		Product:        product,
		Published:      true,
		OnSale:         true,
		Prices:         []catalog.Price{price(eur, 1299), price(usd, 1399)},
		GroupPrices:    []catalog.GroupPrice{groupPrice(retail, eur, 999)},
		PropertyValues: []catalog.PropertyValue{pv(1, "linen"), pv(3, "red"), pv(3, "red"), pv(3, "")},
		Attributes:     map[string]any{"sku": "TS-42", "id": int64(-1)},
	}
}
