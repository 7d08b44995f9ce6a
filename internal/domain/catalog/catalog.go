// Package catalog holds the product catalog graph that index entries are built from.
package catalog

import "encoding/json"

// Currency is an entry of the currency registry.
type Currency struct {
	ID        int64
	Code      string
	IsDefault bool
}

// CustomerGroup is a named buyer segment that may receive override prices.
type CustomerGroup struct {
	ID   int64
	Name string
}

// Price is an amount in the currency's minor unit.
// Currency is nil until the relation has been materialized.
type Price struct {
	CurrencyID int64
	Currency   *Currency
	Amount     int64
}

// CurrencyCode returns the code of the attached currency, or "" when not materialized.
func (p Price) CurrencyCode() string {
	if p.Currency == nil {
		return ""
	}
	return p.Currency.Code
}

// GroupPrice is a customer-group specific override price.
type GroupPrice struct {
	CustomerGroupID int64
	Price
}

// Brand is the manufacturer of a product.
type Brand struct {
	ID   int64
	Name string
	Slug string
}

// Property describes a filterable attribute.
type Property struct {
	ID   int64
	Name string
	Slug string
}

// PropertyValue associates a property with an index value token.
// Property is nil until the relation has been materialized.
type PropertyValue struct {
	PropertyID int64
	Property   *Property
	IndexValue string
}

// Category is a node of the category forest. ParentID is nil for roots.
type Category struct {
	ID       int64
	ParentID *int64
	Slug     string
	Name     string
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool { return c.ParentID == nil }

// Product owns variants and carries the fields they inherit.
type Product struct {
	ID             int64
	Published      bool
	Brand          *Brand
	Categories     []Category
	Prices         []Price
	GroupPrices    []GroupPrice
	PropertyValues []PropertyValue
	// SortOrdersRaw is produced outside this service and copied through unchanged.
	SortOrdersRaw json.RawMessage
}

// SortOrders returns the opaque sort-order descriptor.
func (p *Product) SortOrders() json.RawMessage { return p.SortOrdersRaw }

// OwnPrices returns the product's direct price list.
func (p *Product) OwnPrices() []Price { return p.Prices }

// GroupPrice returns the product's override for (group, currency code).
// Products have no parent, so mode is ignored.
func (p *Product) GroupPrice(groupID int64, currencyCode string, _ InheritanceMode) (Price, bool) {
	return findGroupPrice(p.GroupPrices, groupID, currencyCode)
}

// CategoryIDs returns the ids of the attached categories in order.
func (p *Product) CategoryIDs() []int64 {
	ids := make([]int64, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}

// Variant is a purchasable flavor of a product.
type Variant struct {
	ID             int64
	ProductID      int64
	Product        *Product
	Published      bool
	OnSale         bool
	Prices         []Price
	GroupPrices    []GroupPrice
	PropertyValues []PropertyValue
	// Attributes are the variant's own scalar columns (name, stock, ...).
	Attributes map[string]any
}

// OwnPrices returns the variant's direct price list.
func (v *Variant) OwnPrices() []Price { return v.Prices }

func findGroupPrice(prices []GroupPrice, groupID int64, currencyCode string) (Price, bool) {
	for _, gp := range prices {
		if gp.CustomerGroupID == groupID && gp.CurrencyCode() == currencyCode {
			return gp.Price, true
		}
	}
	return Price{}, false
}
