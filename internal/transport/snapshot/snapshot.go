// Package snapshot decodes the JSON catalog snapshots accepted by the HTTP API
// and the entrybuild CLI.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/mallindex/internal/domain"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

// Price is a base price. Amount is in the currency's minor unit.
type Price struct {
	CurrencyID int64 `json:"currency_id"`
	Amount     int64 `json:"amount"`
}

// GroupPrice is a customer-group override price.
type GroupPrice struct {
	CustomerGroupID int64 `json:"customer_group_id"`
	CurrencyID      int64 `json:"currency_id"`
	Amount          int64 `json:"amount"`
}

// PropertyValue is a property association.
type PropertyValue struct {
	PropertyID int64  `json:"property_id"`
	IndexValue string `json:"index_value"`
}

// Brand is a product brand.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug"`
}

// Category is a category node.
type Category struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id"`
	Slug     string `json:"slug"`
	Name     string `json:"name,omitempty"`
}

// Product is the parent of a variant.
type Product struct {
	ID             int64           `json:"id"`
	Published      bool            `json:"published"`
	Brand          *Brand          `json:"brand,omitempty"`
	Categories     []Category      `json:"categories"`
	Prices         []Price         `json:"prices"`
	GroupPrices    []GroupPrice    `json:"group_prices"`
	PropertyValues []PropertyValue `json:"property_values"`
	SortOrders     json.RawMessage `json:"sort_orders,omitempty"`
}

// Variant is the snapshot of one variant with its product embedded.
type Variant struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"product_id,omitempty"`
	Published      bool            `json:"published"`
	OnSale         bool            `json:"on_sale"`
	Prices         []Price         `json:"prices"`
	GroupPrices    []GroupPrice    `json:"group_prices"`
	PropertyValues []PropertyValue `json:"property_values"`
	Attributes     map[string]any  `json:"attributes,omitempty"`
	Product        *Product        `json:"product"`
}

// Tree is a flat category forest.
type Tree struct {
	Categories []Category `json:"categories"`
}

// DecodeVariant reads a single variant snapshot from r.
func DecodeVariant(r io.Reader) (Variant, error) {
	var v Variant
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return Variant{}, fmt.Errorf("decode variant: %w: %w", domain.ErrInvalidSnapshot, err)
	}
	return v, nil
}

// DecodeTree reads a category forest from r.
func DecodeTree(r io.Reader) (Tree, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Tree{}, fmt.Errorf("decode categories: %w: %w", domain.ErrInvalidSnapshot, err)
	}
	return t, nil
}

// ToCatalog converts the snapshot into a fresh catalog graph. The product is
// never shared with other conversions.
func (v Variant) ToCatalog() (*catalog.Variant, error) {
	out := &catalog.Variant{
		ID:             v.ID,
		ProductID:      v.ProductID,
		Published:      v.Published,
		OnSale:         v.OnSale,
		Prices:         pricesToCatalog(v.Prices),
		GroupPrices:    groupPricesToCatalog(v.GroupPrices),
		PropertyValues: propertyValuesToCatalog(v.PropertyValues),
		Attributes:     v.Attributes,
	}
	if v.Product == nil {
		return out, nil
	}
	if v.ProductID != 0 && v.ProductID != v.Product.ID {
		return nil, fmt.Errorf("variant %d: product_id %d does not match product %d: %w",
			v.ID, v.ProductID, v.Product.ID, domain.ErrInvalidSnapshot)
	}
	if len(v.Product.SortOrders) > 0 && !json.Valid(v.Product.SortOrders) {
		return nil, fmt.Errorf("product %d: sort_orders is not valid JSON: %w", v.Product.ID, domain.ErrInvalidSnapshot)
	}
	out.ProductID = v.Product.ID
	out.Product = v.Product.toCatalog()
	return out, nil
}

func (p *Product) toCatalog() *catalog.Product {
	out := &catalog.Product{
		ID:             p.ID,
		Published:      p.Published,
		Categories:     CategoriesToCatalog(p.Categories),
		Prices:         pricesToCatalog(p.Prices),
		GroupPrices:    groupPricesToCatalog(p.GroupPrices),
		PropertyValues: propertyValuesToCatalog(p.PropertyValues),
		SortOrdersRaw:  append(json.RawMessage(nil), p.SortOrders...),
	}
	if p.Brand != nil {
		out.Brand = &catalog.Brand{ID: p.Brand.ID, Name: p.Brand.Name, Slug: p.Brand.Slug}
	}
	return out
}

// CategoriesToCatalog converts category nodes.
func CategoriesToCatalog(cs []Category) []catalog.Category {
	out := make([]catalog.Category, len(cs))
	for i, c := range cs {
		out[i] = catalog.Category{ID: c.ID, Slug: c.Slug, Name: c.Name}
		if c.ParentID != nil {
			pid := *c.ParentID
			out[i].ParentID = &pid
		}
	}
	return out
}

// CategoryFromCatalog converts a resolved category back to its wire form.
func CategoryFromCatalog(c catalog.Category) Category {
	return Category{ID: c.ID, ParentID: c.ParentID, Slug: c.Slug, Name: c.Name}
}

func pricesToCatalog(ps []Price) []catalog.Price {
	out := make([]catalog.Price, len(ps))
	for i, p := range ps {
		out[i] = catalog.Price{CurrencyID: p.CurrencyID, Amount: p.Amount}
	}
	return out
}

func groupPricesToCatalog(ps []GroupPrice) []catalog.GroupPrice {
	out := make([]catalog.GroupPrice, len(ps))
	for i, p := range ps {
		out[i] = catalog.GroupPrice{
			CustomerGroupID: p.CustomerGroupID,
			Price:           catalog.Price{CurrencyID: p.CurrencyID, Amount: p.Amount},
		}
	}
	return out
}

func propertyValuesToCatalog(pvs []PropertyValue) []catalog.PropertyValue {
	out := make([]catalog.PropertyValue, len(pvs))
	for i, pv := range pvs {
		out[i] = catalog.PropertyValue{PropertyID: pv.PropertyID, IndexValue: pv.IndexValue}
	}
	return out
}
