// Package entry defines the flat documents fed into the search index.
package entry

import (
	"encoding/json"
	"maps"
	"slices"
)

// IndexVariants is the index (collection) name of variant documents.
const IndexVariants = "variants"

// Document field names.
const (
	FieldID                  = "id"
	FieldProductID           = "product_id"
	FieldIndex               = "index"
	FieldPublished           = "published"
	FieldOnSale              = "on_sale"
	FieldCategoryID          = "category_id"
	FieldPropertyValues      = "property_values"
	FieldSortOrders          = "sort_orders"
	FieldPrices              = "prices"
	FieldParentPrices        = "parent_prices"
	FieldCustomerGroupPrices = "customer_group_prices"
	FieldBrand               = "brand"
)

// PriceMatrix maps a currency code to an amount in minor units.
type PriceMatrix map[string]int64

// GroupPriceMatrix maps a customer group id to its override prices.
type GroupPriceMatrix map[int64]PriceMatrix

// BrandRef is the narrow brand projection stored in documents.
type BrandRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// Document is the typed index document of one variant.
type Document struct {
	ID                  int64
	ProductID           int64
	Index               string
	Published           bool
	OnSale              bool
	CategoryIDs         []int64
	PropertyValues      map[int64][]string
	SortOrders          json.RawMessage
	Prices              PriceMatrix
	ParentPrices        PriceMatrix
	CustomerGroupPrices GroupPriceMatrix
	Brand               *BrandRef
	// Attributes are model-specific scalar fields copied to the top level.
	Attributes map[string]any
}

// Map flattens the document into field name -> JSON-serializable value.
// Typed fields win over attributes with the same name. Collections are
// copied, so changes to the result never reach the document.
func (d *Document) Map() map[string]any {
	c := d.Clone()
	m := make(map[string]any, len(c.Attributes)+12)
	maps.Copy(m, c.Attributes)

	m[FieldID] = c.ID
	m[FieldProductID] = c.ProductID
	m[FieldIndex] = c.Index
	m[FieldPublished] = c.Published
	m[FieldOnSale] = c.OnSale
	m[FieldCategoryID] = nonNil(c.CategoryIDs)
	m[FieldPropertyValues] = nonNilMap(c.PropertyValues)
	m[FieldSortOrders] = c.SortOrders
	m[FieldPrices] = nonNilMap(c.Prices)
	m[FieldParentPrices] = nonNilMap(c.ParentPrices)
	m[FieldCustomerGroupPrices] = nonNilMap(c.CustomerGroupPrices)
	if c.Brand != nil {
		m[FieldBrand] = *c.Brand
	}
	return m
}

// Clone returns a copy that shares no collections with d. Attribute values
// are copied shallowly.
func (d *Document) Clone() Document {
	c := *d
	c.CategoryIDs = slices.Clone(d.CategoryIDs)
	if len(d.SortOrders) > 0 {
		c.SortOrders = slices.Clone(d.SortOrders)
	} else {
		c.SortOrders = nil
	}
	c.Prices = maps.Clone(d.Prices)
	c.ParentPrices = maps.Clone(d.ParentPrices)
	c.Attributes = maps.Clone(d.Attributes)
	if d.PropertyValues != nil {
		c.PropertyValues = make(map[int64][]string, len(d.PropertyValues))
		for id, tokens := range d.PropertyValues {
			c.PropertyValues[id] = slices.Clone(tokens)
		}
	}
	if d.CustomerGroupPrices != nil {
		c.CustomerGroupPrices = make(GroupPriceMatrix, len(d.CustomerGroupPrices))
		for id, prices := range d.CustomerGroupPrices {
			// Empty inner maps stay non-nil so they still encode as {}.
			if prices == nil {
				prices = PriceMatrix{}
			}
			c.CustomerGroupPrices[id] = maps.Clone(prices)
		}
	}
	if d.Brand != nil {
		b := *d.Brand
		c.Brand = &b
	}
	return c
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}

func nonNilMap[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return M{}
	}
	return m
}
