// Package registry serves the currency, customer-group and property
// registries and hydrates catalog snapshots against them.
package registry

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/mallindex/internal/config"
	"github.com/kailas-cloud/mallindex/internal/domain"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

// Static is an immutable in-memory registry, loaded from configuration.
type Static struct {
	groups     []catalog.CustomerGroup
	currencies []catalog.Currency
	byID       map[int64]*catalog.Currency
	properties map[int64]*catalog.Property
}

// NewStatic creates a registry. Slices are copied.
func NewStatic(groups []catalog.CustomerGroup, currencies []catalog.Currency) *Static {
	s := &Static{
		groups:     append([]catalog.CustomerGroup(nil), groups...),
		currencies: append([]catalog.Currency(nil), currencies...),
		byID:       make(map[int64]*catalog.Currency, len(currencies)),
	}
	for i := range s.currencies {
		s.byID[s.currencies[i].ID] = &s.currencies[i]
	}
	return s
}

// WithProperties registers the property definitions attached on Materialize.
func (s *Static) WithProperties(properties []catalog.Property) *Static {
	s.properties = make(map[int64]*catalog.Property, len(properties))
	for _, p := range properties {
		s.properties[p.ID] = &p
	}
	return s
}

// CustomerGroups returns every customer group.
func (s *Static) CustomerGroups(_ context.Context) ([]catalog.CustomerGroup, error) {
	return s.groups, nil
}

// Currencies returns every currency.
func (s *Static) Currencies(_ context.Context) ([]catalog.Currency, error) {
	return s.currencies, nil
}

// DefaultCurrency returns the currency flagged as default.
func (s *Static) DefaultCurrency(_ context.Context) (catalog.Currency, error) {
	for _, c := range s.currencies {
		if c.IsDefault {
			return c, nil
		}
	}
	return catalog.Currency{}, domain.NewConfigurationError("currency registry", "no default currency")
}

// Materialize attaches registry currencies to every price and override of the
// variant and its product, and registered properties to their values. Prices
// referencing an unknown currency fail with ErrInvalidSnapshot. The property
// registry is optional: values of unregistered properties keep a nil Property.
func (s *Static) Materialize(_ context.Context, v *catalog.Variant) error {
	if err := s.attachPrices(v.Prices); err != nil {
		return fmt.Errorf("variant prices: %w", err)
	}
	if err := s.attachGroupPrices(v.GroupPrices); err != nil {
		return fmt.Errorf("variant group prices: %w", err)
	}
	s.attachProperties(v.PropertyValues)
	if v.Product == nil {
		return nil
	}
	s.attachProperties(v.Product.PropertyValues)
	if err := s.attachPrices(v.Product.Prices); err != nil {
		return fmt.Errorf("product prices: %w", err)
	}
	if err := s.attachGroupPrices(v.Product.GroupPrices); err != nil {
		return fmt.Errorf("product group prices: %w", err)
	}
	return nil
}

func (s *Static) attachPrices(prices []catalog.Price) error {
	for i := range prices {
		if err := s.attach(&prices[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Static) attachGroupPrices(prices []catalog.GroupPrice) error {
	for i := range prices {
		if err := s.attach(&prices[i].Price); err != nil {
			return err
		}
	}
	return nil
}

func (s *Static) attachProperties(values []catalog.PropertyValue) {
	for i := range values {
		if values[i].Property != nil {
			continue
		}
		if p, ok := s.properties[values[i].PropertyID]; ok {
			values[i].Property = p
		}
	}
}

func (s *Static) attach(p *catalog.Price) error {
	if p.Currency != nil {
		return nil
	}
	c, ok := s.byID[p.CurrencyID]
	if !ok {
		return fmt.Errorf("unknown currency id %d: %w", p.CurrencyID, domain.ErrInvalidSnapshot)
	}
	p.Currency = c
	return nil
}

// FromConfig builds the registry from the catalog configuration section.
func FromConfig(cfg config.CatalogConfig) *Static {
	groups := make([]catalog.CustomerGroup, len(cfg.CustomerGroups))
	for i, g := range cfg.CustomerGroups {
		groups[i] = catalog.CustomerGroup{ID: g.ID, Name: g.Name}
	}
	currencies := make([]catalog.Currency, len(cfg.Currencies))
	for i, c := range cfg.Currencies {
		currencies[i] = catalog.Currency{ID: c.ID, Code: c.Code, IsDefault: c.Default}
	}
	properties := make([]catalog.Property, len(cfg.Properties))
	for i, p := range cfg.Properties {
		properties[i] = catalog.Property{ID: p.ID, Slug: p.Slug, Name: p.Name}
	}
	return NewStatic(groups, currencies).WithProperties(properties)
}
