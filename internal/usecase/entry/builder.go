package entry

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mallindex/internal/domain"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
)

// Builder turns variants into index entries. It holds no per-build state and
// is safe for concurrent use.
type Builder struct {
	materializer Materializer
	registry     Registry
	logger       *zap.Logger
}

// NewBuilder creates a variant entry builder.
func NewBuilder(materializer Materializer, registry Registry, logger *zap.Logger) *Builder {
	return &Builder{materializer: materializer, registry: registry, logger: logger}
}

// Build materializes the variant's relations and assembles its document.
// A variant without a product is a ConfigurationError.
func (b *Builder) Build(ctx context.Context, v *catalog.Variant) (*domentry.VariantEntry, error) {
	if v == nil {
		return nil, fmt.Errorf("variant is nil: %w", domain.ErrInvalidSnapshot)
	}

	if err := b.materializer.Materialize(ctx, v); err != nil {
		return nil, fmt.Errorf("materialize variant %d: %w", v.ID, err)
	}

	product := v.Product
	if product == nil {
		return nil, domain.NewConfigurationError("variant", fmt.Sprintf("variant %d has no product", v.ID))
	}

	if _, err := b.registry.DefaultCurrency(ctx); err != nil {
		return nil, fmt.Errorf("default currency: %w", err)
	}
	groups, err := b.registry.CustomerGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customer groups: %w", err)
	}
	currencies, err := b.registry.Currencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}

	// Index builds always see inherited product data.
	mode := catalog.Inherit

	doc := domentry.Document{
		ID:                  v.ID,
		ProductID:           product.ID,
		Index:               domentry.IndexVariants,
		Published:           v.Published && product.Published,
		OnSale:              v.OnSale,
		CategoryIDs:         product.CategoryIDs(),
		PropertyValues:      AggregatePropertyValues(v.AllPropertyValues(mode)),
		SortOrders:          product.SortOrders(),
		Prices:              BuildPriceMatrix(v),
		ParentPrices:        BuildPriceMatrix(product),
		CustomerGroupPrices: BuildGroupPriceMatrix(v, groups, currencies, mode),
		Attributes:          maps.Clone(v.Attributes),
	}
	if product.Brand != nil {
		doc.Brand = &domentry.BrandRef{ID: product.Brand.ID, Slug: product.Brand.Slug}
	}

	b.logger.Debug("Entry built",
		zap.Int64("variant_id", v.ID),
		zap.Int64("product_id", product.ID),
		zap.Bool("published", doc.Published),
		zap.Int("properties", len(doc.PropertyValues)),
	)

	return domentry.NewVariantEntry(doc), nil
}
