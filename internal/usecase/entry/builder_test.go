package entry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mallindex/internal/domain"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
)

func newTestBuilder(reg *mockRegistry) *Builder {
	return NewBuilder(reg, reg, zap.NewNop())
}

func TestBuild_Document(t *testing.T) {
	e, err := newTestBuilder(newMockRegistry()).Build(context.Background(), testVariant())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := e.Document()

	if e.Key() != "variants:42" {
		t.Errorf("unexpected key %q", e.Key())
	}
	if doc.ID != 42 || doc.ProductID != 7 || doc.Index != domentry.IndexVariants {
		t.Errorf("unexpected identity: %d/%d/%s", doc.ID, doc.ProductID, doc.Index)
	}
	if !doc.Published || !doc.OnSale {
		t.Errorf("expected published and on sale")
	}
	if len(doc.CategoryIDs) != 2 || doc.CategoryIDs[0] != 3 || doc.CategoryIDs[1] != 9 {
		t.Errorf("unexpected category ids %v", doc.CategoryIDs)
	}
	if doc.Prices["EUR"] != 1299 || doc.Prices["USD"] != 1399 || len(doc.Prices) != 2 {
		t.Errorf("unexpected prices %v", doc.Prices)
	}
	if doc.ParentPrices["EUR"] != 1499 || len(doc.ParentPrices) != 2 {
		t.Errorf("unexpected parent prices %v", doc.ParentPrices)
	}
	if doc.Brand == nil || *doc.Brand != (domentry.BrandRef{ID: 5, Slug: "acme"}) {
		t.Errorf("unexpected brand %+v", doc.Brand)
	}
	if string(doc.SortOrders) != `{"popular":4}` {
		t.Errorf("unexpected sort orders %s", doc.SortOrders)
	}
}

func TestBuild_PublishedRequiresBoth(t *testing.T) {
	tests := []struct {
		variant, product, want bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	b := newTestBuilder(newMockRegistry())
	for _, tt := range tests {
		v := testVariant()
		v.Published = tt.variant
		v.Product.Published = tt.product

		e, err := b.Build(context.Background(), v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := e.Document().Published; got != tt.want {
			t.Errorf("variant=%v product=%v: got %v, want %v", tt.variant, tt.product, got, tt.want)
		}
	}
}

func TestBuild_PropertyValuesInherited(t *testing.T) {
	e, err := newTestBuilder(newMockRegistry()).Build(context.Background(), testVariant())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := e.Document().PropertyValues

	// Property 1 comes from the variant only; product's "cotton" is shadowed.
	if got := props[1]; len(got) != 1 || got[0] != "linen" {
		t.Errorf("property 1: got %v", got)
	}
	// Property 2 is inherited from the product.
	if got := props[2]; len(got) != 1 || got[0] != "unisex" {
		t.Errorf("property 2: got %v", got)
	}
	// Property 3 is deduplicated and the empty token dropped.
	if got := props[3]; len(got) != 1 || got[0] != "red" {
		t.Errorf("property 3: got %v", got)
	}
}

func TestBuild_CustomerGroupPrices(t *testing.T) {
	e, err := newTestBuilder(newMockRegistry()).Build(context.Background(), testVariant())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groups := e.Document().CustomerGroupPrices

	if len(groups) != 2 {
		t.Fatalf("expected every group present, got %v", groups)
	}
	if got := groups[retail.ID]; len(got) != 1 || got["EUR"] != 999 {
		t.Errorf("retail: got %v", got)
	}
	if _, ok := groups[retail.ID]["USD"]; ok {
		t.Error("retail USD has no override and must be absent")
	}
	// Wholesale USD falls back to the product's override.
	if got := groups[wholesale.ID]; len(got) != 1 || got["USD"] != 1100 {
		t.Errorf("wholesale: got %v", got)
	}
}

func TestBuild_AttributesDoNotOverrideTypedFields(t *testing.T) {
	e, err := newTestBuilder(newMockRegistry()).Build(context.Background(), testVariant())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := e.Data()
	if data["sku"] != "TS-42" {
		t.Errorf("expected sku attribute, got %v", data["sku"])
	}
	if data[domentry.FieldID] != int64(42) {
		t.Errorf("typed id must win, got %v", data[domentry.FieldID])
	}
}

func TestBuild_NoBrand(t *testing.T) {
	v := testVariant()
	v.Product.Brand = nil

	e, err := newTestBuilder(newMockRegistry()).Build(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.Data()[domentry.FieldBrand]; ok {
		t.Error("brand must be omitted when absent")
	}
}

func TestBuild_DoesNotShareAttributes(t *testing.T) {
	v := testVariant()
	e, err := newTestBuilder(newMockRegistry()).Build(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v.Attributes["sku"] = "changed"
	if e.Data()["sku"] != "TS-42" {
		t.Error("document must not alias variant attributes")
	}
}

func TestBuild_MissingProduct(t *testing.T) {
	v := testVariant()
	v.Product = nil

	_, err := newTestBuilder(newMockRegistry()).Build(context.Background(), v)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	var ce *domain.ConfigurationError
	if !errors.As(err, &ce) || ce.Component != "variant" {
		t.Errorf("expected variant component, got %v", err)
	}
}

func TestBuild_MissingDefaultCurrency(t *testing.T) {
	reg := newMockRegistry()
	reg.defaultErr = domain.NewConfigurationError("currency registry", "no default currency")

	_, err := newTestBuilder(reg).Build(context.Background(), testVariant())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestBuild_NilVariant(t *testing.T) {
	_, err := newTestBuilder(newMockRegistry()).Build(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestBuild_MaterializeError(t *testing.T) {
	reg := newMockRegistry()
	reg.materializeFn = func(_ *catalog.Variant) error { return domain.ErrInvalidSnapshot }

	_, err := newTestBuilder(reg).Build(context.Background(), testVariant())
	if !errors.Is(err, domain.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestBuild_RegistryError(t *testing.T) {
	reg := newMockRegistry()
	reg.groupsErr = errors.New("registry unavailable")

	if _, err := newTestBuilder(reg).Build(context.Background(), testVariant()); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuild_JSONShape(t *testing.T) {
	e, err := newTestBuilder(newMockRegistry()).Build(context.Background(), testVariant())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{
		domentry.FieldID, domentry.FieldProductID, domentry.FieldIndex, domentry.FieldPublished,
		domentry.FieldOnSale, domentry.FieldCategoryID, domentry.FieldPropertyValues,
		domentry.FieldSortOrders, domentry.FieldPrices, domentry.FieldParentPrices,
		domentry.FieldCustomerGroupPrices, domentry.FieldBrand,
	} {
		if _, ok := doc[field]; !ok {
			t.Errorf("missing field %q", field)
		}
	}
	groups := doc[domentry.FieldCustomerGroupPrices].(map[string]any)
	if _, ok := groups["20"]; !ok {
		t.Errorf("group keys must be decimal ids, got %v", groups)
	}
}
