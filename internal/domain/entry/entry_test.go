package entry

import (
	"encoding/json"
	"testing"
)

func testDocument() Document {
	return Document{
		ID:        42,
		ProductID: 7,
		Index:     IndexVariants,
		Published: true,
		Attributes: map[string]any{
			"sku":          "TS-42",
			FieldPublished: "shadowed",
		},
	}
}

func TestDocumentMap_EmptyCollections(t *testing.T) {
	d := testDocument()
	m := d.Map()

	if m[FieldPublished] != true {
		t.Errorf("typed field must win over attribute, got %v", m[FieldPublished])
	}
	if m["sku"] != "TS-42" {
		t.Errorf("attribute missing: %v", m["sku"])
	}
	if _, ok := m[FieldBrand]; ok {
		t.Error("brand must be omitted when nil")
	}

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]string{
		FieldCategoryID:          `[]`,
		FieldPropertyValues:      `{}`,
		FieldPrices:              `{}`,
		FieldParentPrices:        `{}`,
		FieldCustomerGroupPrices: `{}`,
		FieldSortOrders:          `null`,
	}
	for field, w := range want {
		if got := string(decoded[field]); got != w {
			t.Errorf("%s: got %s, want %s", field, got, w)
		}
	}
}

func TestDocumentMap_Brand(t *testing.T) {
	d := testDocument()
	d.Brand = &BrandRef{ID: 5, Slug: "acme"}

	raw, err := json.Marshal(d.Map())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Brand map[string]any `json:"brand"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Brand) != 2 || decoded.Brand["slug"] != "acme" || decoded.Brand["id"] != float64(5) {
		t.Errorf("brand must carry id and slug only, got %v", decoded.Brand)
	}
}

func TestVariantEntry_Key(t *testing.T) {
	e := NewVariantEntry(testDocument())
	if e.Key() != "variants:42" {
		t.Errorf("unexpected key %q", e.Key())
	}
}

func TestWithData_OverlayWins(t *testing.T) {
	base := NewVariantEntry(testDocument())

	e := base.WithData(map[string]any{FieldPublished: false, "boost": 3})
	data := e.Data()
	if data[FieldPublished] != false || data["boost"] != 3 {
		t.Errorf("overlay not applied: %v", data)
	}
	if base.Data()[FieldPublished] != true {
		t.Error("receiver must not change")
	}
}

func TestWithData_Idempotent(t *testing.T) {
	overlay := map[string]any{"boost": 3}
	once := NewVariantEntry(testDocument()).WithData(overlay)
	twice := once.WithData(overlay)

	a, _ := json.Marshal(once.Data())
	b, _ := json.Marshal(twice.Data())
	if string(a) != string(b) {
		t.Errorf("applying the same overlay twice changed data:\n%s\n%s", a, b)
	}
}

func TestWithData_LastWriteWins(t *testing.T) {
	e := NewVariantEntry(testDocument()).
		WithData(map[string]any{"boost": 1}).
		WithData(map[string]any{"boost": 2})

	if e.Data()["boost"] != 2 {
		t.Errorf("expected later overlay to win, got %v", e.Data()["boost"])
	}
}

func TestWithData_DoesNotAliasOverlay(t *testing.T) {
	overlay := map[string]any{"boost": 1}
	e := NewVariantEntry(testDocument()).WithData(overlay)
	overlay["boost"] = 99

	if e.Data()["boost"] != 1 {
		t.Error("entry must copy the overlay")
	}
}

func TestMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(NewVariantEntry(testDocument()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m[FieldIndex] != IndexVariants {
		t.Errorf("unexpected index %v", m[FieldIndex])
	}
}

func TestData_DoesNotExposeDocument(t *testing.T) {
	doc := testDocument()
	doc.CategoryIDs = []int64{3}
	doc.Prices = PriceMatrix{"EUR": 100}
	doc.ParentPrices = PriceMatrix{"EUR": 120}
	doc.PropertyValues = map[int64][]string{1: {"red"}}
	doc.CustomerGroupPrices = GroupPriceMatrix{10: {"EUR": 90}, 20: {}}
	e := NewVariantEntry(doc)

	data := e.Data()
	data[FieldCategoryID].([]int64)[0] = 99
	data[FieldPrices].(PriceMatrix)["EUR"] = 999
	data[FieldParentPrices].(PriceMatrix)["USD"] = 1
	data[FieldPropertyValues].(map[int64][]string)[1][0] = "blue"
	data[FieldCustomerGroupPrices].(GroupPriceMatrix)[10]["EUR"] = 1
	data[FieldCustomerGroupPrices].(GroupPriceMatrix)[20]["USD"] = 1

	got := e.Document()
	if got.CategoryIDs[0] != 3 {
		t.Errorf("category ids changed: %v", got.CategoryIDs)
	}
	if got.Prices["EUR"] != 100 || len(got.ParentPrices) != 1 {
		t.Errorf("prices changed: %v %v", got.Prices, got.ParentPrices)
	}
	if got.PropertyValues[1][0] != "red" {
		t.Errorf("property values changed: %v", got.PropertyValues)
	}
	if got.CustomerGroupPrices[10]["EUR"] != 90 || len(got.CustomerGroupPrices[20]) != 0 {
		t.Errorf("group prices changed: %v", got.CustomerGroupPrices)
	}

	got.Prices["EUR"] = 5
	if e.Document().Prices["EUR"] != 100 {
		t.Error("Document must return a copy")
	}

	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Groups map[string]map[string]int64 `json:"customer_group_prices"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Groups["10"]["EUR"] != 90 || len(decoded.Groups["20"]) != 0 {
		t.Errorf("encoded entry changed: %v", decoded.Groups)
	}
}

func TestClone_KeepsEmptyGroupMaps(t *testing.T) {
	doc := testDocument()
	doc.CustomerGroupPrices = GroupPriceMatrix{20: nil}

	c := doc.Clone()
	if inner, ok := c.CustomerGroupPrices[20]; !ok || inner == nil {
		t.Errorf("empty group must stay a non-nil map, got %#v", c.CustomerGroupPrices)
	}
}
