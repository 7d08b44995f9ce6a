package catalog

// InheritanceMode controls whether a variant falls back to its product's data.
// It is passed per call and never stored.
type InheritanceMode int

const (
	// Inherit falls back to the product for properties and overrides the variant lacks.
	Inherit InheritanceMode = iota
	// Isolated reads the variant's own data only.
	Isolated
)

// String implements fmt.Stringer.
func (m InheritanceMode) String() string {
	switch m {
	case Inherit:
		return "inherit"
	case Isolated:
		return "isolated"
	default:
		return "unknown"
	}
}

// AllPropertyValues returns the variant's property values. With Inherit, product
// values are appended for every property the variant has no value of its own for.
func (v *Variant) AllPropertyValues(mode InheritanceMode) []PropertyValue {
	if mode == Isolated || v.Product == nil || len(v.Product.PropertyValues) == 0 {
		return v.PropertyValues
	}

	own := make(map[int64]struct{}, len(v.PropertyValues))
	for _, pv := range v.PropertyValues {
		own[pv.PropertyID] = struct{}{}
	}

	out := make([]PropertyValue, 0, len(v.PropertyValues)+len(v.Product.PropertyValues))
	out = append(out, v.PropertyValues...)
	for _, pv := range v.Product.PropertyValues {
		if _, ok := own[pv.PropertyID]; ok {
			continue
		}
		out = append(out, pv)
	}
	return out
}

// GroupPrice returns the override for (group, currency code). With Inherit, a
// missing variant override falls back to the product's override for the same pair,
// never to a base price.
func (v *Variant) GroupPrice(groupID int64, currencyCode string, mode InheritanceMode) (Price, bool) {
	if p, ok := findGroupPrice(v.GroupPrices, groupID, currencyCode); ok {
		return p, true
	}
	if mode == Isolated || v.Product == nil {
		return Price{}, false
	}
	return findGroupPrice(v.Product.GroupPrices, groupID, currencyCode)
}
