package entry

import "github.com/kailas-cloud/mallindex/internal/domain/catalog"

// AggregatePropertyValues groups value tokens by property id. Tokens are
// deduplicated in first-seen order and falsy tokens ("" and "0") dropped; a property
// left without tokens is omitted. Nil input yields an empty map.
func AggregatePropertyValues(values []catalog.PropertyValue) map[int64][]string {
	out := make(map[int64][]string)
	seen := make(map[int64]map[string]struct{})

	for _, pv := range values {
		if isFalsyToken(pv.IndexValue) {
			continue
		}
		set, ok := seen[pv.PropertyID]
		if !ok {
			set = make(map[string]struct{})
			seen[pv.PropertyID] = set
		}
		if _, dup := set[pv.IndexValue]; dup {
			continue
		}
		set[pv.IndexValue] = struct{}{}
		out[pv.PropertyID] = append(out[pv.PropertyID], pv.IndexValue)
	}

	return out
}

func isFalsyToken(v string) bool {
	return v == "" || v == "0"
}
