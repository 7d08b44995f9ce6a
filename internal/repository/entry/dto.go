package entry

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/mallindex/internal/domain"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
)

func encodeEntry(e domentry.Entry) ([]byte, error) {
	data, err := json.Marshal(e.Data())
	if err != nil {
		return nil, fmt.Errorf("marshal entry: %w", err)
	}
	return data, nil
}

// decodeJSONGetResult unwraps the single-element array JSON.GET returns for path "$".
func decodeJSONGetResult(raw []byte) (map[string]any, error) {
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return docs[0], nil
}
