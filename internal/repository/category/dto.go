package category

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

const (
	fieldID       = "id"
	fieldParentID = "parent_id"
	fieldSlug     = "slug"
	fieldName     = "name"
)

func toHash(c catalog.Category) map[string]string {
	m := map[string]string{
		fieldID:   strconv.FormatInt(c.ID, 10),
		fieldSlug: c.Slug,
		fieldName: c.Name,
	}
	if c.ParentID != nil {
		m[fieldParentID] = strconv.FormatInt(*c.ParentID, 10)
	}
	return m
}

func fromHash(m map[string]string) (catalog.Category, error) {
	id, err := strconv.ParseInt(m[fieldID], 10, 64)
	if err != nil {
		return catalog.Category{}, fmt.Errorf("parse category id: %w", err)
	}
	c := catalog.Category{ID: id, Slug: m[fieldSlug], Name: m[fieldName]}
	if raw, ok := m[fieldParentID]; ok && raw != "" {
		pid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return catalog.Category{}, fmt.Errorf("parse parent id: %w", err)
		}
		c.ParentID = &pid
	}
	return c, nil
}
