package database

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

// CachingInspector remembers the column types of recently inspected tables.
// Schema changes made after a table was first inspected are not observed until it is evicted.
type CachingInspector struct {
	inspector types.SchemaInspector
	cache     *lru.Cache
}

func NewCachingInspector(inspector types.SchemaInspector, size int) (*CachingInspector, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &CachingInspector{inspector: inspector, cache: cache}, nil
}

func (c *CachingInspector) ColumnTypes(ctx context.Context, table string) (types.ColumnTypes, error) {
	if cached, ok := c.cache.Get(table); ok {
		return cached.(types.ColumnTypes), nil
	}
	columnTypes, err := c.inspector.ColumnTypes(ctx, table)
	if err != nil {
		return nil, err
	}
	c.cache.Add(table, columnTypes)
	return columnTypes, nil
}
