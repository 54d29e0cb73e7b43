package favoriterepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skymind/internal/domain/favorites"
)

func TestMemoryRepositoryPreservesOrder(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, favorites.Location{ID: "a", Name: "A"}))
	require.NoError(t, repo.Insert(ctx, favorites.Location{ID: "b", Name: "B"}))
	require.NoError(t, repo.Insert(ctx, favorites.Location{ID: "c", Name: "C"}))
	require.NoError(t, repo.Insert(ctx, favorites.Location{ID: "a", Name: "A again"}))

	removed, err := repo.Delete(ctx, "b")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = repo.Delete(ctx, "b")
	require.NoError(t, err)
	require.False(t, removed)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "A", items[0].Name)
	require.Equal(t, "c", items[1].ID)

	ok, err := repo.Exists(ctx, "c")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestScanLocation(t *testing.T) {
	row := fakeRow{values: []any{"Tokyo-35.69-139.69", "Tokyo", 35.69, 139.69, "Japan", "Tokyo"}}
	loc, err := scanLocation(row)
	require.NoError(t, err)
	require.Equal(t, favorites.Location{ID: "Tokyo-35.69-139.69", Name: "Tokyo", Latitude: 35.69, Longitude: 139.69, Country: "Japan", Admin1: "Tokyo"}, loc)
}

type fakeRow struct {
	values []any
}

func (f fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch ptr := d.(type) {
		case *string:
			*ptr = f.values[i].(string)
		case *float64:
			*ptr = f.values[i].(float64)
		}
	}
	return nil
}
