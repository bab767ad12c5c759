package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/infracfg/internal/catalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "catalogs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	doc := catalog.DefaultDocument()
	rec, err := s.Put(ctx, "powerstore", doc)
	require.NoError(t, err)
	assert.Equal(t, Digest(doc), rec.Digest)
	assert.Len(t, rec.Digest, 64)

	got, err := s.Get(ctx, "powerstore")
	require.NoError(t, err)
	assert.Equal(t, string(doc), string(got.Document))
	assert.Equal(t, rec.Digest, got.Digest)
	assert.True(t, fixed.Equal(got.UpdatedAt))

	c, err := catalog.Parse(got.Document)
	require.NoError(t, err)
	assert.Equal(t, "PowerStore", c.ProductInfo.Name)
}

func TestPut_Overwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "lab", catalog.DefaultDocument())
	require.NoError(t, err)
	small := []byte(`{"productInfo":{"name":"Small"},"steps":[],"subItems":{},"products":{}}`)
	_, err = s.Put(ctx, "lab", small)
	require.NoError(t, err)

	got, err := s.Get(ctx, "lab")
	require.NoError(t, err)
	assert.Equal(t, string(small), string(got.Document))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPut_RejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "bad", []byte(`{"productInfo":{},"steps":[],"subItems":{}}`))
	var se *catalog.StructuralError
	require.True(t, errors.As(err, &se))

	_, err = s.Put(ctx, "worse", []byte(`{{`))
	var pe *catalog.ParseError
	require.True(t, errors.As(err, &pe))

	_, err = s.Put(ctx, "", catalog.DefaultDocument())
	assert.Error(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), "nope"), ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.Put(ctx, name, catalog.DefaultDocument())
		require.NoError(t, err)
	}
	all, err := s.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, r := range all {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)

	require.NoError(t, s.Delete(ctx, "mid"))
	all, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))
	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	assert.Error(t, err)
}
