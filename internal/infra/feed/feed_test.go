package feed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"keystore/config"
	"keystore/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParams(t *testing.T, seedPath string) Params {
	t.Helper()

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Catalog.SeedPath = seedPath

	return Params{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNew_EmbeddedSeed(t *testing.T) {
	repo, err := New(newTestParams(t, ""))
	require.NoError(t, err)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 12)

	publishers, err := repo.ListPublishers(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, publishers)

	users, err := repo.SeedUsers(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, users)
	assert.Equal(t, "demo@keystore.test", users[0].Email)
}

func TestNew_SeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - id: x1
    title: Only Game
    price: 10
`), 0o600))

	repo, err := New(newTestParams(t, path))
	require.NoError(t, err)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Only Game", products[0].Title)
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(newTestParams(t, filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestParse_ResolvesImageDefaults(t *testing.T) {
	repo, err := Parse([]byte(`
products:
  - id: a
    title: With Gallery
    images: [/g1.png, /g2.png]
  - id: b
    title: Bare
  - id: c
    title: Explicit
    image: /cover.png
    discount: 140
`))
	require.NoError(t, err)

	ctx := context.Background()

	a, err := repo.FindProduct(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "/g1.png", a.Image)

	b, err := repo.FindProduct(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderImage, b.Image)
	assert.NotNil(t, b.Images)
	assert.NotNil(t, b.Features)

	c, err := repo.FindProduct(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "/cover.png", c.Image)
	assert.Equal(t, 100, c.Discount)
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`
products:
  - id: a
  - id: a
`))
	assert.Error(t, err)
}

func TestParse_RejectsMissingID(t *testing.T) {
	_, err := Parse([]byte(`
products:
  - title: Nameless
`))
	assert.Error(t, err)
}

func TestFindProduct_NotFound(t *testing.T) {
	repo, err := Parse(embeddedSeed)
	require.NoError(t, err)

	_, err = repo.FindProduct(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestListProducts_ReturnsCopies(t *testing.T) {
	repo, err := Parse(embeddedSeed)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	first[0].Title = "mutated"
	first[0].Genres[0] = "mutated"

	second, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Title)
	assert.NotEqual(t, "mutated", second[0].Genres[0])
}
