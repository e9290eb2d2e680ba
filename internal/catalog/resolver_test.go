package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastra-shop/vastra/internal/shared"
)

// ============================================================================
// IN-MEMORY REPOSITORY
// ============================================================================

type memoryRepo struct {
	rows   map[int64]DatabaseProduct
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int64]DatabaseProduct)}
}

func (r *memoryRepo) List(ctx context.Context) ([]DatabaseProduct, error) {
	out := make([]DatabaseProduct, 0, len(r.rows))
	for id := r.nextID; id >= 1; id-- {
		if p, ok := r.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (DatabaseProduct, error) {
	p, ok := r.rows[id]
	if !ok {
		return DatabaseProduct{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, p DatabaseProduct) (DatabaseProduct, error) {
	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, p DatabaseProduct) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	p.ID = id
	r.rows[id] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryRepo) DeleteAll(ctx context.Context) error {
	r.rows = make(map[int64]DatabaseProduct)
	return nil
}

func (r *memoryRepo) DeleteBySource(ctx context.Context, source string) error {
	for id, p := range r.rows {
		if p.Source == source {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *memoryRepo) NameSet(ctx context.Context) (map[string]struct{}, error) {
	seen := make(map[string]struct{}, len(r.rows))
	for _, p := range r.rows {
		seen[lowerTrim(p.Name)] = struct{}{}
	}
	return seen, nil
}

func (r *memoryRepo) BulkInsert(ctx context.Context, products []DatabaseProduct) (int, error) {
	for _, p := range products {
		if _, err := r.Create(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(products), nil
}

func (r *memoryRepo) UpdatePrice(ctx context.Context, id int64, price float64) error {
	p, ok := r.rows[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Price = price
	r.rows[id] = p
	return nil
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ============================================================================
// STUB SHEET SOURCE
// ============================================================================

type stubSheetSource struct {
	tabs    []TabRef
	records map[string][]Record
	tabsErr error
	recErr  error
}

func (s *stubSheetSource) ActiveTabs(ctx context.Context) ([]TabRef, error) {
	if s.tabsErr != nil {
		return nil, s.tabsErr
	}
	return s.tabs, nil
}

func (s *stubSheetSource) Records(ctx context.Context, sheetID, tab string) ([]Record, error) {
	if s.recErr != nil {
		return nil, s.recErr
	}
	return s.records[tab], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ============================================================================
// RESOLVE
// ============================================================================

func TestResolveDBKey(t *testing.T) {
	repo := newMemoryRepo()
	row, err := repo.Create(context.Background(), DatabaseProduct{Name: "Linen Shirt", Price: 1799, Source: OriginDB})
	require.NoError(t, err)

	r := NewResolver(repo, &stubSheetSource{}, testLogger())

	got, err := r.Resolve(context.Background(), "db_1")
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
	assert.Equal(t, "Linen Shirt", got.Name)
	assert.Equal(t, "db_1", got.Slug)
	assert.Equal(t, PlaceholderImage, got.ImageURL)
	assert.Equal(t, PlaceholderDescription, got.Description)
}

func TestResolveDBKeyMissing(t *testing.T) {
	r := NewResolver(newMemoryRepo(), &stubSheetSource{}, testLogger())

	_, err := r.Resolve(context.Background(), "db_7")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = r.Resolve(context.Background(), "db_notanumber")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = r.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestResolveSlugPrefersSheets(t *testing.T) {
	repo := newMemoryRepo()
	_, err := repo.Create(context.Background(), DatabaseProduct{Name: "Silk Saree", Price: 100, Source: OriginDB})
	require.NoError(t, err)

	sheets := &stubSheetSource{
		tabs: []TabRef{{SheetID: "sheet-1", Tab: "Summer"}},
		records: map[string][]Record{
			"Summer": {
				{"Product Type": "Silk Saree", "Price": "₹2,499", "Product Size": "Free Size"},
			},
		},
	}
	r := NewResolver(repo, sheets, testLogger())

	got, err := r.Resolve(context.Background(), "silk-saree")
	require.NoError(t, err)
	assert.Equal(t, OriginSheet+":Summer", got.Origin)
	assert.InDelta(t, 2499, got.Price, 1e-9)
}

func TestResolveSlugFallsBackToDB(t *testing.T) {
	repo := newMemoryRepo()
	row, err := repo.Create(context.Background(), DatabaseProduct{Name: "Silk Saree", Price: 3200, Source: OriginDB})
	require.NoError(t, err)

	r := NewResolver(repo, &stubSheetSource{tabsErr: errors.New("quota exceeded")}, testLogger())

	// Bare slug and id-suffixed slug both address the row.
	got, err := r.Resolve(context.Background(), "silk-saree")
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)

	got, err = r.Resolve(context.Background(), SlugWithID(row.Name, row.ID))
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)

	_, err = r.Resolve(context.Background(), "no-such-product")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestResolveSlugIgnoresCase(t *testing.T) {
	repo := newMemoryRepo()
	row, err := repo.Create(context.Background(), DatabaseProduct{Name: "Silk Saree", Price: 3200, Source: OriginDB})
	require.NoError(t, err)

	r := NewResolver(repo, &stubSheetSource{}, testLogger())

	got, err := r.Resolve(context.Background(), "Silk-Saree")
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
}

// ============================================================================
// LISTING
// ============================================================================

func TestListingMergesSizeVariants(t *testing.T) {
	sheets := &stubSheetSource{
		tabs: []TabRef{{SheetID: "sheet-1", Tab: "Kurtas"}},
		records: map[string][]Record{
			"Kurtas": {
				{"Product Type": "Cotton Kurta", "Price": "1299", "Product Size": "M"},
				{"Product Type": "Cotton Kurta", "Price": "1299", "Product Size": "L"},
				{"Product Type": "Cotton Kurta", "Price": "1299", "Product Size": "M"},
				{"Product Type": "Rayon Kurta", "Price": "999", "Product Size": "S"},
			},
		},
	}
	r := NewResolver(newMemoryRepo(), sheets, testLogger())

	persisted, byTab, err := r.Listing(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted)

	products := byTab["Kurtas"]
	require.Len(t, products, 2)
	assert.Equal(t, "Cotton Kurta", products[0].Name)
	assert.Equal(t, []string{"M", "L"}, products[0].Sizes)
	assert.Equal(t, "Rayon Kurta", products[1].Name)
}

func TestListingDegradesOnSheetFailure(t *testing.T) {
	repo := newMemoryRepo()
	_, err := repo.Create(context.Background(), DatabaseProduct{Name: "Linen Shirt", Price: 1799, Source: OriginDB})
	require.NoError(t, err)

	r := NewResolver(repo, &stubSheetSource{tabsErr: errors.New("google down")}, testLogger())

	persisted, byTab, err := r.Listing(context.Background())
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
	assert.Empty(t, byTab)
}

func TestListingEmptyTabOnRecordFailure(t *testing.T) {
	sheets := &stubSheetSource{
		tabs:   []TabRef{{SheetID: "sheet-1", Tab: "Summer"}},
		recErr: errors.New("fetch failed"),
	}
	r := NewResolver(newMemoryRepo(), sheets, testLogger())

	_, byTab, err := r.Listing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Product{}, byTab["Summer"])
}
