package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), testLogger())

	_, err := svc.Create(context.Background(), ProductInput{})
	assert.Error(t, err, "name is required")

	created, err := svc.Create(context.Background(), ProductInput{
		Name:  "  Cotton Kurta  ",
		Price: "₹1,299",
	})
	require.NoError(t, err)
	assert.Equal(t, "Cotton Kurta", created.Name)
	assert.InDelta(t, 1299, created.Price, 1e-9)
	assert.Equal(t, OriginDB, created.Source)
}

func TestImportCSV(t *testing.T) {
	repo := newMemoryRepo()
	_, err := repo.Create(context.Background(), DatabaseProduct{Name: "Linen Shirt", Price: 1799, Source: OriginDB})
	require.NoError(t, err)

	svc := NewService(repo, testLogger())

	csvBody := strings.Join([]string{
		`Product Type,Price,Description,Image Link`,
		`Cotton Kurta,"₹1,299",Everyday kurta,https://example.com/kurta.jpg`,
		`Linen Shirt,1799,Duplicate of existing row,`,
		`Cotton Kurta,999,Duplicate within the file,`,
		`,500,No name means skip,`,
		`Block Print Saree,N/A,,`,
	}, "\n")

	inserted, err := svc.ImportCSV(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byName := make(map[string]DatabaseProduct, len(rows))
	for _, row := range rows {
		byName[row.Name] = row
	}
	kurta := byName["Cotton Kurta"]
	assert.Equal(t, OriginCSV, kurta.Source)
	assert.InDelta(t, 1299, kurta.Price, 1e-9)
	assert.Equal(t, "https://example.com/kurta.jpg", kurta.ImageURL)

	// Malformed price degrades to zero rather than rejecting the row.
	assert.InDelta(t, 0, byName["Block Print Saree"].Price, 1e-9)
}

func TestImportCSVEmptyBody(t *testing.T) {
	svc := NewService(newMemoryRepo(), testLogger())

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestNormalizePrices(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()

	paise, err := repo.Create(ctx, DatabaseProduct{Name: "Saree", Price: 249900, Source: OriginDB})
	require.NoError(t, err)
	rupee, err := repo.Create(ctx, DatabaseProduct{Name: "Kurta", Price: 1299, Source: OriginDB})
	require.NoError(t, err)

	svc := NewService(repo, testLogger())

	converted, err := svc.NormalizePrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, converted)

	got, err := repo.Get(ctx, paise.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2499, got.Price, 1e-9)

	got, err = repo.Get(ctx, rupee.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1299, got.Price, 1e-9)

	// Second pass is a no-op.
	converted, err = svc.NormalizePrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, converted)
}
