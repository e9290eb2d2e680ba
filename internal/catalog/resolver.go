package catalog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vastra-shop/vastra/internal/shared"
)

// DBKeyPrefix marks keys that address a database row directly by id.
const DBKeyPrefix = "db_"

// SheetSource is the read surface the resolver needs from the sheets
// subsystem: the active tab set plus cache-amortized record fetches.
type SheetSource interface {
	ActiveTabs(ctx context.Context) ([]TabRef, error)
	Records(ctx context.Context, sheetID, tab string) ([]Record, error)
}

// Resolver unifies the persistent catalog and the spreadsheet tabs
// behind one lookup-by-key surface. Called on every storefront page
// view and checkout, so its cost is active tabs (cache-amortized) plus
// a full product table scan; acceptable at this catalog's scale since
// no secondary index exists.
type Resolver struct {
	repo   Repository
	sheets SheetSource
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(repo Repository, sheets SheetSource, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, sheets: sheets, logger: logger}
}

// Resolve looks a product up by key. Keys with the db_ prefix address a
// database row by identifier; anything else is treated as a slug and
// matched against active sheet tabs first, then database rows.
func (r *Resolver) Resolve(ctx context.Context, key string) (Product, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Product{}, shared.ErrNotFound
	}

	if strings.HasPrefix(key, DBKeyPrefix) {
		id, err := strconv.ParseInt(strings.TrimPrefix(key, DBKeyPrefix), 10, 64)
		if err != nil {
			return Product{}, shared.ErrNotFound
		}
		row, err := r.repo.Get(ctx, id)
		if err != nil {
			return Product{}, err
		}
		p := row.Normalize()
		p.Slug = key
		return p, nil
	}

	// Slugs are stored lowercase, so match case-insensitively.
	key = strings.ToLower(key)

	if p, ok := r.resolveSheetSlug(ctx, key); ok {
		return p, nil
	}

	rows, err := r.repo.List(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, row := range rows {
		if Slugify(row.Name) == key || SlugWithID(row.Name, row.ID) == key {
			return row.Normalize(), nil
		}
	}
	return Product{}, shared.ErrNotFound
}

// Listing builds the storefront view: persisted products plus one
// aggregated product list per active sheet tab. A sheet tab that fails
// to fetch shows as an empty list, never an error.
func (r *Resolver) Listing(ctx context.Context) ([]Product, map[string][]Product, error) {
	rows, err := r.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	persisted := make([]Product, 0, len(rows))
	for _, row := range rows {
		persisted = append(persisted, row.Normalize())
	}

	tabs, err := r.sheets.ActiveTabs(ctx)
	if err != nil {
		r.logger.Warn("load active tabs", slog.Any("error", err))
		return persisted, map[string][]Product{}, nil
	}

	byTab := make(map[string][]Product, len(tabs))
	for _, ref := range tabs {
		byTab[ref.Tab] = r.tabProducts(ctx, ref)
	}
	return persisted, byTab, nil
}

func (r *Resolver) resolveSheetSlug(ctx context.Context, key string) (Product, bool) {
	tabs, err := r.sheets.ActiveTabs(ctx)
	if err != nil {
		r.logger.Warn("load active tabs", slog.Any("error", err))
		return Product{}, false
	}
	for _, ref := range tabs {
		for _, p := range r.tabProducts(ctx, ref) {
			if p.Slug == key {
				return p, true
			}
		}
	}
	return Product{}, false
}

// tabProducts fetches one tab and aggregates its rows by product name,
// merging size variants. Two rows with the same name collapse into one
// product; which row's other attributes win is a property of sheet row
// order, not a designed contract.
func (r *Resolver) tabProducts(ctx context.Context, ref TabRef) []Product {
	records, err := r.sheets.Records(ctx, ref.SheetID, ref.Tab)
	if err != nil {
		r.logger.Warn("fetch sheet records",
			slog.String("sheet_id", ref.SheetID),
			slog.String("tab", ref.Tab),
			slog.Any("error", err))
		return []Product{}
	}

	var order []string
	byName := make(map[string]*SheetProduct)
	for _, rec := range records {
		sp, ok := SheetProductFromRecord(rec, ref.Tab)
		if !ok {
			continue
		}
		if existing, dup := byName[sp.Name]; dup {
			for _, size := range sp.Sizes {
				if !containsString(existing.Sizes, size) {
					existing.Sizes = append(existing.Sizes, size)
				}
			}
			continue
		}
		cp := sp
		byName[sp.Name] = &cp
		order = append(order, sp.Name)
	}

	products := make([]Product, 0, len(order))
	for _, name := range order {
		products = append(products, byName[name].Normalize())
	}
	return products
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
