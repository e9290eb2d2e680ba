package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vastra-shop/vastra/internal/catalog"
)

// Service owns sheet source configuration, cache-amortized reads and the
// sheet-to-catalog sync. It implements catalog.SheetSource for the
// product resolver.
type Service struct {
	repo        Repository
	cache       *Cache
	client      RemoteClient
	catalogRepo catalog.Repository
	logger      *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, cache *Cache, client RemoteClient, catalogRepo catalog.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		cache:       cache,
		client:      client,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// List returns every registered tab, active or not.
func (s *Service) List(ctx context.Context) ([]Config, error) {
	return s.repo.List(ctx)
}

// ActiveTabs returns the active (sheet, tab) pairs.
func (s *Service) ActiveTabs(ctx context.Context) ([]catalog.TabRef, error) {
	configs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]catalog.TabRef, 0, len(configs))
	for _, c := range configs {
		refs = append(refs, catalog.TabRef{SheetID: c.SheetID, Tab: c.TabName})
	}
	return refs, nil
}

// Records returns the (possibly cached) rows of one tab.
func (s *Service) Records(ctx context.Context, sheetID, tab string) ([]catalog.Record, error) {
	return s.cache.Get(ctx, sheetID, tab)
}

// Tabs lists the worksheet titles of a spreadsheet together with the
// tabs currently active for it, for the admin tab picker. A client
// failure degrades to an empty tab list.
func (s *Service) Tabs(ctx context.Context, sheetID string) (tabs, active []string, err error) {
	configs, err := s.repo.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, nil, err
	}
	for _, c := range configs {
		if c.Active {
			active = append(active, c.TabName)
		}
	}

	tabs, err = s.client.ListTabs(ctx, sheetID)
	if err != nil {
		s.logger.Warn("list sheet tabs", slog.String("sheet_id", sheetID), slog.Any("error", err))
		return []string{}, active, nil
	}
	return tabs, active, nil
}

// SelectTabs reconciles the registered tabs of one sheet against the
// admin's selection: selected tabs are activated (inserting unknown
// ones), everything else is deactivated. Rows are never deleted.
func (s *Service) SelectTabs(ctx context.Context, sheetID string, selected []string) error {
	sheetID = strings.TrimSpace(sheetID)
	if sheetID == "" {
		return fmt.Errorf("sheets: sheet id required")
	}

	wanted := make(map[string]struct{}, len(selected))
	for _, tab := range selected {
		if tab = strings.TrimSpace(tab); tab != "" {
			wanted[tab] = struct{}{}
		}
	}

	existing, err := s.repo.ListBySheet(ctx, sheetID)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		known[row.TabName] = struct{}{}
		_, keep := wanted[row.TabName]
		if keep == row.Active {
			continue
		}
		if err := s.repo.SetActive(ctx, row.ID, keep); err != nil {
			return err
		}
	}
	for tab := range wanted {
		if _, ok := known[tab]; ok {
			continue
		}
		if err := s.repo.Insert(ctx, sheetID, tab, true); err != nil {
			return err
		}
	}
	return nil
}

// SyncToCatalog replaces the persisted sheet-origin products with the
// current contents of every active tab. Names already present in the
// catalog (snapshot taken after the purge) are skipped.
func (s *Service) SyncToCatalog(ctx context.Context) (int, error) {
	refs, err := s.ActiveTabs(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.catalogRepo.DeleteBySource(ctx, catalog.OriginSheet); err != nil {
		return 0, err
	}

	seen, err := s.catalogRepo.NameSet(ctx)
	if err != nil {
		return 0, err
	}

	var batch []catalog.DatabaseProduct
	for _, ref := range refs {
		records, err := s.cache.Get(ctx, ref.SheetID, ref.Tab)
		if err != nil {
			s.logger.Warn("sync: fetch tab",
				slog.String("sheet_id", ref.SheetID),
				slog.String("tab", ref.Tab),
				slog.Any("error", err))
			continue
		}
		for _, rec := range records {
			sp, ok := catalog.SheetProductFromRecord(rec, ref.Tab)
			if !ok {
				continue
			}
			norm := strings.ToLower(sp.Name)
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			batch = append(batch, catalog.DatabaseProduct{
				Name:        sp.Name,
				Sizes:       strings.Join(sp.Sizes, ", "),
				Price:       sp.Price,
				Colors:      sp.Colors,
				Prints:      sp.Prints,
				Description: sp.Description,
				ImageURL:    sp.ImageURL,
				Source:      catalog.OriginSheet,
			})
		}
	}

	inserted, err := s.catalogRepo.BulkInsert(ctx, batch)
	if err != nil {
		return inserted, fmt.Errorf("sheets: sync insert: %w", err)
	}
	s.logger.Info("sheet sync finished", slog.Int("inserted", inserted))
	return inserted, nil
}

// Warm prefetches every active tab through the cache so storefront
// requests inside the TTL window never pay the remote fetch.
func (s *Service) Warm(ctx context.Context) error {
	refs, err := s.ActiveTabs(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if _, err := s.cache.Get(ctx, ref.SheetID, ref.Tab); err != nil {
			s.logger.Warn("warm tab",
				slog.String("sheet_id", ref.SheetID),
				slog.String("tab", ref.Tab),
				slog.Any("error", err))
		}
	}
	return nil
}
