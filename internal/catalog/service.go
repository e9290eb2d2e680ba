package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Service owns catalog business rules: admin CRUD, CSV bulk import and
// the stored-price correction pass.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		validate: validator.New(),
	}
}

// List returns all persisted catalog rows, newest first.
func (s *Service) List(ctx context.Context) ([]DatabaseProduct, error) {
	return s.repo.List(ctx)
}

// Get fetches one persisted row by identifier.
func (s *Service) Get(ctx context.Context, id int64) (DatabaseProduct, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a manually entered product.
func (s *Service) Create(ctx context.Context, in ProductInput) (DatabaseProduct, error) {
	if err := s.validate.Struct(in); err != nil {
		return DatabaseProduct{}, fmt.Errorf("catalog: validate: %w", err)
	}
	return s.repo.Create(ctx, s.fromInput(in, OriginDB))
}

// Update edits a database-origin row. Sheet products are never persisted
// and therefore never editable.
func (s *Service) Update(ctx context.Context, id int64, in ProductInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("catalog: validate: %w", err)
	}
	return s.repo.Update(ctx, id, s.fromInput(in, OriginDB))
}

// Delete removes one row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// DeleteAll clears the whole persisted catalog.
func (s *Service) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

// ImportCSV bulk-loads products from a CSV stream. The header row names
// the columns; rows whose lowercased name already exists in the catalog
// at the start of the batch are skipped.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("catalog: csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	seen, err := s.repo.NameSet(ctx)
	if err != nil {
		return 0, fmt.Errorf("catalog: csv dedup snapshot: %w", err)
	}

	var batch []DatabaseProduct
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("catalog: csv row: %w", err)
		}
		rec := make(Record, len(header))
		for i, cell := range row {
			if i < len(header) {
				rec[header[i]] = cell
			}
		}

		name := strings.TrimSpace(rec["Product Type"])
		if name == "" {
			name = strings.TrimSpace(rec["name"])
		}
		if name == "" {
			continue
		}
		norm := strings.ToLower(name)
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}

		batch = append(batch, DatabaseProduct{
			Name:        name,
			Price:       ParsePrice(rec["Price"]),
			Description: strings.TrimSpace(rec["Description"]),
			ImageURL:    strings.TrimSpace(rec["Image Link"]),
			Source:      OriginCSV,
		})
	}

	inserted, err := s.repo.BulkInsert(ctx, batch)
	if err != nil {
		return inserted, fmt.Errorf("catalog: csv insert: %w", err)
	}
	s.logger.Info("csv import finished", slog.Int("inserted", inserted))
	return inserted, nil
}

// NormalizePrices runs the one-time minor-unit correction over stored
// rows and returns how many were converted.
func (s *Service) NormalizePrices(ctx context.Context) (int, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	converted := 0
	for _, row := range rows {
		fixed, changed := NormalizeStoredPrice(row.Price)
		if !changed {
			continue
		}
		if err := s.repo.UpdatePrice(ctx, row.ID, fixed); err != nil {
			return converted, err
		}
		converted++
	}
	if converted > 0 {
		s.logger.Info("normalized stored prices", slog.Int("converted", converted))
	}
	return converted, nil
}

func (s *Service) fromInput(in ProductInput, source string) DatabaseProduct {
	return DatabaseProduct{
		Name:        strings.TrimSpace(in.Name),
		Type:        strings.TrimSpace(in.Type),
		Sizes:       strings.TrimSpace(in.Sizes),
		Price:       ParsePrice(in.Price),
		Colors:      strings.TrimSpace(in.Colors),
		Prints:      strings.TrimSpace(in.Prints),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Source:      source,
	}
}
