package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vastra-shop/vastra/internal/shared"
)

// Repository persists catalog rows. Writes are immediately durable;
// reads are point-in-time snapshots with no extra isolation beyond what
// Postgres provides.
type Repository interface {
	List(ctx context.Context) ([]DatabaseProduct, error)
	Get(ctx context.Context, id int64) (DatabaseProduct, error)
	Create(ctx context.Context, p DatabaseProduct) (DatabaseProduct, error)
	Update(ctx context.Context, id int64, p DatabaseProduct) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	DeleteBySource(ctx context.Context, source string) error
	NameSet(ctx context.Context) (map[string]struct{}, error)
	BulkInsert(ctx context.Context, products []DatabaseProduct) (int, error)
	UpdatePrice(ctx context.Context, id int64, price float64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed catalog repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, type, sizes, price, colors, prints, description, image_url, source, created_at, updated_at`

func scanProduct(row pgx.Row) (DatabaseProduct, error) {
	var p DatabaseProduct
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Sizes, &p.Price, &p.Colors, &p.Prints, &p.Description, &p.ImageURL, &p.Source, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context) ([]DatabaseProduct, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []DatabaseProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (DatabaseProduct, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return DatabaseProduct{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p DatabaseProduct) (DatabaseProduct, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, type, sizes, price, colors, prints, description, image_url, source, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`,
		p.Name, p.Type, p.Sizes, p.Price, p.Colors, p.Prints, p.Description, p.ImageURL, p.Source, now,
	).Scan(&p.ID)
	if err != nil {
		return DatabaseProduct{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, p DatabaseProduct) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET name = $1, type = $2, sizes = $3, price = $4, colors = $5, prints = $6, description = $7, image_url = $8, updated_at = $9 WHERE id = $10`,
		p.Name, p.Type, p.Sizes, p.Price, p.Colors, p.Prints, p.Description, p.ImageURL, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products`)
	return err
}

func (r *repository) DeleteBySource(ctx context.Context, source string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE source = $1`, source)
	return err
}

// NameSet returns the lowercased names currently in the catalog. Bulk
// imports snapshot this once at the start of a batch for dedup; two
// imports racing each other can still duplicate.
func (r *repository) NameSet(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seen[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return seen, rows.Err()
}

func (r *repository) BulkInsert(ctx context.Context, products []DatabaseProduct) (int, error) {
	inserted := 0
	now := time.Now()
	for _, p := range products {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO products (name, type, sizes, price, colors, prints, description, image_url, source, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
			p.Name, p.Type, p.Sizes, p.Price, p.Colors, p.Prints, p.Description, p.ImageURL, p.Source, now,
		); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (r *repository) UpdatePrice(ctx context.Context, id int64, price float64) error {
	_, err := r.db.Exec(ctx, `UPDATE products SET price = $1, updated_at = $2 WHERE id = $3`, price, time.Now(), id)
	return err
}
