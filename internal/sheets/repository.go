package sheets

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is one registered spreadsheet tab. Rows are deactivated, never
// physically deleted; (sheet_id, tab_name) uniqueness is maintained by
// the SelectTabs merge logic, not by a database constraint.
type Config struct {
	ID        int64     `json:"id"`
	SheetID   string    `json:"sheet_id"`
	TabName   string    `json:"tab_name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists sheet source configuration.
type Repository interface {
	List(ctx context.Context) ([]Config, error)
	ListActive(ctx context.Context) ([]Config, error)
	ListBySheet(ctx context.Context, sheetID string) ([]Config, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Insert(ctx context.Context, sheetID, tabName string, active bool) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed config repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const configColumns = `id, sheet_id, tab_name, active, created_at`

func (r *repository) List(ctx context.Context) ([]Config, error) {
	return r.query(ctx, `SELECT `+configColumns+` FROM sheet_config ORDER BY id`)
}

func (r *repository) ListActive(ctx context.Context) ([]Config, error) {
	return r.query(ctx, `SELECT `+configColumns+` FROM sheet_config WHERE active ORDER BY id`)
}

func (r *repository) ListBySheet(ctx context.Context, sheetID string) ([]Config, error) {
	return r.query(ctx, `SELECT `+configColumns+` FROM sheet_config WHERE sheet_id = $1 ORDER BY id`, sheetID)
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE sheet_config SET active = $1 WHERE id = $2`, active, id)
	return err
}

func (r *repository) Insert(ctx context.Context, sheetID, tabName string, active bool) error {
	_, err := r.db.Exec(ctx, `INSERT INTO sheet_config (sheet_id, tab_name, active) VALUES ($1, $2, $3)`, sheetID, tabName, active)
	return err
}

func (r *repository) query(ctx context.Context, sql string, args ...any) ([]Config, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []Config
	for rows.Next() {
		var c Config
		if err := rows.Scan(&c.ID, &c.SheetID, &c.TabName, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}
