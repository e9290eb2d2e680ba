package catalog

import (
	"strings"
	"time"
)

// Product origins. Sheet products carry "sheet:<tab>" so the admin
// listing can show which tab a row came from.
const (
	OriginDB    = "db"
	OriginCSV   = "csv"
	OriginSheet = "sheet"
)

// Placeholder values applied during normalization.
const (
	PlaceholderImage       = "https://via.placeholder.com/300x300.png?text=No+Image"
	PlaceholderDescription = "No description available"
)

// Product is the canonical view served to the storefront, regardless of
// whether the record originated in the database, a CSV import, or a
// spreadsheet tab.
type Product struct {
	ID          int64    `json:"id,omitempty"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Colors      string   `json:"colors,omitempty"`
	Prints      string   `json:"prints,omitempty"`
	Origin      string   `json:"origin"`
}

// DatabaseProduct is a persisted catalog row (manual entry or CSV import).
type DatabaseProduct struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Sizes       string    `json:"sizes"`
	Price       float64   `json:"price"`
	Colors      string    `json:"colors"`
	Prints      string    `json:"prints"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SheetProduct is a transient record computed from a spreadsheet tab.
// It has no stable identifier across fetches beyond name+tab.
type SheetProduct struct {
	Name        string
	Price       float64
	ImageURL    string
	Description string
	Sizes       []string
	Colors      string
	Prints      string
	Tab         string
}

// Record is one spreadsheet row keyed by column header.
type Record map[string]string

// TabRef identifies one spreadsheet tab.
type TabRef struct {
	SheetID string
	Tab     string
}

// Normalize converts a database row into the canonical product view.
// The identifier is appended to the slug so database slugs are injective.
func (p DatabaseProduct) Normalize() Product {
	out := Product{
		ID:          p.ID,
		Slug:        SlugWithID(p.Name, p.ID),
		Name:        p.Name,
		Type:        p.Type,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Sizes:       splitSizes(p.Sizes),
		Colors:      p.Colors,
		Prints:      p.Prints,
		Origin:      p.Source,
	}
	return fillDefaults(out)
}

// Normalize converts a sheet row into the canonical product view.
func (p SheetProduct) Normalize() Product {
	out := Product{
		Slug:        Slugify(p.Name),
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Prints:      p.Prints,
		Origin:      OriginSheet + ":" + p.Tab,
	}
	return fillDefaults(out)
}

// SheetProductFromRecord maps a raw spreadsheet row onto a SheetProduct.
// Returns false when the row carries no product name.
func SheetProductFromRecord(rec Record, tab string) (SheetProduct, bool) {
	name := strings.TrimSpace(rec["Product Type"])
	if name == "" {
		name = strings.TrimSpace(rec["Product"])
	}
	if name == "" {
		return SheetProduct{}, false
	}
	p := SheetProduct{
		Name:        name,
		Price:       ParsePrice(rec["Price"]),
		ImageURL:    strings.TrimSpace(rec["Image Link"]),
		Description: strings.TrimSpace(rec["Description"]),
		Colors:      strings.TrimSpace(rec["Color Variants"]),
		Prints:      strings.TrimSpace(rec["Print Variants"]),
		Tab:         tab,
	}
	if size := strings.TrimSpace(rec["Product Size"]); size != "" {
		p.Sizes = []string{size}
	}
	return p, true
}

func fillDefaults(p Product) Product {
	if p.ImageURL == "" {
		p.ImageURL = PlaceholderImage
	}
	if p.Description == "" {
		p.Description = PlaceholderDescription
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	return p
}

func splitSizes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	sizes := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}
