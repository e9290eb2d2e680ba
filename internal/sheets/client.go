package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/vastra-shop/vastra/internal/catalog"
)

// RemoteClient reads a remote spreadsheet service.
type RemoteClient interface {
	ListTabs(ctx context.Context, sheetID string) ([]string, error)
	FetchRecords(ctx context.Context, sheetID, tab string) ([]catalog.Record, error)
}

// ErrNoCredentials is returned when neither the credentials blob nor a
// credentials file is available.
var ErrNoCredentials = errors.New("sheets: no service credentials configured")

// GoogleClient talks to the Google Sheets API. The underlying service is
// authenticated lazily on first use and memoized process-wide; the
// initialization is guarded so concurrent first-callers perform a single
// handshake. A failed handshake is not memoized, so the next call
// retries.
type GoogleClient struct {
	credentialsJSON string
	credentialsFile string

	mu  sync.Mutex
	svc *sheetsapi.Service
}

// NewGoogleClient constructs a client. credentialsJSON (the environment
// blob) wins over the credentials file when both are supplied.
func NewGoogleClient(credentialsJSON, credentialsFile string) *GoogleClient {
	return &GoogleClient{
		credentialsJSON: credentialsJSON,
		credentialsFile: credentialsFile,
	}
}

// ListTabs returns the worksheet titles of a spreadsheet.
func (c *GoogleClient) ListTabs(ctx context.Context, sheetID string) ([]string, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Get(sheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: list tabs %s: %w", sheetID, err)
	}
	tabs := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			tabs = append(tabs, sh.Properties.Title)
		}
	}
	return tabs, nil
}

// FetchRecords reads a whole tab and maps each data row onto its header
// row, mirroring how the admin sheet is laid out: first row column
// names, every following row one product variant.
func (c *GoogleClient) FetchRecords(ctx context.Context, sheetID, tab string) ([]catalog.Record, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(sheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: fetch %s/%s: %w", sheetID, tab, err)
	}
	if len(resp.Values) < 2 {
		return []catalog.Record{}, nil
	}

	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		headers[i] = strings.TrimSpace(fmt.Sprint(cell))
	}

	records := make([]catalog.Record, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		rec := make(catalog.Record, len(headers))
		empty := true
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			value := strings.TrimSpace(fmt.Sprint(cell))
			rec[headers[i]] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (c *GoogleClient) service(ctx context.Context) (*sheetsapi.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.svc != nil {
		return c.svc, nil
	}

	opts, err := c.credentialOption()
	if err != nil {
		return nil, err
	}
	svc, err := sheetsapi.NewService(ctx, opts, option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("sheets: authenticate: %w", err)
	}
	c.svc = svc
	return svc, nil
}

func (c *GoogleClient) credentialOption() (option.ClientOption, error) {
	if c.credentialsJSON != "" {
		return option.WithCredentialsJSON([]byte(c.credentialsJSON)), nil
	}
	if c.credentialsFile != "" {
		if _, err := os.Stat(c.credentialsFile); err != nil {
			return nil, fmt.Errorf("sheets: credentials file %s: %w", c.credentialsFile, ErrNoCredentials)
		}
		return option.WithCredentialsFile(c.credentialsFile), nil
	}
	return nil, ErrNoCredentials
}
