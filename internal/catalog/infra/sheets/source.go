// Package sheets talks to the spreadsheet-backed web app. The primary tier
// is a JSON action endpoint; when it is unreachable, answers outside 2xx, or
// returns a body that is not the expected envelope, the source falls back to
// the published CSV export. Rows from either tier go through one shared
// normalization so everything downstream is fallback-agnostic.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/riceschool/storefront/internal/catalog/domain"
	"github.com/riceschool/storefront/pkg/apperr"
	"github.com/riceschool/storefront/pkg/config"
)

const (
	// DefaultBrand is assigned to rows that carry no brand or category.
	DefaultBrand = "Unclassified"
	// PlaceholderImageURL is used for rows without an image column.
	PlaceholderImageURL = "https://via.placeholder.com/300x200?text=Product"
)

// fieldSynonyms maps each normalized field to the spreadsheet headers that
// may carry it, in lookup order. Headers are compared case-folded.
var fieldSynonyms = map[string][]string{
	"name":  {"name", "product name"},
	"brand": {"brand", "category"},
	"image": {"image", "image url"},
}

type Source struct {
	endpoint   string
	csvURL     string
	httpClient *http.Client
	log        *slog.Logger
}

func NewSource(cfg config.SheetsConfig, log *slog.Logger) *Source {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	csvURL := cfg.CSVURL
	if csvURL == "" {
		csvURL = deriveCSVURL(endpoint)
	}
	return &Source{
		endpoint: endpoint,
		csvURL:   csvURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		log: log,
	}
}

// deriveCSVURL turns the web-app exec URL into the published CSV export URL
// for the same spreadsheet.
func deriveCSVURL(endpoint string) string {
	u := strings.TrimSuffix(endpoint, "/exec")
	u = strings.Replace(u, "/macros/s/", "/d/e/", 1)
	return u + "/pub?gid=0&single=true&output=csv"
}

// Fetch returns the normalized product list. It tries the JSON tier first
// and degrades to the CSV export; only when both tiers fail does it return
// an error, and even then the caller keeps running with what it has.
func (s *Source) Fetch(ctx context.Context) ([]domain.Product, error) {
	records, primaryErr := s.fetchPrimary(ctx)
	if primaryErr != nil {
		s.log.Warn("primary product tier unusable, trying csv export",
			slog.Any("err", primaryErr))
		var csvErr error
		records, csvErr = s.fetchCSV(ctx)
		if csvErr != nil {
			return nil, fmt.Errorf("both tiers failed: %w (primary: %v)", csvErr, primaryErr)
		}
	}

	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		p, ok := normalizeRecord(rec, i)
		if !ok {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// productEnvelope is the JSON tier's response shape. Products are decoded as
// loose maps because the backend is not strict about field names or types.
type productEnvelope struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Products []map[string]any `json:"products"`
}

func (s *Source) fetchPrimary(ctx context.Context) ([]map[string]string, error) {
	const op = "get_products"

	url := s.endpoint + "?action=get_products"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.HTTPStatusError{Op: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: err}
	}

	var env productEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &apperr.ParseError{Op: op, Err: err}
	}
	if env.Status != "success" {
		return nil, &apperr.ServerError{Message: env.Message}
	}

	records := make([]map[string]string, 0, len(env.Products))
	for _, raw := range env.Products {
		rec := make(map[string]string, len(raw))
		for k, v := range raw {
			rec[strings.ToLower(strings.TrimSpace(k))] = stringify(v)
		}
		records = append(records, rec)
	}
	return records, nil
}

// fetchCSV pulls the published CSV export. The export has no quoting or
// escaping, so parsing is plain split and trim: first line is case-folded
// headers, every later line is one row.
func (s *Source) fetchCSV(ctx context.Context) ([]map[string]string, error) {
	const op = "csv_export"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.csvURL, nil)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.HTTPStatusError{Op: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: err}
	}

	return parseCSV(string(body))
}

func parseCSV(text string) ([]map[string]string, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, &apperr.ParseError{Op: "csv_export", Err: fmt.Errorf("empty document")}
	}

	rawHeaders := strings.Split(lines[0], ",")
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	records := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = strings.TrimSpace(values[i])
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalizeRecord maps one loose row to a Product. Rows without a name are
// dropped. The id is taken from the row when the backend supplies one and
// synthesized from the row position otherwise.
func normalizeRecord(rec map[string]string, index int) (domain.Product, bool) {
	name := lookup(rec, "name")
	if name == "" {
		return domain.Product{}, false
	}

	brand := lookup(rec, "brand")
	if brand == "" {
		brand = DefaultBrand
	}

	price, err := strconv.ParseFloat(rec["price"], 64)
	if err != nil || math.IsNaN(price) || price < 0 {
		price = 0
	}

	image := lookup(rec, "image")
	if image == "" {
		image = PlaceholderImageURL
	}

	id := rec["id"]
	if id == "" {
		id = fmt.Sprintf("product-%d", index+1)
	}

	return domain.Product{
		ID:          id,
		Name:        name,
		Brand:       brand,
		Price:       price,
		Description: rec["description"],
		ImageURL:    image,
	}, true
}

func lookup(rec map[string]string, field string) string {
	for _, key := range fieldSynonyms[field] {
		if v := strings.TrimSpace(rec[key]); v != "" {
			return v
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
