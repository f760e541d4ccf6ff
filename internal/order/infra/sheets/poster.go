// Package sheets posts orders to the spreadsheet web app. The body is JSON
// but sent as text/plain: the backend reads the raw payload either way, and
// a simple content type keeps the browser-facing deployment free of CORS
// preflight requests.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/riceschool/storefront/internal/order/domain"
	"github.com/riceschool/storefront/pkg/apperr"
	"github.com/riceschool/storefront/pkg/config"
)

type Poster struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

func NewPoster(cfg config.SheetsConfig, log *slog.Logger) *Poster {
	return &Poster{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		log: log,
	}
}

// orderEnvelope is the backend's answer to a new_order post.
type orderEnvelope struct {
	Status  string `json:"status"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

// Post submits the order. A nil error means the backend confirmed it. A
// *apperr.ServerError means it explicitly rejected it; every other error
// means the answer could not be read and the attempt is indeterminate.
func (p *Poster) Post(ctx context.Context, order domain.Order) (string, error) {
	const op = "new_order"

	payload, err := json.Marshal(order)
	if err != nil {
		return "", &apperr.ParseError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &apperr.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &apperr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &apperr.HTTPStatusError{Op: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apperr.TransportError{Op: op, Err: err}
	}

	var env orderEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", &apperr.ParseError{Op: op, Err: err}
	}

	switch env.Status {
	case "success":
		return env.OrderID, nil
	case "error":
		return "", &apperr.ServerError{Message: env.Message}
	default:
		return "", &apperr.ParseError{Op: op, Err: fmt.Errorf("unknown status %q", env.Status)}
	}
}
