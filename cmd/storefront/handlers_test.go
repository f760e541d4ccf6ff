package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/riceschool/storefront/internal/cart/app"
	catalogapp "github.com/riceschool/storefront/internal/catalog/app"
	catalogsheets "github.com/riceschool/storefront/internal/catalog/infra/sheets"
	checkoutapp "github.com/riceschool/storefront/internal/checkout/app"
	checkoutdomain "github.com/riceschool/storefront/internal/checkout/domain"
	"github.com/riceschool/storefront/internal/notify"
	orderapp "github.com/riceschool/storefront/internal/order/app"
	ordersheets "github.com/riceschool/storefront/internal/order/infra/sheets"
	"github.com/riceschool/storefront/pkg/apperr"
	"github.com/riceschool/storefront/pkg/config"
	"github.com/riceschool/storefront/pkg/logger"
)

func TestHTTPStatusFromErr(t *testing.T) {
	t.Run("validation -> 422", func(t *testing.T) {
		err := &apperr.ValidationError{Field: "customerName", Reason: "required"}
		gotStatus, gotCode := httpStatusFromErr(err)
		if gotStatus != http.StatusUnprocessableEntity || gotCode != "VALIDATION" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("transport -> 502", func(t *testing.T) {
		err := &apperr.TransportError{Op: "get_products", Err: errors.New("refused")}
		gotStatus, gotCode := httpStatusFromErr(err)
		if gotStatus != http.StatusBadGateway || gotCode != "UPSTREAM_UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("parse -> 502", func(t *testing.T) {
		err := &apperr.ParseError{Op: "get_products", Err: errors.New("bad json")}
		gotStatus, gotCode := httpStatusFromErr(err)
		if gotStatus != http.StatusBadGateway || gotCode != "UPSTREAM_MALFORMED" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("wrapped errors classify too", func(t *testing.T) {
		err := &apperr.HTTPStatusError{Op: "get_products", Status: 500}
		gotStatus, gotCode := httpStatusFromErr(err)
		if gotStatus != http.StatusBadGateway || gotCode != "UPSTREAM_UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("unknown error -> 500", func(t *testing.T) {
		gotStatus, gotCode := httpStatusFromErr(errors.New("boom"))
		if gotStatus != http.StatusInternalServerError || gotCode != "INTERNAL" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})
}

var testBank = checkoutdomain.BankTransfer{
	BankName:      "Post Office",
	BankCode:      "700",
	AccountNumber: "0001234-567890",
}

// backend fakes the spreadsheet web app for end-to-end facade tests.
type backend struct {
	orderResponse string
	orderCalls    int
}

func (b *backend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			b.orderCalls++
			w.Write([]byte(b.orderResponse))
			return
		}
		w.Write([]byte(`{"status":"success","products":[
			{"id":"product-1","name":"Brown Rice","brand":"Hillside Farm","price":100},
			{"id":"product-2","name":"Honey","brand":"Bee Co","price":250}
		]}`))
	}
}

func newTestFacade(t *testing.T, b *backend) *http.ServeMux {
	t.Helper()

	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	log := logger.Discard()
	cfg := config.SheetsConfig{Endpoint: srv.URL}

	catalogSvc := catalogapp.NewService(catalogsheets.NewSource(cfg, log), log)
	cartStore := cartapp.NewStore()
	formStore := checkoutapp.NewFormStore()
	submitter := orderapp.NewSubmitter(ordersheets.NewPoster(cfg, log), log)
	center := notify.NewCenter(log)

	facade := newServer(log, catalogSvc, cartStore, formStore, submitter, center, testBank)
	mux := facade.routes()

	// Initial catalog load, as the refresh loop would do at startup.
	do(t, mux, http.MethodPost, "/api/catalog/refresh", "")
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func fillCheckout(t *testing.T, mux *http.ServeMux) {
	rec := do(t, mux, http.MethodPut, "/api/checkout",
		`{"customerName":"A","customerPhone":"0912","address":"X","paymentMethod":"pickup"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestFacadeListsProducts(t *testing.T) {
	mux := newTestFacade(t, &backend{})

	rec := do(t, mux, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)

	assert.Len(t, resp["products"], 2)
	assert.Equal(t, []any{"All", "Hillside Farm", "Bee Co"}, resp["brands"])

	rec = do(t, mux, http.MethodGet, "/api/products?brand=Bee+Co", "")
	assert.Len(t, decode(t, rec)["products"], 1)
}

func TestFacadeSuccessFlow(t *testing.T) {
	b := &backend{orderResponse: `{"status":"success","orderId":"ORD-1"}`}
	mux := newTestFacade(t, b)

	rec := do(t, mux, http.MethodPost, "/api/cart/items", `{"id":"product-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	do(t, mux, http.MethodPost, "/api/cart/items", `{"id":"product-1"}`)
	fillCheckout(t, mux)

	rec = do(t, mux, http.MethodPost, "/api/checkout/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode(t, rec)
	assert.Equal(t, "succeeded", result["outcome"])
	assert.Equal(t, "ORD-1", result["orderId"])
	assert.Equal(t, 1, b.orderCalls)

	// The modal is open and the cart survives until it is dismissed.
	notifications := decode(t, do(t, mux, http.MethodGet, "/api/notifications", ""))
	modal := notifications["modal"].(map[string]any)
	assert.Equal(t, true, modal["open"])
	assert.Equal(t, "ORD-1", modal["orderId"])

	cart := decode(t, do(t, mux, http.MethodGet, "/api/cart", ""))
	assert.Equal(t, 2.0, cart["count"])

	// Mutations are blocked while the modal waits.
	rec = do(t, mux, http.MethodPost, "/api/cart/items", `{"id":"product-2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Acknowledging resets cart and form together and idles the machine.
	rec = do(t, mux, http.MethodPost, "/api/order/ack", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cart = decode(t, do(t, mux, http.MethodGet, "/api/cart", ""))
	assert.Equal(t, 0.0, cart["count"])

	form := decode(t, do(t, mux, http.MethodGet, "/api/checkout", ""))["form"].(map[string]any)
	assert.Equal(t, "", form["customerName"])
	assert.Equal(t, "transfer", form["paymentMethod"])
}

func TestFacadeCheckoutBankInfo(t *testing.T) {
	mux := newTestFacade(t, &backend{})

	// The default method is transfer, so the shop's account shows.
	resp := decode(t, do(t, mux, http.MethodGet, "/api/checkout", ""))
	bank, ok := resp["bankTransfer"].(map[string]any)
	require.True(t, ok, "transfer method must carry bank info")
	assert.Equal(t, "700", bank["bankCode"])
	assert.Equal(t, "0001234-567890", bank["accountNumber"])
	assert.Equal(t, "Post Office", bank["bankName"])

	// Switching to pickup hides it.
	resp = decode(t, do(t, mux, http.MethodPut, "/api/checkout",
		`{"customerName":"A","customerPhone":"0912","address":"X","paymentMethod":"pickup"}`))
	_, ok = resp["bankTransfer"]
	assert.False(t, ok)
	assert.Equal(t, "pickup", resp["form"].(map[string]any)["paymentMethod"])
}

func TestFacadeServerRejectionKeepsCart(t *testing.T) {
	b := &backend{orderResponse: `{"status":"error","message":"sheet locked"}`}
	mux := newTestFacade(t, b)

	do(t, mux, http.MethodPost, "/api/cart/items", `{"id":"product-1"}`)
	fillCheckout(t, mux)

	rec := do(t, mux, http.MethodPost, "/api/checkout/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode(t, rec)
	assert.Equal(t, "failed", result["outcome"])
	assert.Equal(t, "sheet locked", result["message"])

	// Cart and form survive for a corrected retry.
	cart := decode(t, do(t, mux, http.MethodGet, "/api/cart", ""))
	assert.Equal(t, 1.0, cart["count"])
}

func TestFacadeIndeterminateOutcome(t *testing.T) {
	b := &backend{orderResponse: `<html>not an envelope</html>`}
	mux := newTestFacade(t, b)

	do(t, mux, http.MethodPost, "/api/cart/items", `{"id":"product-1"}`)
	fillCheckout(t, mux)

	rec := do(t, mux, http.MethodPost, "/api/checkout/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode(t, rec)
	assert.Equal(t, "indeterminate", result["outcome"])

	// Never silently assume success: the cart must not be cleared.
	cart := decode(t, do(t, mux, http.MethodGet, "/api/cart", ""))
	assert.Equal(t, 1.0, cart["count"])

	// A warning toast tells the user the order may have been received.
	notifications := decode(t, do(t, mux, http.MethodGet, "/api/notifications", ""))
	toast := notifications["toast"].(map[string]any)
	assert.Equal(t, "warning", toast["level"])
	assert.Equal(t, "indeterminate", notifications["submitState"])

	// Retry stays available.
	rec = do(t, mux, http.MethodPost, "/api/checkout/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestFacadeSubmitValidation(t *testing.T) {
	mux := newTestFacade(t, &backend{})

	t.Run("empty cart fails before fields", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/checkout/submit", "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "VALIDATION", resp["code"])
		assert.Contains(t, resp["error"], "cart is empty")
	})

	t.Run("transfer without last5 fails", func(t *testing.T) {
		do(t, mux, http.MethodPost, "/api/cart/items", `{"id":"product-1"}`)
		rec := do(t, mux, http.MethodPut, "/api/checkout",
			`{"customerName":"A","customerPhone":"0912","address":"X","paymentMethod":"transfer","last5Digits":""}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, mux, http.MethodPost, "/api/checkout/submit", "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decode(t, rec)["error"], "last 5 digits")
	})
}

func TestFacadeCartRoutes(t *testing.T) {
	mux := newTestFacade(t, &backend{})

	t.Run("unknown product -> 404", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/cart/items", `{"id":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("set quantity and remove", func(t *testing.T) {
		do(t, mux, http.MethodPost, "/api/cart/items", `{"id":"product-1"}`)

		rec := do(t, mux, http.MethodPut, "/api/cart/items/product-1", `{"quantity":4}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 4.0, decode(t, rec)["count"])

		rec = do(t, mux, http.MethodDelete, "/api/cart/items/product-1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0.0, decode(t, rec)["count"])
	})
}
