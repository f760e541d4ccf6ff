package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	cartapp "github.com/riceschool/storefront/internal/cart/app"
	cartdomain "github.com/riceschool/storefront/internal/cart/domain"
	catalogapp "github.com/riceschool/storefront/internal/catalog/app"
	catalogdomain "github.com/riceschool/storefront/internal/catalog/domain"
	checkoutapp "github.com/riceschool/storefront/internal/checkout/app"
	checkoutdomain "github.com/riceschool/storefront/internal/checkout/domain"
	"github.com/riceschool/storefront/internal/notify"
	orderapp "github.com/riceschool/storefront/internal/order/app"
	orderdomain "github.com/riceschool/storefront/internal/order/domain"
	"github.com/riceschool/storefront/pkg/apperr"
)

// server is the thin HTTP facade the storefront UI talks to. It owns no
// business state of its own; everything lives in the pipeline components.
type server struct {
	log       *slog.Logger
	catalog   *catalogapp.Service
	cart      *cartapp.Store
	form      *checkoutapp.FormStore
	submitter *orderapp.Submitter
	center    *notify.Center
	bank      checkoutdomain.BankTransfer
}

// newServer wires the pipeline's cross-component hooks: terminal submission
// outcomes surface through the notification center, and dismissing the
// success modal clears the cart and form together before the machine idles.
func newServer(
	log *slog.Logger,
	catalog *catalogapp.Service,
	cart *cartapp.Store,
	form *checkoutapp.FormStore,
	submitter *orderapp.Submitter,
	center *notify.Center,
	bank checkoutdomain.BankTransfer,
) *server {
	submitter.OnOutcome(func(res orderdomain.Result) {
		switch res.Outcome {
		case orderdomain.OutcomeSucceeded:
			center.ShowSuccess(res.OrderID)
		case orderdomain.OutcomeFailed:
			center.Toast(notify.LevelError, "order rejected: "+res.Message)
		case orderdomain.OutcomeIndeterminate:
			center.Toast(notify.LevelWarning, res.Message)
		}
	})

	center.OnSuccessDismiss(func() {
		cart.Clear()
		form.Reset()
		submitter.Acknowledge()
	})

	return &server{
		log:       log,
		catalog:   catalog,
		cart:      cart,
		form:      form,
		submitter: submitter,
		center:    center,
		bank:      bank,
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	mux.HandleFunc("GET /api/products", s.handleProducts)
	mux.HandleFunc("POST /api/catalog/refresh", s.handleCatalogRefresh)

	mux.HandleFunc("GET /api/cart", s.handleCartGet)
	mux.HandleFunc("POST /api/cart/items", s.handleCartAdd)
	mux.HandleFunc("PUT /api/cart/items/{id}", s.handleCartSetQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", s.handleCartRemove)

	mux.HandleFunc("GET /api/checkout", s.handleCheckoutGet)
	mux.HandleFunc("PUT /api/checkout", s.handleCheckoutUpdate)
	mux.HandleFunc("POST /api/checkout/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/order/ack", s.handleAcknowledge)

	mux.HandleFunc("GET /api/notifications", s.handleNotifications)
	return mux
}

func (s *server) handleProducts(w http.ResponseWriter, r *http.Request) {
	catalog := s.catalog.Catalog()
	brand := r.URL.Query().Get("brand")
	products := catalog.Filter(brand)
	if products == nil {
		products = []catalogdomain.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"brands":   catalog.Brands(),
		"loaded":   s.catalog.Loaded(),
	})
}

func (s *server) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Refresh(r.Context()); err != nil {
		s.center.Toast(notify.LevelError, "could not load products, please try again later")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": s.catalog.Catalog().Len(),
	})
}

func (s *server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	s.writeCart(w)
}

func (s *server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if s.blockedByModal(w) {
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "product id is required"})
		return
	}
	p, ok := s.catalog.Catalog().Lookup(req.ID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown product"})
		return
	}
	s.cart.Add(cartdomain.ProductInfo{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	})
	s.writeCart(w)
}

func (s *server) handleCartSetQuantity(w http.ResponseWriter, r *http.Request) {
	if s.blockedByModal(w) {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "quantity is required"})
		return
	}
	s.cart.SetQuantity(r.PathValue("id"), req.Quantity)
	s.writeCart(w)
}

func (s *server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if s.blockedByModal(w) {
		return
	}
	s.cart.Remove(r.PathValue("id"))
	s.writeCart(w)
}

func (s *server) handleCheckoutGet(w http.ResponseWriter, r *http.Request) {
	s.writeCheckout(w, s.form.Get())
}

func (s *server) handleCheckoutUpdate(w http.ResponseWriter, r *http.Request) {
	if s.blockedByModal(w) {
		return
	}
	var f checkoutdomain.Form
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed form"})
		return
	}
	s.writeCheckout(w, s.form.Update(f))
}

// writeCheckout renders the form together with the shop's bank account,
// which only shows while the transfer method is selected.
func (s *server) writeCheckout(w http.ResponseWriter, f checkoutdomain.Form) {
	resp := map[string]any{"form": f}
	if f.PaymentMethod == checkoutdomain.PaymentTransfer {
		resp["bankTransfer"] = s.bank
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.blockedByModal(w) {
		return
	}

	cart := s.cart.Snapshot()
	form := s.form.Get()
	if err := checkoutapp.Validate(cart, form); err != nil {
		writeError(w, err)
		return
	}

	order := orderdomain.Build(cart, form)
	res, err := s.submitter.Submit(r.Context(), order)
	if errors.Is(err, orderapp.ErrSubmissionInFlight) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	// Success acknowledgement goes through the modal so the registered
	// reset hooks run; every other terminal state just returns to idle.
	if s.submitter.State() == orderapp.StateSucceeded {
		s.center.DismissSuccess()
	} else {
		s.submitter.Acknowledge()
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": s.submitter.State()})
}

func (s *server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"submitState": s.submitter.State(),
	}
	if toast, ok := s.center.CurrentToast(); ok {
		resp["toast"] = toast
	}
	orderID, open := s.center.SuccessModal()
	resp["modal"] = map[string]any{"open": open, "orderId": orderID}
	if res, ok := s.submitter.Result(); ok {
		resp["lastResult"] = res
	}
	writeJSON(w, http.StatusOK, resp)
}

// blockedByModal rejects cart and checkout mutation while the success modal
// is waiting to be dismissed.
func (s *server) blockedByModal(w http.ResponseWriter) bool {
	if s.center.ModalOpen() {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": "dismiss the order confirmation first",
		})
		return true
	}
	return false
}

func (s *server) writeCart(w http.ResponseWriter) {
	cart := s.cart.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"items": cart.Items,
		"total": cart.Total(),
		"count": cart.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status, code := httpStatusFromErr(err)
	writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"code":  code,
	})
}

func httpStatusFromErr(err error) (int, string) {
	var (
		validationErr *apperr.ValidationError
		transportErr  *apperr.TransportError
		statusErr     *apperr.HTTPStatusError
		parseErr      *apperr.ParseError
		serverErr     *apperr.ServerError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, "VALIDATION"
	case errors.As(err, &transportErr), errors.As(err, &statusErr):
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	case errors.As(err, &parseErr):
		return http.StatusBadGateway, "UPSTREAM_MALFORMED"
	case errors.As(err, &serverErr):
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
