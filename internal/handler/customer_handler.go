package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/customer-records/internal/service"
)

// maxBodyBytes caps request bodies accepted by customer endpoints
const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON value")

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// Routes mounts the customer endpoints on r
func (h *CustomerHandler) Routes(r chi.Router) {
	r.Get("/", h.ListCustomers)
	r.Post("/", h.CreateCustomer)
	r.Get("/{id}", h.GetCustomer)
	r.Put("/{id}", h.UpdateCustomer)
	r.Delete("/{id}", h.DeleteCustomer)
}

// ListCustomers handles GET /api/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customers)
}

// CreateCustomer handles POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	customer, err := h.customerService.Create(r.Context(), body)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, customer)
}

// GetCustomer handles GET /api/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// UpdateCustomer handles PUT /api/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	customer, err := h.customerService.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// DeleteCustomer handles DELETE /api/customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customerService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondNoContent(w)
}

// decodeBody reads the request body as a single untyped JSON value. An empty
// body decodes to an empty object so validation can report the missing
// fields.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var body any
	err := dec.Decode(&body)
	if errors.Is(err, io.EOF) {
		return map[string]any{}, true
	}
	if err == nil {
		// anything but whitespace after the value is rejected
		if trailing := dec.Decode(&struct{}{}); !errors.Is(trailing, io.EOF) {
			err = trailing
			if err == nil {
				err = errTrailingData
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "Request body too large")
			return nil, false
		}
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "Invalid JSON format")
		return nil, false
	}
	return body, true
}
