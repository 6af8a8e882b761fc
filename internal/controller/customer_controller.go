// internal/controller/customer_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mjosh1982/customerservice-repo/internal/errors"
	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
}

// Routes returns the customer endpoints, meant to be mounted at /api/v1/customers.
func (c *CustomerController) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/all", c.GetAllCustomers)
	r.Get("/{id}", c.GetCustomerByID)
	r.Post("/add", c.AddCustomer)
	r.Delete("/delete/{id}", c.DeleteCustomer)
	r.Put("/update/{id}", c.UpdateCustomer)

	return r
}

func (c *CustomerController) GetAllCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.CustomerService.GetAllCustomers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, customers)
}

func (c *CustomerController) GetCustomerByID(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	customer, err := c.CustomerService.GetCustomerByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) AddCustomer(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	customer, err := c.CustomerService.AddCustomer(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	deleted, err := c.CustomerService.DeleteCustomerByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}

// UpdateCustomer loads the customer first so an unknown id answers 404 before
// the body is applied.
func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	customer, err := c.CustomerService.GetCustomerByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Age = req.Age

	updated, err := c.CustomerService.UpdateCustomerDetails(r.Context(), *customer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func customerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid customer id"})
		return 0, false
	}
	return id, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (model.CustomerRegistrationRequest, bool) {
	var req model.CustomerRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return req, false
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name and email are required"})
		return req, false
	}

	return req, true
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound  *appErrors.ErrCustomerNotFound
		duplicate *appErrors.ErrDuplicateEmail
	)

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &duplicate):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		logrus.WithError(err).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("failed to encode response")
	}
}
