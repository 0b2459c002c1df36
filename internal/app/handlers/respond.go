package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/galaydia/marketplace/internal/service"
	"github.com/galaydia/marketplace/internal/storage"
)

var validate = validator.New()

// ErrorResponse is the JSON body for every non-2xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, message string) {
	writeJSON(w, log, status, ErrorResponse{Message: message})
}

// writeServiceError maps known sentinel errors onto HTTP statuses instead of
// collapsing everything into a 500.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, storage.ErrProductNotFound),
		errors.Is(err, storage.ErrProductTypeNotFound),
		errors.Is(err, storage.ErrPaymentTypeNotFound),
		errors.Is(err, storage.ErrOrderNotFound),
		errors.Is(err, storage.ErrOrderProductNotFound),
		errors.Is(err, storage.ErrCustomerNotFound),
		errors.Is(err, storage.ErrUserNotFound):
		writeError(w, log, http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, service.ErrOrderAlreadyCompleted):
		writeError(w, log, http.StatusConflict, "order already completed")
	case errors.Is(err, storage.ErrUserAlreadyExists):
		writeError(w, log, http.StatusConflict, "user already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, log, http.StatusUnauthorized, "invalid credentials")
	default:
		writeError(w, log, http.StatusInternalServerError, "internal server error")
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrProductNotFound):
		return "product not found"
	case errors.Is(err, storage.ErrProductTypeNotFound):
		return "product type not found"
	case errors.Is(err, storage.ErrPaymentTypeNotFound):
		return "payment type not found"
	case errors.Is(err, storage.ErrOrderNotFound):
		return "order not found"
	case errors.Is(err, storage.ErrOrderProductNotFound):
		return "order line item not found"
	case errors.Is(err, storage.ErrCustomerNotFound):
		return "customer not found"
	default:
		return "not found"
	}
}

// idParam extracts the {id} URL parameter as an int64.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
