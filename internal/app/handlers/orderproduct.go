package handlers

import (
	"log/slog"
	"net/http"

	"github.com/galaydia/marketplace/internal/service"
)

// Line items are created through the cart endpoints; this resource only
// supports inspection and removal.

func OrderProductListHandler(log *slog.Logger, svc service.OrderProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderProductListHandler"
		logger := log.With(slog.String("op", op))

		items, err := svc.ListOrderProducts(r.Context())
		if err != nil {
			logger.Error("failed to list line items", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, items)
	}
}

func OrderProductGetHandler(log *slog.Logger, svc service.OrderProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderProductGetHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid line item id")
			return
		}

		item, err := svc.GetOrderProduct(r.Context(), id)
		if err != nil {
			logger.Error("failed to get line item", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, item)
	}
}

func OrderProductDeleteHandler(log *slog.Logger, svc service.OrderProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderProductDeleteHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid line item id")
			return
		}

		if err := svc.DeleteOrderProduct(r.Context(), id); err != nil {
			logger.Error("failed to delete line item", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
