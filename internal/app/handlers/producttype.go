package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/galaydia/marketplace/internal/service"
)

type ProductTypeRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

func ProductTypeListHandler(log *slog.Logger, svc service.ProductTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductTypeListHandler"
		logger := log.With(slog.String("op", op))

		types, err := svc.ListProductTypes(r.Context())
		if err != nil {
			logger.Error("failed to list product types", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, types)
	}
}

func ProductTypeGetHandler(log *slog.Logger, svc service.ProductTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductTypeGetHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product type id")
			return
		}

		pt, err := svc.GetProductType(r.Context(), id)
		if err != nil {
			logger.Error("failed to get product type", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, pt)
	}
}

func ProductTypeCreateHandler(log *slog.Logger, svc service.ProductTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductTypeCreateHandler"
		logger := log.With(slog.String("op", op))

		var req ProductTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusUnprocessableEntity, "validation error")
			return
		}

		pt, err := svc.CreateProductType(r.Context(), req.Name)
		if err != nil {
			logger.Error("failed to create product type", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, pt)
	}
}

func ProductTypeUpdateHandler(log *slog.Logger, svc service.ProductTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductTypeUpdateHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product type id")
			return
		}

		var req ProductTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusUnprocessableEntity, "validation error")
			return
		}

		if err := svc.UpdateProductType(r.Context(), id, req.Name); err != nil {
			logger.Error("failed to update product type", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ProductTypeDeleteHandler(log *slog.Logger, svc service.ProductTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductTypeDeleteHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product type id")
			return
		}

		if err := svc.DeleteProductType(r.Context(), id); err != nil {
			logger.Error("failed to delete product type", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
