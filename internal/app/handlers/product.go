package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/galaydia/marketplace/internal/security/jwtmiddleware"
	"github.com/galaydia/marketplace/internal/service"
	"github.com/galaydia/marketplace/internal/storage"
)

// CreateProductRequest lists a new product for sale. The seller is the
// authenticated caller; price is bounded per the catalog rules.
type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,max=50"`
	Price         float64 `json:"price" validate:"gte=0,lte=10000"`
	Description   string  `json:"description" validate:"required,max=1000"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
	Location      string  `json:"location" validate:"required,max=100"`
	ProductTypeID int64   `json:"product_type" validate:"required,gt=0"`
}

// UpdateProductRequest mutates only the stock count; other fields of a
// listing are fixed once created.
type UpdateProductRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// ProductListHandler handles GET /products with optional ?category= and
// ?location= filters. Filtered browsing hides sold-out products.
func ProductListHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductListHandler"
		logger := log.With(slog.String("op", op))

		var filter storage.ProductFilter
		if category := r.URL.Query().Get("category"); category != "" {
			id, err := strconv.ParseInt(category, 10, 64)
			if err != nil {
				writeError(w, logger, http.StatusBadRequest, "invalid category id")
				return
			}
			filter.CategoryID = &id
		}
		if location := r.URL.Query().Get("location"); location != "" {
			filter.Location = &location
		}

		products, err := productService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

// ProductGetHandler handles GET /products/{id}. Sold-out products are still
// retrievable by id.
func ProductGetHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductGetHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product id")
			return
		}

		product, err := productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Error("failed to get product", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}

func ProductCreateHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductCreateHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req CreateProductRequest
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

		product, err := productService.CreateProduct(r.Context(), userID, service.NewProductInput{
			Name:          req.Name,
			Price:         req.Price,
			Description:   req.Description,
			Quantity:      req.Quantity,
			Location:      req.Location,
			ProductTypeID: req.ProductTypeID,
		})
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusCreated, product)
	}
}

func ProductUpdateHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductUpdateHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product id")
			return
		}

		var req UpdateProductRequest
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

		if err := productService.UpdateProductQuantity(r.Context(), id, req.Quantity); err != nil {
			logger.Error("failed to update product", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ProductDeleteHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductDeleteHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product id")
			return
		}

		if err := productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("failed to delete product", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
