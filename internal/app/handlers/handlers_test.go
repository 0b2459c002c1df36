package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/galaydia/marketplace/internal/app/handlers"
	"github.com/galaydia/marketplace/internal/domain/models"
	"github.com/galaydia/marketplace/internal/security/jwtmiddleware"
	"github.com/galaydia/marketplace/internal/service"
	"github.com/galaydia/marketplace/internal/storage"
)

type fakeAuthService struct {
	token string
	err   error
}

func (f *fakeAuthService) Register(ctx context.Context, username, password, address, phoneNumber string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return f.token, f.err
}

type fakeCartService struct {
	item     *models.OrderProduct
	order    *models.Order
	orders   []*models.Order
	products []*models.Product
	err      error
}

func (f *fakeCartService) AddToCart(ctx context.Context, userID, productID int64) (*models.OrderProduct, error) {
	return f.item, f.err
}

func (f *fakeCartService) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeCartService) GetCurrentOrder(ctx context.Context, userID int64) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeCartService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeCartService) ListCompletedOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeCartService) ListCartContents(ctx context.Context, userID int64) ([]*models.Product, error) {
	return f.products, f.err
}

func (f *fakeCartService) CompleteOrder(ctx context.Context, userID, orderID, paymentTypeID int64) error {
	return f.err
}

func (f *fakeCartService) RemoveFromCart(ctx context.Context, userID, productID int64) error {
	return f.err
}

func (f *fakeCartService) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	return f.err
}

type fakeProductService struct {
	product  *models.Product
	products []*models.Product
	err      error
}

func (f *fakeProductService) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*models.Product, error) {
	return f.products, f.err
}

func (f *fakeProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return f.product, f.err
}

func (f *fakeProductService) CreateProduct(ctx context.Context, userID int64, input service.NewProductInput) (*models.Product, error) {
	return f.product, f.err
}

func (f *fakeProductService) UpdateProductQuantity(ctx context.Context, id int64, quantity int) error {
	return f.err
}

func (f *fakeProductService) DeleteProduct(ctx context.Context, id int64) error {
	return f.err
}

type fakePaymentTypeService struct {
	paymentType *models.PaymentType
	types       []*models.PaymentType
	err         error
}

func (f *fakePaymentTypeService) ListPaymentTypes(ctx context.Context) ([]*models.PaymentType, error) {
	return f.types, f.err
}

func (f *fakePaymentTypeService) GetPaymentType(ctx context.Context, id int64) (*models.PaymentType, error) {
	return f.paymentType, f.err
}

func (f *fakePaymentTypeService) CreatePaymentType(ctx context.Context, userID int64, input service.NewPaymentTypeInput) (*models.PaymentType, error) {
	return f.paymentType, f.err
}

func (f *fakePaymentTypeService) UpdatePaymentType(ctx context.Context, id int64, input service.NewPaymentTypeInput) error {
	return f.err
}

func (f *fakePaymentTypeService) DeletePaymentType(ctx context.Context, id int64) error {
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// withAuth simulates the JWT middleware by putting a userID in the context.
func withAuth(req *http.Request, userID int64) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), jwtmiddleware.UserIDKey, userID))
}

// withIDParam simulates the chi router by setting the {id} URL parameter.
func withIDParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRegisterHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "test-token"}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "steve", "password": "password123", "address": "123 Main St", "phone_number": "555-0100"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp handlers.AuthResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "test-token", resp.Token)
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	handler := handlers.RegisterHandler(testLogger(), &fakeAuthService{})

	reqBody := `{"username": "steve", "password": "short", "address": "123 Main St", "phone_number": "555-0100"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRegisterHandler_DuplicateUsername(t *testing.T) {
	fakeSvc := &fakeAuthService{err: storage.ErrUserAlreadyExists}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "steve", "password": "password123", "address": "123 Main St", "phone_number": "555-0100"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLoginHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "test-token"}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "steve", "password": "password123"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.AuthResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "test-token", resp.Token)
}

func TestLoginHandler_InvalidJSON(t *testing.T) {
	handler := handlers.LoginHandler(testLogger(), &fakeAuthService{})

	reqBody := `{"username": "steve", "password":`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	fakeSvc := &fakeAuthService{err: service.ErrInvalidCredentials}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "steve", "password": "wrongpassword"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAddToCartHandler_Success(t *testing.T) {
	fakeSvc := &fakeCartService{item: &models.OrderProduct{ID: 1, OrderID: 10, ProductID: 7}}
	handler := handlers.AddToCartHandler(testLogger(), fakeSvc)

	reqBody := `{"product_id": 7}`
	req := withAuth(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp models.OrderProduct
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), resp.OrderID)
	assert.Equal(t, int64(7), resp.ProductID)
}

func TestAddToCartHandler_MissingUserID(t *testing.T) {
	handler := handlers.AddToCartHandler(testLogger(), &fakeCartService{})

	reqBody := `{"product_id": 7}`
	req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAddToCartHandler_MissingProductID(t *testing.T) {
	handler := handlers.AddToCartHandler(testLogger(), &fakeCartService{})

	req := withAuth(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(`{}`)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestAddToCartHandler_ProductNotFound(t *testing.T) {
	fakeSvc := &fakeCartService{err: storage.ErrProductNotFound}
	handler := handlers.AddToCartHandler(testLogger(), fakeSvc)

	reqBody := `{"product_id": 404}`
	req := withAuth(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCompleteOrderHandler_Success(t *testing.T) {
	handler := handlers.CompleteOrderHandler(testLogger(), &fakeCartService{})

	reqBody := `{"payment_type": 3}`
	req := httptest.NewRequest("PUT", "/orders/10", bytes.NewBufferString(reqBody))
	req = withIDParam(withAuth(req, 1), "10")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCompleteOrderHandler_InvalidOrderID(t *testing.T) {
	handler := handlers.CompleteOrderHandler(testLogger(), &fakeCartService{})

	reqBody := `{"payment_type": 3}`
	req := httptest.NewRequest("PUT", "/orders/abc", bytes.NewBufferString(reqBody))
	req = withIDParam(withAuth(req, 1), "abc")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCompleteOrderHandler_AlreadyCompleted(t *testing.T) {
	fakeSvc := &fakeCartService{err: service.ErrOrderAlreadyCompleted}
	handler := handlers.CompleteOrderHandler(testLogger(), fakeSvc)

	reqBody := `{"payment_type": 3}`
	req := httptest.NewRequest("PUT", "/orders/10", bytes.NewBufferString(reqBody))
	req = withIDParam(withAuth(req, 1), "10")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)

	var resp handlers.ErrorResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "order already completed", resp.Message)
}

func TestCompleteOrderHandler_ForeignPaymentType(t *testing.T) {
	fakeSvc := &fakeCartService{err: storage.ErrPaymentTypeNotFound}
	handler := handlers.CompleteOrderHandler(testLogger(), fakeSvc)

	reqBody := `{"payment_type": 3}`
	req := httptest.NewRequest("PUT", "/orders/10", bytes.NewBufferString(reqBody))
	req = withIDParam(withAuth(req, 1), "10")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrdersListHandler_CartParamNoOpenOrder(t *testing.T) {
	fakeSvc := &fakeCartService{err: storage.ErrOrderNotFound}
	handler := handlers.OrdersListHandler(testLogger(), fakeSvc)

	req := withAuth(httptest.NewRequest("GET", "/orders?cart=1", nil), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrdersListHandler_AllOrders(t *testing.T) {
	fakeSvc := &fakeCartService{orders: []*models.Order{{ID: 10, CustomerID: 5}}}
	handler := handlers.OrdersListHandler(testLogger(), fakeSvc)

	req := withAuth(httptest.NewRequest("GET", "/orders", nil), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []*models.Order
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, int64(10), resp[0].ID)
}

func TestCartContentsHandler_Success(t *testing.T) {
	fakeSvc := &fakeCartService{products: []*models.Product{
		{ID: 7, Name: "Kite"},
		{ID: 7, Name: "Kite"},
	}}
	handler := handlers.CartContentsHandler(testLogger(), fakeSvc)

	req := withAuth(httptest.NewRequest("GET", "/orders/cart", nil), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []*models.Product
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
}

func TestRemoveFromCartHandler_Success(t *testing.T) {
	handler := handlers.RemoveFromCartHandler(testLogger(), &fakeCartService{})

	reqBody := `{"product_id": 7}`
	req := withAuth(httptest.NewRequest("DELETE", "/orders/cart", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRemoveFromCartHandler_NotInCart(t *testing.T) {
	fakeSvc := &fakeCartService{err: storage.ErrOrderProductNotFound}
	handler := handlers.RemoveFromCartHandler(testLogger(), fakeSvc)

	reqBody := `{"product_id": 7}`
	req := withAuth(httptest.NewRequest("DELETE", "/orders/cart", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrderDeleteHandler_Success(t *testing.T) {
	handler := handlers.OrderDeleteHandler(testLogger(), &fakeCartService{})

	req := httptest.NewRequest("DELETE", "/orders/10", nil)
	req = withIDParam(withAuth(req, 1), "10")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestOrderGetHandler_Success(t *testing.T) {
	fakeSvc := &fakeCartService{order: &models.Order{ID: 10, CustomerID: 5}}
	handler := handlers.OrderGetHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/orders/10", nil)
	req = withIDParam(withAuth(req, 1), "10")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.Order
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
}

func TestOrderGetHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeCartService{err: storage.ErrOrderNotFound}
	handler := handlers.OrderGetHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/orders/404", nil)
	req = withIDParam(withAuth(req, 1), "404")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrderGetHandler_InvalidID(t *testing.T) {
	handler := handlers.OrderGetHandler(testLogger(), &fakeCartService{})

	req := httptest.NewRequest("GET", "/orders/abc", nil)
	req = withIDParam(withAuth(req, 1), "abc")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProductListHandler_Success(t *testing.T) {
	fakeSvc := &fakeProductService{products: []*models.Product{{ID: 7, Name: "Kite", Quantity: 5}}}
	handler := handlers.ProductListHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/products?category=2&location=Pittsburgh", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []*models.Product
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "Kite", resp[0].Name)
}

func TestProductListHandler_InvalidCategory(t *testing.T) {
	handler := handlers.ProductListHandler(testLogger(), &fakeProductService{})

	req := httptest.NewRequest("GET", "/products?category=electronics", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProductGetHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeProductService{err: storage.ErrProductNotFound}
	handler := handlers.ProductGetHandler(testLogger(), fakeSvc)

	req := withIDParam(httptest.NewRequest("GET", "/products/404", nil), "404")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductCreateHandler_Success(t *testing.T) {
	fakeSvc := &fakeProductService{product: &models.Product{ID: 7, Name: "Kite", Price: 14.99}}
	handler := handlers.ProductCreateHandler(testLogger(), fakeSvc)

	reqBody := `{"name": "Kite", "price": 14.99, "description": "A red kite", "quantity": 5, "location": "Pittsburgh", "product_type": 2}`
	req := withAuth(httptest.NewRequest("POST", "/products", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp models.Product
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
}

func TestProductCreateHandler_PriceOverLimit(t *testing.T) {
	handler := handlers.ProductCreateHandler(testLogger(), &fakeProductService{})

	reqBody := `{"name": "Yacht", "price": 25000, "description": "Too expensive", "quantity": 1, "location": "Miami", "product_type": 2}`
	req := withAuth(httptest.NewRequest("POST", "/products", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestProductUpdateHandler_Success(t *testing.T) {
	handler := handlers.ProductUpdateHandler(testLogger(), &fakeProductService{})

	reqBody := `{"quantity": 3}`
	req := httptest.NewRequest("PUT", "/products/7", bytes.NewBufferString(reqBody))
	req = withIDParam(req, "7")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPaymentTypeCreateHandler_Success(t *testing.T) {
	fakeSvc := &fakePaymentTypeService{paymentType: &models.PaymentType{ID: 3, MerchantName: "Visa"}}
	handler := handlers.PaymentTypeCreateHandler(testLogger(), fakeSvc)

	reqBody := `{"merchant_name": "Visa", "account_number": "4111111111111111", "expiration_date": "2027-05-01"}`
	req := withAuth(httptest.NewRequest("POST", "/paymenttypes", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp models.PaymentType
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "Visa", resp.MerchantName)
}

func TestPaymentTypeCreateHandler_BadExpirationDate(t *testing.T) {
	handler := handlers.PaymentTypeCreateHandler(testLogger(), &fakePaymentTypeService{})

	reqBody := `{"merchant_name": "Visa", "account_number": "4111111111111111", "expiration_date": "05/27"}`
	req := withAuth(httptest.NewRequest("POST", "/paymenttypes", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestPaymentTypeUpdateHandler_BadExpirationDate(t *testing.T) {
	handler := handlers.PaymentTypeUpdateHandler(testLogger(), &fakePaymentTypeService{})

	reqBody := `{"merchant_name": "Visa", "account_number": "4111111111111111", "expiration_date": "not-a-date"}`
	req := httptest.NewRequest("PUT", "/paymenttypes/3", bytes.NewBufferString(reqBody))
	req = withIDParam(withAuth(req, 1), "3")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestPaymentTypeDeleteHandler_NotFound(t *testing.T) {
	fakeSvc := &fakePaymentTypeService{err: storage.ErrPaymentTypeNotFound}
	handler := handlers.PaymentTypeDeleteHandler(testLogger(), fakeSvc)

	req := withIDParam(httptest.NewRequest("DELETE", "/paymenttypes/404", nil), "404")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
