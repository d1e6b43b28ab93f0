package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"datex/models"
	"datex/services/product"
	"datex/services/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) Create(_ context.Context, u *models.User, in product.ProductInput) (*models.Product, error) {
	args := m.Called(u, in)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductService) List(_ context.Context, userID string) ([]models.Product, error) {
	args := m.Called(userID)
	if p := args.Get(0); p != nil {
		return p.([]models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductService) Update(_ context.Context, userID, id string, in product.ProductInput) (*models.Product, error) {
	args := m.Called(userID, id, in)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductService) Delete(_ context.Context, userID, id string) error {
	return m.Called(userID, id).Error(0)
}

func (m *mockProductService) Summary(_ context.Context, userID string) (*models.ProductSummary, error) {
	args := m.Called(userID)
	if s := args.Get(0); s != nil {
		return s.(*models.ProductSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(_ context.Context, email, password string) (*user.AuthResponse, error) {
	args := m.Called(email, password)
	if r := args.Get(0); r != nil {
		return r.(*user.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) Authenticate(_ context.Context, email, password string) (*user.AuthResponse, error) {
	args := m.Called(email, password)
	if r := args.Get(0); r != nil {
		return r.(*user.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) GoogleSignIn(_ context.Context, idToken string) (*user.AuthResponse, error) {
	args := m.Called(idToken)
	if r := args.Get(0); r != nil {
		return r.(*user.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) Logout(_ context.Context, userID string) error {
	return m.Called(userID).Error(0)
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) RegisterDeviceToken(_ context.Context, userID, token string) error {
	return m.Called(userID, token).Error(0)
}

var handlerNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newProductRouter wires the handler behind a stub auth middleware that
// injects the user ID the same way JWTAuthMiddleware does.
func newProductRouter(products *mockProductService, users *mockUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewProductHandler(products, users)
	h.Now = func() time.Time { return handlerNow }

	r := gin.New()
	api := r.Group("/api/products")
	api.Use(func(c *gin.Context) { c.Set("userID", "u1") })
	api.GET("", h.ListProductsHandler)
	api.POST("", h.CreateProductHandler)
	api.GET("/summary", h.SummaryHandler)
	api.PUT("/:id", h.UpdateProductHandler)
	api.DELETE("/:id", h.DeleteProductHandler)
	return r
}

func TestListProductsDecoratesWithStatus(t *testing.T) {
	products := &mockProductService{}
	products.On("List", "u1").Return([]models.Product{
		{ID: "p1", UserID: "u1", Name: "Milk", Expiry: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)},
		{ID: "p2", UserID: "u1", Name: "Yoghurt", Expiry: time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC)},
	}, nil)

	r := newProductRouter(products, &mockUserService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "Expiring Soon", views[0]["status"])
	assert.Equal(t, float64(3), views[0]["daysLeft"])
	assert.Equal(t, "Expired", views[1]["status"])
	products.AssertExpectations(t)
}

func TestCreateProductValidPayload(t *testing.T) {
	account := &models.User{ID: "u1", Email: "sam@example.com"}

	products := &mockProductService{}
	users := &mockUserService{}
	users.On("GetUserByID", "u1").Return(account, nil)
	products.On("Create", account, mock.MatchedBy(func(in product.ProductInput) bool {
		return in.Name == "Milk" && in.Expiry.Equal(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC))
	})).Return(&models.Product{ID: "p1", UserID: "u1", Name: "Milk"}, nil)

	body := `{"product":"Milk","expiry":"2024-01-04","category":"Food","quantity":1,"remindBefore":"3days"}`
	r := newProductRouter(products, users)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	products.AssertExpectations(t)
}

func TestCreateProductRejectsInvalidPayload(t *testing.T) {
	cases := map[string]string{
		"bad category":     `{"product":"Milk","expiry":"2024-01-04","category":"Toys","quantity":1,"remindBefore":"3days"}`,
		"bad date format":  `{"product":"Milk","expiry":"04/01/2024","category":"Food","quantity":1,"remindBefore":"3days"}`,
		"zero quantity":    `{"product":"Milk","expiry":"2024-01-04","category":"Food","quantity":0,"remindBefore":"3days"}`,
		"bad remindBefore": `{"product":"Milk","expiry":"2024-01-04","category":"Food","quantity":1,"remindBefore":"2weeks"}`,
		"missing name":     `{"expiry":"2024-01-04","category":"Food","quantity":1,"remindBefore":"3days"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			r := newProductRouter(&mockProductService{}, &mockUserService{})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	products := &mockProductService{}
	products.On("Update", "u1", "missing", mock.Anything).
		Return(nil, errorNotFound("product with id missing not found"))

	body := `{"product":"Milk","expiry":"2024-01-04","category":"Food","quantity":1,"remindBefore":"3days"}`
	r := newProductRouter(products, &mockUserService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/products/missing", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	products := &mockProductService{}
	products.On("Delete", "u1", "p1").Return(nil)

	r := newProductRouter(products, &mockUserService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertExpectations(t)
}

func TestSummaryHandler(t *testing.T) {
	products := &mockProductService{}
	products.On("Summary", "u1").Return(&models.ProductSummary{Total: 4, NearExpiry: 2, Expired: 1}, nil)

	r := newProductRouter(products, &mockUserService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/summary", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary models.ProductSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.NearExpiry)
	assert.Equal(t, 1, summary.Expired)
}

type errorNotFound string

func (e errorNotFound) Error() string { return string(e) }
