package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/routes"
	"github.com/danuartha/kopistore/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type env struct {
	handler http.Handler
	db      *gorm.DB
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Stock{},
		&models.Cart{}, &models.CartItem{},
		&models.Transaction{}, &models.TransactionItem{},
	))

	return &env{handler: routes.New(db), db: db}
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *env) adminToken(t *testing.T) string {
	t.Helper()

	admin := models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: "x",
		Phone:        "0800",
		Address:      "HQ",
		IsAdmin:      true,
	}
	require.NoError(t, e.db.Create(&admin).Error)

	token, err := auth.GenerateToken(admin.ID, true)
	require.NoError(t, err)
	return token
}

func (e *env) seedProduct(t *testing.T, name string, qty int) models.Product {
	t.Helper()

	product := models.Product{
		Name:        name,
		Price:       decimal.RequireFromString("95000"),
		Category:    "arabica",
		IsAvailable: true,
	}
	require.NoError(t, e.db.Create(&product).Error)
	require.NoError(t, e.db.Create(&models.Stock{
		ProductID:   product.ID,
		Quantity:    qty,
		MinStock:    models.DefaultMinStock,
		LastRestock: time.Now(),
	}).Error)
	return product
}

type apiResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var out apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginCheckoutFlow(t *testing.T) {
	e := newEnv(t)
	product := e.seedProduct(t, "Gayo Arabica", 20)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
		"phone":    "0811111111",
		"address":  "Jl. Dago No. 5, Bandung",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &login))
	require.NotEmpty(t, login.Token)

	rec = e.do(t, http.MethodPost, "/api/v1/cart/items", login.Token, map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/v1/transactions/checkout", login.Token, map[string]interface{}{
		"from_cart":      true,
		"payment_method": "bank_transfer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var trx struct {
		TransactionCode string `json:"transaction_code"`
		Status          string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &trx))
	assert.Regexp(t, `^TRX-\d{8}-[A-Z0-9]{6}$`, trx.TransactionCode)
	assert.Equal(t, models.StatusPending, trx.Status)

	var stock models.Stock
	require.NoError(t, e.db.Where("product_id = ?", product.ID).First(&stock).Error)
	assert.Equal(t, 18, stock.Quantity)
}

func TestBadCredentialsReturn401(t *testing.T) {
	e := newEnv(t)

	e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "erin",
		"email":    "erin@example.com",
		"password": "secret123",
		"phone":    "0811111111",
		"address":  "Jl. Cihampelas",
	})

	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "erin@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInsufficientStockReturns400(t *testing.T) {
	e := newEnv(t)
	product := e.seedProduct(t, "Limited Lot", 1)

	e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "secret123",
		"phone":    "0811111111",
		"address":  "Jl. Braga",
	})
	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "secret123",
	})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &login))

	rec = e.do(t, http.MethodPost, "/api/v1/transactions/checkout", login.Token, map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": product.ID, "quantity": 5}},
		"payment_method": "cod",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec).Message, "insufficient stock")
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	e := newEnv(t)

	// Anonymous.
	rec := e.do(t, http.MethodGet, "/api/v1/stocks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Regular user.
	e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "secret123",
		"phone":    "0811111111",
		"address":  "Jl. Asia Afrika",
	})
	rec = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "carol@example.com", "password": "secret123",
	})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &login))

	rec = e.do(t, http.MethodGet, "/api/v1/stocks", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin.
	rec = e.do(t, http.MethodGet, "/api/v1/stocks", e.adminToken(t), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidationErrorsReturn422(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "x",
		"email":    "not-an-email",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	var errs map[string]string
	require.NoError(t, json.Unmarshal(body.Errors, &errs))
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestUpdateStatusEndpoint(t *testing.T) {
	e := newEnv(t)
	product := e.seedProduct(t, "Gayo", 5)
	admin := e.adminToken(t)

	user := models.User{
		Username: "dave", Email: "dave@example.com", PasswordHash: "x",
		Phone: "0800", Address: "Jl. Riau",
	}
	require.NoError(t, e.db.Create(&user).Error)
	token, err := auth.GenerateToken(user.ID, false)
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/v1/transactions/checkout", token, map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": product.ID, "quantity": 1}},
		"payment_method": "cod",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var trx struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &trx))
	statusPath := fmt.Sprintf("/api/v1/transactions/%d/status", trx.ID)

	rec = e.do(t, http.MethodPut, statusPath, admin, map[string]string{
		"status": "paid",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPut, statusPath, admin, map[string]string{
		"status": "nonsense",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
