package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/router"
	"restaurant-pos/utils"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) (*testAPI, *gorm.DB) {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	autoMigrate(db)
	utils.InitDB(db)

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret-pw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{
		Name:     "Manager",
		Email:    "manager@example.com",
		Password: string(hashed),
		Role:     "manager",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	api := &testAPI{t: t, engine: router.SetupRouter(db)}

	w, env := api.do(http.MethodPost, "/login", gin.H{
		"email":    "manager@example.com",
		"password": "s3cret-pw",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Access)
	api.token = login.Access

	return api, db
}

func (a *testAPI) do(method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env apiResponse
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *testAPI) decode(env apiResponse, out interface{}) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(env.Data, out))
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	api, _ := newTestAPI(t)

	bare := &testAPI{t: t, engine: api.engine}
	w, _ := bare.do(http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	api, db := newTestAPI(t)

	// Build the catalog and a table through the API.
	w, env := api.do(http.MethodPost, "/menu/categories", gin.H{"name": "Mains"})
	require.Equal(t, http.StatusCreated, w.Code)
	var category models.Category
	api.decode(env, &category)

	w, env = api.do(http.MethodPost, "/menu/items", gin.H{
		"category_id":      category.ID,
		"name":             "Nasi Goreng",
		"price":            10.00,
		"food_type":        "non_veg",
		"preparation_time": 15,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var menuItem models.MenuItem
	api.decode(env, &menuItem)

	w, env = api.do(http.MethodPost, "/sections", gin.H{"name": "Main Hall"})
	require.Equal(t, http.StatusCreated, w.Code)
	var section models.Section
	api.decode(env, &section)

	w, env = api.do(http.MethodPost, "/tables", gin.H{
		"number":     "T1",
		"section_id": section.ID,
		"capacity":   4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var table models.Table
	api.decode(env, &table)

	// Open an order with three portions.
	w, env = api.do(http.MethodPost, "/orders", gin.H{
		"table_id":    table.ID,
		"dining_mode": models.DiningModeDineIn,
		"items": []gin.H{
			{"menu_item_id": menuItem.ID, "quantity": 3},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	api.decode(env, &order)
	assert.Equal(t, 30.00, order.Subtotal)
	assert.Equal(t, 1.50, order.Tax)
	assert.Equal(t, 31.50, order.Total)

	var occupied models.Table
	require.NoError(t, db.First(&occupied, table.ID).Error)
	assert.Equal(t, models.TableStatusOccupied, occupied.Status)

	// One more portion via the item endpoint.
	w, env = api.do(http.MethodPost, "/order-items", gin.H{
		"order_id":     order.ID,
		"menu_item_id": menuItem.ID,
		"quantity":     1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	api.decode(env, &order)
	assert.Equal(t, 40.00, order.Subtotal)
	assert.Equal(t, 42.00, order.Total)

	// Kitchen takes it, then the sale closes the payment.
	w, env = api.do(http.MethodPatch, fmt.Sprintf("/orders/%d/status", order.ID),
		gin.H{"status": models.OrderStatusProcessing})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(http.MethodPost, "/accounting/transactions", gin.H{
		"order_id": order.ID,
		"type":     models.TransactionTypeSale,
		"amount":   order.Total,
		"method":   models.PaymentMethodCash,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = api.do(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	api.decode(env, &order)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	// Completing frees the table.
	w, env = api.do(http.MethodPatch, fmt.Sprintf("/orders/%d/status", order.ID),
		gin.H{"status": models.OrderStatusCompleted})
	require.Equal(t, http.StatusOK, w.Code)

	var freed models.Table
	require.NoError(t, db.First(&freed, table.ID).Error)
	assert.Equal(t, models.TableStatusAvailable, freed.Status)
	assert.Nil(t, freed.CurrentOrderID)

	// Going backwards is refused.
	w, _ = api.do(http.MethodPatch, fmt.Sprintf("/orders/%d/status", order.ID),
		gin.H{"status": models.OrderStatusPending})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKitchenDisplayOverHTTP(t *testing.T) {
	api, db := newTestAPI(t)

	pending := models.Order{Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusUnpaid, DiningMode: models.DiningModeDineIn}
	require.NoError(t, db.Create(&pending).Error)
	done := models.Order{Status: models.OrderStatusCompleted, PaymentStatus: models.PaymentStatusPaid, DiningMode: models.DiningModeDineIn}
	require.NoError(t, db.Create(&done).Error)

	w, env := api.do(http.MethodGet, "/kitchen/display", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	api.decode(env, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, pending.ID, orders[0].ID)
}
