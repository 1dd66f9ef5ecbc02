package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Section{},
		&models.Table{},
		&models.Category{},
		&models.MenuItem{},
		&models.Modifier{},
		&models.ModifierOption{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemModifier{},
		&models.DeliveryInfo{},
		&models.Driver{},
		&models.Reservation{},
		&models.Transaction{},
	))
	return db
}

// envelope mirrors the JSON response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func performRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func seedTestTable(t *testing.T, db *gorm.DB, number string, capacity int) models.Table {
	t.Helper()
	section := models.Section{Name: "Main Hall", IsActive: true}
	require.NoError(t, db.FirstOrCreate(&section, models.Section{Name: "Main Hall"}).Error)

	table := models.Table{
		Number:    number,
		SectionID: section.ID,
		Capacity:  capacity,
		Status:    models.TableStatusAvailable,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func seedTestMenuItem(t *testing.T, db *gorm.DB, name string, price float64) models.MenuItem {
	t.Helper()
	category := models.Category{Name: "Mains", IsActive: true}
	require.NoError(t, db.FirstOrCreate(&category, models.Category{Name: "Mains"}).Error)

	item := models.MenuItem{
		CategoryID:      category.ID,
		Name:            name,
		Price:           price,
		FoodType:        "non_veg",
		PreparationTime: 15,
		IsAvailable:     true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}
