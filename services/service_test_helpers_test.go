package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/utils"
)

// newTestDB opens a fresh named in-memory database per test so parallel and
// sequential tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

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

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64, discountPct int) models.MenuItem {
	t.Helper()

	category := models.Category{Name: "Mains", IsActive: true}
	require.NoError(t, db.FirstOrCreate(&category, models.Category{Name: "Mains"}).Error)

	item := models.MenuItem{
		CategoryID:         category.ID,
		Name:               name,
		Price:              price,
		DiscountPercentage: discountPct,
		FoodType:           "non_veg",
		PreparationTime:    15,
		IsAvailable:        true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedTable(t *testing.T, db *gorm.DB, number string, capacity int) models.Table {
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
