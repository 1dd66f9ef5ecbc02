package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	db *gorm.DB
	mu sync.RWMutex
)

// InitDB stores the shared database connection. The first call wins.
func InitDB(database *gorm.DB) {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		db = database
	}
}

// GetDB returns the shared database connection.
func GetDB() *gorm.DB {
	mu.RLock()
	defer mu.RUnlock()
	return db
}
