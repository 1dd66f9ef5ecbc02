package models

import "time"

// Table statuses
const (
	TableStatusAvailable   = "available"
	TableStatusOccupied    = "occupied"
	TableStatusReserved    = "reserved"
	TableStatusMaintenance = "maintenance"
)

type Section struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Tables      []Table   `gorm:"foreignKey:SectionID" json:"tables,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

type Table struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Number    string  `gorm:"type:varchar(10);not null;uniqueIndex:idx_table_number_section" json:"number"`
	SectionID uint    `gorm:"not null;uniqueIndex:idx_table_number_section" json:"section_id"`
	Section   Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	Capacity  int     `gorm:"not null;default:4" json:"capacity"`
	Status    string  `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	// CustomerName is stamped by reservation side effects and cleared on cancel.
	CustomerName string `gorm:"type:varchar(100)" json:"customer_name"`
	// CurrentOrderID is a non-owning back-reference; deleting the order must
	// clear it rather than leave a dangling pointer.
	CurrentOrderID *uint     `gorm:"index" json:"current_order_id,omitempty"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
