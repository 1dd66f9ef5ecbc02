package models

import "time"

// Driver statuses
const (
	DriverStatusAvailable  = "available"
	DriverStatusOnDelivery = "on_delivery"
	DriverStatusOffDuty    = "off_duty"
)

type Driver struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Phone   string `gorm:"type:varchar(20);not null" json:"phone"`
	Email   string `gorm:"type:varchar(100)" json:"email"`
	Vehicle string `gorm:"type:varchar(100)" json:"vehicle"`
	Status  string `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	// CurrentOrderID is a non-owning back-reference to the delivery the
	// driver is out on; cleared when the delivery completes.
	CurrentOrderID *uint     `gorm:"index" json:"current_order_id,omitempty"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
