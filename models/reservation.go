package models

import (
	"fmt"
	"time"
)

// Reservation statuses
const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusPending   = "pending"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// Reservation books a table for a party on a single date. Date is stored as
// YYYY-MM-DD and Time as HH:MM; bookings never span midnight.
type Reservation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TableID      uint      `gorm:"not null;index" json:"table_id"`
	Table        Table     `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"table,omitempty"`
	CustomerName string    `gorm:"type:varchar(100);not null" json:"customer_name"`
	ContactPhone string    `gorm:"type:varchar(20);not null" json:"contact_phone"`
	Email        string    `gorm:"type:varchar(100)" json:"email"`
	Date         string    `gorm:"type:varchar(10);not null;index" json:"date"`
	Time         string    `gorm:"type:varchar(5);not null" json:"time"`
	Duration     int       `gorm:"not null;default:120" json:"duration"`
	PartySize    int       `gorm:"not null" json:"party_size"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// StartMinutes converts the reservation time to minutes since midnight.
func (r *Reservation) StartMinutes() (int, error) {
	return ParseClock(r.Time)
}

// ParseClock parses a strict HH:MM clock string to minutes since midnight.
// Trailing text and single-digit minutes are rejected.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidDate reports whether date is a well-formed YYYY-MM-DD day.
func ValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
