package models

import (
	"time"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Dining modes
const (
	DiningModeDineIn   = "dine_in"
	DiningModeTakeAway = "take_away"
	DiningModeDelivery = "delivery"
)

// Payment statuses
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusPartial  = "partial"
	PaymentStatusRefunded = "refunded"
)

// Payment methods
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodQRCode = "qr_code"
	PaymentMethodOther  = "other"
)

type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	TableID       *uint         `gorm:"index" json:"table_id,omitempty"`
	Table         *Table        `gorm:"foreignKey:TableID" json:"table,omitempty"`
	ServerID      *uint         `gorm:"index" json:"server_id,omitempty"`
	DiningMode    string        `gorm:"type:varchar(10);not null;default:'dine_in'" json:"dining_mode"`
	Status        string        `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus string        `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	PaymentMethod string        `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	Subtotal      float64       `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	Tax           float64       `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	Discount      float64       `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	Total         float64       `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Notes         string        `gorm:"type:text" json:"notes"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	DeliveryInfo  *DeliveryInfo `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"delivery_info,omitempty"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`
}

// ItemCount returns the total quantity across all line items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

type OrderItem struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	OrderID    uint                `gorm:"not null;index" json:"order_id"`
	Order      Order               `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint                `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem            `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item"`
	Quantity   int                 `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  float64             `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Notes      string              `gorm:"type:text" json:"notes"`
	Modifiers  []OrderItemModifier `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"modifiers"`
	CreatedAt  time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"not null" json:"updated_at"`
}

// TotalPrice is unit price times quantity. Unit price is captured from the
// menu item's discounted price when the line is added and is immutable
// afterwards, so catalog price changes never alter existing orders.
func (oi *OrderItem) TotalPrice() float64 {
	return oi.UnitPrice * float64(oi.Quantity)
}

type OrderItemModifier struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	OrderItemID      uint           `gorm:"not null;index" json:"order_item_id"`
	ModifierOptionID uint           `gorm:"not null" json:"modifier_option_id"`
	ModifierOption   ModifierOption `gorm:"foreignKey:ModifierOptionID" json:"modifier_option"`
	Quantity         int            `gorm:"not null;default:1" json:"quantity"`
	Price            float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
}

func (m *OrderItemModifier) TotalPrice() float64 {
	return m.Price * float64(m.Quantity)
}

// DeliveryInfo is the 1:1 delivery record of a delivery-mode order.
type DeliveryInfo struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	OrderID               uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	Address               string    `gorm:"type:text;not null" json:"address"`
	ContactName           string    `gorm:"type:varchar(100)" json:"contact_name"`
	ContactPhone          string    `gorm:"type:varchar(20)" json:"contact_phone"`
	DeliveryNotes         string    `gorm:"type:text" json:"delivery_notes"`
	EstimatedDeliveryTime string    `gorm:"type:varchar(50)" json:"estimated_delivery_time"`
	DriverID              *uint     `gorm:"index" json:"driver_id,omitempty"`
	CreatedAt             time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time `gorm:"not null" json:"updated_at"`
}
