package models

import "time"

// Transaction types
const (
	TransactionTypeSale       = "sale"
	TransactionTypeRefund     = "refund"
	TransactionTypeExpense    = "expense"
	TransactionTypeAdjustment = "adjustment"
)

// Transaction is a financial record. Recording a sale against an order is
// the canonical way the order's payment status transitions to paid.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Reference   string    `gorm:"type:varchar(36);uniqueIndex" json:"reference"`
	OrderID     *uint     `gorm:"index" json:"order_id,omitempty"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method      string    `gorm:"type:varchar(20);not null" json:"method"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(50)" json:"category"`
	StaffID     *uint     `gorm:"index" json:"staff_id,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}
