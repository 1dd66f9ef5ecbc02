package models

import "time"

type Category struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Icon        string     `gorm:"type:varchar(50)" json:"icon"`
	Description string     `gorm:"type:text" json:"description"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	MenuItems   []MenuItem `gorm:"foreignKey:CategoryID" json:"menu_items,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

type MenuItem struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CategoryID         uint      `gorm:"not null;index" json:"category_id"`
	Name               string    `gorm:"type:varchar(200);not null" json:"name"`
	Description        string    `gorm:"type:text" json:"description"`
	Price              float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPercentage int       `gorm:"not null;default:0" json:"discount_percentage"`
	FoodType           string    `gorm:"type:varchar(10);not null;default:'non_veg'" json:"food_type"`
	Ingredients        string    `gorm:"type:text" json:"ingredients"`
	Allergens          string    `gorm:"type:text" json:"allergens"`
	PreparationTime    int       `gorm:"not null;default:15" json:"preparation_time"`
	IsAvailable        bool      `gorm:"not null;default:true" json:"is_available"`
	IsFeatured         bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

// DiscountedPrice applies the configured discount percentage. Order items
// capture this value at add-time.
func (m *MenuItem) DiscountedPrice() float64 {
	if m.DiscountPercentage > 0 {
		return m.Price * (1 - float64(m.DiscountPercentage)/100)
	}
	return m.Price
}

// Modifier is a customization group (e.g. size, toppings) offered on items.
type Modifier struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Name          string           `gorm:"type:varchar(100);not null" json:"name"`
	Description   string           `gorm:"type:text" json:"description"`
	IsRequired    bool             `gorm:"not null;default:false" json:"is_required"`
	MinSelections int              `gorm:"not null;default:0" json:"min_selections"`
	MaxSelections int              `gorm:"not null;default:1" json:"max_selections"`
	Options       []ModifierOption `gorm:"foreignKey:ModifierID" json:"options,omitempty"`
	CreatedAt     time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null" json:"updated_at"`
}

type ModifierOption struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ModifierID  uint      `gorm:"not null;index" json:"modifier_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Price       float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
