package services

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"restaurant-pos/kds"
	"restaurant-pos/models"
	"restaurant-pos/utils"
)

// TaxRate applied to the item subtotal.
const TaxRate = 0.05

// statusTransitions is the forward-only lifecycle graph. A pending order may
// jump straight to completed so a delivery can close without a kitchen step;
// completed and cancelled are terminal.
var statusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

var validPaymentStatuses = map[string]bool{
	models.PaymentStatusUnpaid:   true,
	models.PaymentStatusPaid:     true,
	models.PaymentStatusPartial:  true,
	models.PaymentStatusRefunded: true,
}

var validDiningModes = map[string]bool{
	models.DiningModeDineIn:   true,
	models.DiningModeTakeAway: true,
	models.DiningModeDelivery: true,
}

// OrderService owns the order aggregate: creation, line-item mutation, total
// recomputation and the status/payment state machine. Totals are derived,
// never edited directly; every mutation ends in a recompute and a broadcast.
type OrderService struct {
	DB *gorm.DB

	// locks serializes recomputation per order so concurrent item mutations
	// cannot race on the derived totals. The system is single-process by
	// design, so in-process locking is the whole story.
	locks sync.Map
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

func (s *OrderService) lockOrder(orderID uint) func() {
	v, _ := s.locks.LoadOrStore(orderID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

type OrderItemModifierRequest struct {
	ModifierOptionID uint `json:"modifier_option_id" binding:"required"`
	Quantity         int  `json:"quantity"`
}

type OrderItemRequest struct {
	MenuItemID uint                       `json:"menu_item_id" binding:"required"`
	Quantity   int                        `json:"quantity" binding:"required,min=1"`
	Notes      string                     `json:"notes"`
	Modifiers  []OrderItemModifierRequest `json:"modifiers"`
}

type DeliveryInfoRequest struct {
	Address               string `json:"address" binding:"required"`
	ContactName           string `json:"contact_name"`
	ContactPhone          string `json:"contact_phone"`
	DeliveryNotes         string `json:"delivery_notes"`
	EstimatedDeliveryTime string `json:"estimated_delivery_time"`
}

type CreateOrderRequest struct {
	TableID      *uint                `json:"table_id"`
	DiningMode   string               `json:"dining_mode"`
	Discount     float64              `json:"discount"`
	Notes        string               `json:"notes"`
	Items        []OrderItemRequest   `json:"items"`
	DeliveryInfo *DeliveryInfoRequest `json:"delivery_info"`
}

// CreateOrder builds the whole aggregate in one transaction: order row, line
// items with price capture, modifiers, delivery info, totals. A failure at
// any step rolls the entire creation back.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if req.DiningMode == "" {
		req.DiningMode = models.DiningModeDineIn
	}
	if !validDiningModes[req.DiningMode] {
		return nil, utils.NewValidationError("dining_mode", "must be one of dine_in, take_away, delivery")
	}
	if req.Discount < 0 {
		return nil, utils.NewValidationError("discount", "must not be negative")
	}
	if req.DiningMode == models.DiningModeDelivery && req.DeliveryInfo == nil {
		return nil, utils.NewValidationError("delivery_info", "required for delivery orders")
	}

	var orderID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			TableID:       req.TableID,
			DiningMode:    req.DiningMode,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusUnpaid,
			Discount:      req.Discount,
			Notes:         req.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		orderID = order.ID

		for _, itemReq := range req.Items {
			if _, err := s.addItemTx(tx, order.ID, itemReq); err != nil {
				return err
			}
		}

		if req.DiningMode == models.DiningModeDelivery {
			info := models.DeliveryInfo{
				OrderID:               order.ID,
				Address:               req.DeliveryInfo.Address,
				ContactName:           req.DeliveryInfo.ContactName,
				ContactPhone:          req.DeliveryInfo.ContactPhone,
				DeliveryNotes:         req.DeliveryInfo.DeliveryNotes,
				EstimatedDeliveryTime: req.DeliveryInfo.EstimatedDeliveryTime,
			}
			if err := tx.Create(&info).Error; err != nil {
				return err
			}
		}

		// Occupy the table; the back-reference is cleared again when the
		// order reaches a terminal state or is deleted.
		if req.TableID != nil {
			updates := map[string]interface{}{
				"status":           models.TableStatusOccupied,
				"current_order_id": order.ID,
			}
			if err := tx.Model(&models.Table{}).Where("id = ?", *req.TableID).Updates(updates).Error; err != nil {
				return err
			}
		}

		return s.recalculateTx(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	kds.BroadcastOrderUpdate(*order)
	return order, nil
}

// GetOrder loads one order with its full payload.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.
		Preload("Items.Modifiers.ModifierOption").
		Preload("Items.MenuItem").
		Preload("DeliveryInfo").
		Preload("Table").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError("order", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// addItemTx captures the menu item's discounted price and the option prices
// at add-time. Later catalog changes never touch existing lines.
func (s *OrderService) addItemTx(tx *gorm.DB, orderID uint, req OrderItemRequest) (*models.OrderItem, error) {
	if req.Quantity < 1 {
		return nil, utils.NewValidationError("quantity", "must be at least 1")
	}

	var menuItem models.MenuItem
	if err := tx.First(&menuItem, req.MenuItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("menu item", req.MenuItemID)
		}
		return nil, err
	}
	if !menuItem.IsAvailable {
		return nil, utils.NewPreconditionError("menu item %q is not available", menuItem.Name)
	}

	item := models.OrderItem{
		OrderID:    orderID,
		MenuItemID: menuItem.ID,
		Quantity:   req.Quantity,
		UnitPrice:  utils.Round2(menuItem.DiscountedPrice()),
		Notes:      req.Notes,
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}

	for _, modReq := range req.Modifiers {
		quantity := modReq.Quantity
		if quantity < 1 {
			quantity = 1
		}
		var option models.ModifierOption
		if err := tx.First(&option, modReq.ModifierOptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NewNotFoundError("modifier option", modReq.ModifierOptionID)
			}
			return nil, err
		}
		mod := models.OrderItemModifier{
			OrderItemID:      item.ID,
			ModifierOptionID: option.ID,
			Quantity:         quantity,
			Price:            option.Price,
		}
		if err := tx.Create(&mod).Error; err != nil {
			return nil, err
		}
	}

	return &item, nil
}

// AddItem appends a line item to an existing order and recomputes totals.
func (s *OrderService) AddItem(orderID uint, req OrderItemRequest) (*models.Order, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("order", orderID)
			}
			return err
		}
		if _, err := s.addItemTx(tx, orderID, req); err != nil {
			return err
		}
		return s.recalculateTx(tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return s.finishMutation(orderID)
}

// UpdateItem changes a line's quantity or notes; the captured unit price is
// immutable.
func (s *OrderService) UpdateItem(itemID uint, quantity *int, notes *string) (*models.Order, error) {
	var item models.OrderItem
	if err := s.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("order item", itemID)
		}
		return nil, err
	}

	unlock := s.lockOrder(item.OrderID)
	defer unlock()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if quantity != nil {
			if *quantity < 1 {
				return utils.NewValidationError("quantity", "must be at least 1")
			}
			item.Quantity = *quantity
		}
		if notes != nil {
			item.Notes = *notes
		}
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return s.recalculateTx(tx, item.OrderID)
	})
	if err != nil {
		return nil, err
	}
	return s.finishMutation(item.OrderID)
}

// RemoveItem deletes a line item (and its modifiers) and recomputes totals.
func (s *OrderService) RemoveItem(itemID uint) (*models.Order, error) {
	var item models.OrderItem
	if err := s.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("order item", itemID)
		}
		return nil, err
	}

	unlock := s.lockOrder(item.OrderID)
	defer unlock()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_item_id = ?", item.ID).Delete(&models.OrderItemModifier{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return s.recalculateTx(tx, item.OrderID)
	})
	if err != nil {
		return nil, err
	}
	return s.finishMutation(item.OrderID)
}

// Recalculate recomputes the derived totals of an order. It is idempotent
// and must run after any mutation of the item/modifier collection.
func (s *OrderService) Recalculate(orderID uint) (*models.Order, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.recalculateTx(tx, orderID)
	}); err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

func (s *OrderService) recalculateTx(tx *gorm.DB, orderID uint) error {
	var order models.Order
	if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lost a race with deletion.
			return utils.NewNotFoundError("order", orderID)
		}
		return err
	}

	subtotal := 0.0
	for _, item := range order.Items {
		subtotal += item.TotalPrice()
	}
	subtotal = utils.Round2(subtotal)
	tax := utils.Round2(subtotal * TaxRate)
	total := utils.Round2(subtotal + tax - order.Discount)

	return tx.Model(&order).Updates(map[string]interface{}{
		"subtotal": subtotal,
		"tax":      tax,
		"total":    total,
	}).Error
}

// UpdateStatus applies a lifecycle transition. Transitions are forward-only;
// an invalid target is a validation error and a disallowed move a
// precondition error.
func (s *OrderService) UpdateStatus(orderID uint, newStatus string) (*models.Order, error) {
	if _, known := statusTransitions[newStatus]; !known {
		return nil, utils.NewValidationError("status", "must be one of pending, processing, completed, cancelled")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("order", orderID)
			}
			return err
		}

		if !transitionAllowed(order.Status, newStatus) {
			return utils.NewPreconditionError("cannot transition order #%d from %s to %s", order.ID, order.Status, newStatus)
		}

		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return err
		}

		// Terminal states free the table and release any assigned driver;
		// a cancelled delivery must not strand its driver on_delivery.
		if newStatus == models.OrderStatusCompleted || newStatus == models.OrderStatusCancelled {
			if order.TableID != nil {
				if err := tx.Model(&models.Table{}).
					Where("id = ? AND current_order_id = ?", *order.TableID, order.ID).
					Updates(map[string]interface{}{
						"status":           models.TableStatusAvailable,
						"current_order_id": nil,
					}).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&models.Driver{}).
				Where("current_order_id = ?", order.ID).
				Updates(map[string]interface{}{
					"status":           models.DriverStatusAvailable,
					"current_order_id": nil,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.finishMutation(orderID)
}

func transitionAllowed(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdatePayment sets the payment status (and optionally the method). Payment
// is orthogonal to the lifecycle: any enumerated value may be set at any
// time.
func (s *OrderService) UpdatePayment(orderID uint, paymentStatus, paymentMethod string) (*models.Order, error) {
	if !validPaymentStatuses[paymentStatus] {
		return nil, utils.NewValidationError("payment_status", "must be one of unpaid, paid, partial, refunded")
	}

	updates := map[string]interface{}{"payment_status": paymentStatus}
	if paymentMethod != "" {
		updates["payment_method"] = paymentMethod
	}

	result := s.DB.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.NewNotFoundError("order", orderID)
	}
	return s.finishMutation(orderID)
}

// MarkPaid records the payment side effect of a sale transaction.
func (s *OrderService) MarkPaid(orderID uint, method string) (*models.Order, error) {
	return s.UpdatePayment(orderID, models.PaymentStatusPaid, method)
}

// MarkPaidTx is MarkPaid inside the caller's transaction, so a sale record
// and its payment side effect commit or roll back together. The caller is
// responsible for broadcasting the updated order after commit.
func (s *OrderService) MarkPaidTx(tx *gorm.DB, orderID uint, method string) error {
	result := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"payment_method": method,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFoundError("order", orderID)
	}
	return nil
}

// DeleteOrder removes the aggregate: items, modifiers, delivery info, and
// the table/driver back-references that would otherwise dangle.
func (s *OrderService) DeleteOrder(orderID uint) error {
	unlock := s.lockOrder(orderID)
	defer unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("order", orderID)
			}
			return err
		}

		for _, item := range order.Items {
			if err := tx.Where("order_item_id = ?", item.ID).Delete(&models.OrderItemModifier{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.DeliveryInfo{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Table{}).
			Where("current_order_id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":           models.TableStatusAvailable,
				"current_order_id": nil,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Driver{}).
			Where("current_order_id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":           models.DriverStatusAvailable,
				"current_order_id": nil,
			}).Error; err != nil {
			return err
		}

		return tx.Delete(&order).Error
	})
}

// finishMutation reloads the full payload and broadcasts it.
func (s *OrderService) finishMutation(orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	kds.BroadcastOrderUpdate(*order)
	return order, nil
}
