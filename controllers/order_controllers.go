package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/services"
	"restaurant-pos/utils"
)

type OrderController struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewOrderController(db *gorm.DB, svc *services.OrderService) *OrderController {
	return &OrderController{DB: db, Service: svc}
}

// GetAllOrders -> list orders, newest first, with optional status /
// payment_status / dining_mode filters.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.
		Preload("Items.Modifiers.ModifierOption").
		Preload("Items.MenuItem").
		Preload("DeliveryInfo").
		Preload("Table").
		Order("created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if diningMode := c.Query("dining_mode"); diningMode != "" {
		query = query.Where("dining_mode = ?", diningMode)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> create the full aggregate in one transaction.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.CreateOrder(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d created (%s, %d items)", order.ID, order.DiningMode, order.ItemCount())
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> one order with full payload.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("order_id", "must be numeric"))
		return
	}

	order, err := oc.Service.GetOrder(uint(id))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrder -> mutate discount or notes; totals are derived and therefore
// recomputed, never set directly.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("order_id", "must be numeric"))
		return
	}

	var req struct {
		Discount *float64 `json:"discount"`
		Notes    *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("order", uint(id)))
		return
	}

	if req.Discount != nil {
		if *req.Discount < 0 {
			utils.RespondError(c, utils.NewValidationError("discount", "must not be negative"))
			return
		}
		order.Discount = *req.Discount
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}

	updated, err := oc.Service.Recalculate(order.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", updated)
}

// UpdateStatus -> lifecycle transition, validated and broadcast.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("order_id", "must be numeric"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.UpdateStatus(uint(id), req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d -> %s", order.ID, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// UpdatePayment -> orthogonal payment state.
func (oc *OrderController) UpdatePayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("order_id", "must be numeric"))
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.UpdatePayment(uint(id), req.PaymentStatus, req.PaymentMethod)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order payment updated", order)
}

// DeleteOrder -> cascades to items, modifiers and delivery info, clearing
// table/driver back-references.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("order_id", "must be numeric"))
		return
	}

	if err := oc.Service.DeleteOrder(uint(id)); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

// GetKitchenDisplay -> open orders for the kitchen display, oldest first.
func (oc *OrderController) GetKitchenDisplay(c *gin.Context) {
	var orders []models.Order
	err := oc.DB.
		Preload("Items.Modifiers.ModifierOption").
		Preload("Items.MenuItem").
		Preload("Table").
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusProcessing}).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen display", orders)
}

// GetOrdersByTable -> active orders on one table, newest first.
func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("table_id", "must be numeric"))
		return
	}

	var orders []models.Order
	err = oc.DB.
		Preload("Items.Modifiers.ModifierOption").
		Preload("Items.MenuItem").
		Where("table_id = ? AND status IN ?", tableID,
			[]string{models.OrderStatusPending, models.OrderStatusProcessing}).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders for table", orders)
}
