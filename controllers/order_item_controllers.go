package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-pos/services"
	"restaurant-pos/utils"
)

type OrderItemController struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewOrderItemController(db *gorm.DB, svc *services.OrderService) *OrderItemController {
	return &OrderItemController{DB: db, Service: svc}
}

// AddItem -> append a line item; the order's totals are recomputed and the
// new snapshot broadcast.
func (ic *OrderItemController) AddItem(c *gin.Context) {
	var req struct {
		OrderID uint `json:"order_id" binding:"required"`
		services.OrderItemRequest
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	order, err := ic.Service.AddItem(req.OrderID, req.OrderItemRequest)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added", order)
}

// UpdateItem -> change quantity or notes; unit price stays captured.
func (ic *OrderItemController) UpdateItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("item_id", "must be numeric"))
		return
	}

	var req struct {
		Quantity *int    `json:"quantity"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	order, err := ic.Service.UpdateItem(uint(itemID), req.Quantity, req.Notes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item updated", order)
}

// RemoveItem -> delete the line and its modifier selections.
func (ic *OrderItemController) RemoveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("item_id", "must be numeric"))
		return
	}

	order, err := ic.Service.RemoveItem(uint(itemID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", order)
}
