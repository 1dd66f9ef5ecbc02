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

var validDriverStatuses = map[string]bool{
	models.DriverStatusAvailable:  true,
	models.DriverStatusOnDelivery: true,
	models.DriverStatusOffDuty:    true,
}

type DriverController struct {
	DB       *gorm.DB
	Dispatch *services.DispatchService
}

func NewDriverController(db *gorm.DB, dispatch *services.DispatchService) *DriverController {
	return &DriverController{DB: db, Dispatch: dispatch}
}

func (dc *DriverController) GetAllDrivers(c *gin.Context) {
	query := dc.DB.Order("name")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var drivers []models.Driver
	if err := query.Find(&drivers).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of drivers", drivers)
}

func (dc *DriverController) CreateDriver(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Phone   string `json:"phone" binding:"required"`
		Email   string `json:"email"`
		Vehicle string `json:"vehicle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	driver := models.Driver{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Vehicle:  req.Vehicle,
		Status:   models.DriverStatusAvailable,
		IsActive: true,
	}
	if err := dc.DB.Create(&driver).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Driver created", driver)
}

func (dc *DriverController) GetDriverByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("driver_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("driver_id", "must be numeric"))
		return
	}

	var driver models.Driver
	if err := dc.DB.First(&driver, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("driver", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Driver detail", driver)
}

func (dc *DriverController) UpdateDriver(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("driver_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("driver_id", "must be numeric"))
		return
	}

	var driver models.Driver
	if err := dc.DB.First(&driver, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("driver", uint(id)))
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Email    *string `json:"email"`
		Vehicle  *string `json:"vehicle"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		driver.Name = *req.Name
	}
	if req.Phone != nil {
		driver.Phone = *req.Phone
	}
	if req.Email != nil {
		driver.Email = *req.Email
	}
	if req.Vehicle != nil {
		driver.Vehicle = *req.Vehicle
	}
	if req.IsActive != nil {
		driver.IsActive = *req.IsActive
	}

	if err := dc.DB.Save(&driver).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Driver updated", driver)
}

func (dc *DriverController) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("driver_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("driver_id", "must be numeric"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if !validDriverStatuses[req.Status] {
		utils.RespondError(c, utils.NewValidationError("status", "must be one of available, on_delivery, off_duty"))
		return
	}

	var driver models.Driver
	if err := dc.DB.First(&driver, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("driver", uint(id)))
		return
	}

	if err := dc.DB.Model(&driver).Update("status", req.Status).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Driver status updated", driver)
}

func (dc *DriverController) DeleteDriver(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("driver_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("driver_id", "must be numeric"))
		return
	}

	result := dc.DB.Delete(&models.Driver{}, id)
	if result.Error != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, utils.NewNotFoundError("driver", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Driver deleted", nil)
}

// AssignOrder -> put the driver on a delivery order.
func (dc *DriverController) AssignOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("driver_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("driver_id", "must be numeric"))
		return
	}

	var req services.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	driver, err := dc.Dispatch.AssignOrder(uint(id), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("Driver %q assigned to order #%d", driver.Name, req.OrderID)
	utils.RespondJSON(c, http.StatusOK, "Driver assigned", driver)
}

// CompleteDelivery -> finish the driver's current delivery; the order is
// completed through the lifecycle path and broadcast.
func (dc *DriverController) CompleteDelivery(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("driver_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("driver_id", "must be numeric"))
		return
	}

	driver, err := dc.Dispatch.CompleteDelivery(uint(id))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery completed", driver)
}

// GetAvailableDrivers -> active drivers ready for dispatch.
func (dc *DriverController) GetAvailableDrivers(c *gin.Context) {
	var drivers []models.Driver
	if err := dc.DB.
		Where("status = ? AND is_active = ?", models.DriverStatusAvailable, true).
		Find(&drivers).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available drivers", drivers)
}
