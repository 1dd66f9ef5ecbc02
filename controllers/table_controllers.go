package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/utils"
)

var validTableStatuses = map[string]bool{
	models.TableStatusAvailable:   true,
	models.TableStatusOccupied:    true,
	models.TableStatusReserved:    true,
	models.TableStatusMaintenance: true,
}

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Preload("Section").Order("section_id, number")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if sectionID := c.Query("section_id"); sectionID != "" {
		query = query.Where("section_id = ?", sectionID)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number    string `json:"number" binding:"required"`
		SectionID uint   `json:"section_id" binding:"required"`
		Capacity  int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	var section models.Section
	if err := tc.DB.First(&section, req.SectionID).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("section", req.SectionID))
		return
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 4
	}
	table := models.Table{
		Number:    req.Number,
		SectionID: req.SectionID,
		Capacity:  capacity,
		Status:    models.TableStatusAvailable,
		IsActive:  true,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("table_id", "must be numeric"))
		return
	}

	var table models.Table
	if err := tc.DB.Preload("Section").First(&table, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("table", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("table_id", "must be numeric"))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("table", uint(id)))
		return
	}

	var req struct {
		Status       *string `json:"status"`
		Capacity     *int    `json:"capacity"`
		CustomerName *string `json:"customer_name"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	if req.Status != nil {
		if !validTableStatuses[*req.Status] {
			utils.RespondError(c, utils.NewValidationError("status", "must be one of available, occupied, reserved, maintenance"))
			return
		}
		table.Status = *req.Status
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			utils.RespondError(c, utils.NewValidationError("capacity", "must be at least 1"))
			return
		}
		table.Capacity = *req.Capacity
	}
	if req.CustomerName != nil {
		table.CustomerName = *req.CustomerName
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("table_id", "must be numeric"))
		return
	}

	result := tc.DB.Delete(&models.Table{}, id)
	if result.Error != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, utils.NewNotFoundError("table", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}

// Sections

func (tc *TableController) GetAllSections(c *gin.Context) {
	var sections []models.Section
	if err := tc.DB.Preload("Tables").Order("name").Find(&sections).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of sections", sections)
}

func (tc *TableController) CreateSection(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	section := models.Section{Name: req.Name, Description: req.Description, IsActive: true}
	if err := tc.DB.Create(&section).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Section created", section)
}
