package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllItems -> menu items, optionally by category or availability.
func (mc *MenuController) GetAllItems(c *gin.Context) {
	query := mc.DB.Order("category_id, name")
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) CreateItem(c *gin.Context) {
	var req struct {
		CategoryID         uint    `json:"category_id" binding:"required"`
		Name               string  `json:"name" binding:"required"`
		Description        string  `json:"description"`
		Price              float64 `json:"price" binding:"required,min=0"`
		DiscountPercentage int     `json:"discount_percentage"`
		FoodType           string  `json:"food_type"`
		Ingredients        string  `json:"ingredients"`
		Allergens          string  `json:"allergens"`
		PreparationTime    int     `json:"preparation_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		utils.RespondError(c, utils.NewValidationError("discount_percentage", "must be between 0 and 100"))
		return
	}

	var category models.Category
	if err := mc.DB.First(&category, req.CategoryID).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("category", req.CategoryID))
		return
	}

	foodType := req.FoodType
	if foodType == "" {
		foodType = "non_veg"
	}
	preparationTime := req.PreparationTime
	if preparationTime <= 0 {
		preparationTime = 15
	}

	item := models.MenuItem{
		CategoryID:         req.CategoryID,
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		DiscountPercentage: req.DiscountPercentage,
		FoodType:           foodType,
		Ingredients:        req.Ingredients,
		Allergens:          req.Allergens,
		PreparationTime:    preparationTime,
		IsAvailable:        true,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) GetItemByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("item_id", "must be numeric"))
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("menu item", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateItem -> catalog edits; existing order lines keep their captured
// prices.
func (mc *MenuController) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("item_id", "must be numeric"))
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("menu item", uint(id)))
		return
	}

	var req struct {
		Name               *string  `json:"name"`
		Description        *string  `json:"description"`
		Price              *float64 `json:"price"`
		DiscountPercentage *int     `json:"discount_percentage"`
		IsAvailable        *bool    `json:"is_available"`
		IsFeatured         *bool    `json:"is_featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, utils.NewValidationError("price", "must not be negative"))
			return
		}
		item.Price = *req.Price
	}
	if req.DiscountPercentage != nil {
		if *req.DiscountPercentage < 0 || *req.DiscountPercentage > 100 {
			utils.RespondError(c, utils.NewValidationError("discount_percentage", "must be between 0 and 100"))
			return
		}
		item.DiscountPercentage = *req.DiscountPercentage
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.IsFeatured != nil {
		item.IsFeatured = *req.IsFeatured
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuController) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("item_id", "must be numeric"))
		return
	}

	result := mc.DB.Delete(&models.MenuItem{}, id)
	if result.Error != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, utils.NewNotFoundError("menu item", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}

// Modifiers

func (mc *MenuController) GetAllModifiers(c *gin.Context) {
	var modifiers []models.Modifier
	if err := mc.DB.Preload("Options").Order("name").Find(&modifiers).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of modifiers", modifiers)
}

func (mc *MenuController) CreateModifier(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Description   string `json:"description"`
		IsRequired    bool   `json:"is_required"`
		MinSelections int    `json:"min_selections"`
		MaxSelections int    `json:"max_selections"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	maxSelections := req.MaxSelections
	if maxSelections <= 0 {
		maxSelections = 1
	}
	modifier := models.Modifier{
		Name:          req.Name,
		Description:   req.Description,
		IsRequired:    req.IsRequired,
		MinSelections: req.MinSelections,
		MaxSelections: maxSelections,
	}
	if err := mc.DB.Create(&modifier).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Modifier created", modifier)
}

func (mc *MenuController) CreateModifierOption(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("modifier_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("modifier_id", "must be numeric"))
		return
	}

	var modifier models.Modifier
	if err := mc.DB.First(&modifier, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("modifier", uint(id)))
		return
	}

	var req struct {
		Name      string  `json:"name" binding:"required"`
		Price     float64 `json:"price"`
		IsDefault bool    `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if req.Price < 0 {
		utils.RespondError(c, utils.NewValidationError("price", "must not be negative"))
		return
	}

	option := models.ModifierOption{
		ModifierID:  modifier.ID,
		Name:        req.Name,
		Price:       req.Price,
		IsDefault:   req.IsDefault,
		IsAvailable: true,
	}
	if err := mc.DB.Create(&option).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Modifier option created", option)
}
