package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurant-pos/kds"
	"restaurant-pos/models"
	"restaurant-pos/services"
	"restaurant-pos/utils"
)

var validTransactionTypes = map[string]bool{
	models.TransactionTypeSale:       true,
	models.TransactionTypeRefund:     true,
	models.TransactionTypeExpense:    true,
	models.TransactionTypeAdjustment: true,
}

type TransactionController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewTransactionController(db *gorm.DB, orders *services.OrderService) *TransactionController {
	return &TransactionController{DB: db, Orders: orders}
}

// parseDateRange turns start/end date params into a [start, end) timestamp
// window covering the whole end day.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, utils.NewValidationError("start_date", "expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, utils.NewValidationError("end_date", "expected YYYY-MM-DD")
	}
	return start, end.AddDate(0, 0, 1), nil
}

// GetAllTransactions -> list, newest first; start_date/end_date narrow to a
// date range (inclusive start day, inclusive end day).
func (tc *TransactionController) GetAllTransactions(c *gin.Context) {
	query := tc.DB.Order("created_at desc")

	startDate, endDate := c.Query("start_date"), c.Query("end_date")
	if startDate != "" || endDate != "" {
		if startDate == "" || endDate == "" {
			utils.RespondError(c, utils.NewValidationError("start_date", "start_date and end_date are both required"))
			return
		}
		start, end, err := parseDateRange(startDate, endDate)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		query = query.Where("created_at >= ? AND created_at < ?", start, end)
	}
	if txType := c.Query("type"); txType != "" {
		query = query.Where("type = ?", txType)
	}
	if method := c.Query("method"); method != "" {
		query = query.Where("method = ?", method)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of transactions", transactions)
}

// CreateTransaction -> record a financial transaction. A sale against an
// order marks that order paid with the transaction's method; that coupling
// is the canonical payment path.
func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	var req struct {
		OrderID     *uint   `json:"order_id"`
		Type        string  `json:"type" binding:"required"`
		Amount      float64 `json:"amount" binding:"required"`
		Method      string  `json:"method" binding:"required"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if !validTransactionTypes[req.Type] {
		utils.RespondError(c, utils.NewValidationError("type", "must be one of sale, refund, expense, adjustment"))
		return
	}
	if req.Amount <= 0 {
		utils.RespondError(c, utils.NewValidationError("amount", "must be positive"))
		return
	}
	if req.OrderID != nil {
		var order models.Order
		if err := tc.DB.First(&order, *req.OrderID).Error; err != nil {
			utils.RespondError(c, utils.NewNotFoundError("order", *req.OrderID))
			return
		}
	}

	transaction := models.Transaction{
		Reference:   uuid.NewString(),
		OrderID:     req.OrderID,
		Type:        req.Type,
		Amount:      utils.Round2(req.Amount),
		Method:      req.Method,
		Description: req.Description,
		Category:    req.Category,
	}
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			transaction.StaffID = &id
		}
	}

	// A sale and its payment side effect commit or roll back together.
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		if transaction.Type == models.TransactionTypeSale && transaction.OrderID != nil {
			return tc.Orders.MarkPaidTx(tx, *transaction.OrderID, transaction.Method)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if transaction.Type == models.TransactionTypeSale && transaction.OrderID != nil {
		if order, err := tc.Orders.GetOrder(*transaction.OrderID); err == nil {
			kds.BroadcastOrderUpdate(*order)
		}
	}

	utils.RespondJSON(c, http.StatusCreated, "Transaction recorded", transaction)
}

func (tc *TransactionController) GetTransactionByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("transaction_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("transaction_id", "must be numeric"))
		return
	}

	var transaction models.Transaction
	if err := tc.DB.First(&transaction, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("transaction", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transaction detail", transaction)
}

func (tc *TransactionController) DeleteTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("transaction_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("transaction_id", "must be numeric"))
		return
	}

	result := tc.DB.Delete(&models.Transaction{}, id)
	if result.Error != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, utils.NewNotFoundError("transaction", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transaction deleted", nil)
}

// SalesReport aggregates a date range: totals, net, count, sales grouped by
// payment method and by calendar day.
type SalesReport struct {
	TotalSales       float64            `json:"total_sales"`
	TotalRefunds     float64            `json:"total_refunds"`
	NetSales         float64            `json:"net_sales"`
	TransactionCount int                `json:"transaction_count"`
	SalesByMethod    map[string]float64 `json:"sales_by_method"`
	SalesByDay       map[string]float64 `json:"sales_by_day"`
}

// GetSalesReport -> sales/refund aggregation over [start_date, end_date].
func (tc *TransactionController) GetSalesReport(c *gin.Context) {
	startDate, endDate := c.Query("start_date"), c.Query("end_date")
	if startDate == "" || endDate == "" {
		utils.RespondError(c, utils.NewValidationError("start_date", "start_date and end_date are both required"))
		return
	}
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var transactions []models.Transaction
	if err := tc.DB.
		Where("created_at >= ? AND created_at < ? AND type IN ?",
			start, end, []string{models.TransactionTypeSale, models.TransactionTypeRefund}).
		Find(&transactions).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}

	report := SalesReport{
		SalesByMethod: make(map[string]float64),
		SalesByDay:    make(map[string]float64),
	}
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		report.SalesByDay[day.Format("2006-01-02")] = 0
	}

	for _, txn := range transactions {
		switch txn.Type {
		case models.TransactionTypeSale:
			report.TotalSales = utils.Round2(report.TotalSales + txn.Amount)
			report.TransactionCount++
			report.SalesByMethod[txn.Method] = utils.Round2(report.SalesByMethod[txn.Method] + txn.Amount)
			day := txn.CreatedAt.Format("2006-01-02")
			report.SalesByDay[day] = utils.Round2(report.SalesByDay[day] + txn.Amount)
		case models.TransactionTypeRefund:
			report.TotalRefunds = utils.Round2(report.TotalRefunds + txn.Amount)
		}
	}
	report.NetSales = utils.Round2(report.TotalSales - report.TotalRefunds)

	utils.RespondJSON(c, http.StatusOK, "Sales report", report)
}
