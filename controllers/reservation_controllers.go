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

var validReservationStatuses = map[string]bool{
	models.ReservationStatusConfirmed: true,
	models.ReservationStatusPending:   true,
	models.ReservationStatusCancelled: true,
	models.ReservationStatusCompleted: true,
}

type ReservationController struct {
	DB *gorm.DB
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{DB: db}
}

// GetAllReservations -> list, optionally filtered to one date.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	query := rc.DB.Preload("Table.Section").Order("date, time")
	if date := c.Query("date"); date != "" {
		if !models.ValidDate(date) {
			utils.RespondError(c, utils.NewValidationError("date", "expected YYYY-MM-DD"))
			return
		}
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// CreateReservation -> book a slot after the overlap check; the table is
// marked reserved and stamped with the customer name.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		TableID      uint   `json:"table_id" binding:"required"`
		CustomerName string `json:"customer_name" binding:"required"`
		ContactPhone string `json:"contact_phone" binding:"required"`
		Email        string `json:"email"`
		Date         string `json:"date" binding:"required"`
		Time         string `json:"time" binding:"required"`
		Duration     int    `json:"duration"`
		PartySize    int    `json:"party_size" binding:"required,min=1"`
		Notes        string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if req.Duration <= 0 {
		req.Duration = 120
	}

	var table models.Table
	if err := rc.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("table", req.TableID))
		return
	}

	conflict, err := services.CheckReservationConflict(rc.DB, req.TableID, req.Date, req.Time, req.Duration, 0)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if conflict != nil {
		existing := conflict.Reservation
		utils.RespondError(c, utils.NewPreconditionError(
			"table %s already has a %s reservation on %s at %s for %d minutes",
			table.Number, existing.Status, existing.Date, existing.Time, existing.Duration))
		return
	}

	reservation := models.Reservation{
		TableID:      req.TableID,
		CustomerName: req.CustomerName,
		ContactPhone: req.ContactPhone,
		Email:        req.Email,
		Date:         req.Date,
		Time:         req.Time,
		Duration:     req.Duration,
		PartySize:    req.PartySize,
		Status:       models.ReservationStatusPending,
		Notes:        req.Notes,
	}
	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}
		return tx.Model(&table).Updates(map[string]interface{}{
			"status":        models.TableStatusReserved,
			"customer_name": req.CustomerName,
		}).Error
	})
	if err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Reservation #%d created for table %s on %s %s", reservation.ID, table.Number, reservation.Date, reservation.Time)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("reservation_id", "must be numeric"))
		return
	}

	var reservation models.Reservation
	if err := rc.DB.Preload("Table.Section").First(&reservation, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("reservation", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// UpdateReservation -> reschedule or edit details, re-running the overlap
// check against every other booking.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("reservation_id", "must be numeric"))
		return
	}

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("reservation", uint(id)))
		return
	}

	var req struct {
		Date      *string `json:"date"`
		Time      *string `json:"time"`
		Duration  *int    `json:"duration"`
		PartySize *int    `json:"party_size"`
		Notes     *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	if req.Date != nil {
		reservation.Date = *req.Date
	}
	if req.Time != nil {
		reservation.Time = *req.Time
	}
	if req.Duration != nil {
		reservation.Duration = *req.Duration
	}
	if req.PartySize != nil {
		if *req.PartySize < 1 {
			utils.RespondError(c, utils.NewValidationError("party_size", "must be at least 1"))
			return
		}
		reservation.PartySize = *req.PartySize
	}
	if req.Notes != nil {
		reservation.Notes = *req.Notes
	}

	conflict, err := services.CheckReservationConflict(rc.DB, reservation.TableID,
		reservation.Date, reservation.Time, reservation.Duration, reservation.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if conflict != nil {
		existing := conflict.Reservation
		utils.RespondError(c, utils.NewPreconditionError(
			"table already has a %s reservation on %s at %s for %d minutes",
			existing.Status, existing.Date, existing.Time, existing.Duration))
		return
	}

	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// UpdateStatus -> confirm/cancel/complete with the table side effects:
// cancelling frees the table and clears the name, confirming re-applies
// reserved + name.
func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("reservation_id", "must be numeric"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if !validReservationStatuses[req.Status] {
		utils.RespondError(c, utils.NewValidationError("status", "must be one of confirmed, pending, cancelled, completed"))
		return
	}

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, utils.NewNotFoundError("reservation", uint(id)))
		return
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&reservation).Update("status", req.Status).Error; err != nil {
			return err
		}
		switch req.Status {
		case models.ReservationStatusCancelled:
			return tx.Model(&models.Table{}).Where("id = ?", reservation.TableID).
				Updates(map[string]interface{}{
					"status":        models.TableStatusAvailable,
					"customer_name": "",
				}).Error
		case models.ReservationStatusConfirmed:
			return tx.Model(&models.Table{}).Where("id = ?", reservation.TableID).
				Updates(map[string]interface{}{
					"status":        models.TableStatusReserved,
					"customer_name": reservation.CustomerName,
				}).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("reservation_id", "must be numeric"))
		return
	}

	result := rc.DB.Delete(&models.Reservation{}, id)
	if result.Error != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, utils.NewNotFoundError("reservation", uint(id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", nil)
}

// GetAvailableTables -> tables free in the requested slot with enough
// capacity.
func (rc *ReservationController) GetAvailableTables(c *gin.Context) {
	date := c.Query("date")
	clock := c.Query("time")
	if date == "" || clock == "" {
		utils.RespondError(c, utils.NewValidationError("date", "date and time parameters are required"))
		return
	}

	duration := 120
	if d := c.Query("duration"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil {
			utils.RespondError(c, utils.NewValidationError("duration", "must be numeric"))
			return
		}
		duration = parsed
	}
	partySize := 2
	if p := c.Query("party_size"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			utils.RespondError(c, utils.NewValidationError("party_size", "must be numeric"))
			return
		}
		partySize = parsed
	}

	tables, err := services.AvailableTables(rc.DB, date, clock, duration, partySize)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", tables)
}
