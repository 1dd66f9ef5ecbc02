package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"restaurant-pos/models"
)

func reservationRouter(db *gorm.DB) *gin.Engine {
	ctrl := NewReservationController(db)

	r := gin.New()
	r.GET("/reservations", ctrl.GetAllReservations)
	r.POST("/reservations", ctrl.CreateReservation)
	r.GET("/reservations/:reservation_id", ctrl.GetReservationByID)
	r.PATCH("/reservations/:reservation_id", ctrl.UpdateReservation)
	r.DELETE("/reservations/:reservation_id", ctrl.DeleteReservation)
	r.PATCH("/reservations/:reservation_id/status", ctrl.UpdateStatus)
	r.GET("/availability/tables", ctrl.GetAvailableTables)
	return r
}

func reservationBody(tableID uint, date, clock string, duration int) gin.H {
	return gin.H{
		"table_id":      tableID,
		"customer_name": "Jordan",
		"contact_phone": "555-0500",
		"date":          date,
		"time":          clock,
		"duration":      duration,
		"party_size":    2,
	}
}

func TestCreateReservationReservesTable(t *testing.T) {
	db := newTestDB(t)
	r := reservationRouter(db)
	table := seedTestTable(t, db, "T1", 4)

	w, env := performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-05", "18:00", 90))
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Reservation
	decodeData(t, env, &created)
	assert.Equal(t, models.ReservationStatusPending, created.Status)
	assert.Equal(t, 90, created.Duration)

	var reserved models.Table
	require.NoError(t, db.First(&reserved, table.ID).Error)
	assert.Equal(t, models.TableStatusReserved, reserved.Status)
	assert.Equal(t, "Jordan", reserved.CustomerName)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	db := newTestDB(t)
	r := reservationRouter(db)
	table := seedTestTable(t, db, "T1", 4)

	w, _ := performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-05", "18:00", 90))
	require.Equal(t, http.StatusCreated, w.Code)

	// 19:00 is inside the 18:00-19:30 booking.
	w, env := performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-05", "19:00", 60))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "18:00")

	// 19:30 starts exactly at the end; half-open, so it books.
	w, _ = performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-05", "19:30", 60))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateReservationUnknownTable(t *testing.T) {
	db := newTestDB(t)
	r := reservationRouter(db)

	w, _ := performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(999, "2026-09-05", "18:00", 90))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationStatusSideEffects(t *testing.T) {
	db := newTestDB(t)
	r := reservationRouter(db)
	table := seedTestTable(t, db, "T1", 4)

	w, env := performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-05", "18:00", 90))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Reservation
	decodeData(t, env, &created)

	path := fmt.Sprintf("/reservations/%d/status", created.ID)

	w, _ = performRequest(t, r, http.MethodPatch, path, gin.H{"status": models.ReservationStatusCancelled})
	require.Equal(t, http.StatusOK, w.Code)

	var freed models.Table
	require.NoError(t, db.First(&freed, table.ID).Error)
	assert.Equal(t, models.TableStatusAvailable, freed.Status)
	assert.Empty(t, freed.CustomerName)

	w, _ = performRequest(t, r, http.MethodPatch, path, gin.H{"status": models.ReservationStatusConfirmed})
	require.Equal(t, http.StatusOK, w.Code)

	var reserved models.Table
	require.NoError(t, db.First(&reserved, table.ID).Error)
	assert.Equal(t, models.TableStatusReserved, reserved.Status)
	assert.Equal(t, "Jordan", reserved.CustomerName)

	w, _ = performRequest(t, r, http.MethodPatch, path, gin.H{"status": "no_show"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateReservationReschedule(t *testing.T) {
	db := newTestDB(t)
	r := reservationRouter(db)
	table := seedTestTable(t, db, "T1", 4)

	w, env := performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-05", "18:00", 90))
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.Reservation
	decodeData(t, env, &first)

	w, env = performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-05", "20:00", 60))
	require.Equal(t, http.StatusCreated, w.Code)
	var second models.Reservation
	decodeData(t, env, &second)

	// Moving onto its own slot is fine; moving onto the other booking is not.
	w, _ = performRequest(t, r, http.MethodPatch, fmt.Sprintf("/reservations/%d", first.ID),
		gin.H{"time": "18:30"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = performRequest(t, r, http.MethodPatch, fmt.Sprintf("/reservations/%d", second.ID),
		gin.H{"time": "18:45"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAvailableTablesEndpoint(t *testing.T) {
	db := newTestDB(t)
	r := reservationRouter(db)
	booked := seedTestTable(t, db, "T1", 4)
	free := seedTestTable(t, db, "T2", 4)
	small := seedTestTable(t, db, "T3", 2)

	w, _ := performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(booked.ID, "2026-09-05", "19:00", 120))
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := performRequest(t, r, http.MethodGet,
		"/availability/tables?date=2026-09-05&time=19:30&duration=60&party_size=4", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tables []models.Table
	decodeData(t, env, &tables)
	ids := make([]uint, 0, len(tables))
	for _, table := range tables {
		ids = append(ids, table.ID)
	}
	assert.ElementsMatch(t, []uint{free.ID}, ids)
	assert.NotContains(t, ids, booked.ID)
	assert.NotContains(t, ids, small.ID)

	w, _ = performRequest(t, r, http.MethodGet, "/availability/tables?date=2026-09-05", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReservationsByDate(t *testing.T) {
	db := newTestDB(t)
	r := reservationRouter(db)
	table := seedTestTable(t, db, "T1", 4)

	w, _ := performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-05", "18:00", 90))
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = performRequest(t, r, http.MethodPost, "/reservations",
		reservationBody(table.ID, "2026-09-06", "18:00", 90))
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := performRequest(t, r, http.MethodGet, "/reservations?date=2026-09-05", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Reservation
	decodeData(t, env, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "2026-09-05", listed[0].Date)
}
