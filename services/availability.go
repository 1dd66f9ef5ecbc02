package services

import (
	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/utils"
)

// Overlaps reports whether two half-open minute intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ReservationConflict is the existing booking that blocks a candidate slot.
type ReservationConflict struct {
	Reservation models.Reservation
}

// CheckReservationConflict rejects a candidate (table, date, time, duration)
// slot if any non-cancelled reservation for the same table and date overlaps
// it. Times are minutes since midnight within one date; bookings never span
// midnight. The excludeID lets an update skip the reservation being edited.
func CheckReservationConflict(db *gorm.DB, tableID uint, date, clock string, duration int, excludeID uint) (*ReservationConflict, error) {
	if !models.ValidDate(date) {
		return nil, utils.NewValidationError("date", "expected YYYY-MM-DD")
	}
	start, err := models.ParseClock(clock)
	if err != nil {
		return nil, utils.NewValidationError("time", err.Error())
	}
	if duration <= 0 {
		return nil, utils.NewValidationError("duration", "must be positive")
	}
	end := start + duration

	var existing []models.Reservation
	query := db.Where("table_id = ? AND date = ? AND status IN ?",
		tableID, date, []string{models.ReservationStatusConfirmed, models.ReservationStatusPending})
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&existing).Error; err != nil {
		return nil, err
	}

	for _, res := range existing {
		resStart, err := res.StartMinutes()
		if err != nil {
			continue
		}
		if Overlaps(start, end, resStart, resStart+res.Duration) {
			return &ReservationConflict{Reservation: res}, nil
		}
	}
	return nil, nil
}

// AvailableTables returns every active, non-maintenance table with enough
// capacity and no overlapping confirmed/pending reservation in the slot.
func AvailableTables(db *gorm.DB, date, clock string, duration, partySize int) ([]models.Table, error) {
	if !models.ValidDate(date) {
		return nil, utils.NewValidationError("date", "expected YYYY-MM-DD")
	}
	start, err := models.ParseClock(clock)
	if err != nil {
		return nil, utils.NewValidationError("time", err.Error())
	}
	if duration <= 0 {
		return nil, utils.NewValidationError("duration", "must be positive")
	}
	end := start + duration

	var tables []models.Table
	if err := db.Preload("Section").
		Where("capacity >= ? AND is_active = ?", partySize, true).
		Find(&tables).Error; err != nil {
		return nil, err
	}

	var reservations []models.Reservation
	if err := db.Where("date = ? AND status IN ?",
		date, []string{models.ReservationStatusConfirmed, models.ReservationStatusPending}).
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	byTable := make(map[uint][]models.Reservation)
	for _, res := range reservations {
		byTable[res.TableID] = append(byTable[res.TableID], res)
	}

	available := make([]models.Table, 0, len(tables))
	for _, table := range tables {
		if table.Status == models.TableStatusMaintenance {
			continue
		}
		free := true
		for _, res := range byTable[table.ID] {
			resStart, err := res.StartMinutes()
			if err != nil {
				continue
			}
			if Overlaps(start, end, resStart, resStart+res.Duration) {
				free = false
				break
			}
		}
		if free {
			available = append(available, table)
		}
	}
	return available, nil
}
