package services

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/utils"
)

// DispatchService assigns and releases drivers against delivery orders. The
// check-then-act on a driver's status is serialized per driver so two
// concurrent assignments cannot both win.
type DispatchService struct {
	DB     *gorm.DB
	Orders *OrderService

	locks sync.Map
}

func NewDispatchService(db *gorm.DB, orders *OrderService) *DispatchService {
	return &DispatchService{DB: db, Orders: orders}
}

func (s *DispatchService) lockDriver(driverID uint) func() {
	v, _ := s.locks.LoadOrStore(driverID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// AssignRequest carries delivery contact fields used when the order has no
// DeliveryInfo yet.
type AssignRequest struct {
	OrderID      uint   `json:"order_id" binding:"required"`
	Address      string `json:"address"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

// AssignOrder puts an available driver on a delivery order and upserts the
// order's DeliveryInfo with the driver reference.
func (s *DispatchService) AssignOrder(driverID uint, req AssignRequest) (*models.Driver, error) {
	unlock := s.lockDriver(driverID)
	defer unlock()

	var driver models.Driver
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&driver, driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("driver", driverID)
			}
			return err
		}

		var order models.Order
		if err := tx.First(&order, req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("order", req.OrderID)
			}
			return err
		}

		if driver.Status != models.DriverStatusAvailable {
			return utils.NewPreconditionError("driver %q is not available (status %s)", driver.Name, driver.Status)
		}
		if order.DiningMode != models.DiningModeDelivery {
			return utils.NewPreconditionError("order #%d is not a delivery order", order.ID)
		}

		driver.Status = models.DriverStatusOnDelivery
		driver.CurrentOrderID = &order.ID
		if err := tx.Save(&driver).Error; err != nil {
			return err
		}

		var info models.DeliveryInfo
		err := tx.Where("order_id = ?", order.ID).First(&info).Error
		switch {
		case err == nil:
			info.DriverID = &driver.ID
			return tx.Save(&info).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			info = models.DeliveryInfo{
				OrderID:      order.ID,
				DriverID:     &driver.ID,
				Address:      req.Address,
				ContactName:  req.ContactName,
				ContactPhone: req.ContactPhone,
			}
			return tx.Create(&info).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

// CompleteDelivery closes out the driver's current order and frees the
// driver. The order completion runs through the lifecycle state machine so
// the transition is validated and broadcast like any other status change.
func (s *DispatchService) CompleteDelivery(driverID uint) (*models.Driver, error) {
	unlock := s.lockDriver(driverID)
	defer unlock()

	var driver models.Driver
	if err := s.DB.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("driver", driverID)
		}
		return nil, err
	}
	if driver.CurrentOrderID == nil {
		return nil, utils.NewPreconditionError("driver %q has no current order", driver.Name)
	}

	if _, err := s.Orders.UpdateStatus(*driver.CurrentOrderID, models.OrderStatusCompleted); err != nil {
		return nil, err
	}

	driver.Status = models.DriverStatusAvailable
	driver.CurrentOrderID = nil
	if err := s.DB.Save(&driver).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}
