package repository

import (
	"errors"
	"time"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LeaveRepository interface {
	Create(leave *models.LeaveRequest) error
	Update(leave *models.LeaveRequest) error
	GetByID(id uint) (*models.LeaveRequest, error)
	ListByStatus(employeeID uint, statuses ...models.LeaveStatus) ([]models.LeaveRequest, error)
	ListByEmployee(employeeID uint) ([]models.LeaveRequest, error)
	ListPending() ([]models.LeaveRequest, error)
	ListInWindow(employeeID uint, from, to time.Time) ([]models.LeaveRequest, error)
	Delete(id uint) (bool, error)
}

type GormLeaveRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormLeaveRepository(db *gorm.DB, logger *logrus.Logger) *GormLeaveRepository {
	return &GormLeaveRepository{db: db, logger: logger}
}

func (r *GormLeaveRepository) Create(leave *models.LeaveRequest) error {
	if err := r.db.Create(leave).Error; err != nil {
		r.logger.WithError(err).WithField("employee_id", leave.EmployeeID).Error("Failed to create leave request")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":          leave.ID,
		"employee_id": leave.EmployeeID,
		"start_date":  leave.StartDate.Format("2006-01-02"),
		"end_date":    leave.EndDate.Format("2006-01-02"),
	}).Info("Leave request created")
	return nil
}

func (r *GormLeaveRepository) Update(leave *models.LeaveRequest) error {
	if err := r.db.Save(leave).Error; err != nil {
		r.logger.WithError(err).WithField("id", leave.ID).Error("Failed to update leave request")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":     leave.ID,
		"status": leave.Status,
	}).Info("Leave request updated")
	return nil
}

func (r *GormLeaveRepository) GetByID(id uint) (*models.LeaveRequest, error) {
	var leave models.LeaveRequest
	result := r.db.First(&leave, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get leave request by ID")
		return nil, result.Error
	}
	return &leave, nil
}

func (r *GormLeaveRepository) ListByStatus(employeeID uint, statuses ...models.LeaveStatus) ([]models.LeaveRequest, error) {
	var leaves []models.LeaveRequest
	err := r.db.Where("employee_id = ? AND status IN ?", employeeID, statuses).
		Order("start_date, id").
		Find(&leaves).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list leave requests by status")
	}
	return leaves, err
}

// ListByEmployee returns every request of the employee, newest first.
func (r *GormLeaveRepository) ListByEmployee(employeeID uint) ([]models.LeaveRequest, error) {
	var leaves []models.LeaveRequest
	err := r.db.Where("employee_id = ?", employeeID).
		Order("created_at DESC, id DESC").
		Find(&leaves).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list leave requests")
	}
	return leaves, err
}

// ListPending returns requests awaiting a decision, oldest first.
func (r *GormLeaveRepository) ListPending() ([]models.LeaveRequest, error) {
	var leaves []models.LeaveRequest
	err := r.db.Where("status = ?", models.LeaveStatusPending).
		Order("created_at, id").
		Find(&leaves).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list pending leave requests")
	}
	return leaves, err
}

// ListInWindow returns requests whose day range touches [from, to], both
// inclusive dates.
func (r *GormLeaveRepository) ListInWindow(employeeID uint, from, to time.Time) ([]models.LeaveRequest, error) {
	var leaves []models.LeaveRequest
	err := r.db.Where("employee_id = ?", employeeID).
		Where("start_date <= ? AND end_date >= ?", models.DateOf(to), models.DateOf(from)).
		Order("start_date, id").
		Find(&leaves).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list leave requests in window")
	}
	return leaves, err
}

func (r *GormLeaveRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.LeaveRequest{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to delete leave request")
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		r.logger.WithField("id", id).Info("Leave request deleted")
	}
	return result.RowsAffected > 0, nil
}
