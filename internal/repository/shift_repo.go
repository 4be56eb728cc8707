package repository

import (
	"errors"
	"time"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(shift *models.Shift) error
	CreateBatch(shifts []models.Shift) error
	Update(shift *models.Shift) error
	GetByID(id uint) (*models.Shift, error)
	ListAssigned(employeeID uint) ([]models.Shift, error)
	ListByTeam(teamID uint, from, to *time.Time) ([]models.Shift, error)
	ListByEmployee(employeeID uint, from, to *time.Time) ([]models.Shift, error)
	Delete(id uint) (bool, error)
}

type GormShiftRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormShiftRepository(db *gorm.DB, logger *logrus.Logger) *GormShiftRepository {
	return &GormShiftRepository{db: db, logger: logger}
}

func (r *GormShiftRepository) Create(shift *models.Shift) error {
	if err := r.db.Create(shift).Error; err != nil {
		r.logger.WithError(err).WithField("team_id", shift.TeamID).Error("Failed to create shift")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":       shift.ID,
		"team_id":  shift.TeamID,
		"assigned": shift.Assigned(),
	}).Info("Shift created")
	return nil
}

func (r *GormShiftRepository) CreateBatch(shifts []models.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(&shifts, 100).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create shifts")
		return err
	}

	r.logger.WithField("count", len(shifts)).Info("Shifts created")
	return nil
}

func (r *GormShiftRepository) Update(shift *models.Shift) error {
	if err := r.db.Save(shift).Error; err != nil {
		r.logger.WithError(err).WithField("id", shift.ID).Error("Failed to update shift")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":       shift.ID,
		"assigned": shift.Assigned(),
	}).Info("Shift updated")
	return nil
}

func (r *GormShiftRepository) GetByID(id uint) (*models.Shift, error) {
	var shift models.Shift
	result := r.db.First(&shift, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get shift by ID")
		return nil, result.Error
	}
	return &shift, nil
}

// ListAssigned returns every shift assigned to the employee.
func (r *GormShiftRepository) ListAssigned(employeeID uint) ([]models.Shift, error) {
	return r.list(r.db.Where("employee_id = ?", employeeID), nil, nil)
}

func (r *GormShiftRepository) ListByTeam(teamID uint, from, to *time.Time) ([]models.Shift, error) {
	return r.list(r.db.Where("team_id = ?", teamID), from, to)
}

func (r *GormShiftRepository) ListByEmployee(employeeID uint, from, to *time.Time) ([]models.Shift, error) {
	return r.list(r.db.Where("employee_id = ?", employeeID), from, to)
}

// list applies an optional [from, to) window and the start-then-id order.
func (r *GormShiftRepository) list(q *gorm.DB, from, to *time.Time) ([]models.Shift, error) {
	if from != nil {
		q = q.Where("end_at > ?", from.UTC())
	}
	if to != nil {
		q = q.Where("start_at < ?", to.UTC())
	}

	var shifts []models.Shift
	if err := q.Order("start_at, id").Find(&shifts).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list shifts")
		return nil, err
	}
	return shifts, nil
}

func (r *GormShiftRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Shift{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to delete shift")
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		r.logger.WithField("id", id).Info("Shift deleted")
	}
	return result.RowsAffected > 0, nil
}
