package repository

import (
	"errors"
	"time"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OverrideRepository interface {
	Create(override *models.ScheduleOverride) error
	Update(override *models.ScheduleOverride) error
	GetByID(id uint) (*models.ScheduleOverride, error)
	ListForEmployee(employeeID uint, from, to time.Time) ([]models.ScheduleOverride, error)
	Delete(id uint) (bool, error)
}

type GormOverrideRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormOverrideRepository(db *gorm.DB, logger *logrus.Logger) *GormOverrideRepository {
	return &GormOverrideRepository{db: db, logger: logger}
}

func (r *GormOverrideRepository) Create(override *models.ScheduleOverride) error {
	if err := r.db.Create(override).Error; err != nil {
		r.logger.WithError(err).WithField("employee_id", override.EmployeeID).Error("Failed to create schedule override")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":          override.ID,
		"employee_id": override.EmployeeID,
		"date":        override.Date.Format("2006-01-02"),
		"field":       override.Field,
	}).Info("Schedule override created")
	return nil
}

func (r *GormOverrideRepository) Update(override *models.ScheduleOverride) error {
	if err := r.db.Save(override).Error; err != nil {
		r.logger.WithError(err).WithField("id", override.ID).Error("Failed to update schedule override")
		return err
	}

	r.logger.WithField("id", override.ID).Info("Schedule override updated")
	return nil
}

func (r *GormOverrideRepository) GetByID(id uint) (*models.ScheduleOverride, error) {
	var override models.ScheduleOverride
	result := r.db.First(&override, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get schedule override by ID")
		return nil, result.Error
	}
	return &override, nil
}

// ListForEmployee returns overrides dated within [from, to], both inclusive,
// ordered by date then id.
func (r *GormOverrideRepository) ListForEmployee(employeeID uint, from, to time.Time) ([]models.ScheduleOverride, error) {
	var overrides []models.ScheduleOverride
	err := r.db.Where("employee_id = ? AND date >= ? AND date <= ?", employeeID, models.DateOf(from), models.DateOf(to)).
		Order("date, id").
		Find(&overrides).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list schedule overrides")
	}
	return overrides, err
}

func (r *GormOverrideRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.ScheduleOverride{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to delete schedule override")
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		r.logger.WithField("id", id).Info("Schedule override deleted")
	}
	return result.RowsAffected > 0, nil
}
