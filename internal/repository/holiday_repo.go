package repository

import (
	"time"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type HolidayRepository interface {
	BulkCreate(days []models.Holiday) error
	DeleteYears(years []int) error
	GetByYearMonth(year, month int) ([]models.Holiday, error)
	ListBetween(from, to time.Time) ([]models.Holiday, error)
	IsHoliday(date time.Time) (bool, error)
}

type GormHolidayRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormHolidayRepository(db *gorm.DB, logger *logrus.Logger) *GormHolidayRepository {
	return &GormHolidayRepository{db: db, logger: logger}
}

func (r *GormHolidayRepository) BulkCreate(days []models.Holiday) error {
	if len(days) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(&days, 100).Error; err != nil {
		r.logger.WithError(err).Error("Failed to store holidays")
		return err
	}

	r.logger.WithField("count", len(days)).Info("Holidays stored")
	return nil
}

func (r *GormHolidayRepository) DeleteYears(years []int) error {
	if len(years) == 0 {
		return nil
	}
	return r.db.Where("year IN ?", years).Delete(&models.Holiday{}).Error
}

func (r *GormHolidayRepository) GetByYearMonth(year, month int) ([]models.Holiday, error) {
	var days []models.Holiday
	err := r.db.Where("year = ? AND month = ?", year, month).Order("date").Find(&days).Error
	return days, err
}

// ListBetween returns holidays with from <= date <= to.
func (r *GormHolidayRepository) ListBetween(from, to time.Time) ([]models.Holiday, error) {
	var days []models.Holiday
	err := r.db.Where("date >= ? AND date <= ?", models.DateOf(from), models.DateOf(to)).
		Order("date").
		Find(&days).Error
	return days, err
}

func (r *GormHolidayRepository) IsHoliday(date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Holiday{}).
		Where("date = ?", models.DateOf(date)).
		Count(&count).Error
	return count > 0, err
}
