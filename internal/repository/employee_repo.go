package repository

import (
	"errors"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *models.Employee) error
	GetByID(id uint) (*models.Employee, error)
	GetByEmail(email string) (*models.Employee, error)
	SetActive(id uint, active bool) error
	ListActive() ([]models.Employee, error)
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB, logger *logrus.Logger) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db, logger: logger}
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	if err := r.db.Create(employee).Error; err != nil {
		r.logger.WithError(err).WithField("email", employee.Email).Error("Failed to create employee")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":    employee.ID,
		"email": employee.Email,
	}).Info("Employee created")
	return nil
}

func (r *GormEmployeeRepository) GetByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.First(&employee, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by ID")
		return nil, result.Error
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) GetByEmail(email string) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.Where("email = ?", email).First(&employee)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by email")
		return nil, result.Error
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) SetActive(id uint, active bool) error {
	result := r.db.Model(&models.Employee{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update employee status")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":     id,
		"active": active,
	}).Info("Employee status updated")
	return nil
}

func (r *GormEmployeeRepository) ListActive() ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.Where("active = ?", true).Order("id").Find(&employees).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list active employees")
	}
	return employees, err
}
