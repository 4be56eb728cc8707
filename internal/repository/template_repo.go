package repository

import (
	"errors"
	"strings"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(template *models.ScheduleTemplate) error
	Update(template *models.ScheduleTemplate) error
	GetByID(id uint) (*models.ScheduleTemplate, error)
	GetByTeamAndName(teamID uint, name string) (*models.ScheduleTemplate, error)
	ListByTeam(teamID uint) ([]models.ScheduleTemplate, error)
	DeactivateOthers(teamID, keepID uint) (int64, error)
	Delete(id uint) (bool, error)
}

type GormTemplateRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTemplateRepository(db *gorm.DB, logger *logrus.Logger) *GormTemplateRepository {
	return &GormTemplateRepository{db: db, logger: logger}
}

func (r *GormTemplateRepository) Create(template *models.ScheduleTemplate) error {
	if err := r.db.Create(template).Error; err != nil {
		r.logger.WithError(err).WithField("team_id", template.TeamID).Error("Failed to create schedule template")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":      template.ID,
		"team_id": template.TeamID,
		"name":    template.Name,
		"active":  template.Active,
	}).Info("Schedule template created")
	return nil
}

func (r *GormTemplateRepository) Update(template *models.ScheduleTemplate) error {
	if err := r.db.Save(template).Error; err != nil {
		r.logger.WithError(err).WithField("id", template.ID).Error("Failed to update schedule template")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":     template.ID,
		"active": template.Active,
	}).Info("Schedule template updated")
	return nil
}

func (r *GormTemplateRepository) GetByID(id uint) (*models.ScheduleTemplate, error) {
	return r.first(r.db.Where("id = ?", id))
}

// GetByTeamAndName matches the name case-insensitively.
func (r *GormTemplateRepository) GetByTeamAndName(teamID uint, name string) (*models.ScheduleTemplate, error) {
	return r.first(r.db.Where("team_id = ? AND LOWER(name) = ?", teamID, strings.ToLower(strings.TrimSpace(name))))
}

func (r *GormTemplateRepository) ListByTeam(teamID uint) ([]models.ScheduleTemplate, error) {
	var templates []models.ScheduleTemplate
	err := r.db.Where("team_id = ?", teamID).Order("name, id").Find(&templates).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list schedule templates")
	}
	return templates, err
}

// DeactivateOthers clears the active flag on every template of the team except keepID.
func (r *GormTemplateRepository) DeactivateOthers(teamID, keepID uint) (int64, error) {
	result := r.db.Model(&models.ScheduleTemplate{}).
		Where("team_id = ? AND id <> ? AND active = ?", teamID, keepID, true).
		Update("active", false)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("team_id", teamID).Error("Failed to deactivate schedule templates")
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		r.logger.WithFields(logrus.Fields{
			"team_id": teamID,
			"count":   result.RowsAffected,
		}).Info("Sibling schedule templates deactivated")
	}
	return result.RowsAffected, nil
}

func (r *GormTemplateRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.ScheduleTemplate{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to delete schedule template")
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormTemplateRepository) first(q *gorm.DB) (*models.ScheduleTemplate, error) {
	var template models.ScheduleTemplate
	result := q.First(&template)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get schedule template")
		return nil, result.Error
	}
	return &template, nil
}
