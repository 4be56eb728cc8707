package repository

import (
	"errors"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PauseRepository interface {
	Create(pause *models.Pause) error
	Update(pause *models.Pause) error
	GetByID(id uint) (*models.Pause, error)
	ListBySession(sessionID uint) ([]models.Pause, error)
	ListBySessions(sessionIDs []uint) (map[uint][]models.Pause, error)
	Delete(id uint) (bool, error)
}

type GormPauseRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormPauseRepository(db *gorm.DB, logger *logrus.Logger) *GormPauseRepository {
	return &GormPauseRepository{db: db, logger: logger}
}

func (r *GormPauseRepository) Create(pause *models.Pause) error {
	if err := r.db.Create(pause).Error; err != nil {
		r.logger.WithError(err).WithField("session_id", pause.SessionID).Error("Failed to create pause")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":         pause.ID,
		"session_id": pause.SessionID,
		"open":       pause.IsOpen(),
	}).Info("Pause created")
	return nil
}

func (r *GormPauseRepository) Update(pause *models.Pause) error {
	if err := r.db.Save(pause).Error; err != nil {
		r.logger.WithError(err).WithField("id", pause.ID).Error("Failed to update pause")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":         pause.ID,
		"session_id": pause.SessionID,
	}).Info("Pause updated")
	return nil
}

func (r *GormPauseRepository) GetByID(id uint) (*models.Pause, error) {
	var pause models.Pause
	result := r.db.First(&pause, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get pause by ID")
		return nil, result.Error
	}
	return &pause, nil
}

func (r *GormPauseRepository) ListBySession(sessionID uint) ([]models.Pause, error) {
	var pauses []models.Pause
	err := r.db.Where("session_id = ?", sessionID).Order("start_at, id").Find(&pauses).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list pauses")
	}
	return pauses, err
}

// ListBySessions loads the pauses of several sessions at once, keyed by session.
func (r *GormPauseRepository) ListBySessions(sessionIDs []uint) (map[uint][]models.Pause, error) {
	bySession := make(map[uint][]models.Pause, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return bySession, nil
	}

	var pauses []models.Pause
	err := r.db.Where("session_id IN ?", sessionIDs).Order("session_id, start_at, id").Find(&pauses).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list pauses for sessions")
		return nil, err
	}
	for _, p := range pauses {
		bySession[p.SessionID] = append(bySession[p.SessionID], p)
	}
	return bySession, nil
}

func (r *GormPauseRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Pause{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to delete pause")
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		r.logger.WithField("id", id).Info("Pause deleted")
	}
	return result.RowsAffected > 0, nil
}
