package repository

import (
	"errors"
	"time"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *models.ClockSession) error
	Update(session *models.ClockSession) error
	GetByID(id uint) (*models.ClockSession, error)
	GetLatest(employeeID uint) (*models.ClockSession, error)
	GetOpen(employeeID uint) (*models.ClockSession, error)
	ListOverlapping(employeeID uint, iv models.Interval) ([]models.ClockSession, error)
	ListInWindow(employeeIDs []uint, from, to time.Time) ([]models.ClockSession, error)
	ListHistory(employeeID uint, limit int) ([]models.ClockSession, error)
	Delete(id uint) (bool, error)
}

type GormSessionRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSessionRepository(db *gorm.DB, logger *logrus.Logger) *GormSessionRepository {
	return &GormSessionRepository{db: db, logger: logger}
}

func (r *GormSessionRepository) Create(session *models.ClockSession) error {
	if err := r.db.Create(session).Error; err != nil {
		r.logger.WithError(err).WithField("employee_id", session.EmployeeID).Error("Failed to create clock session")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":          session.ID,
		"employee_id": session.EmployeeID,
		"clock_in":    session.ClockIn.Format(time.RFC3339),
	}).Info("Clock session created")
	return nil
}

func (r *GormSessionRepository) Update(session *models.ClockSession) error {
	if err := r.db.Save(session).Error; err != nil {
		r.logger.WithError(err).WithField("id", session.ID).Error("Failed to update clock session")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":          session.ID,
		"employee_id": session.EmployeeID,
		"open":        session.IsOpen(),
	}).Info("Clock session updated")
	return nil
}

func (r *GormSessionRepository) GetByID(id uint) (*models.ClockSession, error) {
	return r.first(r.db.Where("id = ?", id), "Failed to get clock session by ID")
}

// GetLatest returns the most recent session by clock-in, larger id first on ties.
func (r *GormSessionRepository) GetLatest(employeeID uint) (*models.ClockSession, error) {
	q := r.db.Where("employee_id = ?", employeeID).Order("clock_in DESC, id DESC")
	return r.first(q, "Failed to get latest clock session")
}

func (r *GormSessionRepository) GetOpen(employeeID uint) (*models.ClockSession, error) {
	q := r.db.Where("employee_id = ? AND clock_out IS NULL", employeeID).Order("clock_in DESC, id DESC")
	return r.first(q, "Failed to get open clock session")
}

// ListOverlapping narrows the employee's sessions to those that may overlap iv.
// Callers still apply the exact overlap predicate.
func (r *GormSessionRepository) ListOverlapping(employeeID uint, iv models.Interval) ([]models.ClockSession, error) {
	q := r.db.Where("employee_id = ?", employeeID).
		Where("(clock_out IS NULL OR clock_out > ?)", iv.Start.UTC())
	if iv.End != nil {
		q = q.Where("clock_in < ?", iv.End.UTC())
	}

	var sessions []models.ClockSession
	if err := q.Order("clock_in, id").Find(&sessions).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list overlapping clock sessions")
		return nil, err
	}
	return sessions, nil
}

// ListInWindow returns sessions of the given employees that intersect
// [from, to), ordered by clock-in then id. A nil employeeIDs means everyone.
func (r *GormSessionRepository) ListInWindow(employeeIDs []uint, from, to time.Time) ([]models.ClockSession, error) {
	q := r.db.Where("clock_in < ?", to.UTC()).
		Where("(clock_out IS NULL OR clock_out > ?)", from.UTC())
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return nil, nil
		}
		q = q.Where("employee_id IN ?", employeeIDs)
	}

	var sessions []models.ClockSession
	if err := q.Order("clock_in, id").Find(&sessions).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list clock sessions in window")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"from":  from.Format(time.RFC3339),
		"to":    to.Format(time.RFC3339),
		"count": len(sessions),
	}).Debug("Clock sessions loaded")
	return sessions, nil
}

func (r *GormSessionRepository) ListHistory(employeeID uint, limit int) ([]models.ClockSession, error) {
	q := r.db.Where("employee_id = ?", employeeID).Order("clock_in DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var sessions []models.ClockSession
	if err := q.Find(&sessions).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list clock session history")
		return nil, err
	}
	return sessions, nil
}

// Delete removes a session and the pauses it owns.
func (r *GormSessionRepository) Delete(id uint) (bool, error) {
	if err := r.db.Where("session_id = ?", id).Delete(&models.Pause{}).Error; err != nil {
		r.logger.WithError(err).WithField("id", id).Error("Failed to delete session pauses")
		return false, err
	}

	result := r.db.Delete(&models.ClockSession{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to delete clock session")
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		r.logger.WithField("id", id).Info("Clock session deleted")
	}
	return result.RowsAffected > 0, nil
}

func (r *GormSessionRepository) first(q *gorm.DB, failure string) (*models.ClockSession, error) {
	var session models.ClockSession
	result := q.First(&session)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error(failure)
		return nil, result.Error
	}
	return &session, nil
}
