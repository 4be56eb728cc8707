package service

import (
	"context"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

// ClockService moves an employee between "clocked out" and "clocked in".
type ClockService struct {
	store  *repository.Store
	logger *logrus.Logger
	now    Clock
}

func NewClockService(store *repository.Store, logger *logrus.Logger, now Clock) *ClockService {
	return &ClockService{store: store, logger: logger, now: now}
}

// ClockIn opens a session starting at at, or now when at is nil.
func (s *ClockService) ClockIn(ctx context.Context, employeeID uint, at *time.Time) (*models.ClockSession, error) {
	start := s.instant(at)
	s.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"clock_in":    start.Format(time.RFC3339),
	}).Info("Employee clocking in")

	var session *models.ClockSession
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := lockActiveEmployee(tx, employeeID); err != nil {
			return err
		}

		open, err := tx.Sessions.GetOpen(employeeID)
		if err != nil {
			return err
		}
		if open != nil {
			return conflict("employee %d is already clocked in since %s", employeeID, open.ClockIn.Format(time.RFC3339))
		}

		candidate := models.Open(start)
		existing, err := tx.Sessions.ListOverlapping(employeeID, candidate)
		if err != nil {
			return err
		}
		if models.ExistsOverlap(candidate, models.SessionSpans(existing), 0) {
			return conflict("clock-in at %s overlaps an earlier session", start.Format(time.RFC3339))
		}

		session = &models.ClockSession{EmployeeID: employeeID, ClockIn: start}
		return tx.Sessions.Create(session)
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", employeeID).Warn("Clock-in rejected")
		return nil, err
	}
	return session, nil
}

// ClockOut closes the most recent session at at, or now when at is nil. An
// open pause of that session is closed at the same instant.
func (s *ClockService) ClockOut(ctx context.Context, employeeID uint, at *time.Time) (*models.ClockSession, error) {
	end := s.instant(at)
	s.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"clock_out":   end.Format(time.RFC3339),
	}).Info("Employee clocking out")

	var session *models.ClockSession
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := lockActiveEmployee(tx, employeeID); err != nil {
			return err
		}

		latest, err := tx.Sessions.GetLatest(employeeID)
		if err != nil {
			return err
		}
		if latest == nil || !latest.IsOpen() {
			return conflict("employee %d is not clocked in", employeeID)
		}
		if !end.After(latest.ClockIn) {
			return conflict("clock-out must be after clock-in at %s", latest.ClockIn.Format(time.RFC3339))
		}

		pauses, err := tx.Pauses.ListBySession(latest.ID)
		if err != nil {
			return err
		}
		for i := range pauses {
			p := &pauses[i]
			if !p.IsOpen() {
				if p.EndAt.After(end) {
					return conflict("pause %d ends after the requested clock-out", p.ID)
				}
				continue
			}
			if !end.After(p.StartAt) {
				return conflict("open pause %d starts at or after the requested clock-out", p.ID)
			}
			p.EndAt = &end
			if err := tx.Pauses.Update(p); err != nil {
				return err
			}
		}

		latest.ClockOut = &end
		if err := tx.Sessions.Update(latest); err != nil {
			return err
		}
		session = latest
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", employeeID).Warn("Clock-out rejected")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"session_id":  session.ID,
		"duration":    session.Duration(),
	}).Info("Employee clocked out")
	return session, nil
}

// ListSessions returns the employee's sessions that intersect [from, to).
func (s *ClockService) ListSessions(ctx context.Context, employeeID uint, from, to time.Time) ([]models.ClockSession, error) {
	if !from.Before(to) {
		return nil, conflict("window end must be after its start")
	}
	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	return store.Sessions.ListInWindow([]uint{employeeID}, from, to)
}

// ActiveSession returns the open session, or nil when clocked out.
func (s *ClockService) ActiveSession(ctx context.Context, employeeID uint) (*models.ClockSession, error) {
	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	return store.Sessions.GetOpen(employeeID)
}

// SessionHistory returns up to limit sessions, newest first. A limit of zero
// or less returns all of them.
func (s *ClockService) SessionHistory(ctx context.Context, employeeID uint, limit int) ([]models.ClockSession, error) {
	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	return store.Sessions.ListHistory(employeeID, limit)
}

// DeleteSession removes a session together with its pauses.
func (s *ClockService) DeleteSession(ctx context.Context, sessionID uint) error {
	return s.store.Atomic(ctx, func(tx *repository.Store) error {
		session, err := tx.Sessions.GetByID(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return notFound("session %d", sessionID)
		}
		if _, err := tx.LockEmployee(session.EmployeeID); err != nil {
			return err
		}
		deleted, err := tx.Sessions.Delete(sessionID)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("session %d", sessionID)
		}
		return nil
	})
}

func (s *ClockService) instant(at *time.Time) time.Time {
	if at != nil {
		return at.UTC()
	}
	return s.now().UTC()
}
