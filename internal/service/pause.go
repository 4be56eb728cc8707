package service

import (
	"context"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

// PauseService keeps pauses nested in their session and apart from each other.
type PauseService struct {
	store  *repository.Store
	logger *logrus.Logger
}

func NewPauseService(store *repository.Store, logger *logrus.Logger) *PauseService {
	return &PauseService{store: store, logger: logger}
}

func (s *PauseService) AddPause(ctx context.Context, sessionID uint, iv models.Interval, note string) (*models.Pause, error) {
	var pause *models.Pause
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		session, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		siblings, err := tx.Pauses.ListBySession(sessionID)
		if err != nil {
			return err
		}
		if err := checkPause(session, iv, siblings, 0); err != nil {
			return err
		}

		pause = &models.Pause{SessionID: sessionID, StartAt: iv.Start, EndAt: iv.End, Note: note}
		return tx.Pauses.Create(pause)
	})
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Pause not added")
		return nil, err
	}
	return pause, nil
}

// UpdatePause merges patch onto the pause. A patch that only changes the note
// skips interval checks.
func (s *PauseService) UpdatePause(ctx context.Context, pauseID uint, patch models.PausePatch) (*models.Pause, error) {
	var updated models.Pause
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		existing, err := tx.Pauses.GetByID(pauseID)
		if err != nil {
			return err
		}
		if existing == nil {
			return notFound("pause %d", pauseID)
		}
		session, err := lockSession(tx, existing.SessionID)
		if err != nil {
			return err
		}
		// Re-read under the lock.
		existing, err = tx.Pauses.GetByID(pauseID)
		if err != nil {
			return err
		}
		if existing == nil {
			return notFound("pause %d", pauseID)
		}

		updated = patch.Apply(*existing)
		if patch.TouchesInterval() {
			siblings, err := tx.Pauses.ListBySession(session.ID)
			if err != nil {
				return err
			}
			if err := checkPause(session, updated.Interval(), siblings, pauseID); err != nil {
				return err
			}
		}
		return tx.Pauses.Update(&updated)
	})
	if err != nil {
		s.logger.WithError(err).WithField("pause_id", pauseID).Warn("Pause not updated")
		return nil, err
	}
	return &updated, nil
}

func (s *PauseService) DeletePause(ctx context.Context, pauseID uint) error {
	return s.store.Atomic(ctx, func(tx *repository.Store) error {
		existing, err := tx.Pauses.GetByID(pauseID)
		if err != nil {
			return err
		}
		if existing == nil {
			return notFound("pause %d", pauseID)
		}
		if _, err := lockSession(tx, existing.SessionID); err != nil {
			return err
		}
		deleted, err := tx.Pauses.Delete(pauseID)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("pause %d", pauseID)
		}
		return nil
	})
}

// ListPauses returns the session's pauses by start time.
func (s *PauseService) ListPauses(ctx context.Context, sessionID uint) ([]models.Pause, error) {
	store := s.store.WithContext(ctx)
	session, err := store.Sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, notFound("session %d", sessionID)
	}
	return store.Pauses.ListBySession(sessionID)
}

// lockSession serializes pause writes through the owning employee's lock and
// returns the session as seen under that lock.
func lockSession(tx *repository.Store, sessionID uint) (*models.ClockSession, error) {
	session, err := tx.Sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, notFound("session %d", sessionID)
	}
	if _, err := tx.LockEmployee(session.EmployeeID); err != nil {
		return nil, err
	}
	session, err = tx.Sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, notFound("session %d", sessionID)
	}
	return session, nil
}

// checkPause validates a candidate pause window against its session and the
// other pauses of that session. excludeID is the pause being updated, or 0.
func checkPause(session *models.ClockSession, iv models.Interval, siblings []models.Pause, excludeID uint) error {
	switch err := iv.Validate(); err {
	case nil:
	case models.ErrIntervalNoStart:
		return conflict("pause start is required")
	default:
		return conflict("pause end must be after its start")
	}

	if !session.Interval().Contains(iv) {
		return conflict("pause must lie within session %d (%s)", session.ID, sessionBounds(session))
	}

	if iv.IsOpen() {
		for _, p := range siblings {
			if p.ID != excludeID && p.IsOpen() {
				return conflict("session %d already has an open pause", session.ID)
			}
		}
	}

	if models.ExistsOverlap(iv, models.PauseSpans(siblings), excludeID) {
		return conflict("pause overlaps another pause of session %d", session.ID)
	}
	return nil
}

func sessionBounds(session *models.ClockSession) string {
	start := session.ClockIn.Format(time.RFC3339)
	if session.ClockOut == nil {
		return start + " onwards"
	}
	return start + " to " + session.ClockOut.Format(time.RFC3339)
}
