package service

import (
	"context"
	"strings"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

// OverrideInput is a new schedule override. Field and Value are trimmed before
// validation, so whitespace-only values are rejected.
type OverrideInput struct {
	EmployeeID uint      `validate:"required"`
	Date       time.Time `validate:"required"`
	Field      string    `validate:"required,max=50"`
	Value      string    `validate:"required,max=200"`
	Reason     string    `validate:"max=300"`
}

func (in OverrideInput) trimmed() OverrideInput {
	in.Field = strings.TrimSpace(in.Field)
	in.Value = strings.TrimSpace(in.Value)
	in.Reason = strings.TrimSpace(in.Reason)
	return in
}

// OverrideService records per-day exceptions to an employee's schedule.
type OverrideService struct {
	store  *repository.Store
	logger *logrus.Logger
}

func NewOverrideService(store *repository.Store, logger *logrus.Logger) *OverrideService {
	return &OverrideService{store: store, logger: logger}
}

func (s *OverrideService) Create(ctx context.Context, in OverrideInput) (*models.ScheduleOverride, error) {
	in = in.trimmed()
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	override := &models.ScheduleOverride{
		EmployeeID: in.EmployeeID,
		Date:       models.DateOf(in.Date),
		Field:      in.Field,
		Value:      in.Value,
		Reason:     in.Reason,
	}
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := requireEmployee(tx, in.EmployeeID); err != nil {
			return err
		}
		return tx.Overrides.Create(override)
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", in.EmployeeID).Warn("Schedule override not created")
		return nil, err
	}
	return override, nil
}

// Update applies patch and re-validates the result.
func (s *OverrideService) Update(ctx context.Context, id uint, patch models.OverridePatch) (*models.ScheduleOverride, error) {
	var updated models.ScheduleOverride
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		existing, err := tx.Overrides.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return notFound("schedule override %d", id)
		}

		updated = patch.Apply(*existing)
		check := OverrideInput{
			EmployeeID: updated.EmployeeID,
			Date:       updated.Date,
			Field:      updated.Field,
			Value:      updated.Value,
			Reason:     updated.Reason,
		}
		if err := validate.Struct(check); err != nil {
			return invalid(err)
		}
		return tx.Overrides.Update(&updated)
	})
	if err != nil {
		s.logger.WithError(err).WithField("override_id", id).Warn("Schedule override not updated")
		return nil, err
	}
	return &updated, nil
}

// ListForEmployee returns the employee's overrides within the inclusive date
// range, ordered by date.
func (s *OverrideService) ListForEmployee(ctx context.Context, employeeID uint, from, to time.Time) ([]models.ScheduleOverride, error) {
	if models.DateOf(from).After(models.DateOf(to)) {
		return nil, conflict("window start is after its end")
	}
	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	return store.Overrides.ListForEmployee(employeeID, from, to)
}

func (s *OverrideService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.store.WithContext(ctx).Overrides.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("schedule override %d", id)
	}
	return nil
}
