package service

import (
	"context"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

// ShiftInput is a new planned shift. EmployeeID may be nil for an open slot.
type ShiftInput struct {
	TeamID     uint      `validate:"required"`
	EmployeeID *uint     `validate:"omitempty,gt=0"`
	Start      time.Time `validate:"required"`
	End        time.Time `validate:"required,gtfield=Start"`
	Note       string    `validate:"max=300"`
}

// ShiftService keeps an employee's assigned shifts from overlapping.
type ShiftService struct {
	store  *repository.Store
	logger *logrus.Logger
}

func NewShiftService(store *repository.Store, logger *logrus.Logger) *ShiftService {
	return &ShiftService{store: store, logger: logger}
}

func (s *ShiftService) Create(ctx context.Context, in ShiftInput) (*models.Shift, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	shift := &models.Shift{
		TeamID:     in.TeamID,
		EmployeeID: in.EmployeeID,
		StartAt:    in.Start,
		EndAt:      in.End,
		Note:       in.Note,
	}
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		team, err := tx.Teams.GetByID(in.TeamID)
		if err != nil {
			return err
		}
		if team == nil {
			return notFound("team %d", in.TeamID)
		}
		if err := checkShift(tx, shift, 0); err != nil {
			return err
		}
		return tx.Shifts.Create(shift)
	})
	if err != nil {
		s.logger.WithError(err).WithField("team_id", in.TeamID).Warn("Shift not created")
		return nil, err
	}
	return shift, nil
}

// Update merges patch onto the shift. Overlap is re-checked only when the
// resulting shift is assigned.
func (s *ShiftService) Update(ctx context.Context, id uint, patch models.ShiftPatch) (*models.Shift, error) {
	return s.mutate(ctx, id, func(shift models.Shift) models.Shift {
		return patch.Apply(shift)
	})
}

func (s *ShiftService) Assign(ctx context.Context, id, employeeID uint) (*models.Shift, error) {
	return s.Update(ctx, id, models.ShiftPatch{EmployeeID: &employeeID})
}

func (s *ShiftService) Unassign(ctx context.Context, id uint) (*models.Shift, error) {
	return s.mutate(ctx, id, func(shift models.Shift) models.Shift {
		shift.EmployeeID = nil
		return shift
	})
}

func (s *ShiftService) Delete(ctx context.Context, id uint) error {
	return s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := lockShift(tx, id); err != nil {
			return err
		}
		deleted, err := tx.Shifts.Delete(id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("shift %d", id)
		}
		return nil
	})
}

func (s *ShiftService) Get(ctx context.Context, id uint) (*models.Shift, error) {
	shift, err := s.store.WithContext(ctx).Shifts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, notFound("shift %d", id)
	}
	return shift, nil
}

// ListForTeam returns the team's shifts intersecting [from, to); nil bounds are open.
func (s *ShiftService) ListForTeam(ctx context.Context, teamID uint, from, to *time.Time) ([]models.Shift, error) {
	store := s.store.WithContext(ctx)
	team, err := store.Teams.GetByID(teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, notFound("team %d", teamID)
	}
	return store.Shifts.ListByTeam(teamID, from, to)
}

func (s *ShiftService) ListForEmployee(ctx context.Context, employeeID uint, from, to *time.Time) ([]models.Shift, error) {
	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	return store.Shifts.ListByEmployee(employeeID, from, to)
}

func (s *ShiftService) mutate(ctx context.Context, id uint, change func(models.Shift) models.Shift) (*models.Shift, error) {
	var updated models.Shift
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		existing, err := lockShift(tx, id)
		if err != nil {
			return err
		}

		updated = change(*existing)
		if err := checkShift(tx, &updated, id); err != nil {
			return err
		}
		return tx.Shifts.Update(&updated)
	})
	if err != nil {
		s.logger.WithError(err).WithField("shift_id", id).Warn("Shift not updated")
		return nil, err
	}
	return &updated, nil
}

// lockShift loads the shift, takes its current assignee's lock and reads the
// row again under that lock.
func lockShift(tx *repository.Store, id uint) (*models.Shift, error) {
	shift, err := tx.Shifts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, notFound("shift %d", id)
	}
	if shift.EmployeeID == nil {
		return shift, nil
	}
	if _, err := tx.LockEmployee(*shift.EmployeeID); err != nil {
		return nil, err
	}
	shift, err = tx.Shifts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, notFound("shift %d", id)
	}
	return shift, nil
}

// checkShift validates the window and, for an assigned shift, takes the
// employee's lock and checks it against that employee's other shifts.
func checkShift(tx *repository.Store, shift *models.Shift, excludeID uint) error {
	iv := shift.Interval()
	if err := iv.Validate(); err != nil {
		return conflict("invalid shift window: %v", err)
	}
	if shift.EmployeeID == nil {
		return nil
	}

	employeeID := *shift.EmployeeID
	if _, err := lockActiveEmployee(tx, employeeID); err != nil {
		return err
	}
	assigned, err := tx.Shifts.ListAssigned(employeeID)
	if err != nil {
		return err
	}
	if models.ExistsOverlap(iv, models.ShiftSpans(assigned), excludeID) {
		return conflict("shift overlaps another shift assigned to employee %d", employeeID)
	}
	return nil
}
