package service

import (
	"context"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

const leaveOverlapMessage = "Overlaps an existing leave (APPROVED or PENDING)"

// LeaveInput is a new leave request. From and To are inclusive calendar dates.
type LeaveInput struct {
	EmployeeID uint             `validate:"required"`
	Type       models.LeaveType `validate:"required,oneof=PAID UNPAID SICK OTHER"`
	From       time.Time        `validate:"required"`
	To         time.Time        `validate:"required"`
	Reason     string           `validate:"max=500"`
}

// LeaveService keeps an employee's blocking leave requests apart and drives
// the request status machine.
type LeaveService struct {
	store  *repository.Store
	logger *logrus.Logger
	now    Clock
}

func NewLeaveService(store *repository.Store, logger *logrus.Logger, now Clock) *LeaveService {
	return &LeaveService{store: store, logger: logger, now: now}
}

func (s *LeaveService) Request(ctx context.Context, in LeaveInput) (*models.LeaveRequest, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	from, to := models.DateOf(in.From), models.DateOf(in.To)
	if from.After(to) {
		return nil, conflict("start date %s is after end date %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	leave := &models.LeaveRequest{
		EmployeeID: in.EmployeeID,
		Type:       in.Type,
		Status:     models.LeaveStatusPending,
		StartDate:  from,
		EndDate:    to,
		Reason:     in.Reason,
	}
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := lockActiveEmployee(tx, in.EmployeeID); err != nil {
			return err
		}
		if err := checkLeaveOverlap(tx, leave, 0); err != nil {
			return err
		}
		return tx.Leaves.Create(leave)
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", in.EmployeeID).Warn("Leave request rejected")
		return nil, err
	}
	return leave, nil
}

// Approve accepts a pending request. Only another approved request blocks it;
// overlapping pending siblings do not.
func (s *LeaveService) Approve(ctx context.Context, id uint) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, func(tx *repository.Store, leave *models.LeaveRequest) error {
		if err := leave.Transition(models.LeaveStatusApproved); err != nil {
			return conflict("%v", err)
		}
		approved, err := tx.Leaves.ListByStatus(leave.EmployeeID, models.LeaveStatusApproved)
		if err != nil {
			return err
		}
		if models.ExistsOverlap(leave.Interval(), models.LeaveSpans(approved), leave.ID) {
			return conflict("Overlaps an existing approved leave")
		}
		now := s.now().UTC()
		leave.DecidedAt = &now
		return nil
	})
}

// Reject declines a pending request. A non-empty note replaces the reason.
func (s *LeaveService) Reject(ctx context.Context, id uint, note *string) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, func(_ *repository.Store, leave *models.LeaveRequest) error {
		if err := leave.Transition(models.LeaveStatusRejected); err != nil {
			return conflict("%v", err)
		}
		if note != nil && *note != "" {
			leave.Reason = *note
		}
		now := s.now().UTC()
		leave.DecidedAt = &now
		return nil
	})
}

// Cancel withdraws a pending request on behalf of its owner.
func (s *LeaveService) Cancel(ctx context.Context, employeeID, id uint) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, func(_ *repository.Store, leave *models.LeaveRequest) error {
		if leave.EmployeeID != employeeID {
			return conflict("leave request %d belongs to another employee", id)
		}
		if err := leave.Transition(models.LeaveStatusCancelled); err != nil {
			return conflict("%v", err)
		}
		return nil
	})
}

// Update changes a pending request of its owner and re-runs the overlap check.
func (s *LeaveService) Update(ctx context.Context, employeeID, id uint, patch models.LeavePatch) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, func(tx *repository.Store, leave *models.LeaveRequest) error {
		if leave.EmployeeID != employeeID {
			return conflict("leave request %d belongs to another employee", id)
		}
		if leave.Status != models.LeaveStatusPending {
			return conflict("leave request %d is %s and can no longer be changed", id, leave.Status)
		}

		*leave = patch.Apply(*leave)
		if err := validate.Var(leave.Type, "oneof=PAID UNPAID SICK OTHER"); err != nil {
			return conflict("invalid leave type %q", leave.Type)
		}
		if leave.StartDate.After(leave.EndDate) {
			return conflict("start date %s is after end date %s",
				leave.StartDate.Format("2006-01-02"), leave.EndDate.Format("2006-01-02"))
		}
		return checkLeaveOverlap(tx, leave, leave.ID)
	})
}

// Delete removes a request of its owner that is still pending.
func (s *LeaveService) Delete(ctx context.Context, employeeID, id uint) error {
	return s.store.Atomic(ctx, func(tx *repository.Store) error {
		leave, err := lockLeave(tx, id)
		if err != nil {
			return err
		}
		if leave.EmployeeID != employeeID {
			return conflict("leave request %d belongs to another employee", id)
		}
		if leave.Status != models.LeaveStatusPending {
			return conflict("leave request %d is %s and can no longer be deleted", id, leave.Status)
		}
		_, err = tx.Leaves.Delete(id)
		return err
	})
}

func (s *LeaveService) Get(ctx context.Context, id uint) (*models.LeaveRequest, error) {
	leave, err := s.store.WithContext(ctx).Leaves.GetByID(id)
	if err != nil {
		return nil, err
	}
	if leave == nil {
		return nil, notFound("leave request %d", id)
	}
	return leave, nil
}

// ListForEmployee returns the employee's requests, newest first.
func (s *LeaveService) ListForEmployee(ctx context.Context, employeeID uint) ([]models.LeaveRequest, error) {
	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	return store.Leaves.ListByEmployee(employeeID)
}

// ListPending returns every request awaiting a decision, oldest first.
func (s *LeaveService) ListPending(ctx context.Context) ([]models.LeaveRequest, error) {
	return s.store.WithContext(ctx).Leaves.ListPending()
}

// ListInWindow returns the employee's requests touching the inclusive date range.
func (s *LeaveService) ListInWindow(ctx context.Context, employeeID uint, from, to time.Time) ([]models.LeaveRequest, error) {
	if models.DateOf(from).After(models.DateOf(to)) {
		return nil, conflict("window start is after its end")
	}
	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	return store.Leaves.ListInWindow(employeeID, from, to)
}

// decide loads the request under its owner's lock, lets fn mutate it and
// saves the result.
func (s *LeaveService) decide(ctx context.Context, id uint, fn func(tx *repository.Store, leave *models.LeaveRequest) error) (*models.LeaveRequest, error) {
	var leave *models.LeaveRequest
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		var err error
		leave, err = lockLeave(tx, id)
		if err != nil {
			return err
		}
		if err := fn(tx, leave); err != nil {
			return err
		}
		return tx.Leaves.Update(leave)
	})
	if err != nil {
		s.logger.WithError(err).WithField("leave_id", id).Warn("Leave request change rejected")
		return nil, err
	}
	return leave, nil
}

func lockLeave(tx *repository.Store, id uint) (*models.LeaveRequest, error) {
	leave, err := tx.Leaves.GetByID(id)
	if err != nil {
		return nil, err
	}
	if leave == nil {
		return nil, notFound("leave request %d", id)
	}
	if _, err := tx.LockEmployee(leave.EmployeeID); err != nil {
		return nil, err
	}
	leave, err = tx.Leaves.GetByID(id)
	if err != nil {
		return nil, err
	}
	if leave == nil {
		return nil, notFound("leave request %d", id)
	}
	return leave, nil
}

func checkLeaveOverlap(tx *repository.Store, leave *models.LeaveRequest, excludeID uint) error {
	blocking, err := tx.Leaves.ListByStatus(leave.EmployeeID, models.LeaveStatusPending, models.LeaveStatusApproved)
	if err != nil {
		return err
	}
	if models.ExistsOverlap(leave.Interval(), models.LeaveSpans(blocking), excludeID) {
		return conflict(leaveOverlapMessage)
	}
	return nil
}
