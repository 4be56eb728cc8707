package service

import (
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

var validate = validator.New(validator.WithRequiredStructEnabled())

// Services bundles every service over one store.
type Services struct {
	Directory *DirectoryService
	Clock     *ClockService
	Pauses    *PauseService
	Leaves    *LeaveService
	Shifts    *ShiftService
	Hours     *HoursService
	Reports   *ReportService
	Templates *TemplateService
	Holidays  *HolidayService
	Overrides *OverrideService
}

func New(store *repository.Store, logger *logrus.Logger, now Clock) *Services {
	if now == nil {
		now = time.Now
	}
	return &Services{
		Directory: NewDirectoryService(store, logger),
		Clock:     NewClockService(store, logger, now),
		Pauses:    NewPauseService(store, logger),
		Leaves:    NewLeaveService(store, logger, now),
		Shifts:    NewShiftService(store, logger),
		Hours:     NewHoursService(store, logger),
		Reports:   NewReportService(store, logger, now),
		Templates: NewTemplateService(store, logger),
		Holidays:  NewHolidayService(store, logger),
		Overrides: NewOverrideService(store, logger),
	}
}

// lockActiveEmployee takes the employee's row lock and checks it may act.
func lockActiveEmployee(tx *repository.Store, id uint) (*models.Employee, error) {
	employee, err := tx.LockEmployee(id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, notFound("employee %d", id)
	}
	if !employee.Active {
		return nil, conflict("employee %d is inactive", id)
	}
	return employee, nil
}

func requireEmployee(tx *repository.Store, id uint) (*models.Employee, error) {
	employee, err := tx.Employees.GetByID(id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, notFound("employee %d", id)
	}
	return employee, nil
}

func sessionIDs(sessions []models.ClockSession) []uint {
	ids := make([]uint, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	return ids
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
