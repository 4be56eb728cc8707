package repository

import (
	"context"
	"errors"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store groups the repositories that share one *gorm.DB, either the pool or a
// single transaction.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger

	Employees EmployeeRepository
	Teams     TeamRepository
	Sessions  SessionRepository
	Pauses    PauseRepository
	Leaves    LeaveRepository
	Shifts    ShiftRepository
	Templates TemplateRepository
	Holidays  HolidayRepository
	Overrides OverrideRepository
}

func NewStore(db *gorm.DB, logger *logrus.Logger) *Store {
	return &Store{
		db:        db,
		logger:    logger,
		Employees: NewGormEmployeeRepository(db, logger),
		Teams:     NewGormTeamRepository(db, logger),
		Sessions:  NewGormSessionRepository(db, logger),
		Pauses:    NewGormPauseRepository(db, logger),
		Leaves:    NewGormLeaveRepository(db, logger),
		Shifts:    NewGormShiftRepository(db, logger),
		Templates: NewGormTemplateRepository(db, logger),
		Holidays:  NewGormHolidayRepository(db, logger),
		Overrides: NewGormOverrideRepository(db, logger),
	}
}

// WithContext returns a store whose queries carry ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx), s.logger)
}

// Atomic runs fn in a transaction. fn must only use the store it is given;
// any error it returns rolls everything back.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx, s.logger))
	})
}

// LockEmployee loads an employee and, on servers that support it, holds a row
// lock on it until the surrounding transaction ends. All writes that check
// per-employee invariants take this lock first. SQLite runs on one connection,
// so its transactions are already serialized.
func (s *Store) LockEmployee(id uint) (*models.Employee, error) {
	q := s.db
	if s.Dialect() != DriverSQLite {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var employee models.Employee
	err := q.First(&employee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", id).Error("Failed to lock employee")
		return nil, err
	}
	return &employee, nil
}

// Dialect names the underlying database.
func (s *Store) Dialect() string {
	return s.db.Dialector.Name()
}
