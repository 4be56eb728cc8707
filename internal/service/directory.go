package service

import (
	"context"
	"strings"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

// EmployeeInput describes a new employee.
type EmployeeInput struct {
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"max=100"`
	Email     string `validate:"required,email"`
}

// DirectoryService manages employees, teams and team membership.
type DirectoryService struct {
	store  *repository.Store
	logger *logrus.Logger
}

func NewDirectoryService(store *repository.Store, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{store: store, logger: logger}
}

func (s *DirectoryService) CreateEmployee(ctx context.Context, in EmployeeInput) (*models.Employee, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	employee := &models.Employee{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Active:    true,
	}
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		existing, err := tx.Employees.GetByEmail(in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflict("email %s is already registered", in.Email)
		}
		return tx.Employees.Create(employee)
	})
	if err != nil {
		s.logger.WithError(err).WithField("email", in.Email).Warn("Employee not created")
		return nil, err
	}
	return employee, nil
}

func (s *DirectoryService) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	return requireEmployee(s.store.WithContext(ctx), id)
}

func (s *DirectoryService) SetEmployeeActive(ctx context.Context, id uint, active bool) (*models.Employee, error) {
	var employee *models.Employee
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		var err error
		employee, err = tx.LockEmployee(id)
		if err != nil {
			return err
		}
		if employee == nil {
			return notFound("employee %d", id)
		}
		if err := tx.Employees.SetActive(id, active); err != nil {
			return err
		}
		employee.Active = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *DirectoryService) CreateTeam(ctx context.Context, name string, managerID *uint) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, conflict("team name is required")
	}

	team := &models.Team{Name: name, ManagerID: managerID}
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if managerID != nil {
			if _, err := requireEmployee(tx, *managerID); err != nil {
				return err
			}
		}
		existing, err := tx.Teams.GetByName(name)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflict("team %q already exists", name)
		}
		return tx.Teams.Create(team)
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *DirectoryService) AddTeamMember(ctx context.Context, teamID, employeeID uint) error {
	return s.store.Atomic(ctx, func(tx *repository.Store) error {
		team, err := tx.Teams.GetByID(teamID)
		if err != nil {
			return err
		}
		if team == nil {
			return notFound("team %d", teamID)
		}
		if _, err := requireEmployee(tx, employeeID); err != nil {
			return err
		}
		member, err := tx.Teams.IsMember(teamID, employeeID)
		if err != nil {
			return err
		}
		if member {
			return conflict("employee %d is already in team %d", employeeID, teamID)
		}
		return tx.Teams.AddMember(teamID, employeeID)
	})
}

func (s *DirectoryService) RemoveTeamMember(ctx context.Context, teamID, employeeID uint) error {
	return s.store.Atomic(ctx, func(tx *repository.Store) error {
		removed, err := tx.Teams.RemoveMember(teamID, employeeID)
		if err != nil {
			return err
		}
		if !removed {
			return notFound("employee %d in team %d", employeeID, teamID)
		}
		s.logger.WithFields(logrus.Fields{
			"team_id":     teamID,
			"employee_id": employeeID,
		}).Info("Team member removed")
		return nil
	})
}

// ListTeams returns every team with its members, ordered by name then id.
func (s *DirectoryService) ListTeams(ctx context.Context) ([]models.TeamRoster, error) {
	return s.store.WithContext(ctx).Teams.ListRosters()
}

func (s *DirectoryService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.store.WithContext(ctx).Employees.ListActive()
}
