package repository

import (
	"errors"

	"timekeeper/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TeamRepository interface {
	Create(team *models.Team) error
	GetByID(id uint) (*models.Team, error)
	GetByName(name string) (*models.Team, error)
	AddMember(teamID, employeeID uint) error
	RemoveMember(teamID, employeeID uint) (bool, error)
	IsMember(teamID, employeeID uint) (bool, error)
	ListRosters() ([]models.TeamRoster, error)
}

type GormTeamRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTeamRepository(db *gorm.DB, logger *logrus.Logger) *GormTeamRepository {
	return &GormTeamRepository{db: db, logger: logger}
}

func (r *GormTeamRepository) Create(team *models.Team) error {
	if err := r.db.Create(team).Error; err != nil {
		r.logger.WithError(err).WithField("name", team.Name).Error("Failed to create team")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":   team.ID,
		"name": team.Name,
	}).Info("Team created")
	return nil
}

func (r *GormTeamRepository) GetByID(id uint) (*models.Team, error) {
	var team models.Team
	result := r.db.First(&team, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get team by ID")
		return nil, result.Error
	}
	return &team, nil
}

func (r *GormTeamRepository) GetByName(name string) (*models.Team, error) {
	var team models.Team
	result := r.db.Where("name = ?", name).First(&team)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get team by name")
		return nil, result.Error
	}
	return &team, nil
}

func (r *GormTeamRepository) AddMember(teamID, employeeID uint) error {
	member := models.TeamMember{TeamID: teamID, EmployeeID: employeeID}
	if err := r.db.Create(&member).Error; err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"team_id":     teamID,
			"employee_id": employeeID,
		}).Error("Failed to add team member")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"team_id":     teamID,
		"employee_id": employeeID,
	}).Info("Team member added")
	return nil
}

func (r *GormTeamRepository) RemoveMember(teamID, employeeID uint) (bool, error) {
	result := r.db.Where("team_id = ? AND employee_id = ?", teamID, employeeID).Delete(&models.TeamMember{})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to remove team member")
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormTeamRepository) IsMember(teamID, employeeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND employee_id = ?", teamID, employeeID).
		Count(&count).Error
	return count > 0, err
}

// ListRosters returns every team with its member ids, ordered by name then id.
func (r *GormTeamRepository) ListRosters() ([]models.TeamRoster, error) {
	var teams []models.Team
	if err := r.db.Order("name, id").Find(&teams).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list teams")
		return nil, err
	}

	var members []models.TeamMember
	if err := r.db.Order("team_id, employee_id").Find(&members).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list team members")
		return nil, err
	}

	byTeam := make(map[uint][]uint, len(teams))
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m.EmployeeID)
	}

	rosters := make([]models.TeamRoster, 0, len(teams))
	for _, t := range teams {
		rosters = append(rosters, models.TeamRoster{Team: t, MemberIDs: byTeam[t.ID]})
	}
	return rosters, nil
}
