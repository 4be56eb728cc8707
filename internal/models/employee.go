package models

import (
	"fmt"
	"time"
)

type Employee struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// FullName returns "First Last", or just the first name.
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return fmt.Sprintf("%s %s", e.FirstName, e.LastName)
}

type Team struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	ManagerID *uint     `gorm:"index" json:"manager_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

type TeamMember struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TeamID     uint      `gorm:"not null;uniqueIndex:ux_team_member" json:"team_id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:ux_team_member;index" json:"employee_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// TeamRoster is a team together with the ids of its members, loaded in one go
// for reporting.
type TeamRoster struct {
	Team      Team
	MemberIDs []uint
}
