package models

import "time"

// TimesheetRow is one day of an employee's planned vs worked time.
type TimesheetRow struct {
	Date            time.Time `json:"date"`
	Holiday         bool      `json:"holiday"`
	PlannedShifts   int       `json:"planned_shifts"`
	PlannedMinutes  int       `json:"planned_minutes"`
	WorkedMinutes   int       `json:"worked_minutes"`
	WorkedHours     float64   `json:"worked_hours"`
	Leave           string    `json:"leave,omitempty"`
	Overrides       string    `json:"overrides,omitempty"`
	OvertimeMinutes int       `json:"overtime_minutes"`
	DeficitMinutes  int       `json:"deficit_minutes"`
}

// CalculateBalance splits worked minus planned into overtime or deficit.
func (r *TimesheetRow) CalculateBalance() {
	diff := r.WorkedMinutes - r.PlannedMinutes
	if diff > 0 {
		r.OvertimeMinutes = diff
		r.DeficitMinutes = 0
	} else {
		r.OvertimeMinutes = 0
		r.DeficitMinutes = -diff
	}
}

// Timesheet is the per-day breakdown of one employee over a date range.
type Timesheet struct {
	EmployeeID uint           `json:"employee_id"`
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Rows       []TimesheetRow `json:"rows"`
}

// Totals sums the rows into a single row with a zero date.
func (t *Timesheet) Totals() TimesheetRow {
	var total TimesheetRow
	for _, r := range t.Rows {
		total.PlannedShifts += r.PlannedShifts
		total.PlannedMinutes += r.PlannedMinutes
		total.WorkedMinutes += r.WorkedMinutes
		total.WorkedHours += r.WorkedHours
	}
	total.CalculateBalance()
	return total
}

// TeamTimesheet holds one timesheet per employee planned on a team's shifts,
// ordered by employee id.
type TeamTimesheet struct {
	TeamID    uint        `json:"team_id"`
	TeamName  string      `json:"team_name"`
	From      time.Time   `json:"from"`
	To        time.Time   `json:"to"`
	Employees []Timesheet `json:"employees"`
}
