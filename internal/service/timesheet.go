package service

import (
	"context"
	"math"
	"sort"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"
)

// Timesheet lays out planned shifts, worked time, holidays, leave and schedule
// overrides per calendar day in zone for the inclusive date range. Open
// sessions count up to the service clock.
func (s *ReportService) Timesheet(ctx context.Context, employeeID uint, fromDate, toDate time.Time, zone *time.Location) (*models.Timesheet, error) {
	params := s.normalize(ReportParams{Zone: zone})
	first, last, err := dateRange(fromDate, toDate, params.Zone)
	if err != nil {
		return nil, err
	}

	var sheet *models.Timesheet
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := requireEmployee(tx, employeeID); err != nil {
			return err
		}
		sheet, err = buildTimesheet(tx, employeeID, first, last, params.Now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// TeamTimesheet builds a timesheet for every employee assigned one of the
// team's shifts starting within the inclusive date range. Unassigned shifts
// are ignored.
func (s *ReportService) TeamTimesheet(ctx context.Context, teamID uint, fromDate, toDate time.Time, zone *time.Location) (*models.TeamTimesheet, error) {
	params := s.normalize(ReportParams{Zone: zone})
	first, last, err := dateRange(fromDate, toDate, params.Zone)
	if err != nil {
		return nil, err
	}
	end := last.AddDate(0, 0, 1)

	var sheets *models.TeamTimesheet
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		team, err := tx.Teams.GetByID(teamID)
		if err != nil {
			return err
		}
		if team == nil {
			return notFound("team %d", teamID)
		}
		shifts, err := tx.Shifts.ListByTeam(teamID, &first, &end)
		if err != nil {
			return err
		}

		seen := make(map[uint]bool)
		var employeeIDs []uint
		for i := range shifts {
			sh := &shifts[i]
			if sh.EmployeeID == nil || sh.StartAt.Before(first) || !sh.StartAt.Before(end) {
				continue
			}
			if !seen[*sh.EmployeeID] {
				seen[*sh.EmployeeID] = true
				employeeIDs = append(employeeIDs, *sh.EmployeeID)
			}
		}
		sort.Slice(employeeIDs, func(i, j int) bool { return employeeIDs[i] < employeeIDs[j] })

		sheets = &models.TeamTimesheet{TeamID: team.ID, TeamName: team.Name, From: first, To: last}
		for _, id := range employeeIDs {
			sheet, err := buildTimesheet(tx, id, first, last, params.Now)
			if err != nil {
				return err
			}
			sheets.Employees = append(sheets.Employees, *sheet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

// dateRange resolves the calendar dates of from and to to midnights in loc.
func dateRange(fromDate, toDate time.Time, loc *time.Location) (time.Time, time.Time, error) {
	first := time.Date(fromDate.Year(), fromDate.Month(), fromDate.Day(), 0, 0, 0, 0, loc)
	last := time.Date(toDate.Year(), toDate.Month(), toDate.Day(), 0, 0, 0, 0, loc)
	if first.After(last) {
		return first, last, conflict("timesheet start %s is after its end %s", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	return first, last, nil
}

func buildTimesheet(tx *repository.Store, employeeID uint, first, last, now time.Time) (*models.Timesheet, error) {
	end := last.AddDate(0, 0, 1)

	byEmployee, err := loadSessionPauses(tx, []uint{employeeID}, first, end)
	if err != nil {
		return nil, err
	}
	shifts, err := tx.Shifts.ListByEmployee(employeeID, &first, &end)
	if err != nil {
		return nil, err
	}
	holidays, err := tx.Holidays.ListBetween(models.DateOf(first), models.DateOf(last))
	if err != nil {
		return nil, err
	}
	leaves, err := tx.Leaves.ListInWindow(employeeID, models.DateOf(first), models.DateOf(last))
	if err != nil {
		return nil, err
	}
	overrides, err := tx.Overrides.ListForEmployee(employeeID, models.DateOf(first), models.DateOf(last))
	if err != nil {
		return nil, err
	}

	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.Format("2006-01-02")] = true
	}
	overridesByDay := make(map[string][]models.ScheduleOverride)
	for _, o := range overrides {
		key := o.Date.Format("2006-01-02")
		overridesByDay[key] = append(overridesByDay[key], o)
	}

	sheet := &models.Timesheet{EmployeeID: employeeID, From: first, To: last}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)
		key := day.Format("2006-01-02")
		row := models.TimesheetRow{
			Date:      day,
			Holiday:   holidaySet[key],
			Leave:     leaveLabel(leaves, day),
			Overrides: models.OverrideNotes(overridesByDay[key]),
		}

		for i := range shifts {
			if !shifts[i].StartAt.Before(day) && shifts[i].StartAt.Before(dayEnd) {
				row.PlannedShifts++
				row.PlannedMinutes += int(shifts[i].EndAt.Sub(shifts[i].StartAt).Minutes())
			}
		}

		if measureEnd := minTime(dayEnd, now); measureEnd.After(day) {
			worked := AggregateHours(byEmployee[employeeID], day, measureEnd)
			row.WorkedMinutes = int(math.Round(worked.NetMinutes))
			row.WorkedHours = worked.NetHours
		}

		row.CalculateBalance()
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// leaveLabel names the blocking leave covering day, preferring an approved
// one and then the earliest start.
func leaveLabel(leaves []models.LeaveRequest, day time.Time) string {
	var best *models.LeaveRequest
	for i := range leaves {
		l := &leaves[i]
		if !l.Status.Blocking() || !l.CoversDay(day) {
			continue
		}
		switch {
		case best == nil:
			best = l
		case l.Status == models.LeaveStatusApproved && best.Status != models.LeaveStatusApproved:
			best = l
		case l.Status == best.Status && l.StartDate.Before(best.StartDate):
			best = l
		}
	}
	if best == nil {
		return ""
	}
	return best.Label()
}
