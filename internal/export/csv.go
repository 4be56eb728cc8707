package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"timekeeper/internal/models"
	"timekeeper/internal/service"
)

// TimesheetCSV writes one row per day followed by a totals row.
func TimesheetCSV(w io.Writer, sheet *models.Timesheet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Date", "Holiday", "Leave", "Planned shifts", "Planned", "Worked", "Worked (h)", "Overtime", "Deficit"}); err != nil {
		return err
	}
	for _, r := range sheet.Rows {
		if err := cw.Write(timesheetRow(r.Date.Format("2006-01-02"), r)); err != nil {
			return err
		}
	}
	if err := cw.Write(timesheetRow("Total", sheet.Totals())); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func timesheetRow(label string, r models.TimesheetRow) []string {
	holiday := ""
	if r.Holiday {
		holiday = "yes"
	}
	return []string{
		label,
		holiday,
		r.Leave,
		strconv.Itoa(r.PlannedShifts),
		formatMinutes(r.PlannedMinutes),
		formatMinutes(r.WorkedMinutes),
		strconv.FormatFloat(r.WorkedHours, 'f', 2, 64),
		formatMinutes(r.OvertimeMinutes),
		formatMinutes(r.DeficitMinutes),
	}
}

// ReportCSV writes the team averages and, last, the monthly lateness line.
func ReportCSV(w io.Writer, report *service.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Team ID", "Team", "Members", "Avg hours (week)"}); err != nil {
		return err
	}
	for _, t := range report.TeamAvgHoursWeek {
		row := []string{
			strconv.FormatUint(uint64(t.TeamID), 10),
			t.TeamName,
			strconv.Itoa(t.Members),
			strconv.FormatFloat(t.AvgHours, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	lateness := []string{
		"",
		fmt.Sprintf("Lateness %s", report.MonthStart.Format("2006-01")),
		fmt.Sprintf("%d/%d", report.LatenessMonth.LateDays, report.LatenessMonth.TotalDays),
		strconv.FormatFloat(report.LatenessRateMonth, 'f', 4, 64),
	}
	if err := cw.Write(lateness); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// formatMinutes renders minutes as HH:MM.
func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
