package service

import (
	"context"
	"sort"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

// DefaultLateThreshold is 09:05.
const DefaultLateThreshold = 9*time.Hour + 5*time.Minute

// ReportParams fixes the inputs of a report so it can be reproduced.
// A nil Zone means UTC, a zero Now means the service clock and a zero
// LateThreshold means DefaultLateThreshold.
type ReportParams struct {
	Zone          *time.Location
	Now           time.Time
	LateThreshold time.Duration
}

type TeamAverage struct {
	TeamID   uint    `json:"team_id"`
	TeamName string  `json:"team_name"`
	Members  int     `json:"members"`
	AvgHours float64 `json:"avg_hours"`
}

type LatenessStats struct {
	TotalDays int     `json:"total_days"`
	LateDays  int     `json:"late_days"`
	Rate      float64 `json:"rate"`
}

type Report struct {
	GeneratedAt       time.Time     `json:"generated_at"`
	Zone              string        `json:"zone"`
	WeekStart         time.Time     `json:"week_start"`
	WeekEnd           time.Time     `json:"week_end"`
	MonthStart        time.Time     `json:"month_start"`
	MonthEnd          time.Time     `json:"month_end"`
	TeamAvgHoursWeek  []TeamAverage `json:"team_avg_hours_week"`
	LatenessMonth     LatenessStats `json:"lateness_month"`
	LatenessRateMonth float64       `json:"lateness_rate_month"`
}

type LateCheck struct {
	EmployeeID   uint       `json:"employee_id"`
	Day          time.Time  `json:"day"`
	FirstClockIn *time.Time `json:"first_clock_in"`
	Late         bool       `json:"late"`
}

// ReportService builds team and lateness reports and per-employee timesheets.
type ReportService struct {
	store  *repository.Store
	logger *logrus.Logger
	now    Clock
}

func NewReportService(store *repository.Store, logger *logrus.Logger, now Clock) *ReportService {
	return &ReportService{store: store, logger: logger, now: now}
}

// WeekWindow is [Monday 00:00, next Monday 00:00) around t in loc.
func WeekWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 7)
}

// MonthWindow is [1st 00:00, next 1st 00:00) of the month of t in loc.
func MonthWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// DayWindow is [00:00, next 00:00) of the calendar day of t in loc.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// timeOfDay is the wall-clock offset of t from its midnight.
func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// Lateness groups sessions starting in [from, to) by employee and calendar day
// in loc, takes the earliest start of each group and counts it late when its
// time of day is strictly after threshold.
func Lateness(sessions []models.ClockSession, from, to time.Time, loc *time.Location, threshold time.Duration) LatenessStats {
	type personDay struct {
		employeeID uint
		date       string
	}
	earliest := make(map[personDay]time.Time)
	for _, s := range sessions {
		if s.ClockIn.Before(from) || !s.ClockIn.Before(to) {
			continue
		}
		local := s.ClockIn.In(loc)
		key := personDay{employeeID: s.EmployeeID, date: local.Format("2006-01-02")}
		if first, ok := earliest[key]; !ok || local.Before(first) {
			earliest[key] = local
		}
	}

	stats := LatenessStats{TotalDays: len(earliest)}
	for _, first := range earliest {
		if timeOfDay(first) > threshold {
			stats.LateDays++
		}
	}
	if stats.TotalDays > 0 {
		stats.Rate = float64(stats.LateDays) / float64(stats.TotalDays)
	}
	return stats
}

func (s *ReportService) normalize(params ReportParams) ReportParams {
	if params.Zone == nil {
		params.Zone = time.UTC
	}
	if params.Now.IsZero() {
		params.Now = s.now()
	}
	if params.LateThreshold <= 0 {
		params.LateThreshold = DefaultLateThreshold
	}
	return params
}

// BuildReport computes each team's average net hours over the current week and
// the lateness rate of everyone over the current month. Teams without members
// are left out. Open sessions count up to the earlier of the window end and
// params.Now.
func (s *ReportService) BuildReport(ctx context.Context, params ReportParams) (*Report, error) {
	params = s.normalize(params)
	weekStart, weekEnd := WeekWindow(params.Now, params.Zone)
	monthStart, monthEnd := MonthWindow(params.Now, params.Zone)

	report := &Report{
		GeneratedAt:      params.Now,
		Zone:             params.Zone.String(),
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
		MonthStart:       monthStart,
		MonthEnd:         monthEnd,
		TeamAvgHoursWeek: []TeamAverage{},
	}

	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		rosters, err := tx.Teams.ListRosters()
		if err != nil {
			return err
		}

		members := make([]uint, 0)
		seen := make(map[uint]bool)
		for _, r := range rosters {
			for _, id := range r.MemberIDs {
				if !seen[id] {
					seen[id] = true
					members = append(members, id)
				}
			}
		}

		measureEnd := minTime(weekEnd, params.Now)
		netByEmployee := make(map[uint]float64, len(members))
		if measureEnd.After(weekStart) {
			byEmployee, err := loadSessionPauses(tx, members, weekStart, measureEnd)
			if err != nil {
				return err
			}
			for id, items := range byEmployee {
				netByEmployee[id] = AggregateHours(items, weekStart, measureEnd).NetHours
			}
		}

		for _, r := range rosters {
			if len(r.MemberIDs) == 0 {
				continue
			}
			var sum float64
			for _, id := range r.MemberIDs {
				sum += netByEmployee[id]
			}
			report.TeamAvgHoursWeek = append(report.TeamAvgHoursWeek, TeamAverage{
				TeamID:   r.Team.ID,
				TeamName: r.Team.Name,
				Members:  len(r.MemberIDs),
				AvgHours: sum / float64(len(r.MemberIDs)),
			})
		}
		sort.SliceStable(report.TeamAvgHoursWeek, func(i, j int) bool {
			a, b := report.TeamAvgHoursWeek[i], report.TeamAvgHoursWeek[j]
			if a.TeamName != b.TeamName {
				return a.TeamName < b.TeamName
			}
			return a.TeamID < b.TeamID
		})

		monthSessions, err := tx.Sessions.ListInWindow(nil, monthStart, monthEnd)
		if err != nil {
			return err
		}
		report.LatenessMonth = Lateness(monthSessions, monthStart, monthEnd, params.Zone, params.LateThreshold)
		report.LatenessRateMonth = report.LatenessMonth.Rate
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build report")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"teams":         len(report.TeamAvgHoursWeek),
		"lateness_rate": report.LatenessRateMonth,
	}).Info("Report built")
	return report, nil
}

// IsLate checks the employee's first clock-in on the calendar day of day in zone.
func (s *ReportService) IsLate(ctx context.Context, employeeID uint, day time.Time, threshold time.Duration, zone *time.Location) (*LateCheck, error) {
	params := s.normalize(ReportParams{Zone: zone, LateThreshold: threshold})
	from, to := DayWindow(day, params.Zone)

	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	sessions, err := store.Sessions.ListInWindow([]uint{employeeID}, from, to)
	if err != nil {
		return nil, err
	}

	check := &LateCheck{EmployeeID: employeeID, Day: from}
	for _, session := range sessions {
		if session.ClockIn.Before(from) || !session.ClockIn.Before(to) {
			continue
		}
		if check.FirstClockIn == nil || session.ClockIn.Before(*check.FirstClockIn) {
			first := session.ClockIn.In(params.Zone)
			check.FirstClockIn = &first
		}
	}
	if check.FirstClockIn != nil {
		check.Late = timeOfDay(*check.FirstClockIn) > params.LateThreshold
	}
	return check, nil
}

// LatenessRate is the share of the employee's working days in the month that
// started late.
func (s *ReportService) LatenessRate(ctx context.Context, employeeID uint, year int, month time.Month, threshold time.Duration, zone *time.Location) (*LatenessStats, error) {
	if month < time.January || month > time.December {
		return nil, conflict("month %d is out of range", month)
	}
	params := s.normalize(ReportParams{Zone: zone, LateThreshold: threshold})
	from, to := MonthWindow(time.Date(year, month, 1, 12, 0, 0, 0, params.Zone), params.Zone)

	store := s.store.WithContext(ctx)
	if _, err := requireEmployee(store, employeeID); err != nil {
		return nil, err
	}
	sessions, err := store.Sessions.ListInWindow([]uint{employeeID}, from, to)
	if err != nil {
		return nil, err
	}
	stats := Lateness(sessions, from, to, params.Zone, params.LateThreshold)
	return &stats, nil
}
