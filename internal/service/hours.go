package service

import (
	"context"
	"sort"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

// HoursSummary is the worked time of one employee over a window.
type HoursSummary struct {
	EmployeeID uint      `json:"employee_id"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Sessions   int       `json:"sessions"`

	GrossMinutes float64 `json:"gross_minutes"`
	PauseMinutes float64 `json:"pause_minutes"`
	NetMinutes   float64 `json:"net_minutes"`

	GrossHours float64 `json:"gross_hours"`
	PauseHours float64 `json:"pause_hours"`
	NetHours   float64 `json:"net_hours"`
}

// AggregateHours measures sessions and their pauses clipped to [from, to).
// Open sessions run until to. Pauses are clipped to their clipped session and
// never count for more than it. Durations are summed exactly in session order
// and converted to minutes and hours once at the end.
func AggregateHours(items []models.SessionPauses, from, to time.Time) HoursSummary {
	ordered := make([]models.SessionPauses, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Session, ordered[j].Session
		if !a.ClockIn.Equal(b.ClockIn) {
			return a.ClockIn.Before(b.ClockIn)
		}
		return a.ID < b.ID
	})

	var gross, paused, net time.Duration
	counted := 0
	for _, item := range ordered {
		start, end, ok := item.Session.Interval().Clip(from, to)
		if !ok {
			continue
		}
		counted++
		sessionGross := end.Sub(start)

		var sessionPause time.Duration
		for _, p := range item.Pauses {
			ps, pe, ok := p.Interval().Clip(start, end)
			if ok {
				sessionPause += pe.Sub(ps)
			}
		}
		if sessionPause > sessionGross {
			sessionPause = sessionGross
		}

		gross += sessionGross
		paused += sessionPause
		net += sessionGross - sessionPause
	}

	return HoursSummary{
		From:         from,
		To:           to,
		Sessions:     counted,
		GrossMinutes: gross.Minutes(),
		PauseMinutes: paused.Minutes(),
		NetMinutes:   net.Minutes(),
		GrossHours:   gross.Hours(),
		PauseHours:   paused.Hours(),
		NetHours:     net.Hours(),
	}
}

// HoursService answers worked-hours queries.
type HoursService struct {
	store  *repository.Store
	logger *logrus.Logger
}

func NewHoursService(store *repository.Store, logger *logrus.Logger) *HoursService {
	return &HoursService{store: store, logger: logger}
}

// ComputeHours returns gross, pause and net time of the employee in [from, to).
func (s *HoursService) ComputeHours(ctx context.Context, employeeID uint, from, to time.Time) (*HoursSummary, error) {
	if !from.Before(to) {
		return nil, conflict("window end must be after its start")
	}

	var summary HoursSummary
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := requireEmployee(tx, employeeID); err != nil {
			return err
		}
		byEmployee, err := loadSessionPauses(tx, []uint{employeeID}, from, to)
		if err != nil {
			return err
		}
		summary = AggregateHours(byEmployee[employeeID], from, to)
		return nil
	})
	if err != nil {
		return nil, err
	}
	summary.EmployeeID = employeeID

	s.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"sessions":    summary.Sessions,
		"net_hours":   summary.NetHours,
	}).Debug("Hours computed")
	return &summary, nil
}

// loadSessionPauses reads the sessions intersecting [from, to) and their
// pauses in one store, grouped by employee. A nil employeeIDs loads everyone.
func loadSessionPauses(tx *repository.Store, employeeIDs []uint, from, to time.Time) (map[uint][]models.SessionPauses, error) {
	sessions, err := tx.Sessions.ListInWindow(employeeIDs, from, to)
	if err != nil {
		return nil, err
	}
	pauses, err := tx.Pauses.ListBySessions(sessionIDs(sessions))
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[uint][]models.SessionPauses)
	for _, session := range sessions {
		byEmployee[session.EmployeeID] = append(byEmployee[session.EmployeeID], models.SessionPauses{
			Session: session,
			Pauses:  pauses[session.ID],
		})
	}
	return byEmployee, nil
}
