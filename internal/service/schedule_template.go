package service

import (
	"context"
	"strings"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
)

// TemplateInput describes a new schedule template. An empty Pattern means
// Monday to Friday, 09:00 to 17:00.
type TemplateInput struct {
	TeamID  uint   `validate:"required"`
	Name    string `validate:"required,max=120"`
	Active  bool
	Pattern models.WeeklyPattern
}

// TemplateService manages schedule templates. At most one template per team
// is active; activating one deactivates its siblings in the same transaction.
type TemplateService struct {
	store  *repository.Store
	logger *logrus.Logger
}

func NewTemplateService(store *repository.Store, logger *logrus.Logger) *TemplateService {
	return &TemplateService{store: store, logger: logger}
}

func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*models.ScheduleTemplate, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	if err := in.Pattern.Validate(); err != nil {
		return nil, conflict("invalid pattern: %v", err)
	}

	template := &models.ScheduleTemplate{
		TeamID:  in.TeamID,
		Name:    in.Name,
		Active:  in.Active,
		Pattern: in.Pattern,
	}
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		team, err := tx.Teams.GetByID(in.TeamID)
		if err != nil {
			return err
		}
		if team == nil {
			return notFound("team %d", in.TeamID)
		}
		if err := checkTemplateName(tx, in.TeamID, in.Name, 0); err != nil {
			return err
		}
		if err := tx.Templates.Create(template); err != nil {
			return err
		}
		if template.Active {
			_, err := tx.Templates.DeactivateOthers(template.TeamID, template.ID)
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("team_id", in.TeamID).Warn("Schedule template not created")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"template_id":    template.ID,
		"team_id":        template.TeamID,
		"weekly_minutes": template.Pattern.WeeklyMinutes(),
	}).Info("Schedule template created")
	return template, nil
}

func (s *TemplateService) Update(ctx context.Context, id uint, patch models.TemplatePatch) (*models.ScheduleTemplate, error) {
	if patch.Pattern != nil {
		if err := patch.Pattern.Validate(); err != nil {
			return nil, conflict("invalid pattern: %v", err)
		}
	}
	return s.mutate(ctx, id, func(tx *repository.Store, t *models.ScheduleTemplate) error {
		*t = patch.Apply(*t)
		if t.Name == "" {
			return conflict("template name is required")
		}
		if patch.Name != nil {
			return checkTemplateName(tx, t.TeamID, t.Name, t.ID)
		}
		return nil
	})
}

func (s *TemplateService) Activate(ctx context.Context, id uint) (*models.ScheduleTemplate, error) {
	active := true
	return s.Update(ctx, id, models.TemplatePatch{Active: &active})
}

func (s *TemplateService) Deactivate(ctx context.Context, id uint) (*models.ScheduleTemplate, error) {
	active := false
	return s.Update(ctx, id, models.TemplatePatch{Active: &active})
}

func (s *TemplateService) Delete(ctx context.Context, id uint) error {
	return s.store.Atomic(ctx, func(tx *repository.Store) error {
		deleted, err := tx.Templates.Delete(id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("schedule template %d", id)
		}
		return nil
	})
}

func (s *TemplateService) List(ctx context.Context, teamID uint) ([]models.ScheduleTemplate, error) {
	store := s.store.WithContext(ctx)
	team, err := store.Teams.GetByID(teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, notFound("team %d", teamID)
	}
	return store.Templates.ListByTeam(teamID)
}

// GenerateShifts creates one unassigned shift per pattern slot for every day
// of the inclusive date range in zone, skipping stored holidays. It returns
// the number of shifts created.
func (s *TemplateService) GenerateShifts(ctx context.Context, templateID uint, fromDate, toDate time.Time, zone *time.Location) (int, error) {
	if zone == nil {
		zone = time.UTC
	}
	first := time.Date(fromDate.Year(), fromDate.Month(), fromDate.Day(), 0, 0, 0, 0, zone)
	last := time.Date(toDate.Year(), toDate.Month(), toDate.Day(), 0, 0, 0, 0, zone)
	if first.After(last) {
		return 0, conflict("generation start %s is after its end %s", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}

	var shifts []models.Shift
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		template, err := tx.Templates.GetByID(templateID)
		if err != nil {
			return err
		}
		if template == nil {
			return notFound("schedule template %d", templateID)
		}
		if !template.Active {
			return conflict("schedule template %d is not active", templateID)
		}

		holidays, err := tx.Holidays.ListBetween(models.DateOf(first), models.DateOf(last))
		if err != nil {
			return err
		}
		skip := make(map[string]bool, len(holidays))
		for _, h := range holidays {
			skip[h.Date.Format("2006-01-02")] = true
		}

		note := "generated from template: " + template.Name
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			if skip[day.Format("2006-01-02")] {
				continue
			}
			slots, err := template.Pattern.Slots(day.Weekday())
			if err != nil {
				return conflict("invalid pattern: %v", err)
			}
			for _, slot := range slots {
				start, end := slot.At(day, zone)
				shifts = append(shifts, models.Shift{
					TeamID:  template.TeamID,
					StartAt: start,
					EndAt:   end,
					Note:    note,
				})
			}
		}
		return tx.Shifts.CreateBatch(shifts)
	})
	if err != nil {
		s.logger.WithError(err).WithField("template_id", templateID).Warn("Shift generation failed")
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"template_id": templateID,
		"from":        first.Format("2006-01-02"),
		"to":          last.Format("2006-01-02"),
		"count":       len(shifts),
	}).Info("Shifts generated")
	return len(shifts), nil
}

func (s *TemplateService) mutate(ctx context.Context, id uint, fn func(tx *repository.Store, t *models.ScheduleTemplate) error) (*models.ScheduleTemplate, error) {
	var template *models.ScheduleTemplate
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		var err error
		template, err = tx.Templates.GetByID(id)
		if err != nil {
			return err
		}
		if template == nil {
			return notFound("schedule template %d", id)
		}
		if err := fn(tx, template); err != nil {
			return err
		}
		if err := tx.Templates.Update(template); err != nil {
			return err
		}
		if template.Active {
			_, err := tx.Templates.DeactivateOthers(template.TeamID, template.ID)
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("template_id", id).Warn("Schedule template not updated")
		return nil, err
	}
	return template, nil
}

func checkTemplateName(tx *repository.Store, teamID uint, name string, selfID uint) error {
	existing, err := tx.Templates.GetByTeamAndName(teamID, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return conflict("team %d already has a template named %q", teamID, name)
	}
	return nil
}
