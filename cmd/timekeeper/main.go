package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timekeeper/internal/config"
	"timekeeper/internal/export"
	"timekeeper/internal/repository"
	"timekeeper/internal/service"

	"github.com/sirupsen/logrus"
)

const usage = `usage: timekeeper <command> [flags]

commands:
  migrate          create or update the database schema
  add-employee     -first NAME -last NAME -email EMAIL
  add-team         -name NAME [-manager ID]
  add-member       -team ID -employee ID
  employees        list active employees
  teams            list teams with their members
  clock-in         -employee ID [-at RFC3339]
  clock-out        -employee ID [-at RFC3339]
  hours            -employee ID -from TIME -to TIME
  report           [-now RFC3339] [-csv]
  timesheet        -employee ID -from DATE -to DATE [-csv]
  team-timesheet   -team ID -from DATE -to DATE
  add-override     -employee ID -date DATE -field NAME -value VALUE [-reason TEXT]
  overrides        -employee ID -from DATE -to DATE
  import-calendar  [-file PATH]
  generate-shifts  -template ID -from DATE -to DATE
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Get()
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		code := 1
		switch {
		case errors.Is(err, service.ErrNotFound):
			code = 3
		case errors.Is(err, service.ErrConflict):
			code = 4
		}
		logger.WithError(err).Error("Command failed")
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, command string, args []string, out io.Writer) error {
	db, err := repository.Open(repository.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			logger.WithError(err).Warn("Error closing database")
		}
	}()

	if command == "migrate" {
		if err := repository.Migrate(db); err != nil {
			return err
		}
		logger.Info("Schema is up to date")
		return nil
	}

	zone, err := cfg.Location()
	if err != nil {
		return err
	}
	threshold, err := cfg.LateThreshold()
	if err != nil {
		return err
	}

	svc := service.New(repository.NewStore(db, logger), logger, time.Now)
	fs := flag.NewFlagSet(command, flag.ContinueOnError)

	switch command {
	case "add-employee":
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		email := fs.String("email", "", "email address")
		if err := fs.Parse(args); err != nil {
			return err
		}
		employee, err := svc.Directory.CreateEmployee(ctx, service.EmployeeInput{FirstName: *first, LastName: *last, Email: *email})
		if err != nil {
			return err
		}
		return export.JSON(out, employee)

	case "add-team":
		name := fs.String("name", "", "team name")
		manager := fs.Uint("manager", 0, "manager employee id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		var managerID *uint
		if *manager != 0 {
			id := *manager
			managerID = &id
		}
		team, err := svc.Directory.CreateTeam(ctx, *name, managerID)
		if err != nil {
			return err
		}
		return export.JSON(out, team)

	case "add-member":
		team := fs.Uint("team", 0, "team id")
		employee := fs.Uint("employee", 0, "employee id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return svc.Directory.AddTeamMember(ctx, *team, *employee)

	case "employees":
		employees, err := svc.Directory.ListEmployees(ctx)
		if err != nil {
			return err
		}
		return export.JSON(out, employees)

	case "teams":
		teams, err := svc.Directory.ListTeams(ctx)
		if err != nil {
			return err
		}
		return export.JSON(out, teams)

	case "clock-in", "clock-out":
		employee := fs.Uint("employee", 0, "employee id")
		at := fs.String("at", "", "instant (RFC3339), defaults to now")
		if err := fs.Parse(args); err != nil {
			return err
		}
		instant, err := optionalInstant(*at)
		if err != nil {
			return err
		}
		clock := svc.Clock.ClockIn
		if command == "clock-out" {
			clock = svc.Clock.ClockOut
		}
		session, err := clock(ctx, *employee, instant)
		if err != nil {
			return err
		}
		return export.JSON(out, session)

	case "hours":
		employee := fs.Uint("employee", 0, "employee id")
		from := fs.String("from", "", "window start (date or RFC3339)")
		to := fs.String("to", "", "window end, exclusive (date or RFC3339)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		start, err := parseTime(*from, zone)
		if err != nil {
			return err
		}
		end, err := parseTime(*to, zone)
		if err != nil {
			return err
		}
		summary, err := svc.Hours.ComputeHours(ctx, *employee, start, end)
		if err != nil {
			return err
		}
		return export.JSON(out, summary)

	case "report":
		now := fs.String("now", "", "reference instant (RFC3339), defaults to now")
		asCSV := fs.Bool("csv", false, "write CSV instead of JSON")
		if err := fs.Parse(args); err != nil {
			return err
		}
		params := service.ReportParams{Zone: zone, LateThreshold: threshold}
		if *now != "" {
			if params.Now, err = parseTime(*now, zone); err != nil {
				return err
			}
		}
		report, err := svc.Reports.BuildReport(ctx, params)
		if err != nil {
			return err
		}
		if *asCSV {
			return export.ReportCSV(out, report)
		}
		return export.JSON(out, report)

	case "timesheet":
		employee := fs.Uint("employee", 0, "employee id")
		from := fs.String("from", "", "first day (YYYY-MM-DD)")
		to := fs.String("to", "", "last day (YYYY-MM-DD)")
		asCSV := fs.Bool("csv", false, "write CSV instead of JSON")
		if err := fs.Parse(args); err != nil {
			return err
		}
		first, err := parseTime(*from, zone)
		if err != nil {
			return err
		}
		last, err := parseTime(*to, zone)
		if err != nil {
			return err
		}
		sheet, err := svc.Reports.Timesheet(ctx, *employee, first, last, zone)
		if err != nil {
			return err
		}
		if *asCSV {
			return export.TimesheetCSV(out, sheet)
		}
		return export.JSON(out, sheet)

	case "team-timesheet":
		team := fs.Uint("team", 0, "team id")
		from := fs.String("from", "", "first day (YYYY-MM-DD)")
		to := fs.String("to", "", "last day (YYYY-MM-DD)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		first, err := parseTime(*from, zone)
		if err != nil {
			return err
		}
		last, err := parseTime(*to, zone)
		if err != nil {
			return err
		}
		sheets, err := svc.Reports.TeamTimesheet(ctx, *team, first, last, zone)
		if err != nil {
			return err
		}
		return export.JSON(out, sheets)

	case "add-override":
		employee := fs.Uint("employee", 0, "employee id")
		date := fs.String("date", "", "day (YYYY-MM-DD)")
		field := fs.String("field", "", "overridden field, e.g. start")
		value := fs.String("value", "", "new value")
		reason := fs.String("reason", "", "optional reason")
		if err := fs.Parse(args); err != nil {
			return err
		}
		on, err := parseTime(*date, zone)
		if err != nil {
			return err
		}
		override, err := svc.Overrides.Create(ctx, service.OverrideInput{
			EmployeeID: *employee,
			Date:       on,
			Field:      *field,
			Value:      *value,
			Reason:     *reason,
		})
		if err != nil {
			return err
		}
		return export.JSON(out, override)

	case "overrides":
		employee := fs.Uint("employee", 0, "employee id")
		from := fs.String("from", "", "first day (YYYY-MM-DD)")
		to := fs.String("to", "", "last day (YYYY-MM-DD)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		first, err := parseTime(*from, zone)
		if err != nil {
			return err
		}
		last, err := parseTime(*to, zone)
		if err != nil {
			return err
		}
		overrides, err := svc.Overrides.ListForEmployee(ctx, *employee, first, last)
		if err != nil {
			return err
		}
		return export.JSON(out, overrides)

	case "import-calendar":
		file := fs.String("file", cfg.CalendarPath, "calendar JSON file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *file == "" {
			return errors.New("no calendar file: pass -file or set CALENDAR_PATH")
		}
		count, err := svc.Holidays.ImportCalendarFile(ctx, *file)
		if err != nil {
			return err
		}
		logger.WithField("count", count).Info("Calendar imported")
		return nil

	case "generate-shifts":
		template := fs.Uint("template", 0, "schedule template id")
		from := fs.String("from", "", "first day (YYYY-MM-DD)")
		to := fs.String("to", "", "last day (YYYY-MM-DD)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		first, err := parseTime(*from, zone)
		if err != nil {
			return err
		}
		last, err := parseTime(*to, zone)
		if err != nil {
			return err
		}
		count, err := svc.Templates.GenerateShifts(ctx, *template, first, last, zone)
		if err != nil {
			return err
		}
		logger.WithField("count", count).Info("Shifts generated")
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// parseTime accepts RFC3339 or a bare date, read as midnight in zone.
func parseTime(value string, zone *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing time value")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD or RFC3339", value)
	}
	return t, nil
}

func optionalInstant(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid instant %q: use RFC3339", value)
	}
	return &t, nil
}
