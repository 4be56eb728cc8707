// Package calendar reads production calendars: per-year JSON files that list
// the non-working days of every month.
//
//	{"year": 2025, "months": [{"month": 1, "days": "1,2,3,4,5,6,7,8,11,12,18,19"}, ...]}
//
// A "+" suffix marks a holiday moved from a weekend, a "*" suffix marks a
// shortened working day.
package calendar

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

type calendarJSON struct {
	Year   int         `json:"year"`
	Months []monthDays `json:"months"`
}

type monthDays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// Day is one calendar date, held as midnight UTC.
type Day struct {
	Date        time.Time
	Transferred bool
}

func (d Day) Year() int  { return d.Date.Year() }
func (d Day) Month() int { return int(d.Date.Month()) }
func (d Day) Day() int   { return d.Date.Day() }

// Calendar is one parsed year. Shortened days are working days and are not
// part of NonWorking.
type Calendar struct {
	Year       int
	NonWorking []Day
	Shortened  []Day
}

// Parse reads one year from r.
func Parse(r io.Reader) (*Calendar, error) {
	var raw calendarJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}
	if raw.Year < 1900 || raw.Year > 2200 {
		return nil, fmt.Errorf("calendar year %d is out of range", raw.Year)
	}

	cal := &Calendar{Year: raw.Year}
	for _, m := range raw.Months {
		if m.Month < 1 || m.Month > 12 {
			return nil, fmt.Errorf("month %d is out of range", m.Month)
		}
		for _, token := range strings.Split(m.Days, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}

			shortened := strings.HasSuffix(token, "*")
			transferred := strings.HasSuffix(token, "+")
			token = strings.TrimRight(token, "*+")

			day, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day %q in month %d: %w", token, m.Month, err)
			}
			date := time.Date(raw.Year, time.Month(m.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(m.Month) {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, m.Month)
			}

			if shortened {
				cal.Shortened = append(cal.Shortened, Day{Date: date})
				continue
			}
			cal.NonWorking = append(cal.NonWorking, Day{Date: date, Transferred: transferred})
		}
	}

	sort.Slice(cal.NonWorking, func(i, j int) bool { return cal.NonWorking[i].Date.Before(cal.NonWorking[j].Date) })
	sort.Slice(cal.Shortened, func(i, j int) bool { return cal.Shortened[i].Date.Before(cal.Shortened[j].Date) })
	return cal, nil
}

// ParseFile reads one year from a JSON file.
func ParseFile(path string) (*Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
