// Package calendar counts business days against an injected holiday set.
package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// HolidaySet is a set of non-working dates plus the years it was built to cover.
// The zero value is an empty set that covers no year.
type HolidaySet struct {
	days  map[string]string
	years map[int]bool
}

// NewHolidaySet builds a set from the given dates. The years of the dates are marked as covered.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	h := HolidaySet{}
	for _, d := range dates {
		h.Add(d, "")
	}
	return h
}

// Add marks d as a holiday and its year as covered.
func (h *HolidaySet) Add(d time.Time, name string) {
	if h.days == nil {
		h.days = make(map[string]string)
		h.years = make(map[int]bool)
	}
	d = DateOf(d)
	h.days[d.Format(dateLayout)] = name
	h.years[d.Year()] = true
}

// CoverYear marks a year as covered even if it has no holidays listed.
func (h *HolidaySet) CoverYear(year int) {
	if h.years == nil {
		h.days = make(map[string]string)
		h.years = make(map[int]bool)
	}
	h.years[year] = true
}

// Contains reports whether the calendar date of d is a holiday.
func (h HolidaySet) Contains(d time.Time) bool {
	_, ok := h.days[DateOf(d).Format(dateLayout)]
	return ok
}

// Name returns the holiday name for d, if any.
func (h HolidaySet) Name(d time.Time) string {
	return h.days[DateOf(d).Format(dateLayout)]
}

// Covers reports whether the set was configured for the given year.
// Counting across an uncovered year silently treats every weekday as a business day.
func (h HolidaySet) Covers(year int) bool {
	return h.years[year]
}

// Len returns the number of holidays in the set.
func (h HolidaySet) Len() int {
	return len(h.days)
}

// DateOf drops the time-of-day component of t, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD or YYYYMMDD.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{dateLayout, "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or YYYYMMDD", s)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(dateLayout)
}

// IsBusinessDay reports whether d is a weekday that is not a holiday.
func IsBusinessDay(d time.Time, holidays HolidaySet) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(d)
}

// BusinessDaysBetween counts the business days in the closed interval [start, end].
// Both bounds are reduced to calendar dates first. start after end yields 0.
func BusinessDaysBetween(start, end time.Time, holidays HolidaySet) int {
	start, end = DateOf(start), DateOf(end)

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d, holidays) {
			count++
		}
	}
	return count
}

// Calendar binds a holiday set so callers only pass dates.
type Calendar struct {
	holidays HolidaySet
}

// New creates a Calendar over the given holidays.
func New(holidays HolidaySet) *Calendar {
	return &Calendar{holidays: holidays}
}

// BusinessDaysBetween counts business days in [start, end].
func (c *Calendar) BusinessDaysBetween(start, end time.Time) int {
	return BusinessDaysBetween(start, end, c.holidays)
}

// Covers reports whether the underlying holiday set covers year.
func (c *Calendar) Covers(year int) bool {
	return c.holidays.Covers(year)
}

// Holiday returns the name of the holiday on d, if d is one.
func (c *Calendar) Holiday(d time.Time) (string, bool) {
	if !c.holidays.Contains(d) {
		return "", false
	}
	return c.holidays.Name(d), true
}

// holidayFile is the on-disk layout:
//
//	years:
//	  2024:
//	    - date: 2024-01-01
//	      name: New Year's Day
type holidayFile struct {
	Years map[int][]struct {
		Date string `yaml:"date"`
		Name string `yaml:"name"`
	} `yaml:"years"`
}

// LoadHolidays reads a YAML holiday calendar keyed by year.
func LoadHolidays(path string) (HolidaySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HolidaySet{}, fmt.Errorf("failed to read holidays file: %w", err)
	}
	return ParseHolidays(data)
}

// ParseHolidays decodes a YAML holiday calendar.
func ParseHolidays(data []byte) (HolidaySet, error) {
	var file holidayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return HolidaySet{}, fmt.Errorf("failed to parse holidays: %w", err)
	}

	var h HolidaySet
	for year, entries := range file.Years {
		h.CoverYear(year)
		for _, e := range entries {
			d, err := ParseDate(e.Date)
			if err != nil {
				return HolidaySet{}, err
			}
			if d.Year() != year {
				return HolidaySet{}, fmt.Errorf("holiday %s listed under year %d", e.Date, year)
			}
			h.Add(d, e.Name)
		}
	}
	return h, nil
}
