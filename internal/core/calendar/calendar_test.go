package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBusinessDaysBetween_SingleDay(t *testing.T) {
	none := HolidaySet{}

	assert.Equal(t, 1, BusinessDaysBetween(date("2024-01-10"), date("2024-01-10"), none), "wednesday")
	assert.Equal(t, 0, BusinessDaysBetween(date("2024-01-13"), date("2024-01-13"), none), "saturday")
	assert.Equal(t, 0, BusinessDaysBetween(date("2024-01-14"), date("2024-01-14"), none), "sunday")
}

func TestBusinessDaysBetween_FullWeek(t *testing.T) {
	monday, friday := date("2024-01-08"), date("2024-01-12")

	assert.Equal(t, 5, BusinessDaysBetween(monday, friday, HolidaySet{}))
	assert.Equal(t, 4, BusinessDaysBetween(monday, friday, NewHolidaySet(friday)))
}

func TestBusinessDaysBetween_SpansWeekendAndHoliday(t *testing.T) {
	// Fri 2024-01-12 .. Tue 2024-01-16 with MLK day on Monday.
	holidays := NewHolidaySet(date("2024-01-15"))

	assert.Equal(t, 2, BusinessDaysBetween(date("2024-01-12"), date("2024-01-16"), holidays))
}

func TestBusinessDaysBetween_StartAfterEnd(t *testing.T) {
	assert.Equal(t, 0, BusinessDaysBetween(date("2024-01-12"), date("2024-01-08"), HolidaySet{}))
}

func TestBusinessDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	start := time.Date(2024, 1, 8, 23, 30, 0, 0, loc)
	end := time.Date(2024, 1, 9, 0, 15, 0, 0, loc)

	assert.Equal(t, 2, BusinessDaysBetween(start, end, HolidaySet{}))
}

func TestBusinessDaysBetween_CrossesYearBoundary(t *testing.T) {
	holidays := NewHolidaySet(date("2024-12-25"), date("2025-01-01"))

	// Mon 2024-12-23 .. Fri 2025-01-03: 10 weekdays minus two holidays.
	assert.Equal(t, 8, BusinessDaysBetween(date("2024-12-23"), date("2025-01-03"), holidays))
}

func TestCalendar_AdvancesByInterveningBusinessDays(t *testing.T) {
	cal := New(HolidaySet{})
	anchor := date("2024-01-08")

	first := cal.BusinessDaysBetween(anchor, date("2024-01-10"))
	second := cal.BusinessDaysBetween(anchor, date("2024-01-15"))

	// Thu, Fri and Mon lie between the two passes.
	assert.Equal(t, 3, second-first)
}

func TestParseHolidays(t *testing.T) {
	data := []byte(`
years:
  2024:
    - date: "2024-01-01"
      name: New Year's Day
    - date: "2024-07-04"
      name: Independence Day
  2025: []
`)
	h, err := ParseHolidays(data)
	require.NoError(t, err)

	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Contains(date("2024-07-04")))
	assert.Equal(t, "Independence Day", h.Name(date("2024-07-04")))
	assert.True(t, h.Covers(2024))
	assert.True(t, h.Covers(2025))
	assert.False(t, h.Covers(2026))
}

func TestParseHolidays_YearMismatch(t *testing.T) {
	_, err := ParseHolidays([]byte(`
years:
  2024:
    - date: "2025-01-01"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed under year 2024")
}

func TestLoadHolidays_RepositoryCalendar(t *testing.T) {
	h, err := LoadHolidays("../../../config/holidays.yaml")
	require.NoError(t, err)

	assert.True(t, h.Covers(2024))
	assert.True(t, h.Contains(date("2024-11-28")))
	assert.True(t, h.Contains(date("2026-07-03")))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("20240102")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", FormatDate(d))

	_, err = ParseDate("01/02/2024")
	assert.Error(t, err)
}

func TestCalendar_Holiday(t *testing.T) {
	h := HolidaySet{}
	h.Add(date("2024-01-15"), "Martin Luther King Jr. Day")
	cal := New(h)

	name, ok := cal.Holiday(date("2024-01-15").Add(9 * time.Hour))
	assert.True(t, ok)
	assert.Equal(t, "Martin Luther King Jr. Day", name)

	_, ok = cal.Holiday(date("2024-01-16"))
	assert.False(t, ok)
}
