package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStatusCycle(t *testing.T) {
	assert.Equal(t, InProgress, Pending.Cycle())
	assert.Equal(t, Done, InProgress.Cycle())
	assert.Equal(t, Pending, Done.Cycle())
	assert.Equal(t, InProgress, Status(9).Cycle())
}

func TestStatusNormalize(t *testing.T) {
	assert.Equal(t, Pending, Status(-1).Normalize())
	assert.Equal(t, Done, Done.Normalize())
	assert.Equal(t, "Pending", Status(42).String())
	assert.Equal(t, "✔", Done.Icon())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-09-16")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2025/09/16", "16-09-2025", "2025-13-01", "soon"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 2, DaysBetween(day("2025-01-01"), day("2025-01-03")))
	assert.Equal(t, -1, DaysBetween(day("2025-01-01"), day("2024-12-31")))
	assert.Equal(t, 0, DaysBetween(time.Date(2025, 1, 1, 23, 0, 0, 0, time.Local), day("2025-01-01")))
	assert.Equal(t, 1, DaysBetween(day("2025-03-08"), day("2025-03-09")))
}

func TestWeekStart(t *testing.T) {
	// 2025-01-01 is a Wednesday.
	assert.Equal(t, day("2024-12-30"), WeekStart(day("2025-01-01")))
	assert.Equal(t, day("2024-12-30"), WeekStart(day("2024-12-30")))
	// Sunday belongs to the week that started on the previous Monday.
	assert.Equal(t, day("2024-12-30"), WeekStart(day("2025-01-05")))
}

func TestValidate(t *testing.T) {
	ok := Task{Title: "Slides", StartDate: "2025-01-01", EndDate: "2025-01-02"}
	require.NoError(t, ok.Validate())

	noTitle := ok
	noTitle.Title = "  "
	assert.ErrorIs(t, noTitle.Validate(), ErrTitleRequired)

	badStart := ok
	badStart.StartDate = "tomorrow"
	assert.Error(t, badStart.Validate())

	reversed := ok
	reversed.EndDate = "2024-12-31"
	assert.ErrorIs(t, reversed.Validate(), ErrEndBeforeStart)
}

func TestDueTag(t *testing.T) {
	today := day("2025-01-10")
	cases := map[string]string{
		"2025-01-09": "overdue",
		"2025-01-10": "D-DAY",
		"2025-01-12": "D-2",
		"2025-01-30": "D-20",
		"bad":        "",
	}
	for end, want := range cases {
		assert.Equal(t, want, Task{EndDate: end}.DueTag(today), end)
	}
	assert.True(t, Task{EndDate: "2025-01-13"}.Urgent(today))
	assert.False(t, Task{EndDate: "2025-01-14"}.Urgent(today))
}

func TestClone(t *testing.T) {
	src := []Task{{Title: "a"}, {Title: "b"}}
	cp := Clone(src)
	cp[0].Title = "changed"
	assert.Equal(t, "a", src[0].Title)
	assert.Nil(t, Clone(nil))
}
