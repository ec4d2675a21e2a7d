package report

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/sadopc/focusboard/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := task.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mk(status task.Status, start, end string) task.Task {
	return task.Task{Title: "t", StartDate: start, EndDate: end, Status: status}
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil, day("2025-01-01"))
	assert.Equal(t, 0.0, snap.CompletionRate)
	assert.Equal(t, 0.0, snap.AverageDurationDays)
	assert.Equal(t, 0, snap.Total)
	assert.Equal(t, 0, snap.DueSoon)
	assert.Equal(t, 0, snap.Overdue)
	p, ip, d := snap.StatusCounts()
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{p, ip, d})
	assert.Equal(t, [7]int{}, snap.Week)
}

func TestAggregateScenario(t *testing.T) {
	tasks := []task.Task{
		mk(task.Done, "2025-01-01", "2025-01-03"),
		mk(task.Pending, "2025-01-01", "2025-01-01"),
	}
	snap := Aggregate(tasks, day("2025-01-01"))

	assert.Equal(t, 50.0, snap.CompletionRate)
	assert.Equal(t, 1.0, snap.AverageDurationDays)
	p, ip, d := snap.StatusCounts()
	assert.Equal(t, 1, p)
	assert.Equal(t, 0, ip)
	assert.Equal(t, 1, d)
	assert.Equal(t, 1, snap.DueSoon, "pending task due today")
	assert.Equal(t, 0, snap.Overdue)
}

func TestAggregateCompletionRateRounding(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(40) + 1
		done := rng.Intn(n + 1)
		tasks := make([]task.Task, n)
		for i := range tasks {
			st := task.Pending
			if i < done {
				st = task.Done
			}
			tasks[i] = mk(st, "2025-01-01", "2025-01-02")
		}
		snap := Aggregate(tasks, day("2025-01-01"))
		want := math.Round(float64(done)/float64(n)*100*10) / 10
		require.Equal(t, want, snap.CompletionRate, "done=%d n=%d", done, n)
	}
}

func TestAggregateStatusCountsSumToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	dates := []string{"2025-01-01", "2025-01-05", "bogus", "", "2024-12-30"}
	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(30)
		tasks := make([]task.Task, n)
		for i := range tasks {
			tasks[i] = mk(task.Status(rng.Intn(5)-1), dates[rng.Intn(len(dates))], dates[rng.Intn(len(dates))])
		}
		snap := Aggregate(tasks, day("2025-01-02"))
		p, ip, d := snap.StatusCounts()
		require.Equal(t, n, p+ip+d)
		require.Equal(t, n, snap.Total)
	}
}

func TestAggregateUnparsableEndDate(t *testing.T) {
	tasks := []task.Task{
		mk(task.Pending, "2025-01-01", "not-a-date"),
		mk(task.InProgress, "2025-01-01", "2025-01-02"),
	}
	snap := Aggregate(tasks, day("2025-01-01"))

	assert.Equal(t, 1, snap.DueSoon)
	assert.Equal(t, 0, snap.Overdue)
	assert.Equal(t, 1.0, snap.AverageDurationDays)
	assert.Equal(t, 1, snap.Pending)
	assert.Equal(t, 1, snap.InProgress)
	assert.Equal(t, 1, snap.SkippedDates)
}

func TestAggregateUnparsableStartStillCountsDue(t *testing.T) {
	tasks := []task.Task{mk(task.Pending, "??", "2024-12-30")}
	snap := Aggregate(tasks, day("2025-01-01"))
	assert.Equal(t, 1, snap.Overdue)
	assert.Equal(t, 0.0, snap.AverageDurationDays)
	assert.Equal(t, 1, snap.Week[0], "Monday 2024-12-30")
}

func TestAggregateEndBeforeStart(t *testing.T) {
	tasks := []task.Task{
		mk(task.Pending, "2025-01-10", "2025-01-02"),
		mk(task.Pending, "2025-01-01", "2025-01-05"),
	}
	snap := Aggregate(tasks, day("2025-01-01"))
	assert.Equal(t, 4.0, snap.AverageDurationDays, "reversed range left out of the average")
	assert.Equal(t, 1, snap.DueSoon, "reversed range still counts by end date")
}

func TestAggregateDueWindows(t *testing.T) {
	today := day("2025-03-10")
	tasks := []task.Task{
		mk(task.Pending, "2025-03-01", "2025-03-09"),    // overdue
		mk(task.InProgress, "2025-03-01", "2025-03-10"), // due today
		mk(task.Pending, "2025-03-01", "2025-03-13"),    // D-3
		mk(task.Pending, "2025-03-01", "2025-03-14"),    // D-4, not soon
		mk(task.Done, "2025-03-01", "2025-03-05"),       // done, ignored
		mk(task.Done, "2025-03-01", "2025-03-11"),       // done, ignored
	}
	snap := Aggregate(tasks, today)
	assert.Equal(t, 1, snap.Overdue)
	assert.Equal(t, 2, snap.DueSoon)
}

func TestAggregateWeekHistogram(t *testing.T) {
	// 2025-01-01 is a Wednesday; the week starts Monday 2024-12-30.
	today := day("2025-01-01")
	tasks := []task.Task{
		mk(task.Done, "2024-12-01", "2024-12-30"),
		mk(task.Pending, "2024-12-01", "2025-01-01"),
		mk(task.InProgress, "2024-12-01", "2025-01-01"),
		mk(task.Pending, "2024-12-01", "2025-01-05"),
		mk(task.Pending, "2024-12-01", "2025-01-06"), // next week
		mk(task.Pending, "2024-12-01", "2024-12-29"), // last week
	}
	snap := Aggregate(tasks, today)
	assert.Equal(t, day("2024-12-30"), snap.WeekStart)
	assert.Equal(t, [7]int{1, 0, 2, 0, 0, 0, 1}, snap.Week)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	tasks := []task.Task{mk(task.Status(9), "2025-01-01", "2025-01-02")}
	Aggregate(tasks, day("2025-01-01"))
	assert.Equal(t, task.Status(9), tasks[0].Status)
}
