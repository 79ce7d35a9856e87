package services

import (
	"sort"
	"time"

	"todoflow/internal/models"
)

// Classification of tasks into the date-derived views (Today, Upcoming,
// Overdue). All functions here are pure: they take the reference instant
// explicitly so the bucket boundaries are testable, and they never touch
// the store. Due dates are epoch milliseconds interpreted in now's location.

// StartOfDay returns midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FilterToday returns active tasks due within [start of now's day, start of
// the next day). Tasks without a due date are invisible to this view.
func FilterToday(tasks []models.Task, now time.Time) []models.Task {
	start := StartOfDay(now)
	startMs := start.UnixMilli()
	endMs := start.AddDate(0, 0, 1).UnixMilli()

	result := []models.Task{}
	for _, task := range tasks {
		if task.Status != models.TaskStatusActive || task.DueDate == nil {
			continue
		}
		if *task.DueDate >= startMs && *task.DueDate < endMs {
			result = append(result, task)
		}
	}
	return result
}

// FilterOverdue returns active tasks due before the start of now's day
func FilterOverdue(tasks []models.Task, now time.Time) []models.Task {
	startMs := StartOfDay(now).UnixMilli()

	result := []models.Task{}
	for _, task := range tasks {
		if task.Status != models.TaskStatusActive || task.DueDate == nil {
			continue
		}
		if *task.DueDate < startMs {
			result = append(result, task)
		}
	}
	return result
}

// FilterUpcoming returns active tasks due within the 8-day inclusive window
// starting at midnight today and ending 23:59:59.999 seven days later.
func FilterUpcoming(tasks []models.Task, now time.Time) []models.Task {
	start := StartOfDay(now)
	startMs := start.UnixMilli()
	endMs := start.AddDate(0, 0, 8).UnixMilli() - 1

	result := []models.Task{}
	for _, task := range tasks {
		if task.Status != models.TaskStatusActive || task.DueDate == nil {
			continue
		}
		if *task.DueDate >= startMs && *task.DueDate <= endMs {
			result = append(result, task)
		}
	}
	return result
}

// UpcomingGroup is one calendar day of the Upcoming view
type UpcomingGroup struct {
	Title string        `json:"title"`
	Date  time.Time     `json:"date"`
	Tasks []models.Task `json:"tasks"`
}

// GroupUpcoming groups tasks by calendar date, chronologically, with each
// group sorted by priority ascending (p1 before p4) and order as tie-break.
// Tasks without a due date are dropped.
func GroupUpcoming(tasks []models.Task, now time.Time) []UpcomingGroup {
	today := StartOfDay(now)

	byDay := make(map[int64][]models.Task)
	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		due := time.UnixMilli(*task.DueDate).In(now.Location())
		day := StartOfDay(due).UnixMilli()
		byDay[day] = append(byDay[day], task)
	}

	days := make([]int64, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	groups := make([]UpcomingGroup, 0, len(days))
	for _, day := range days {
		group := byDay[day]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Priority.Rank() != group[j].Priority.Rank() {
				return group[i].Priority.Rank() < group[j].Priority.Rank()
			}
			return group[i].Order < group[j].Order
		})

		date := time.UnixMilli(day).In(now.Location())
		groups = append(groups, UpcomingGroup{
			Title: groupTitle(date, today),
			Date:  date,
			Tasks: group,
		})
	}

	return groups
}

// groupTitle formats an Upcoming group header the way the mobile client
// displays it: "Today", "Tomorrow", else weekday plus month and day.
func groupTitle(day, today time.Time) string {
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return day.Format("Monday, Jan 2")
	}
}
