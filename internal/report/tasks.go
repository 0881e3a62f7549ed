package report

import (
	"math"
	"sort"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

// AggregateTasks summarises the tasks created inside w. Tasks are windowed by
// creation time only; completion and due dates play no part.
func AggregateTasks(tasks []domain.Task, w Window) domain.TasksSummary {
	summary := domain.TasksSummary{Tasks: []domain.TaskRow{}}

	for _, t := range tasks {
		if !w.Contains(t.CreatedAt) {
			continue
		}

		summary.Total++

		switch t.Status {
		case domain.TaskStatusCompleted:
			summary.Completed++
		case domain.TaskStatusInProgress:
			summary.InProgress++
		case domain.TaskStatusTodo:
			summary.Todo++
		case domain.TaskStatusReview:
			summary.Review++
		case domain.TaskStatusPending:
			summary.Pending++
		}

		summary.Tasks = append(summary.Tasks, domain.TaskRow{
			Title:     t.Title,
			Status:    t.Status,
			Priority:  t.Priority,
			Assignee:  t.AssigneeName,
			CreatedAt: t.CreatedAt,
			DueDate:   t.DueDate,
		})
	}

	summary.CompletionRate = percent(float64(summary.Completed), float64(summary.Total))

	sort.SliceStable(summary.Tasks, func(i, j int) bool {
		return summary.Tasks[i].CreatedAt.Before(summary.Tasks[j].CreatedAt)
	})

	return summary
}

// percent returns part/whole*100 rounded to two places, or 0 when whole is 0.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}

	return round2(part / whole * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
