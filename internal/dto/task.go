package dto

import (
	"time"

	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/services"
)

// TaskView represents a task in API responses
type TaskView struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     string            `json:"dueDate"`
	Status      models.TaskStatus `json:"status"`
	Quadrant    models.Quadrant   `json:"quadrant"`
	IsCompleted bool              `json:"isCompleted"`
	IsUrgent    bool              `json:"isUrgent"`
	IsImportant bool              `json:"isImportant"`
	CreatedAt   time.Time         `json:"createdAt"`
	CompletedAt *time.Time        `json:"completedAt"`
}

// DashboardView groups the caller's open tasks
type DashboardView struct {
	Overdue  []TaskView `json:"overdue"`
	DueToday []TaskView `json:"dueToday"`
	DoNow    []TaskView `json:"doNow"`
}

// SuggestedTaskView is an unsaved task draft
type SuggestedTaskView struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     *string         `json:"dueDate"`
	IsUrgent    bool            `json:"isUrgent"`
	IsImportant bool            `json:"isImportant"`
	Quadrant    models.Quadrant `json:"quadrant"`
}

// ToTaskView converts a Task model to TaskView
func ToTaskView(task models.Task) TaskView {
	return TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     models.DateOf(task.DueDate).Format(models.DateLayout),
		Status:      task.Status,
		Quadrant:    task.Quadrant,
		IsCompleted: task.Completed,
		IsUrgent:    task.Urgent,
		IsImportant: task.Important,
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

// ToTaskViews never returns nil so that empty lists render as []
func ToTaskViews(tasks []models.Task) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, task := range tasks {
		views[i] = ToTaskView(task)
	}
	return views
}

func ToDashboardView(d *services.Dashboard) DashboardView {
	return DashboardView{
		Overdue:  ToTaskViews(d.Overdue),
		DueToday: ToTaskViews(d.DueToday),
		DoNow:    ToTaskViews(d.DoNow),
	}
}

// ToWeeklyView keeps every day of the week, including empty ones
func ToWeeklyView(week map[string][]models.Task) map[string][]TaskView {
	view := make(map[string][]TaskView, len(week))
	for day, tasks := range week {
		view[day] = ToTaskViews(tasks)
	}
	return view
}

func ToSuggestedTaskViews(suggestions []services.SuggestedTask) []SuggestedTaskView {
	views := make([]SuggestedTaskView, len(suggestions))
	for i, s := range suggestions {
		views[i] = SuggestedTaskView{
			Title:       s.Title,
			Description: s.Description,
			IsUrgent:    s.Urgent,
			IsImportant: s.Important,
			Quadrant:    s.Quadrant,
		}
		if s.DueDate != nil {
			due := s.DueDate.Format(models.DateLayout)
			views[i].DueDate = &due
		}
	}
	return views
}
