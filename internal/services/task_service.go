package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/zen-task-api/internal/constants"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/repository"
	"github.com/yukikurage/zen-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrForbiddenAccess        = errors.New("access denied: no authenticated user")
	ErrEmptySuggestionText    = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksSuggested     = errors.New("AI did not suggest any tasks")
)

// TaskSuggester turns free text into task drafts.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error)
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	suggester TaskSuggester
	logger    zerolog.Logger
}

// NewTaskService creates a new TaskService. suggester may be nil.
func NewTaskService(taskRepo repository.TaskRepository, suggester TaskSuggester, logger zerolog.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		suggester: suggester,
		logger:    logger,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Urgent      bool
	Important   bool
	Quadrant    *models.Quadrant
}

// UpdateTaskInput represents a partial update; nil fields are left untouched
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Urgent      *bool
	Important   *bool
	Completed   *bool
}

// TaskFilterInput holds the optional criteria of FindByFilter.
// FromDate and ToDate are inclusive calendar dates.
type TaskFilterInput struct {
	Quadrant   *models.Quadrant
	Status     *models.TaskStatus
	FromDate   *time.Time
	ToDate     *time.Time
	Completed  *bool
	Pagination *utils.PaginationParams
}

// Dashboard groups the caller's open tasks. A task may appear in several lists.
type Dashboard struct {
	Overdue  []models.Task
	DueToday []models.Task
	DoNow    []models.Task
}

// CreateTask builds and stores a task owned by the caller
func (s *TaskService) CreateTask(ctx context.Context, principal *Principal, input CreateTaskInput) (*models.Task, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	task, err := models.NewTask(models.NewTaskParams{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Urgent:      input.Urgent,
		Important:   input.Important,
		Quadrant:    input.Quadrant,
		UserID:      principal.UserID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", principal.UserID.String()).
			Msg("failed to create task")
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns one of the caller's tasks
func (s *TaskService) GetTask(ctx context.Context, principal *Principal, taskID uint64) (*models.Task, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	return s.loadOwnedTask(ctx, s.taskRepo, principal, taskID)
}

// EditTask applies the non-nil fields of input. Reopening is applied before
// the other fields and completion after them.
func (s *TaskService) EditTask(ctx context.Context, principal *Principal, taskID uint64, input UpdateTaskInput) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}

	return s.taskRepo.Transaction(ctx, func(repo repository.TaskRepository) error {
		task, err := s.loadOwnedTask(ctx, repo, principal, taskID)
		if err != nil {
			return err
		}

		dirty := false

		if input.Completed != nil && !*input.Completed && task.Completed {
			if err := task.UpdateStatus(models.TaskStatusInProgress); err != nil {
				return err
			}
			dirty = true
		}

		if input.Title != nil || input.Description != nil || input.DueDate != nil {
			title, description, dueDate := task.Title, task.Description, task.DueDate
			if input.Title != nil {
				title = *input.Title
			}
			if input.Description != nil {
				description = *input.Description
			}
			if input.DueDate != nil {
				dueDate = *input.DueDate
			}

			changed, err := task.UpdateDetails(title, description, dueDate)
			if err != nil {
				return err
			}
			dirty = dirty || changed
		}

		if input.Urgent != nil || input.Important != nil {
			urgent, important := task.Urgent, task.Important
			if input.Urgent != nil {
				urgent = *input.Urgent
			}
			if input.Important != nil {
				important = *input.Important
			}

			changed := urgent != task.Urgent || important != task.Important
			if err := task.SetPriority(urgent, important); err != nil {
				return err
			}
			dirty = dirty || changed
		}

		if input.Completed != nil && *input.Completed && !task.Completed {
			if err := task.UpdateStatus(models.TaskStatusDone); err != nil {
				return err
			}
			dirty = true
		}

		if !dirty {
			return nil
		}
		return s.saveTask(ctx, repo, task)
	})
}

// MoveQuadrant moves one of the caller's tasks to another quadrant
func (s *TaskService) MoveQuadrant(ctx context.Context, principal *Principal, taskID uint64, target models.Quadrant) error {
	return s.mutate(ctx, principal, taskID, func(task *models.Task) error {
		return task.MoveTo(target)
	})
}

// ChangeStatus moves one of the caller's tasks through its lifecycle
func (s *TaskService) ChangeStatus(ctx context.Context, principal *Principal, taskID uint64, status models.TaskStatus) error {
	return s.mutate(ctx, principal, taskID, func(task *models.Task) error {
		return task.UpdateStatus(status)
	})
}

// DeleteTask removes one of the caller's tasks
func (s *TaskService) DeleteTask(ctx context.Context, principal *Principal, taskID uint64) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}

	return s.taskRepo.Transaction(ctx, func(repo repository.TaskRepository) error {
		task, err := s.loadOwnedTask(ctx, repo, principal, taskID)
		if err != nil {
			return err
		}

		if err := repo.Delete(ctx, task); err != nil {
			s.logger.Error().
				Err(err).
				Uint64("task_id", taskID).
				Msg("failed to delete task")
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

// Dashboard returns the caller's overdue, due-today and do-now open tasks
func (s *TaskService) Dashboard(ctx context.Context, principal *Principal) (*Dashboard, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	today := models.Today()
	tomorrow := today.AddDate(0, 0, 1)
	open := false
	doNow := models.QuadrantDoNow

	overdue, err := s.listTasks(ctx, repository.TaskFilter{
		UserID:    principal.UserID,
		DueDateTo: &today,
		Completed: &open,
	})
	if err != nil {
		return nil, err
	}

	dueToday, err := s.listTasks(ctx, repository.TaskFilter{
		UserID:      principal.UserID,
		DueDateFrom: &today,
		DueDateTo:   &tomorrow,
		Completed:   &open,
	})
	if err != nil {
		return nil, err
	}

	doNowTasks, err := s.listTasks(ctx, repository.TaskFilter{
		UserID:    principal.UserID,
		Quadrant:  &doNow,
		Completed: &open,
	})
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Overdue:  overdue,
		DueToday: dueToday,
		DoNow:    doNowTasks,
	}, nil
}

// FindByFilter returns the caller's tasks matching every set criterion
func (s *TaskService) FindByFilter(ctx context.Context, principal *Principal, input TaskFilterInput) ([]models.Task, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	if input.FromDate != nil && input.ToDate != nil && models.DateOf(*input.FromDate).After(models.DateOf(*input.ToDate)) {
		return nil, &models.RuleViolation{Field: "fromDate", Message: "fromDate must not be after toDate"}
	}

	filter := repository.TaskFilter{
		UserID:     principal.UserID,
		Quadrant:   input.Quadrant,
		Status:     input.Status,
		Completed:  input.Completed,
		Pagination: input.Pagination,
	}
	if input.FromDate != nil {
		from := models.DateOf(*input.FromDate)
		filter.DueDateFrom = &from
	}
	if input.ToDate != nil {
		to := models.DateOf(*input.ToDate).AddDate(0, 0, 1)
		filter.DueDateTo = &to
	}

	return s.listTasks(ctx, filter)
}

// WeeklyView returns the caller's tasks due in the 7 days starting at
// weekStart, keyed by due date. Every day of the week has an entry.
func (s *TaskService) WeeklyView(ctx context.Context, principal *Principal, weekStart *time.Time) (map[string][]models.Task, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if weekStart == nil || weekStart.IsZero() {
		return nil, &models.RuleViolation{Field: "weekStart", Message: "week start date cannot be null"}
	}

	start := models.DateOf(*weekStart)
	end := start.AddDate(0, 0, constants.DaysPerWeek)

	tasks, err := s.listTasks(ctx, repository.TaskFilter{
		UserID:      principal.UserID,
		DueDateFrom: &start,
		DueDateTo:   &end,
	})
	if err != nil {
		return nil, err
	}

	week := make(map[string][]models.Task, constants.DaysPerWeek)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		week[day.Format(models.DateLayout)] = []models.Task{}
	}
	for _, task := range tasks {
		key := models.DateOf(task.DueDate).Format(models.DateLayout)
		week[key] = append(week[key], task)
	}

	return week, nil
}

// SuggestTasks asks the configured suggester for task drafts. Nothing is persisted.
func (s *TaskService) SuggestTasks(ctx context.Context, principal *Principal, text string) ([]SuggestedTask, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptySuggestionText
	}

	suggestions, err := s.suggester.SuggestTasks(ctx, text)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", principal.UserID.String()).
			Msg("failed to suggest tasks")
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, ErrAINoTasksSuggested
	}
	if len(suggestions) > constants.MaxAISuggestedTasks {
		suggestions = suggestions[:constants.MaxAISuggestedTasks]
	}

	for i := range suggestions {
		suggestions[i].Quadrant = models.Classify(suggestions[i].Urgent, suggestions[i].Important)
	}
	return suggestions, nil
}

func (s *TaskService) mutate(ctx context.Context, principal *Principal, taskID uint64, apply func(task *models.Task) error) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}

	return s.taskRepo.Transaction(ctx, func(repo repository.TaskRepository) error {
		task, err := s.loadOwnedTask(ctx, repo, principal, taskID)
		if err != nil {
			return err
		}
		if err := apply(task); err != nil {
			return err
		}
		return s.saveTask(ctx, repo, task)
	})
}

// loadOwnedTask reports a task owned by someone else as missing so that
// callers cannot probe for other users' task IDs.
func (s *TaskService) loadOwnedTask(ctx context.Context, repo repository.TaskRepository, principal *Principal, taskID uint64) (*models.Task, error) {
	task, err := repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error().
			Err(err).
			Uint64("task_id", taskID).
			Msg("failed to load task")
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	if task.UserID != principal.UserID {
		s.logger.Debug().
			Uint64("task_id", taskID).
			Str("user_id", principal.UserID.String()).
			Msg("task not owned by caller")
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) saveTask(ctx context.Context, repo repository.TaskRepository, task *models.Task) error {
	if err := repo.Update(ctx, task); err != nil {
		s.logger.Error().
			Err(err).
			Uint64("task_id", task.ID).
			Msg("failed to update task")
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (s *TaskService) listTasks(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", filter.UserID.String()).
			Msg("failed to list tasks")
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
