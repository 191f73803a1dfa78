package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID regardless of owner
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// List returns the owner's tasks matching every set field of the filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update saves all fields of a task
	Update(ctx context.Context, task *models.Task) error

	// Delete soft deletes a task
	Delete(ctx context.Context, task *models.Task) error

	// Transaction runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(repo TaskRepository) error) error
}

// TaskFilter holds the optional criteria for listing a user's tasks.
// Nil fields are not constrained.
type TaskFilter struct {
	UserID      uuid.UUID
	Quadrant    *models.Quadrant
	Status      *models.TaskStatus
	Completed   *bool
	DueDateFrom *time.Time // inclusive
	DueDateTo   *time.Time // exclusive
	Pagination  *utils.PaginationParams
}

// Predicate translates the filter into a conjunction of SQL conditions.
func (f TaskFilter) Predicate() squirrel.And {
	pred := squirrel.And{squirrel.Eq{"tasks.user_id": f.UserID.String()}}

	if f.Quadrant != nil {
		pred = append(pred, squirrel.Eq{"tasks.quadrant": string(*f.Quadrant)})
	}
	if f.Status != nil {
		pred = append(pred, squirrel.Eq{"tasks.status": string(*f.Status)})
	}
	if f.Completed != nil {
		pred = append(pred, squirrel.Eq{"tasks.completed": *f.Completed})
	}
	if f.DueDateFrom != nil {
		pred = append(pred, squirrel.GtOrEq{"tasks.due_date": *f.DueDateFrom})
	}
	if f.DueDateTo != nil {
		pred = append(pred, squirrel.Lt{"tasks.due_date": *f.DueDateTo})
	}

	return pred
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *models.User) error

	// Update saves all fields of a user
	Update(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
