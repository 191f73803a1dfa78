package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/zen-task-api/internal/database"
	"github.com/yukikurage/zen-task-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks ordered by due date, then ID
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	where, args, err := filter.Predicate().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task filter: %w", err)
	}

	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where(where, args...).
		Order("tasks.due_date ASC, tasks.id ASC")

	if filter.Pagination != nil {
		query = query.Scopes(database.Paginate(*filter.Pagination))
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves all fields of a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Delete(task).Error
}

// Transaction binds a repository to a gorm transaction
func (r *GormTaskRepository) Transaction(ctx context.Context, fn func(repo TaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskRepository{db: tx})
	})
}
