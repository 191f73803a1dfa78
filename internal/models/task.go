package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yukikurage/zen-task-api/internal/constants"
	"gorm.io/gorm"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(300);not null" json:"title"`
	Description string         `gorm:"type:varchar(1000);not null" json:"description"`
	DueDate     time.Time      `gorm:"type:date;not null;index" json:"due_date"`
	Urgent      bool           `gorm:"not null" json:"urgent"`
	Important   bool           `gorm:"not null" json:"important"`
	Completed   bool           `gorm:"not null;index" json:"completed"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Quadrant    Quadrant       `gorm:"type:varchar(20);not null;index" json:"quadrant"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewTaskParams carries everything needed to build a Task.
// A non-nil Quadrant wins over Urgent/Important.
type NewTaskParams struct {
	Title       string
	Description string
	DueDate     time.Time
	Urgent      bool
	Important   bool
	Quadrant    *Quadrant
	UserID      uuid.UUID
}

// NewTask validates the params and returns a task in the CREATED state.
func NewTask(p NewTaskParams) (*Task, error) {
	title, err := validateTitle(p.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(p.Description)
	if err != nil {
		return nil, err
	}
	dueDate, err := validateDueDate(p.DueDate)
	if err != nil {
		return nil, err
	}
	if p.UserID == uuid.Nil {
		return nil, violation("user", "User cannot be null")
	}

	urgent, important := p.Urgent, p.Important
	quadrant := Classify(urgent, important)
	if p.Quadrant != nil {
		if !p.Quadrant.Valid() {
			return nil, violation("quadrant", "Invalid quadrant")
		}
		quadrant = *p.Quadrant
		urgent, important = quadrant.Flags()
	}

	return &Task{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Urgent:      urgent,
		Important:   important,
		Quadrant:    quadrant,
		Status:      TaskStatusCreated,
		UserID:      p.UserID,
		CreatedAt:   clock(),
	}, nil
}

// UpdateDetails replaces title, description and due date. It reports whether
// anything actually changed so callers can skip the write.
func (t *Task) UpdateDetails(title, description string, dueDate time.Time) (bool, error) {
	if err := t.ensureEditable(); err != nil {
		return false, err
	}

	title, err := validateTitle(title)
	if err != nil {
		return false, err
	}
	description, err = validateDescription(description)
	if err != nil {
		return false, err
	}
	dueDate, err = validateDueDate(dueDate)
	if err != nil {
		return false, err
	}

	if title == t.Title && description == t.Description && dueDate.Equal(DateOf(t.DueDate)) {
		return false, nil
	}

	t.Title = title
	t.Description = description
	t.DueDate = dueDate
	return true, nil
}

// MoveTo reassigns the quadrant; the flags follow the target quadrant.
func (t *Task) MoveTo(target Quadrant) error {
	if err := t.ensureEditable(); err != nil {
		return err
	}
	if target == "" {
		return violation("quadrant", "Target quadrant cannot be null")
	}
	if !target.Valid() {
		return violation("quadrant", "Invalid quadrant")
	}
	if target == t.Quadrant {
		return violation("quadrant", "Task is already in this quadrant")
	}

	t.Quadrant = target
	t.Urgent, t.Important = target.Flags()
	return nil
}

// SetPriority updates the flags and reclassifies the task.
func (t *Task) SetPriority(urgent, important bool) error {
	if err := t.ensureEditable(); err != nil {
		return err
	}
	if urgent == t.Urgent && important == t.Important {
		return nil
	}

	t.Urgent = urgent
	t.Important = important
	if q := Classify(urgent, important); q != t.Quadrant {
		t.Quadrant = q
	}
	return nil
}

// UpdateStatus moves the task through its lifecycle. CLOSED and CANCELED are
// terminal. DONE marks the task completed; going back to CREATED or
// IN_PROGRESS reverses the completion.
func (t *Task) UpdateStatus(status TaskStatus) error {
	if t.Status.Terminal() {
		return violation("status", "Cannot modify a closed or canceled task")
	}
	if !status.Valid() {
		return violation("status", "Invalid task status")
	}

	switch status {
	case TaskStatusDone:
		if !t.Completed {
			now := clock()
			t.Completed = true
			t.CompletedAt = &now
		}
	case TaskStatusCreated, TaskStatusInProgress:
		t.Completed = false
		t.CompletedAt = nil
	}

	t.Status = status
	return nil
}

func (t *Task) ensureEditable() error {
	if t.Completed {
		return violation("completed", "Cannot modify a completed task")
	}
	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", violation("title", "Task title cannot be null or empty")
	}
	if n := utf8.RuneCountInString(title); n < constants.MinTitleLength || n > constants.MaxTitleLength {
		return "", violation("title", fmt.Sprintf("Task title must be between %d and %d characters",
			constants.MinTitleLength, constants.MaxTitleLength))
	}
	return title, nil
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", violation("description", "Task description cannot be null or empty")
	}
	if n := utf8.RuneCountInString(description); n < constants.MinDescriptionLength || n > constants.MaxDescriptionLength {
		return "", violation("description", fmt.Sprintf("Task description must be between %d and %d characters",
			constants.MinDescriptionLength, constants.MaxDescriptionLength))
	}
	return description, nil
}

func validateDueDate(dueDate time.Time) (time.Time, error) {
	if dueDate.IsZero() {
		return time.Time{}, violation("dueDate", "Task due date cannot be null")
	}
	dueDate = DateOf(dueDate)
	if dueDate.Before(Today()) {
		return time.Time{}, violation("dueDate", "Due date cannot be in the past")
	}
	return dueDate, nil
}
