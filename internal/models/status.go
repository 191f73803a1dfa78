package models

import "strings"

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusClosed     TaskStatus = "CLOSED"
	TaskStatusCanceled   TaskStatus = "CANCELED"
)

var TaskStatuses = []TaskStatus{
	TaskStatusCreated,
	TaskStatusInProgress,
	TaskStatusDone,
	TaskStatusClosed,
	TaskStatusCanceled,
}

func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusClosed || s == TaskStatusCanceled
}

func ParseTaskStatus(s string) (TaskStatus, bool) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}
