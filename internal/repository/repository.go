package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by every driver when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique index rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")
)

// TaskSortField names a sortable task attribute.
type TaskSortField string

// Sortable task fields.
const (
	SortByCreatedAt   TaskSortField = "createdAt"
	SortByUpdatedAt   TaskSortField = "updatedAt"
	SortByDescription TaskSortField = "description"
	SortByCompleted   TaskSortField = "completed"
)

// ParseTaskSortField accepts camelCase and snake_case spellings.
func ParseTaskSortField(s string) (TaskSortField, bool) {
	switch strings.TrimSpace(s) {
	case "createdAt", "created_at":
		return SortByCreatedAt, true
	case "updatedAt", "updated_at":
		return SortByUpdatedAt, true
	case "description":
		return SortByDescription, true
	case "completed":
		return SortByCompleted, true
	default:
		return "", false
	}
}

// TaskSort orders a task listing by a single field.
type TaskSort struct {
	Field TaskSortField
	Desc  bool
}

// TaskFilter narrows and pages a task listing. Zero Limit and Skip mean none.
type TaskFilter struct {
	Completed *bool
	Limit     int
	Skip      int
	Sort      *TaskSort
}
