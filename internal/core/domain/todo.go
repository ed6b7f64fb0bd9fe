package domain

import (
	"errors"
	"time"
)

const DuplicateTitlePrefix = "Copy of "

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrTitleRequired = errors.New("title is required")
)

type Todo struct {
	ID          int64
	Title       string
	Body        *string
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// Duplicate returns an unsaved copy of t. Only the title and body carry over;
// the copy starts without a due date and not completed.
func (t *Todo) Duplicate(now time.Time) Todo {
	var body *string

	if t.Body != nil {
		b := *t.Body
		body = &b
	}

	return Todo{
		Title:     DuplicateTitlePrefix + t.Title + ". ",
		Body:      body,
		CreatedAt: now,
	}
}

// TodoPatch carries the fields of a partial update. A nil field keeps the
// stored value.
//
// Body is accepted from callers but is never written: updates always keep the
// stored body. This mirrors the behavior clients already depend on.
type TodoPatch struct {
	Title       *string
	Body        *string
	DueDate     *time.Time
	CompletedAt *time.Time
}

// Changes maps the columns this patch writes to their new values.
func (p TodoPatch) Changes() map[string]interface{} {
	changes := make(map[string]interface{})

	if p.Title != nil {
		changes["title"] = *p.Title
	}

	if p.DueDate != nil {
		changes["due_date"] = *p.DueDate
	}

	if p.CompletedAt != nil {
		changes["completed_at"] = *p.CompletedAt
	}

	return changes
}

func (p TodoPatch) IsEmpty() bool {
	return len(p.Changes()) == 0
}

// TodoFilter narrows a listing. Zero values mean "no constraint"; every set
// field must hold for a todo to match.
type TodoFilter struct {
	Title        string
	Body         string
	DueDateStart *time.Time
	DueDateEnd   *time.Time
	Completed    *bool
}
