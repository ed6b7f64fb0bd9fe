package request

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"todoapi/internal/core/domain"
)

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidDate = errors.New("invalid date")
)

// dateLayouts are tried in order. Date-only values are read as midnight UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateError reports the request field holding an unparseable date.
type DateError struct {
	Field string
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid date", e.Field, e.Value)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)

	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}

	return id, nil
}

func ParseDate(field, raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, &DateError{Field: field, Value: raw}
}

// parseOptionalDate treats a missing or empty value as "not supplied".
func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	t, err := ParseDate(field, *raw)

	if err != nil {
		return nil, err
	}

	return &t, nil
}

type ListTodosQuery struct {
	Title        string
	Body         string
	DueDateStart string
	DueDateEnd   string
	Completed    *string
}

func NewListTodosQuery(values url.Values) ListTodosQuery {
	query := ListTodosQuery{
		Title:        values.Get("title"),
		Body:         values.Get("body"),
		DueDateStart: values.Get("due_date_start"),
		DueDateEnd:   values.Get("due_date_end"),
	}

	if values.Has("completed") {
		completed := values.Get("completed")
		query.Completed = &completed
	}

	return query
}

// ToFilter converts the query into a store filter. Only the exact string
// "true" selects completed todos; any other supplied value, "false" included,
// selects the ones still open.
func (q ListTodosQuery) ToFilter() (domain.TodoFilter, error) {
	filter := domain.TodoFilter{
		Title: q.Title,
		Body:  q.Body,
	}

	start, err := parseOptionalDate("due_date_start", &q.DueDateStart)
	if err != nil {
		return domain.TodoFilter{}, err
	}

	end, err := parseOptionalDate("due_date_end", &q.DueDateEnd)
	if err != nil {
		return domain.TodoFilter{}, err
	}

	filter.DueDateStart = start
	filter.DueDateEnd = end

	if q.Completed != nil {
		completed := *q.Completed == "true"
		filter.Completed = &completed
	}

	return filter, nil
}

type CreateTodoRequest struct {
	Title   string  `json:"title" validate:"required"`
	Body    *string `json:"body"`
	DueDate *string `json:"due_date"`
}

func (r CreateTodoRequest) ToDomain() (domain.Todo, error) {
	dueDate, err := parseOptionalDate("due_date", r.DueDate)

	if err != nil {
		return domain.Todo{}, err
	}

	return domain.Todo{
		Title:   r.Title,
		Body:    r.Body,
		DueDate: dueDate,
	}, nil
}

type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Body        *string `json:"body"`
	DueDate     *string `json:"due_date"`
	CompletedAt *string `json:"completed_at"`
}

func (r UpdateTodoRequest) ToPatch() (domain.TodoPatch, error) {
	dueDate, err := parseOptionalDate("due_date", r.DueDate)
	if err != nil {
		return domain.TodoPatch{}, err
	}

	completedAt, err := parseOptionalDate("completed_at", r.CompletedAt)
	if err != nil {
		return domain.TodoPatch{}, err
	}

	return domain.TodoPatch{
		Title:       r.Title,
		Body:        r.Body,
		DueDate:     dueDate,
		CompletedAt: completedAt,
	}, nil
}
