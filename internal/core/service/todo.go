package service

import (
	"context"
	"time"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const serviceName = "todo"

type TodoService struct {
	repo      port.TodoRepository
	telemetry port.Telemetry
	now       func() time.Time
}

type Option func(*TodoService)

// WithClock replaces the clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(ts *TodoService) {
		ts.now = now
	}
}

func NewTodoService(repo port.TodoRepository, telemetry port.Telemetry, opts ...Option) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	ts := &TodoService{
		repo:      repo,
		telemetry: telemetry,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(ts)
	}

	return ts
}

// timestamp is truncated to microseconds, the finest precision every store keeps.
func (ts *TodoService) timestamp() time.Time {
	return ts.now().UTC().Truncate(time.Microsecond)
}

func (ts *TodoService) observe(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, func(error)) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, operation, attrs)
	startTime := time.Now()

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus("error", err.Error())
		} else {
			span.SetStatus("ok", "")
		}

		ts.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(startTime), err)
		span.End()
	}
}

func (ts *TodoService) List(ctx context.Context, filter domain.TodoFilter) (todos []domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "List", map[string]interface{}{
		"filter.title":     filter.Title != "",
		"filter.body":      filter.Body != "",
		"filter.completed": filter.Completed != nil,
	})
	defer func() { done(err) }()

	return ts.repo.List(ctx, filter)
}

func (ts *TodoService) GetByID(ctx context.Context, id int64) (todo domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "GetByID", map[string]interface{}{"todo.id": id})
	defer func() { done(err) }()

	return ts.repo.GetByID(ctx, id)
}

func (ts *TodoService) Create(ctx context.Context, todo domain.Todo) (saved domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "Create", nil)
	defer func() { done(err) }()

	if todo.Title == "" {
		return domain.Todo{}, domain.ErrTitleRequired
	}

	newTodo := domain.Todo{
		Title:     todo.Title,
		Body:      todo.Body,
		DueDate:   todo.DueDate,
		CreatedAt: ts.timestamp(),
	}

	return ts.repo.Create(ctx, newTodo)
}

func (ts *TodoService) UpdateByID(ctx context.Context, id int64, patch domain.TodoPatch) (todo domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "UpdateByID", map[string]interface{}{"todo.id": id})
	defer func() { done(err) }()

	return ts.repo.UpdateByID(ctx, id, patch)
}

func (ts *TodoService) DeleteByID(ctx context.Context, id int64) (err error) {
	ctx, done := ts.observe(ctx, "DeleteByID", map[string]interface{}{"todo.id": id})
	defer func() { done(err) }()

	return ts.repo.DeleteByID(ctx, id)
}

// Duplicate stores a copy of the todo with the given id. The copy keeps the
// title and body only.
func (ts *TodoService) Duplicate(ctx context.Context, id int64) (copied domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "Duplicate", map[string]interface{}{"todo.id": id})
	defer func() { done(err) }()

	source, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	return ts.repo.Create(ctx, source.Duplicate(ts.timestamp()))
}
