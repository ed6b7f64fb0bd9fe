package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todoapi/internal/adapter/database/query"
	"todoapi/internal/adapter/database/sqlite"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const dbSystem = "sqlite"

type TodoRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (tr *TodoRepository) List(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error) {
	ctx, obs := query.Observe(ctx, tr.telemetry, dbSystem, "List", "SELECT", nil)
	defer obs.End()

	stmt, args, err := query.ListTodos(*tr.db.QueryBuilder, filter).ToSql()

	if err != nil {
		return nil, obs.Fail(ctx, err)
	}

	obs.Query(ctx, stmt, args)

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, obs.Fail(ctx, fmt.Errorf("list todos: %w", err))
	}

	defer rows.Close()

	todos := []domain.Todo{}

	for rows.Next() {
		todo, err := query.ScanTodo(rows)

		if err != nil {
			return nil, obs.Fail(ctx, fmt.Errorf("scan todo: %w", err))
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, obs.Fail(ctx, fmt.Errorf("list todos: %w", err))
	}

	obs.SetAttributes(map[string]interface{}{"db.rows_returned": len(todos)})
	obs.Succeed(ctx)

	return todos, nil
}

func (tr *TodoRepository) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	ctx, obs := query.Observe(ctx, tr.telemetry, dbSystem, "GetByID", "SELECT", map[string]interface{}{"todo.id": id})
	defer obs.End()

	todo, err := tr.getByID(ctx, obs, id)

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, err)
	}

	obs.Succeed(ctx)

	return todo, nil
}

func (tr *TodoRepository) getByID(ctx context.Context, obs *query.Observation, id int64) (domain.Todo, error) {
	stmt, args, err := tr.db.QueryBuilder.Select(query.TodoColumns...).
		From(query.TodosTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	obs.Query(ctx, stmt, args)

	todo, err := query.ScanTodo(tr.db.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, fmt.Errorf("todo %d: %w", id, domain.ErrTodoNotFound)
	}

	if err != nil {
		return domain.Todo{}, fmt.Errorf("get todo %d: %w", id, err)
	}

	return todo, nil
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, obs := query.Observe(ctx, tr.telemetry, dbSystem, "Create", "INSERT", map[string]interface{}{"todo.title": todo.Title})
	defer obs.End()

	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now()
	}

	stmt, args, err := tr.db.QueryBuilder.Insert(query.TodosTable).
		Columns("title", "body", "due_date", "completed_at", "created_at").
		Values(todo.Title, todo.Body, query.NullableTime(todo.DueDate), query.NullableTime(todo.CompletedAt), todo.CreatedAt.UTC()).
		ToSql()

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, err)
	}

	obs.Query(ctx, stmt, args)

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, fmt.Errorf("insert todo: %w", err))
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, fmt.Errorf("insert todo: %w", err))
	}

	saved, err := tr.getByID(ctx, obs, id)

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, err)
	}

	obs.SetAttributes(map[string]interface{}{"todo.id": saved.ID})

	tr.telemetry.RecordBusinessEvent(ctx, "created", "todo", saved.ID, map[string]interface{}{
		"created_at": saved.CreatedAt,
	})

	obs.Succeed(ctx)

	return saved, nil
}

// UpdateByID writes the patch in one statement so a todo deleted concurrently
// is reported as not found instead of being resurrected.
func (tr *TodoRepository) UpdateByID(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	ctx, obs := query.Observe(ctx, tr.telemetry, dbSystem, "UpdateByID", "UPDATE", map[string]interface{}{"todo.id": id})
	defer obs.End()

	changes := query.UTCChanges(patch)

	updateAttrs := map[string]interface{}{"update.fields_count": len(changes)}
	for field := range changes {
		updateAttrs["update."+field] = true
	}
	obs.SetAttributes(updateAttrs)

	if patch.IsEmpty() {
		todo, err := tr.getByID(ctx, obs, id)

		if err != nil {
			return domain.Todo{}, obs.Fail(ctx, err)
		}

		obs.Succeed(ctx)
		return todo, nil
	}

	stmt, args, err := tr.db.QueryBuilder.Update(query.TodosTable).
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, err)
	}

	obs.Query(ctx, stmt, args)

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, fmt.Errorf("update todo %d: %w", id, err))
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, fmt.Errorf("update todo %d: %w", id, err))
	}

	obs.SetAttributes(map[string]interface{}{"db.rows_affected": rowsAffected})

	if rowsAffected == 0 {
		return domain.Todo{}, obs.Fail(ctx, fmt.Errorf("todo %d: %w", id, domain.ErrTodoNotFound))
	}

	updated, err := tr.getByID(ctx, obs, id)

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, err)
	}

	tr.telemetry.RecordBusinessEvent(ctx, "updated", "todo", updated.ID, map[string]interface{}{
		"fields_count": len(changes),
	})

	obs.Succeed(ctx)

	return updated, nil
}

func (tr *TodoRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, obs := query.Observe(ctx, tr.telemetry, dbSystem, "DeleteByID", "DELETE", map[string]interface{}{"todo.id": id})
	defer obs.End()

	stmt, args, err := tr.db.QueryBuilder.Delete(query.TodosTable).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return obs.Fail(ctx, err)
	}

	obs.Query(ctx, stmt, args)

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return obs.Fail(ctx, fmt.Errorf("delete todo %d: %w", id, err))
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return obs.Fail(ctx, fmt.Errorf("delete todo %d: %w", id, err))
	}

	if rowsAffected == 0 {
		return obs.Fail(ctx, fmt.Errorf("todo %d: %w", id, domain.ErrTodoNotFound))
	}

	tr.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", id, nil)
	obs.Succeed(ctx)

	return nil
}
