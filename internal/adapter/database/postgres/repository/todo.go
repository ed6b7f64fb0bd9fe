package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"todoapi/internal/adapter/database/postgres"
	"todoapi/internal/adapter/database/query"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const dbSystem = "postgresql"

var returningColumns = "RETURNING " + strings.Join(query.TodoColumns, ", ")

type TodoRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *postgres.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{db: db, telemetry: telemetry}
}

func notFound(id int64, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("todo %d: %w", id, domain.ErrTodoNotFound)
	}

	return err
}

func (tr *TodoRepository) List(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error) {
	ctx, obs := query.Observe(ctx, tr.telemetry, dbSystem, "List", "SELECT", nil)
	defer obs.End()

	stmt, args, err := query.ListTodos(*tr.db.QueryBuilder, filter).ToSql()

	if err != nil {
		return nil, obs.Fail(ctx, err)
	}

	obs.Query(ctx, stmt, args)

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		return nil, obs.Fail(ctx, fmt.Errorf("list todos: %w", err))
	}

	defer rows.Close()

	data := []domain.Todo{}

	for rows.Next() {
		todo, err := query.ScanTodo(rows)

		if err != nil {
			return nil, obs.Fail(ctx, fmt.Errorf("scan todo: %w", err))
		}

		data = append(data, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, obs.Fail(ctx, fmt.Errorf("list todos: %w", err))
	}

	obs.SetAttributes(map[string]interface{}{"db.rows_returned": len(data)})
	obs.Succeed(ctx)

	return data, nil
}

func (tr *TodoRepository) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	ctx, obs := query.Observe(ctx, tr.telemetry, dbSystem, "GetByID", "SELECT", map[string]interface{}{"todo.id": id})
	defer obs.End()

	stmt, args, err := tr.db.QueryBuilder.Select(query.TodoColumns...).
		From(query.TodosTable).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, err)
	}

	obs.Query(ctx, stmt, args)

	todo, err := query.ScanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, notFound(id, err))
	}

	obs.Succeed(ctx)

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
		Suffix(returningColumns).
		ToSql()

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, err)
	}

	obs.Query(ctx, stmt, args)

	saved, err := query.ScanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, fmt.Errorf("insert todo: %w", err))
	}

	obs.SetAttributes(map[string]interface{}{"todo.id": saved.ID})

	tr.telemetry.RecordBusinessEvent(ctx, "created", "todo", saved.ID, map[string]interface{}{
		"created_at": saved.CreatedAt,
	})

	obs.Succeed(ctx)

	return saved, nil
}

func (tr *TodoRepository) UpdateByID(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	changes := query.UTCChanges(patch)

	if patch.IsEmpty() {
		return tr.GetByID(ctx, id)
	}

	ctx, obs := query.Observe(ctx, tr.telemetry, dbSystem, "UpdateByID", "UPDATE", map[string]interface{}{
		"todo.id":             id,
		"update.fields_count": len(changes),
	})
	defer obs.End()

	stmt, args, err := tr.db.QueryBuilder.Update(query.TodosTable).
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		Suffix(returningColumns).
		ToSql()

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, err)
	}

	obs.Query(ctx, stmt, args)

	updated, err := query.ScanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		return domain.Todo{}, obs.Fail(ctx, notFound(id, err))
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

	tag, err := tr.db.Exec(ctx, stmt, args...)

	if err != nil {
		return obs.Fail(ctx, fmt.Errorf("delete todo %d: %w", id, err))
	}

	if tag.RowsAffected() == 0 {
		return obs.Fail(ctx, fmt.Errorf("todo %d: %w", id, domain.ErrTodoNotFound))
	}

	tr.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", id, nil)
	obs.Succeed(ctx)

	return nil
}
