package query

import (
	"time"

	"todoapi/internal/core/domain"
)

// RowScanner is satisfied by *sql.Row, *sql.Rows, pgx.Row and pgx.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanTodo reads one row selected with TodoColumns.
func ScanTodo(row RowScanner) (domain.Todo, error) {
	var todo domain.Todo

	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Body,
		&todo.DueDate,
		&todo.CompletedAt,
		&todo.CreatedAt,
	)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.CreatedAt = todo.CreatedAt.UTC()
	todo.DueDate = utc(todo.DueDate)
	todo.CompletedAt = utc(todo.CompletedAt)

	return todo, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	u := t.UTC()
	return &u
}
