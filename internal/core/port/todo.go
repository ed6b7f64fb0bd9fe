package port

import (
	"context"

	"todoapi/internal/core/domain"
)

type TodoRepository interface {
	List(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error)
	GetByID(ctx context.Context, id int64) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	UpdateByID(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error)
	DeleteByID(ctx context.Context, id int64) error
}

type TodoService interface {
	List(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error)
	GetByID(ctx context.Context, id int64) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	UpdateByID(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error)
	DeleteByID(ctx context.Context, id int64) error
	Duplicate(ctx context.Context, id int64) (domain.Todo, error)
}
