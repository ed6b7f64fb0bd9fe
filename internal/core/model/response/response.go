package response

import (
	"time"

	"todoapi/internal/core/domain"
)

type TodoResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Body        *string    `json:"body"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Body:        todo.Body,
		DueDate:     todo.DueDate,
		CompletedAt: todo.CompletedAt,
		CreatedAt:   todo.CreatedAt,
	}
}

// NewTodoListResponse never returns nil so an empty listing encodes as [].
func NewTodoListResponse(todos []domain.Todo) []TodoResponse {
	data := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, NewTodoResponse(todo))
	}

	return data
}

type ErrorResponse struct {
	Error string `json:"error"`
}
