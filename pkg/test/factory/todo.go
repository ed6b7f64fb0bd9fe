package factory

import (
	fab "github.com/Goldziher/fabricator"

	"todoapi/internal/core/domain"
)

// TodoAttributes holds the user supplied fields of a todo. Keys passed to
// NewTodo override them by field name, e.g. {"Title": "Buy milk"}.
type TodoAttributes struct {
	Title string
	Body  string
}

func Build[T any](customData ...map[string]any) T {
	return fab.New(*new(T)).Build(customData...)
}

// NewTodo builds an unsaved todo with random title and body.
func NewTodo(customData ...map[string]any) domain.Todo {
	attrs := Build[TodoAttributes](customData...)
	body := attrs.Body

	return domain.Todo{
		Title: attrs.Title,
		Body:  &body,
	}
}
