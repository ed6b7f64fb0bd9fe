package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTodo(t *testing.T) {
	todo := NewTodo()

	assert.NotEmpty(t, todo.Title)
	assert.NotNil(t, todo.Body)
	assert.Nil(t, todo.DueDate)
	assert.Nil(t, todo.CompletedAt)
}

func TestNewTodo_Overrides(t *testing.T) {
	todo := NewTodo(map[string]any{"Title": "Buy milk", "Body": "2 liters"})

	assert.Equal(t, "Buy milk", todo.Title)
	assert.Equal(t, "2 liters", *todo.Body)
}
