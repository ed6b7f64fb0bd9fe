package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestTodo_Duplicate(t *testing.T) {
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	done := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	now := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

	source := Todo{
		ID:          7,
		Title:       "Buy milk",
		Body:        strPtr("2 liters"),
		DueDate:     &due,
		CompletedAt: &done,
		CreatedAt:   due,
	}

	copied := source.Duplicate(now)

	assert.Equal(t, "Copy of Buy milk. ", copied.Title)
	assert.Equal(t, "2 liters", *copied.Body)
	assert.Nil(t, copied.DueDate)
	assert.Nil(t, copied.CompletedAt)
	assert.Equal(t, now, copied.CreatedAt)
	assert.Zero(t, copied.ID)

	t.Run("should not share the body pointer with the source", func(t *testing.T) {
		*copied.Body = "changed"

		assert.Equal(t, "2 liters", *source.Body)
	})

	t.Run("should keep a nil body nil", func(t *testing.T) {
		empty := Todo{Title: "x"}

		assert.Nil(t, empty.Duplicate(now).Body)
	})
}

func TestTodoPatch_Changes(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		patch    TodoPatch
		expected map[string]interface{}
	}{
		{
			name:     "empty patch",
			patch:    TodoPatch{},
			expected: map[string]interface{}{},
		},
		{
			name:     "body only is ignored",
			patch:    TodoPatch{Body: strPtr("new body")},
			expected: map[string]interface{}{},
		},
		{
			name:     "empty title is still applied",
			patch:    TodoPatch{Title: strPtr("")},
			expected: map[string]interface{}{"title": ""},
		},
		{
			name:  "title and due date",
			patch: TodoPatch{Title: strPtr("new"), DueDate: &due, Body: strPtr("ignored")},
			expected: map[string]interface{}{
				"title":    "new",
				"due_date": due,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.patch.Changes())
			assert.Equal(t, len(tt.expected) == 0, tt.patch.IsEmpty())
		})
	}
}
