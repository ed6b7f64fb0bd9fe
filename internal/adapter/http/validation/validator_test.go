package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type titled struct {
	Title string `json:"title" validate:"required"`
}

func TestFormatValidationErrors_Required(t *testing.T) {
	err := Validator.Struct(titled{})

	assert.Equal(t, []string{"A title is required"}, FormatValidationErrors(err))
}

func TestFormatValidationErrors_Valid(t *testing.T) {
	err := Validator.Struct(titled{Title: "x"})

	assert.NoError(t, err)
	assert.Empty(t, FormatValidationErrors(err))
}
