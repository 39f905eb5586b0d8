package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" validate:"required,notblank,max=5"`
	Note  *string  `json:"note" validate:"omitempty,notblank"`
	Items []string `json:"items" validate:"required,min=1"`
}

func TestValidateStruct_FieldErrorsUseJSONNames(t *testing.T) {
	blank := " "
	err := ValidateStruct(&sample{Name: "toolong", Note: &blank})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"name":  "max=5",
		"note":  "notblank",
		"items": "required",
	}, FieldErrors(err))
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, ValidateStruct(&sample{Name: "ok", Items: []string{"a"}}))
}

func TestFieldErrors_NonValidatorError(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
