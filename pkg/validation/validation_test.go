package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" validate:"required,min=2"`
	Price int64    `json:"base_price" validate:"gt=0"`
	Slots []string `json:"slots" validate:"required,unique"`
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(New(), sample{Name: "x", Slots: []string{"a", "a"}})

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.Fields()
	assert.Equal(t, "name must be at least 2", fields["name"])
	assert.Equal(t, "base_price must be greater than 0", fields["base_price"])
	assert.Equal(t, "slots must not contain duplicates", fields["slots"])
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(New(), sample{Name: "xy", Price: 1, Slots: []string{"a"}}))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}
	assert.Equal(t, "validation failed: 2 error(s): [a: bad; b: worse]", errs.Error())
	assert.Equal(t, "", ValidationErrors{}.Error())
}
