package formkit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
)

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	var errs formkit.ValidationErrors
	assert.True(t, errs.IsEmpty())
	assert.Equal(t, "Validation failed", errs.Error())

	errs.Add(formkit.NewPath("email"), "Invalid email")
	errs.Add(formkit.NewPath("items", 0, "name"), "Required")
	errs.Add(formkit.NewPath("email"), "Too long")

	assert.Equal(t, "validation error: email: Invalid email, items.0.name: Required, email: Too long", errs.Error())
	assert.Equal(t, "Invalid email", errs.Get("email"))
	assert.Equal(t, "", errs.Get("password"))
	assert.True(t, errs.Has("items.0.name"))
	assert.False(t, errs.Has("items"))
	assert.Len(t, errs.Issues(), 3)
}

func TestExtractIssues(t *testing.T) {
	t.Parallel()

	_, ok := formkit.ExtractIssues(nil)
	assert.False(t, ok)

	_, ok = formkit.ExtractIssues(errors.New("boom"))
	assert.False(t, ok)

	var errs formkit.ValidationErrors
	errs.Add(formkit.NewPath("password"), "Too short")
	issues, ok := formkit.ExtractIssues(fmt.Errorf("create user: %w", errs))
	require.True(t, ok)
	require.Len(t, issues, 1)
	assert.Equal(t, "password", issues[0].Field.String())
	assert.Equal(t, "Too short", issues[0].Message)
}
