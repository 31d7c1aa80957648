package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	err := NewDomainError("CATEGORY_NOT_FOUND", "That category does not exist")
	assert.Equal(t, "That category does not exist", err.Error())

	var de *DomainError
	require.True(t, errors.As(error(err), &de))
	assert.Equal(t, "CATEGORY_NOT_FOUND", de.Code)
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.True(t, v.Empty())
	assert.NoError(t, v.OrNil())

	v.Add("password2", "The two password fields didn't match.")
	v.Add("username", "A user with that username already exists.")
	v.Add("password2", "This password is too short.")

	assert.True(t, v.Has("password2"))
	assert.False(t, v.Has("email"))
	assert.Equal(t, []string{
		"The two password fields didn't match.",
		"This password is too short.",
		"A user with that username already exists.",
	}, v.Messages())

	err := v.OrNil()
	require.Error(t, err)
	var ve *ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 2)

	var zero ValidationErrors
	zero.Add("email", "Enter a valid email address.")
	assert.Equal(t, "Enter a valid email address.", zero.Error())
}

func TestBaseEntity(t *testing.T) {
	e := NewBaseEntity()
	assert.True(t, e.IsNew())
	before := e.UpdatedAt
	e.ID = 3
	e.Touch()
	assert.False(t, e.IsNew())
	assert.Equal(t, uint(3), e.GetID())
	assert.False(t, e.UpdatedAt.Before(before))
}

func TestFilterOffset(t *testing.T) {
	assert.Equal(t, 0, DefaultFilter().Offset())
	assert.Equal(t, 40, Filter{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, Filter{Page: 0, PageSize: 20}.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPaginated([]int{}, 0, 1, 0).TotalPages)
}
