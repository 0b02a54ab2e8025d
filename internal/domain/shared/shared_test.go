package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := Errorf(ErrNotFound, "company %d not found", 7)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrDuplicateName))
		assert.Equal(t, "company 7 not found", err.Error())
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("create product: %w", ErrDanglingReference)
		assert.True(t, errors.Is(err, ErrDanglingReference))
		assert.Equal(t, CodeDanglingReference, ErrorCode(err))
	})

	t.Run("non domain error has no code", func(t *testing.T) {
		assert.Empty(t, ErrorCode(errors.New("boom")))
		assert.False(t, errors.Is(errors.New("NOT_FOUND"), ErrNotFound))
	})
}

func TestOptional(t *testing.T) {
	var unset Optional[string]
	assert.False(t, unset.IsSet())
	assert.Equal(t, "fallback", unset.OrElse("fallback"))

	some := Some("")
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, "", some.OrElse("fallback"))

	n := 5
	assert.Equal(t, 5, FromPtr(&n).OrElse(0))
	assert.False(t, FromPtr[int](nil).IsSet())
	assert.False(t, Unset[int]().IsSet())
}

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		req       PageRequest
		wantLimit int
		wantErr   bool
	}{
		{name: "zero limit uses default", req: NewPageRequest(0, 0), wantLimit: DefaultPageLimit},
		{name: "limit kept", req: NewPageRequest(5, 25), wantLimit: 25},
		{name: "limit clamped", req: NewPageRequest(0, 1000), wantLimit: MaxPageLimit},
		{name: "negative offset", req: NewPageRequest(-1, 10), wantErr: true},
		{name: "negative limit", req: NewPageRequest(0, -10), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Normalize(DefaultPageLimit, MaxPageLimit)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.req.Offset, got.Offset)
		})
	}
}

func TestPage(t *testing.T) {
	page := NewPage[int](nil, 3, NewPageRequest(0, 2))
	assert.NotNil(t, page.Items)
	assert.True(t, page.HasMore())

	page = NewPage([]int{1, 2, 3}, 3, NewPageRequest(0, 10))
	assert.False(t, page.HasMore())
}
