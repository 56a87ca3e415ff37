package retry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimited(t *testing.T) {
	t.Parallel()

	assert.Nil(t, RateLimited("op", nil))

	cause := errors.New("upstream said no")
	err := RateLimited("submit_order", cause)
	require.Error(t, err)

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, "submit_order", rle.Operation)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "submit_order")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestIsRateLimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "typed rate limit error",
			err:  RateLimited("op", errors.New("boom")),
			want: true,
		},
		{
			name: "wrapped typed rate limit error",
			err:  fmt.Errorf("submitting: %w", RateLimited("op", errors.New("boom"))),
			want: true,
		},
		{
			name: "textual rate limit marker",
			err:  errors.New("upstream rate limit exceeded"),
			want: true,
		},
		{
			name: "textual marker uppercase",
			err:  errors.New("Too Many Requests from relayer"),
			want: true,
		},
		{
			name: "status code marker",
			err:  errors.New("unexpected status 429"),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "validation error",
			err:  errors.New("invalid source chain"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRateLimited(tt.err))
		})
	}
}
