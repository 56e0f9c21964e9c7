package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayoutError_Error(t *testing.T) {
	tests := []struct {
		name     string
		context  string
		cause    error
		expected string
	}{
		{
			name:     "simple error",
			context:  "resolving offset",
			cause:    errors.New("invalid boundary"),
			expected: "resolving offset: invalid boundary",
		},
		{
			name:     "nested error",
			context:  "binding template",
			cause:    errors.New("attribute mismatch"),
			expected: "binding template: attribute mismatch",
		},
		{
			name:     "empty context",
			context:  "",
			cause:    errors.New("some error"),
			expected: ": some error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &LayoutError{
				Context: tt.context,
				Cause:   tt.cause,
			}
			require.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		context string
		cause   error
		wantNil bool
	}{
		{
			name:    "wrap non-nil error",
			context: "reading stream",
			cause:   errors.New("IO error"),
			wantNil: false,
		},
		{
			name:    "wrap nil error returns nil",
			context: "some operation",
			cause:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(tt.context, tt.cause)

			if tt.wantNil {
				require.Nil(t, err)
				return
			}

			require.NotNil(t, err)

			var layoutErr *LayoutError
			ok := errors.As(err, &layoutErr)
			require.True(t, ok, "error should be LayoutError type")
			require.Equal(t, tt.context, layoutErr.Context)
			require.Equal(t, tt.cause, layoutErr.Cause)
		})
	}
}

func TestWrapError_ChainedWrapping(t *testing.T) {
	baseErr := errors.New("base error")
	level1 := WrapError("level 1", baseErr)
	level2 := WrapError("level 2", level1)
	level3 := WrapError("level 3", level2)

	require.NotNil(t, level3)

	errMsg := level3.Error()
	require.Contains(t, errMsg, "level 3")
	require.Contains(t, errMsg, "level 2")

	require.True(t, errors.Is(level3, baseErr))

	var layoutErr *LayoutError
	require.True(t, errors.As(level3, &layoutErr))
	require.Equal(t, "level 3", layoutErr.Context)

	unwrapped1 := errors.Unwrap(level3)
	require.True(t, errors.As(unwrapped1, &layoutErr))
	require.Equal(t, "level 2", layoutErr.Context)

	unwrapped2 := errors.Unwrap(unwrapped1)
	require.True(t, errors.As(unwrapped2, &layoutErr))
	require.Equal(t, "level 1", layoutErr.Context)

	unwrapped3 := errors.Unwrap(unwrapped2)
	require.Equal(t, baseErr, unwrapped3)
}

func TestSentinelErrors_Is(t *testing.T) {
	t.Run("schema error", func(t *testing.T) {
		err := Schemaf("unknown sizing %q", "weird")
		require.True(t, errors.Is(err, ErrSchema))
		require.Contains(t, err.Error(), "weird")
	})

	t.Run("reference error", func(t *testing.T) {
		err := Referencef("referent %q not found", "field1_size")
		require.True(t, errors.Is(err, ErrReference))
	})

	t.Run("stream error", func(t *testing.T) {
		err := Streamf("read past end of stream at %d", 128)
		require.True(t, errors.Is(err, ErrStream))
	})

	t.Run("wrapped sentinel survives context wrapping", func(t *testing.T) {
		inner := Schemaf("hint without signature")
		outer := WrapError("binding node", inner)
		require.True(t, errors.Is(outer, ErrSchema))
	})
}

func BenchmarkWrapError(b *testing.B) {
	baseErr := errors.New("base error")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = WrapError("context", baseErr)
	}
}
