package layers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLayersUnavailable(t *testing.T) {
	lookup := GetLayersUnavailable([]string{"a", "b", "c"})

	got, err := lookup("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)

	got, err = lookup("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got)

	got, err = lookup("c")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	_, err = lookup("z")
	require.ErrorIs(t, err, ErrUnknownLayer)
	assert.Contains(t, err.Error(), `"z"`)
}

func TestUnavailableReturnsCopy(t *testing.T) {
	r := NewResolver([]string{"model", "service", "api"})

	got, err := r.Unavailable("model")
	require.NoError(t, err)
	got[0] = "mutated"

	again, err := r.Unavailable("model")
	require.NoError(t, err)
	assert.Equal(t, []string{"service", "api"}, again)
}

func TestResolverCopiesInput(t *testing.T) {
	order := []string{"model", "service"}
	r := NewResolver(order)
	order[1] = "mutated"

	assert.Equal(t, []string{"model", "service"}, r.Layers())
}

func TestCheckDependency(t *testing.T) {
	r := NewResolver([]string{"model", "service", "api"})

	testCases := []struct {
		layer, dependency string
		wantErr           error
	}{
		{"api", "service", nil},
		{"api", "model", nil},
		{"service", "model", nil},
		{"model", "service", ErrLayerViolation},
		{"service", "api", ErrLayerViolation},
		{"model", "model", nil},
		{"cache", "model", ErrUnknownLayer},
		{"api", "cache", ErrUnknownLayer},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s->%s", tc.layer, tc.dependency), func(t *testing.T) {
			err := r.CheckDependency(tc.layer, tc.dependency)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
