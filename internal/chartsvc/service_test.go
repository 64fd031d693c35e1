package chartsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartengine/internal/indicator"
)

func TestResolveSpecs(t *testing.T) {
	reg := indicator.NewRegistry()

	specs, err := resolveSpecs(reg, []string{"MA", "MACD", "RSI"})
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, "MA", specs[0].Name)
	assert.Equal(t, []int{5, 20, 60, 99}, specs[0].Params)
	assert.Equal(t, []int{12, 26, 9}, specs[1].Params)
}

func TestResolveSpecsUnknown(t *testing.T) {
	reg := indicator.NewRegistry()

	_, err := resolveSpecs(reg, []string{"MA", "BOGUS"})
	require.Error(t, err)
	assert.ErrorIs(t, err, indicator.ErrUnknownIndicator)
}
