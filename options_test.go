package codeagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	t.Run("nothing set", func(t *testing.T) {
		opts := ApplyOptions()
		require.NotNil(t, opts)
		assert.Equal(t, Options{}, *opts)
	})

	t.Run("options are applied in order", func(t *testing.T) {
		opts := ApplyOptions(
			WithModel("gpt-4o"),
			WithMaxTokens(10),
			WithTemperature(0.5),
			WithMaxTokens(200),
		)

		assert.Equal(t, "gpt-4o", opts.Model)
		assert.Equal(t, 200, opts.MaxTokens)
		require.NotNil(t, opts.Temperature)
		assert.InDelta(t, 0.5, *opts.Temperature, 0.0001)
	})

	t.Run("Apply adds to existing options", func(t *testing.T) {
		opts := ApplyOptions(WithModel("a"))
		opts.Apply(WithMaxTokens(5))
		assert.Equal(t, "a", opts.Model)
		assert.Equal(t, 5, opts.MaxTokens)
	})
}

func TestOptionsFallbacks(t *testing.T) {
	var unset *Options
	assert.Equal(t, "default", unset.ModelOr("default"))
	assert.Equal(t, 200, unset.MaxTokensOr(200))
	assert.Equal(t, 0.5, unset.TemperatureOr(0.5))

	empty := ApplyOptions()
	assert.Equal(t, "default", empty.ModelOr("default"))
	assert.Equal(t, 200, empty.MaxTokensOr(200))
	assert.Equal(t, 0.5, empty.TemperatureOr(0.5))

	set := ApplyOptions(WithModel("m"), WithMaxTokens(64), WithTemperature(0))
	assert.Equal(t, "m", set.ModelOr("default"))
	assert.Equal(t, 64, set.MaxTokensOr(200))
	assert.Zero(t, set.TemperatureOr(0.5), "zero temperature is distinguishable from unset")
}
