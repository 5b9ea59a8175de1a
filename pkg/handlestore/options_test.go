package handlestore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/handlestore/pkg/handlestore"
	"github.com/randalmurphal/handlestore/pkg/handlestore/config"
)

type style struct{ font string }

type fontKey string

func TestIndexPolicyString(t *testing.T) {
	tests := []struct {
		policy   handlestore.IndexPolicy
		expected string
	}{
		{handlestore.PurgeOnDestroy, "purge"},
		{handlestore.RetainOnDestroy, "retain"},
		{handlestore.IndexPolicy(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.policy.String())
		})
	}
}

func TestParseIndexPolicy(t *testing.T) {
	p, err := handlestore.ParseIndexPolicy("purge")
	require.NoError(t, err)
	assert.Equal(t, handlestore.PurgeOnDestroy, p)

	p, err = handlestore.ParseIndexPolicy("retain")
	require.NoError(t, err)
	assert.Equal(t, handlestore.RetainOnDestroy, p)

	_, err = handlestore.ParseIndexPolicy("Purge")
	assert.ErrorIs(t, err, handlestore.ErrInvalidIndexPolicy)
	assert.Contains(t, err.Error(), `"Purge"`)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Run("empty config uses defaults", func(t *testing.T) {
		opts, err := handlestore.OptionsFromConfig(config.New(nil))
		require.NoError(t, err)
		assert.Empty(t, opts)
	})

	t.Run("name and retain policy", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte("name: fonts\nindex_policy: retain\nsize_hint: 16\n"))
		require.NoError(t, err)

		opts, err := handlestore.OptionsFromConfig(cfg)
		require.NoError(t, err)

		r := handlestore.New[style, uint16](opts...)
		assert.Equal(t, "fonts", r.Name())

		idx := handlestore.MustIndex(r, func(k fontKey) style { return style{font: string(k)} })
		h, err := idx.Construct("mono")
		require.NoError(t, err)
		require.True(t, r.Destroy(h))

		again, err := idx.Construct("mono")
		require.NoError(t, err)
		assert.Equal(t, h, again, "retain policy keeps the stale entry")
	})

	t.Run("invalid policy", func(t *testing.T) {
		cfg := config.New(map[string]any{"index_policy": "sometimes"})
		_, err := handlestore.OptionsFromConfig(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, handlestore.ErrInvalidIndexPolicy)
		assert.Contains(t, err.Error(), "index_policy")
	})

	t.Run("non-string policy", func(t *testing.T) {
		cfg := config.New(map[string]any{"index_policy": 1})
		_, err := handlestore.OptionsFromConfig(cfg)
		assert.ErrorIs(t, err, handlestore.ErrInvalidIndexPolicy)
	})

	t.Run("metrics enabled", func(t *testing.T) {
		cfg := config.New(map[string]any{"metrics": true})
		opts, err := handlestore.OptionsFromConfig(cfg)
		require.NoError(t, err)
		assert.Len(t, opts, 1)

		r := handlestore.New[style, uint16](opts...)
		_, err = r.Add(style{})
		assert.NoError(t, err)
	})
}

func TestOptionsFromConfigSub(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
styles:
  name: styles
fonts:
  name: fonts
  index_policy: retain
`))
	require.NoError(t, err)

	opts, err := handlestore.OptionsFromConfig(cfg.Sub("fonts"))
	require.NoError(t, err)
	r := handlestore.New[style, uint8](opts...)
	assert.Equal(t, "fonts", r.Name())
}
