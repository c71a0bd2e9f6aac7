package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type readerConfig struct {
	maxSize int
	strict  bool
	calls   []string
}

func withMaxSize(n int) Option[*readerConfig] {
	return New(func(c *readerConfig) error {
		if n <= 0 {
			return errors.New("max size must be positive")
		}
		c.maxSize = n
		c.calls = append(c.calls, "maxSize")
		return nil
	})
}

func withStrict() Option[*readerConfig] {
	return NoError(func(c *readerConfig) {
		c.strict = true
		c.calls = append(c.calls, "strict")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &readerConfig{}
		err := Apply(cfg, withStrict(), withMaxSize(8224))
		require.NoError(t, err)
		require.True(t, cfg.strict)
		require.Equal(t, 8224, cfg.maxSize)
		require.Equal(t, []string{"strict", "maxSize"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &readerConfig{}
		err := Apply(cfg, withMaxSize(0), withStrict())
		require.Error(t, err)
		require.Contains(t, err.Error(), "max size must be positive")
		require.False(t, cfg.strict)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &readerConfig{}
		require.NoError(t, Apply(cfg, nil, withStrict()))
		require.True(t, cfg.strict)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &readerConfig{maxSize: 7}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 7, cfg.maxSize)
	})
}
