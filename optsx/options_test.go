package optsx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/optsx"
)

func TestNewDefaults(t *testing.T) {
	o, err := optsx.New()
	require.NoError(t, err)

	assert.Equal(t, optsx.V4, o.Version)
	assert.Equal(t, optsx.Structured, o.ODataFormat)
	assert.Equal(t, optsx.Plain, o.SQLMapping)
	assert.Equal(t, optsx.PlainSQL, o.Dialect)
	assert.Equal(t, 5000, o.DefaultStringLength)
}

func TestNewWithOverrides(t *testing.T) {
	o, err := optsx.New(
		optsx.WithVersion(optsx.V2),
		optsx.WithDialect(optsx.SQLite),
		optsx.WithSQLMapping(optsx.HDBCDS),
		optsx.WithODataV2PartialConstr(true),
		optsx.WithDefaultStringLength(255),
	)
	require.NoError(t, err)

	assert.Equal(t, optsx.V2, o.Version)
	assert.Equal(t, optsx.SQLite, o.Dialect)
	assert.Equal(t, optsx.HDBCDS, o.SQLMapping)
	assert.True(t, o.ODataV2PartialConstr)
	assert.Equal(t, 255, o.DefaultStringLength)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	t.Run("Apply stops at first error", func(t *testing.T) {
		_, err := optsx.New(optsx.WithVersion("v3"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, optsx.ErrMissingOption))

		var cfgErr *optsx.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "version", cfgErr.Option)
	})

	t.Run("ApplyAll collects every error", func(t *testing.T) {
		o := &optsx.Options{}
		err := o.ApplyAll(
			optsx.WithDialect("mysql"),
			optsx.WithSrc("csv"),
			optsx.WithDefaultStringLength(-1),
		)
		require.Error(t, err)
		assert.Equal(t, 3, len(collectConfigErrors(err)))
	})
}

func TestMustNewPanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		optsx.MustNew(optsx.WithSQLChangeMode("rename"))
	})
}

func collectConfigErrors(err error) []*optsx.ConfigError {
	var out []*optsx.ConfigError
	for _, e := range flattenJoined(err) {
		var cfgErr *optsx.ConfigError
		if errors.As(e, &cfgErr) {
			out = append(out, cfgErr)
		}
	}
	return out
}

// flattenJoined walks an errors.Join tree; stdlib's multierror exposes its
// members via the Unwrap() []error interface rather than a single Unwrap.
func flattenJoined(err error) []error {
	type multi interface{ Unwrap() []error }
	if m, ok := err.(multi); ok {
		return m.Unwrap()
	}
	return []error{err}
}
