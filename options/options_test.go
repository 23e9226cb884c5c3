package options

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewRegistryDefaults(t *testing.T) {
	r := New()
	assert.Equal(t, "", r.String("title"))
	assert.Equal(t, "default", r.Enum("plugin_processing_mode"))
	assert.Equal(t, "0.015", r.Decimal("tolerance").String())
	assert.Equal(t, false, r.Bool("render_commas"))
}

func TestSetScalarOption(t *testing.T) {
	r := New()
	result := r.Set("title", "My Ledger")
	assert.False(t, result.Unknown)
	assert.Equal(t, "My Ledger", r.String("title"))
}

func TestSetUnknownOption(t *testing.T) {
	r := New()
	result := r.Set("not_real", "x")
	assert.True(t, result.Unknown)
}

func TestSetReadOnlyOption(t *testing.T) {
	r := New()
	result := r.Set("filename", "x.beancount")
	assert.True(t, result.ReadOnly)
	assert.Equal(t, "", r.String("filename"))
}

func TestSetInvalidEnumFallsBackToDefault(t *testing.T) {
	r := New()
	result := r.Set("plugin_processing_mode", "bogus")
	assert.True(t, result.InvalidEnum)
	assert.Equal(t, "default", r.Enum("plugin_processing_mode"))
}

func TestSetDeprecatedOptionReportsMessage(t *testing.T) {
	r := New()
	result := r.Set("tolerance", "0.02")
	assert.True(t, result.Deprecated)
	assert.NotZero(t, result.DeprecationMsg)
	assert.Equal(t, "0.02", r.Decimal("tolerance").String())
}

func TestSetStringListAccumulates(t *testing.T) {
	r := New()
	r.Set("documents", "a/")
	r.Set("documents", "b/")
	assert.Equal(t, []string{"a/", "b/"}, r.StringList("documents"))
}

func TestSetCurrencyDecimalMap(t *testing.T) {
	r := New()
	r.Set("default_tolerance", "USD:0.01")
	r.Set("default_tolerance", "EUR:0.02")
	m := r.CurrencyDecimalMap("default_tolerance")
	assert.Equal(t, "0.01", m["USD"].String())
	assert.Equal(t, "0.02", m["EUR"].String())
}

func TestAddIncludeAndPlugin(t *testing.T) {
	r := New()
	r.AddInclude("other.beancount")
	r.AddPlugin("some.plugin", "cfg")
	assert.Equal(t, []string{"other.beancount"}, r.StringList("include"))
	assert.Equal(t, 1, len(r.Plugins()))
	assert.Equal(t, "some.plugin", r.Plugins()[0].Name)
}

func TestNamesSortedAndStable(t *testing.T) {
	r := New()
	names := r.Names()
	assert.NotZero(t, len(names))
	for i := 1; i < len(names); i++ {
		assert.True(t, names[i-1] < names[i])
	}
}

func TestBooleanParsing(t *testing.T) {
	r := New()
	r.Set("render_commas", "TRUE")
	assert.Equal(t, true, r.Bool("render_commas"))
	r.Set("render_commas", "0")
	assert.Equal(t, false, r.Bool("render_commas"))
}
