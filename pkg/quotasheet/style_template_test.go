package quotasheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStyleSet(t *testing.T) {
	set := DefaultStyleSet()

	assert.True(t, set.For(ZoneHeader).Font.Bold)
	assert.Equal(t, "center", set.For(ZoneHeader).Alignment.Horizontal)
	assert.Equal(t, "EFEFEF", set.For(ZoneFooter).Fill.Color)
	assert.Equal(t, "solid", set.For(ZoneBorder).Border.Style)
	assert.Equal(t, "000000", set.For(ZoneBorder).Border.Color)
}

func TestParseStyleSetMergesDefaults(t *testing.T) {
	yml := `
header:
  fill:
    color: "D9E1F2"
footer:
  font:
    bold: true
`
	set, err := ParseStyleSet([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, "D9E1F2", set.Header.Fill.Color)
	require.NotNil(t, set.Header.Font)
	assert.True(t, set.Header.Font.Bold)
	assert.True(t, set.Footer.Font.Bold)
	assert.Equal(t, "EFEFEF", set.Footer.Fill.Color)
	assert.Equal(t, "EFEFEF", set.FirstColumn.Fill.Color)
	assert.Equal(t, "solid", set.Border.Border.Style)
}

func TestParseStyleSetExplicitZeroValues(t *testing.T) {
	yml := `
header:
  font:
    bold: false
first_column:
  fill:
    color: ""
`
	set, err := ParseStyleSet([]byte(yml))
	require.NoError(t, err)

	require.NotNil(t, set.Header.Font)
	assert.False(t, set.Header.Font.Bold)
	assert.Equal(t, "EFEFEF", set.Header.Fill.Color)
	assert.Equal(t, "center", set.Header.Alignment.Horizontal)
	assert.Equal(t, "", set.FirstColumn.Fill.Color)
	assert.Equal(t, "EFEFEF", set.Footer.Fill.Color)
}

func TestParseStyleSetDoesNotShareDefaults(t *testing.T) {
	_, err := ParseStyleSet([]byte("header:\n  font:\n    bold: false\n"))
	require.NoError(t, err)
	assert.True(t, DefaultStyleSet().Header.Font.Bold)
}

func TestParseStyleSetInvalid(t *testing.T) {
	_, err := ParseStyleSet([]byte("header: [unclosed"))
	assert.Error(t, err)
}

func TestLoadStyleSet(t *testing.T) {
	set, err := LoadStyleSet("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStyleSet(), set)

	set, err = LoadStyleSet(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStyleSet(), set)

	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("border:\n  border:\n    style: dashed\n"), 0o644))
	set, err = LoadStyleSet(path)
	require.NoError(t, err)
	assert.Equal(t, "dashed", set.Border.Border.Style)
	assert.Equal(t, "000000", set.Border.Border.Color)
}
