package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsRecognizerCatalog(t *testing.T) {
	c := Default()

	recognizable := 0
	for _, d := range c.Definitions() {
		if d.Recognizable() {
			recognizable++
		}
	}
	assert.Equal(t, 8, recognizable)
	assert.Equal(t, 9, c.Len())
	assert.True(t, c.Contains(Hemoglobin))
	assert.False(t, c.Contains("Ferritin"))
}

func TestDefault_Polarity(t *testing.T) {
	c := Default()

	for _, name := range []string{HDLCholesterol, VitaminD, Hemoglobin, VitaminB12} {
		assert.Equal(t, HigherIsBetter, c.Polarity(name), name)
	}
	for _, name := range []string{TotalCholesterol, LDLCholesterol, Triglycerides, Creatinine, HbA1c} {
		assert.Equal(t, LowerIsBetter, c.Polarity(name), name)
	}
	assert.Equal(t, PolarityNone, c.Polarity("Ferritin"))
}

func TestNew_RejectsInvalidDefinitions(t *testing.T) {
	_, err := New([]Definition{{Name: "A", Bounds: Bounds{High: 1}}, {Name: "A", Bounds: Bounds{High: 1}}})
	assert.Error(t, err)

	_, err = New([]Definition{{Name: "A", Bounds: Bounds{Low: ptr(5), High: 1}}})
	assert.Error(t, err)

	_, err = New([]Definition{{Bounds: Bounds{High: 1}}})
	assert.Error(t, err)
}

func TestWithBounds_DoesNotModifyOriginal(t *testing.T) {
	c := Default()

	overridden, err := c.WithBounds(map[string]Bounds{HDLCholesterol: {Low: ptr(50), High: 90}})
	require.NoError(t, err)

	b, _ := overridden.Bounds(HDLCholesterol)
	assert.Equal(t, 50.0, *b.Low)
	assert.Equal(t, 90.0, b.High)

	orig, _ := c.Bounds(HDLCholesterol)
	assert.Equal(t, 40.0, *orig.Low)

	_, err = c.WithBounds(map[string]Bounds{"Ferritin": {High: 1}})
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ranges.ini")
	content := `[HDL Cholesterol]
low = 45
high = 90

[HbA1c]
high = 6.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := FromFile(path)
	require.NoError(t, err)

	hdl, _ := c.Bounds(HDLCholesterol)
	assert.Equal(t, 45.0, *hdl.Low)
	assert.Equal(t, 90.0, hdl.High)

	a1c, _ := c.Bounds(HbA1c)
	assert.Nil(t, a1c.Low)
	assert.Equal(t, 6.0, a1c.High)
}

func TestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing high", content: "[HDL Cholesterol]\nlow = 40\n"},
		{name: "invalid high", content: "[HDL Cholesterol]\nhigh = lots\n"},
		{name: "invalid low", content: "[HDL Cholesterol]\nlow = x\nhigh = 10\n"},
		{name: "unknown biomarker", content: "[Ferritin]\nhigh = 300\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".ini")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := FromFile(path)
			assert.Error(t, err)
		})
	}

	_, err := FromFile(filepath.Join(dir, "missing.ini"))
	assert.Error(t, err)
}

func TestFromFile_EmptyPath(t *testing.T) {
	c, err := FromFile("")
	require.NoError(t, err)
	assert.Equal(t, Default().Names(), c.Names())
}
