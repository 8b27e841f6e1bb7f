package assets

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedCSS(t *testing.T) {
	css := GetEmbeddedCSS()
	require.NotEmpty(t, css)
	assert.Contains(t, css, ".section.visible")
	assert.Contains(t, css, "@keyframes slideIn")
}

func TestGetEmbeddedJS(t *testing.T) {
	js := GetEmbeddedJS()
	require.NotEmpty(t, js)
	assert.Contains(t, js, "IntersectionObserver")
	assert.Contains(t, js, "X-Requested-With")
	assert.Contains(t, js, "noopener,noreferrer")
}

func TestStatic(t *testing.T) {
	names := []string{}
	err := fs.WalkDir(Static(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"styles.css", "app.js"}, names)
}
