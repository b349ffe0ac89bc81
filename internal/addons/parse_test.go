package addons

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addonsPage = `<!DOCTYPE html>
<html>
<body>
<nav><a href="/wiki/addons/kubejs-nav-decoy">Nav Decoy</a></nav>
<main>
  <h1>Addons</h1>
  <ul>
    <li><a href="/wiki/addons/kubejs-create">KubeJS Create</a></li>
    <li><a href="https://kubejs.com/wiki/addons/kubejs-mekanism">KubeJS Mekanism</a></li>
    <li><a href="/wiki/installation">Installation</a></li>
    <li><a href="/wiki/addons/kubejs-empty">   </a></li>
  </ul>
</main>
<footer><a href="/wiki/addons/kubejs-footer-decoy">Footer Decoy</a></footer>
</body>
</html>`

func TestParseAddonsPage(t *testing.T) {
	addons, err := ParseAddonsPage(strings.NewReader(addonsPage))
	require.NoError(t, err)

	assert.Equal(t, []Addon{
		{Name: "KubeJS Create", URL: "https://kubejs.com/wiki/addons/kubejs-create"},
		{Name: "KubeJS Mekanism", URL: "https://kubejs.com/wiki/addons/kubejs-mekanism"},
	}, addons)
}

func TestParseAddonsPage_NestedAnchorText(t *testing.T) {
	page := `<main><a href="/wiki/addons/kubejs-thermal"><span>KubeJS</span> <b>Thermal</b></a></main>`
	addons, err := ParseAddonsPage(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, addons, 1)
	assert.Equal(t, "KubeJS Thermal", addons[0].Name)
}

func TestParseAddonsPage_NoMain(t *testing.T) {
	page := `<body><a href="/wiki/addons/kubejs-create">KubeJS Create</a></body>`
	addons, err := ParseAddonsPage(strings.NewReader(page))
	require.NoError(t, err)
	assert.Empty(t, addons)
}
