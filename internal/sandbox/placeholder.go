package sandbox

import "strings"

// substitute applies the placeholder rules of §4.4 to an environment
// value, in order: "$/" -> "<composition-root>/", a bare "$" ->
// "<composition-root>", "@HOME" -> the host home path, "@PACKAGES_DIR" ->
// the content-store packages root.
func substitute(value, compositionRoot, hostHome, packagesDir string) string {
	value = strings.ReplaceAll(value, "$/", compositionRoot+"/")
	value = strings.ReplaceAll(value, "$", compositionRoot)
	value = strings.ReplaceAll(value, "@HOME", hostHome)
	value = strings.ReplaceAll(value, "@PACKAGES_DIR", packagesDir)
	return value
}

// mergedEnv returns the effective environment: Env with placeholders
// substituted, then Set applied on top (workspace overrides always win).
func (c *Config) mergedEnv() map[string]string {
	out := make(map[string]string, len(c.Env)+len(c.Set))
	for k, v := range c.Env {
		out[k] = substitute(v, c.CompositionRoot, c.HostHome, c.PackagesDir)
	}
	for k, v := range c.Set {
		out[k] = substitute(v, c.CompositionRoot, c.HostHome, c.PackagesDir)
	}
	return out
}
