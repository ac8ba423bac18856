package workspace

// DescriptorFile is the name of a cave's descriptor, looked up by
// walking upward from the current directory (§6.1, §9 "inside-workspace
// detection").
const DescriptorFile = "pi.workspace.json"

// Descriptor is a cave's declared configuration: the package selectors it
// builds, workspace-wide settings, and per-package option overrides, plus
// any named variant overlays (§4.12).
type Descriptor struct {
	Name     string                       `json:"name,omitempty"`
	Packages []string                     `json:"packages,omitempty"`
	Set      map[string]string            `json:"set,omitempty"`
	Unset    []string                     `json:"unset,omitempty"`
	Options  map[string]map[string]string `json:"options,omitempty"`
	Variants map[string]Descriptor        `json:"variants,omitempty"`
}

// Effective merges the base descriptor with the named variant (empty
// means "no variant": the base descriptor is returned unmerged) per the
// §6.1 merge rules.
func (d Descriptor) Effective(variant string) (Descriptor, error) {
	if variant == "" {
		return Descriptor{
			Name:     d.Name,
			Packages: append([]string{}, d.Packages...),
			Set:      cloneSet(d.Set),
			Options:  cloneOptions(d.Options),
		}, nil
	}

	overlay, ok := d.Variants[variant]
	if !ok {
		return Descriptor{}, ErrVariantNotFound
	}

	merged := Descriptor{
		Name:     d.Name,
		Packages: unionPackages(d.Packages, overlay.Packages),
		Set:      cloneSet(d.Set),
		Options:  cloneOptions(d.Options),
	}
	for k, v := range overlay.Set {
		merged.Set[k] = v
	}
	for _, k := range overlay.Unset {
		delete(merged.Set, k)
	}
	mergeOptions(merged.Options, overlay.Options)

	return merged, nil
}

func unionPackages(base, overlay []string) []string {
	seen := make(map[string]bool, len(base)+len(overlay))
	out := make([]string, 0, len(base)+len(overlay))
	for _, p := range base {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range overlay {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func cloneSet(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneOptions(in map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(in))
	for pkg, opts := range in {
		out[pkg] = cloneSet(opts)
	}
	return out
}

// mergeOptions deep-merges overlay into base in place: a package's option
// map is merged key by key, not replaced wholesale (§6.1: "options
// deep-merge per (pkg,key)").
func mergeOptions(base, overlay map[string]map[string]string) {
	for pkg, opts := range overlay {
		existing, ok := base[pkg]
		if !ok {
			existing = make(map[string]string, len(opts))
			base[pkg] = existing
		}
		for k, v := range opts {
			existing[k] = v
		}
	}
}
