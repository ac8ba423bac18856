package recipe

// PackageEntry describes a recipe-registered package: a name and the
// recipe file plus discovery function that can be invoked to produce
// version records for it.
type PackageEntry struct {
	Name             string `json:"name"`
	RecipeFile       string `json:"filename"`
	DiscoveryFunc    string `json:"function"`
}

// ManagerEntry describes a recipe-registered manager namespace (npm, go,
// cargo, hex, ...). Its discovery function takes (manager, sub-name) and
// emits version records whose pkgname is "manager:sub-name".
type ManagerEntry struct {
	Name          string `json:"name"`
	RecipeFile    string `json:"filename"`
	DiscoveryFunc string `json:"function"`
}

// Index is the consolidated harvest of one repository sync: every package
// and manager entry registered across all of its recipe files.
type Index struct {
	Packages map[string]PackageEntry `json:"packages"`
	Managers map[string]ManagerEntry `json:"managers"`
}

// NewIndex returns an empty Index ready to accumulate entries.
func NewIndex() *Index {
	return &Index{
		Packages: make(map[string]PackageEntry),
		Managers: make(map[string]ManagerEntry),
	}
}
