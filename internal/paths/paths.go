package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory naming under XDG base directories.
	appName = "pi"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// CacheRoot is the top-level cache directory for all pi state: metadata,
// version, and build-outcome caches, the download cache, and the packages
// directory (§6.3).
func CacheRoot() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// ConfigRoot is the top-level configuration directory, holding the
// repository registry.
func ConfigRoot() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// Meta is the directory holding repository index and version cache files
// (§6.3: "<cache>/meta/...").
func Meta() string {
	return filepath.Join(CacheRoot(), "meta")
}

// Builds is the directory holding per-package build-outcome cache files
// (§6.3: "<cache>/builds/...").
func Builds() string {
	return filepath.Join(CacheRoot(), "builds")
}

// Downloads is the directory holding fetched files (§6.3:
// "<cache>/downloads/...").
func Downloads() string {
	return filepath.Join(CacheRoot(), "downloads")
}

// Packages is the directory holding extracted and run step outputs (§6.3:
// "<cache>/packages/...").
func Packages() string {
	return filepath.Join(CacheRoot(), "packages")
}

// RepositoriesFile is the path to the JSON file listing configured
// repositories (name -> path), written by "repo add" and read by every
// command that needs to enumerate repositories.
func RepositoriesFile() string {
	return filepath.Join(ConfigRoot(), "repositories.json")
}

// unsafeChars matches any character not safe to use verbatim in a cache
// filename.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Sanitize maps an arbitrary string (a package name, a URL, a "pkg-ver"
// pair) to a filesystem-safe filename fragment by replacing every unsafe
// character with an underscore. It is not reversible; the original string
// is reconstructed from the owning index, not from the filename.
func Sanitize(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

// MetaFile returns the path to a repository index file (§6.3:
// "packages-<repo>.json").
func MetaFile(repo string) string {
	return filepath.Join(Meta(), fmt.Sprintf("packages-%s.json", Sanitize(repo)))
}

// VersionCacheFile returns the path to a per-(repository, package) version
// cache file (§6.3: "version-<repo>-<sanitized-pkg>.json"). The '/' in a
// manager-namespaced name is mapped to '#' first, per §4.7, so the
// filename stays pathname-safe while remaining distinguishable from a
// plain package name containing an underscore.
func VersionCacheFile(repo, pkgOrManager string) string {
	key := sanitizeKey(pkgOrManager)
	return filepath.Join(Meta(), fmt.Sprintf("version-%s-%s.json", Sanitize(repo), key))
}

// sanitizeKey applies the §4.7 "/" -> "#" mapping: each '/'-separated
// segment goes through Sanitize and the segments are joined with '#', so
// "npm/left-pad" becomes "npm#left-pad".
func sanitizeKey(pkgOrManager string) string {
	parts := strings.Split(pkgOrManager, "/")
	for i, p := range parts {
		parts[i] = Sanitize(p)
	}
	return strings.Join(parts, "#")
}

// BuildOutcomeFile returns the path to a package's step-outcome cache file
// (§6.3: "<sanitized-pkg>.json" under builds/).
func BuildOutcomeFile(pkgName string) string {
	return filepath.Join(Builds(), Sanitize(pkgName)+".json")
}

// DownloadFile returns the path to a fetched file named after its source
// URL.
func DownloadFile(url string) string {
	return filepath.Join(Downloads(), Sanitize(url))
}

// PackageDir returns the directory for a package/version's extract or run
// step outputs (§6.3: "<sanitized(pkg-ver)>[-extracted]").
func PackageDir(pkgName, version string, extracted bool) string {
	name := Sanitize(pkgName + "-" + version)
	if extracted {
		name += "-extracted"
	}
	return filepath.Join(Packages(), name)
}

// DevelHome is the sandbox home directory used by "pi devel test", which
// runs outside any cave and so has no workspace-owned home of its own.
func DevelHome() string {
	return filepath.Join(CacheRoot(), "devel-home")
}

// EnsureDir creates dir (and any missing parents) with DefaultDirMode if
// it does not already exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, DefaultDirMode)
}
