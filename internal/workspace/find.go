package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Find walks upward from dir looking for DescriptorFile, the way most
// version-control and build tools locate their project root.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "resolve start directory")
	}

	for {
		candidate := filepath.Join(abs, DescriptorFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotFound
		}
		abs = parent
	}
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrapf(err, "parse workspace descriptor %s", path)
	}
	return &d, nil
}

// Save atomically rewrites the descriptor at path (temp file + rename,
// the same whole-file-replacement pattern used by the package store and
// repository registry, §5).
func Save(path string, d *Descriptor) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal workspace descriptor")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write workspace descriptor")
	}
	return errors.Wrap(os.Rename(tmp, path), "commit workspace descriptor")
}
