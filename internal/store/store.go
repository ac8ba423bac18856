package store

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/paths"
)

// Store is the content-addressed step cache. One Store instance is safe
// for concurrent use by multiple goroutines; per-package file access is
// additionally serialized by a per-package-name mutex so that a
// read-modify-write record() never races with another writer for the
// same package.
type Store struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns a Store backed by paths.Builds().
func New() *Store {
	return &Store{locks: make(map[string]*sync.Mutex)}
}

func (s *Store) lockFor(pkg string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[pkg]
	if !ok {
		l = &sync.Mutex{}
		s.locks[pkg] = l
	}
	return l
}

// Lookup returns the outcome for (pkg, ver, step index) only if it exists,
// its fingerprint equals fp, and its status is Success (§4.1).
func (s *Store) Lookup(pkg, ver string, index int, fp string) (*Outcome, bool) {
	l := s.lockFor(pkg)
	l.Lock()
	defer l.Unlock()

	pf, err := s.readLocked(pkg)
	if err != nil {
		return nil, false
	}

	outcomes := pf.Versions[ver]
	if index < 0 || index >= len(outcomes) {
		return nil, false
	}

	o := outcomes[index]
	if o.Status != Success || o.Fingerprint != fp {
		return nil, false
	}
	return &o, true
}

// Record writes the outcome at (pkg, ver, index), filling any gap
// positions before it with Skipped sentinels, then atomically replaces
// the package's cache file (§4.1).
func (s *Store) Record(pkg, ver string, index int, outcome Outcome) error {
	l := s.lockFor(pkg)
	l.Lock()
	defer l.Unlock()

	pf, err := s.readLocked(pkg)
	if err != nil {
		pf = &packageFile{Versions: make(map[string][]Outcome)}
	}

	outcomes := pf.Versions[ver]
	for len(outcomes) <= index {
		outcomes = append(outcomes, Outcome{Status: Skipped})
	}
	outcomes[index] = outcome
	pf.Versions[ver] = outcomes

	return s.writeLocked(pkg, pf)
}

// readLocked loads the package's cache file. A missing or corrupt file is
// reported as an error to the caller, which treats it as an empty cache
// (§4.1, §7 "CacheCorrupt": "treated as absent; logged, never fatal").
func (s *Store) readLocked(pkg string) (*packageFile, error) {
	b, err := os.ReadFile(paths.BuildOutcomeFile(pkg))
	if err != nil {
		return nil, err
	}

	var pf packageFile
	if err := json.Unmarshal(b, &pf); err != nil {
		return nil, errors.Wrapf(ErrCacheCorrupt, "%s", paths.BuildOutcomeFile(pkg))
	}
	if pf.Versions == nil {
		pf.Versions = make(map[string][]Outcome)
	}
	return &pf, nil
}

// writeLocked serializes pf and replaces the package's cache file via a
// sibling-temp-file-then-rename, so concurrent readers never observe a
// truncated file (§4.1, §5 "last-writer-wins via whole-file rewrite").
func (s *Store) writeLocked(pkg string, pf *packageFile) error {
	if err := paths.EnsureDir(paths.Builds()); err != nil {
		return errors.Wrap(ErrWrite, err.Error())
	}

	b, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return errors.Wrap(ErrWrite, err.Error())
	}

	dest := paths.BuildOutcomeFile(pkg)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, b, paths.DefaultFileMode); err != nil {
		return errors.Wrap(ErrWrite, err.Error())
	}
	if err := os.Rename(tmp, dest); err != nil {
		return errors.Wrap(ErrWrite, err.Error())
	}
	return nil
}
