package recipehost

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pilocal/pi/internal/fetch"
	"github.com/pilocal/pi/internal/paths"
)

// downloadTTL bounds how long a fetched URL is considered fresh in the
// content cache before download() re-fetches it (§4.5 "Network
// memoization").
const downloadTTL = 15 * time.Minute

type cacheEntry struct {
	path    string
	fetched time.Time
}

// Shared holds state that must be visible across every recipe evaluation
// on a host process: the download content cache and the per-URL lock
// table (§4.5, §5). One Shared is created per process and threaded into
// every Context.
type Shared struct {
	group singleflight.Group

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewShared returns an empty Shared.
func NewShared() *Shared {
	return &Shared{cache: make(map[string]cacheEntry)}
}

// Download serves a recipe's download(url) call: a TTL-bound content
// cache is consulted first; on a miss, a per-URL lock (singleflight)
// ensures at most one fetch is in flight for a given URL across all
// callers, and every waiter observes the same cached payload once the
// fetch completes (§4.5, §5 "Download serialization").
func (s *Shared) Download(url string) (string, error) {
	if path, ok := s.freshCacheHit(url); ok {
		return path, nil
	}

	v, err, _ := s.group.Do(url, func() (any, error) {
		if path, ok := s.freshCacheHit(url); ok {
			return path, nil
		}

		dest := paths.DownloadFile(url)
		if err := fetch.Fetch(url, dest, ""); err != nil {
			return "", err
		}

		s.mu.Lock()
		s.cache[url] = cacheEntry{path: dest, fetched: time.Now()}
		s.mu.Unlock()

		return dest, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Shared) freshCacheHit(url string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[url]
	if !ok {
		return "", false
	}
	if time.Since(entry.fetched) > downloadTTL {
		return "", false
	}
	return entry.path, true
}
