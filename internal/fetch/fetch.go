package fetch

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// progressInterval is how often an in-flight download reports progress
// (§4.2: "report progress every five seconds").
const progressInterval = 5 * time.Second

// hasherFor maps a digest's hex length to the algorithm that produced it
// (§4.2). Lengths outside this table are rejected.
func hasherFor(digest string) (func() hash.Hash, error) {
	switch len(digest) {
	case 40:
		return sha1.New, nil
	case 64:
		return sha256.New, nil
	case 128:
		return sha512.New, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedDigest, "digest %q has length %d", digest, len(digest))
	}
}

// Digest computes the hex digest of the file at path using the algorithm
// implied by the length of want, for comparison against want.
func Digest(path, want string) (string, error) {
	newHash, err := hasherFor(want)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fetch downloads url to dest. If dest already exists and digest is
// non-empty, the existing file's digest is checked first; on a match the
// call succeeds without any network I/O. Otherwise the URL is streamed
// into a sibling temporary file, renamed onto dest on completion, and (if
// digest is non-empty) the digest is verified post-rename. An error before
// the rename leaves dest untouched and discards the temporary file; a
// failed post-rename digest check removes dest (§4.2).
func Fetch(url, dest, digest string) error {
	if digest != "" {
		if _, err := os.Stat(dest); err == nil {
			if got, err := Digest(dest, digest); err == nil && got == digest {
				return nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrap(ErrFetchFailed, err.Error())
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.tmp")
	if err != nil {
		return errors.Wrap(ErrFetchFailed, err.Error())
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := stream(url, tmp); err != nil {
		tmp.Close()
		return errors.Wrapf(ErrFetchFailed, "%s: %s", url, err.Error())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(ErrFetchFailed, err.Error())
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return errors.Wrap(ErrFetchFailed, err.Error())
	}

	if digest != "" {
		got, err := Digest(dest, digest)
		if err != nil {
			os.Remove(dest)
			return errors.Wrap(ErrFetchFailed, err.Error())
		}
		if got != digest {
			os.Remove(dest)
			return &MismatchError{URL: url, Expected: digest, Got: got}
		}
	}

	return nil
}

// stream copies the response body of a GET to url into w, logging
// progress every five seconds.
func stream(url string, w io.Writer) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	pw := &progressWriter{w: w, url: url, total: resp.ContentLength, last: time.Now()}
	_, err = io.Copy(pw, resp.Body)
	return err
}

// progressWriter wraps an io.Writer, emitting a log line at most once per
// progressInterval.
type progressWriter struct {
	w       io.Writer
	url     string
	total   int64
	written int64
	last    time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)

	if time.Since(p.last) >= progressInterval {
		p.last = time.Now()
		if p.total > 0 {
			charmlog.Debug("download progress", "url", p.url, "bytes", p.written, "total", p.total)
		} else {
			charmlog.Debug("download progress", "url", p.url, "bytes", p.written)
		}
	}
	return n, err
}
