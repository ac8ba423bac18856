package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// markerName is the file written last, on success, inside dest. Its
// presence makes a subsequent Extract call a no-op (§4.3).
const markerName = ".pi-extract-complete"

// Extract expands archive into dest. If dest already carries a completion
// marker the call is a no-op. Detected formats are .tar.gz/.tgz, .tar.xz,
// and .zip; any other filename suffix fails with ErrUnsupportedFormat. The
// marker is written only after every entry has been written successfully,
// so a failed extraction leaves no marker and the next call re-extracts
// from scratch.
func Extract(archive, dest string) error {
	marker := filepath.Join(dest, markerName)
	if _, err := os.Stat(marker); err == nil {
		return nil
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	switch format(archive) {
	case "tar.gz":
		if err := extractTarGz(archive, dest); err != nil {
			return err
		}
	case "tar.xz":
		if err := extractTarXz(archive, dest); err != nil {
			return err
		}
	case "zip":
		if err := extractZip(archive, dest); err != nil {
			return err
		}
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%s", archive)
	}

	return os.WriteFile(marker, []byte{}, 0644)
}

// format maps an archive filename to one of "tar.gz", "tar.xz", "zip", or
// "" if unrecognized.
func format(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return "tar.gz"
	case strings.HasSuffix(lower, ".tar.xz"):
		return "tar.xz"
	case strings.HasSuffix(lower, ".zip"):
		return "zip"
	default:
		return ""
	}
}

func extractTarGz(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	return extractTar(tar.NewReader(gz), dest)
}

func extractTarXz(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return err
	}

	return extractTar(tar.NewReader(xr), dest)
}

func extractTar(tr *tar.Reader, dest string) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		default:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := writeFile(target, tr, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		}
	}
}

func extractZip(archivePath, dest string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, zf := range zr.File {
		target, err := safeJoin(dest, zf.Name)
		if err != nil {
			return err
		}

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		rc, err := zf.Open()
		if err != nil {
			return err
		}
		err = writeFile(target, rc, zf.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// safeJoin joins dest and name, rejecting any entry that would escape
// dest via ".." traversal.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) && target != filepath.Clean(dest) {
		return "", errors.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	if mode == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, r)
	return err
}
