package pipeline

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/store"
)

func withTempCache(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old := xdg.CacheHome
	xdg.CacheHome = dir
	t.Cleanup(func() { xdg.CacheHome = old })
}

func tarGzFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	content := []byte("hello")
	if err := tw.WriteHeader(&tar.Header{Name: "hello.txt", Mode: 0o644, Size: int64(len(content))}); err != nil {
		t.Fatalf("tar header: %v", err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatalf("tar write: %v", err)
	}
	tw.Close()
	gw.Close()
	return buf.Bytes()
}

func TestRunFetchAndExtract(t *testing.T) {
	withTempCache(t)

	archive := tarGzFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	rec := recipe.Record{
		PkgName: "demo",
		Version: "1.0.0",
		Pipeline: []recipe.Step{
			recipe.Fetch(srv.URL+"/demo.tar.gz", "", "demo.tar.gz", "download"),
			recipe.Extract("tar.gz", "unpack"),
		},
	}

	result, err := Run(context.Background(), Options{
		Repo:   "demo-repo",
		Record: rec,
		Store:  store.New(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SourceRoot == "" {
		t.Fatalf("SourceRoot empty")
	}
	if _, err := os.Stat(filepath.Join(result.SourceRoot, "hello.txt")); err != nil {
		t.Fatalf("expected extracted file: %v", err)
	}
}

func TestRunSkipsExtractOnCacheHit(t *testing.T) {
	withTempCache(t)

	archive := tarGzFixture(t)
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write(archive)
	}))
	defer srv.Close()

	rec := recipe.Record{
		PkgName: "demo2",
		Version: "1.0.0",
		Pipeline: []recipe.Step{
			recipe.Fetch(srv.URL+"/demo.tar.gz", "", "demo.tar.gz", "download"),
			recipe.Extract("tar.gz", "unpack"),
		},
	}

	st := store.New()
	first, err := Run(context.Background(), Options{Record: rec, Store: st})
	if err != nil {
		t.Fatalf("Run (first): %v", err)
	}
	if err := os.RemoveAll(first.SourceRoot); err != nil {
		t.Fatalf("remove extracted tree: %v", err)
	}
	if _, err := Run(context.Background(), Options{Record: rec, Store: st}); err != nil {
		t.Fatalf("Run (second): %v", err)
	}
	// No digest was supplied, so Fetch downloads on both runs. The extract
	// step's fingerprint is found in the store on the second run, so the
	// removed tree is not extracted again.
	if _, err := os.Stat(filepath.Join(first.SourceRoot, "hello.txt")); !os.IsNotExist(err) {
		t.Fatalf("extract step re-ran on the second Run; want a content-store hit")
	}
	if calls == 0 {
		t.Fatalf("expected at least one fetch")
	}
}
