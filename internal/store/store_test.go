package store

import (
	"os"
	"testing"

	"github.com/adrg/xdg"

	"github.com/pilocal/pi/internal/paths"
)

func withTempCache(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	oldCache := xdg.CacheHome
	xdg.CacheHome = dir
	t.Cleanup(func() { xdg.CacheHome = oldCache })
}

func TestRecordThenLookupHit(t *testing.T) {
	withTempCache(t)
	s := New()

	o := Outcome{Name: "fetch", Fingerprint: "abc", Status: Success, OutputPath: "/tmp/x"}
	if err := s.Record("demo", "1.0.0", 0, o); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, ok := s.Lookup("demo", "1.0.0", 0, "abc")
	if !ok {
		t.Fatalf("Lookup: want hit, got miss")
	}
	if got.OutputPath != "/tmp/x" {
		t.Fatalf("OutputPath = %q, want /tmp/x", got.OutputPath)
	}
}

func TestLookupFingerprintMismatchMisses(t *testing.T) {
	withTempCache(t)
	s := New()

	s.Record("demo", "1.0.0", 0, Outcome{Fingerprint: "abc", Status: Success})

	if _, ok := s.Lookup("demo", "1.0.0", 0, "different"); ok {
		t.Fatalf("Lookup: want miss on fingerprint mismatch, got hit")
	}
}

func TestLookupFailedStatusMisses(t *testing.T) {
	withTempCache(t)
	s := New()

	s.Record("demo", "1.0.0", 0, Outcome{Fingerprint: "abc", Status: Failed})

	if _, ok := s.Lookup("demo", "1.0.0", 0, "abc"); ok {
		t.Fatalf("Lookup: want miss on non-success status, got hit")
	}
}

func TestRecordFillsGapsWithSkipped(t *testing.T) {
	withTempCache(t)
	s := New()

	if err := s.Record("demo", "1.0.0", 2, Outcome{Fingerprint: "c", Status: Success}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	pf, err := s.readLocked("demo")
	if err != nil {
		t.Fatalf("readLocked: %v", err)
	}
	outcomes := pf.Versions["1.0.0"]
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(outcomes))
	}
	if outcomes[0].Status != Skipped || outcomes[1].Status != Skipped {
		t.Fatalf("gap positions not marked Skipped: %+v", outcomes[:2])
	}
	if outcomes[2].Status != Success {
		t.Fatalf("outcomes[2].Status = %q, want success", outcomes[2].Status)
	}
}

func TestLookupMissingPackageMisses(t *testing.T) {
	withTempCache(t)
	s := New()

	if _, ok := s.Lookup("nope", "1.0.0", 0, "x"); ok {
		t.Fatalf("Lookup: want miss for unknown package, got hit")
	}
}

func TestLookupCorruptFileTreatedAsAbsent(t *testing.T) {
	withTempCache(t)
	s := New()

	if err := paths.EnsureDir(paths.Builds()); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(paths.BuildOutcomeFile("demo"), []byte("{not json"), paths.DefaultFileMode); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, ok := s.Lookup("demo", "1.0.0", 0, "x"); ok {
		t.Fatalf("Lookup: want miss for corrupt file, got hit")
	}
}
