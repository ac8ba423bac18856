package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/extract"
	"github.com/pilocal/pi/internal/fetch"
	"github.com/pilocal/pi/internal/fingerprint"
	"github.com/pilocal/pi/internal/paths"
	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/sandbox"
	"github.com/pilocal/pi/internal/store"
)

// Options configures one Run call over a single package version's
// pipeline.
type Options struct {
	Repo   string
	Record recipe.Record
	Store  *store.Store

	// Force disables every cache-skip check, forcing every step to
	// re-execute.
	Force bool

	// PackagesDir is substituted for "@PACKAGES_DIR" in run-step
	// commands, both before execution and when fingerprinting.
	PackagesDir string

	// Sandbox is the template sandbox configuration for run steps;
	// WorkspaceRoot, Workdir, and Command are overwritten per step.
	Sandbox sandbox.Config
}

// Result is what a package's pipeline yields once every step has run:
// the directory holding its built output and its declared exports,
// ready for package export (§4.10, §4.11).
type Result struct {
	SourceRoot string
	Exports    []recipe.Export
}

// Run executes every step of opts.Record.Pipeline in order.
func Run(ctx context.Context, opts Options) (Result, error) {
	var (
		currentDir    string
		lastArchive   string
		recomputed    = opts.Force
		prevFingerprint string
	)

	for i, step := range opts.Record.Pipeline {
		fp, err := fingerprint.Of(string(step.Kind), fingerprintInput(step, opts.PackagesDir, prevFingerprint))
		if err != nil {
			return Result{}, errors.Wrapf(err, "fingerprint step %d (%s)", i, step.Label())
		}
		prevFingerprint = fp

		switch step.Kind {
		case recipe.StepFetch:
			dest := paths.DownloadFile(step.URL)
			if err := fetch.Fetch(step.URL, dest, step.Digest); err != nil {
				if rerr := recordFailure(opts.Store, opts.Record, i, step, fp); rerr != nil {
					return Result{}, errors.Wrapf(rerr, "record failure of %s", step.Label())
				}
				return Result{}, errors.Wrapf(ErrStepFailed, "%s: %s", step.Label(), err.Error())
			}
			lastArchive = dest
			if err := recordSuccess(opts.Store, opts.Record, i, step, fp, dest); err != nil {
				return Result{}, errors.Wrapf(err, "record success of %s", step.Label())
			}

		case recipe.StepExtract:
			dest := paths.PackageDir(opts.Record.PkgName, opts.Record.Version, true)
			if !recomputed {
				if _, hit := opts.Store.Lookup(opts.Record.PkgName, opts.Record.Version, i, fp); hit {
					currentDir = dest
					continue
				}
			}
			if lastArchive == "" {
				return Result{}, errors.Wrapf(ErrNoArchiveToExtract, "%s", step.Label())
			}
			if err := extract.Extract(lastArchive, dest); err != nil {
				if rerr := recordFailure(opts.Store, opts.Record, i, step, fp); rerr != nil {
					return Result{}, errors.Wrapf(rerr, "record failure of %s", step.Label())
				}
				return Result{}, errors.Wrapf(ErrStepFailed, "%s: %s", step.Label(), err.Error())
			}
			currentDir = dest
			recomputed = true
			if err := recordSuccess(opts.Store, opts.Record, i, step, fp, dest); err != nil {
				return Result{}, errors.Wrapf(err, "record success of %s", step.Label())
			}

		case recipe.StepRun:
			if !recomputed {
				if _, hit := opts.Store.Lookup(opts.Record.PkgName, opts.Record.Version, i, fp); hit {
					continue
				}
			}

			cfg := opts.Sandbox
			cfg.PackagesDir = opts.PackagesDir
			cfg.WorkspaceRoot = currentDir
			if step.Cwd != "" {
				cfg.Workdir = filepath.Join(currentDir, step.Cwd)
			} else {
				cfg.Workdir = currentDir
			}
			cfg.Command = []string{"/bin/bash", "-c", substitutePackagesDir(step.Command, opts.PackagesDir)}

			var stdout, stderr strings.Builder
			code, err := sandbox.Run(ctx, cfg, &stdout, &stderr)
			if err != nil {
				if rerr := recordFailure(opts.Store, opts.Record, i, step, fp); rerr != nil {
					return Result{}, errors.Wrapf(rerr, "record failure of %s", step.Label())
				}
				return Result{}, errors.Wrapf(ErrStepFailed, "%s: %s", step.Label(), err.Error())
			}
			if code != 0 {
				if rerr := recordFailure(opts.Store, opts.Record, i, step, fp); rerr != nil {
					return Result{}, errors.Wrapf(rerr, "record failure of %s", step.Label())
				}
				return Result{}, errors.Wrapf(ErrStepFailed, "%s: exit %d: %s", step.Label(), code, stderr.String())
			}
			recomputed = true
			if err := recordSuccess(opts.Store, opts.Record, i, step, fp, currentDir); err != nil {
				return Result{}, errors.Wrapf(err, "record success of %s", step.Label())
			}
		}
	}

	return Result{SourceRoot: currentDir, Exports: opts.Record.Exports}, nil
}

// fingerprintInput captures everything that should invalidate a step's
// cached outcome: its own parameters (with @PACKAGES_DIR replaced by the
// resolved packages directory, so a change of that path invalidates too),
// and the preceding step's fingerprint, chaining the whole pipeline so any
// earlier change propagates forward (§4.1 "Fingerprint purity").
func fingerprintInput(step recipe.Step, packagesDir, prev string) map[string]any {
	return map[string]any{
		"prev":     prev,
		"kind":     string(step.Kind),
		"name":     step.Name,
		"url":      step.URL,
		"digest":   step.Digest,
		"filename": step.Filename,
		"format":   step.Format,
		"command":  substitutePackagesDir(step.Command, packagesDir),
		"cwd":      step.Cwd,
	}
}

func substitutePackagesDir(command, packagesDir string) string {
	return strings.ReplaceAll(command, "@PACKAGES_DIR", packagesDir)
}

func recordSuccess(st *store.Store, rec recipe.Record, index int, step recipe.Step, fp, outputPath string) error {
	return st.Record(rec.PkgName, rec.Version, index, store.Outcome{
		Name:        step.Label(),
		Fingerprint: fp,
		Timestamp:   time.Now(),
		OutputPath:  outputPath,
		Status:      store.Success,
	})
}

func recordFailure(st *store.Store, rec recipe.Record, index int, step recipe.Step, fp string) error {
	return st.Record(rec.PkgName, rec.Version, index, store.Outcome{
		Name:        step.Label(),
		Fingerprint: fp,
		Timestamp:   time.Now(),
		Status:      store.Failed,
	})
}
