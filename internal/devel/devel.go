package devel

import (
	"context"
	"regexp"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/paths"
	"github.com/pilocal/pi/internal/pipeline"
	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/recipehost"
	"github.com/pilocal/pi/internal/sandbox"
	"github.com/pilocal/pi/internal/selector"
	"github.com/pilocal/pi/internal/store"
)

// Options configures a Test call.
type Options struct {
	RecipeFile  string
	PackageName string // optional; empty tests every registered package
	Force       bool
}

// Result reports one tested package's outcome.
type Result struct {
	PackageName string
	Version     string
	SourceRoot  string
	Verified    bool
	Output      string
}

// Test evaluates opts.RecipeFile, resolves the latest version of every
// package it registers (or only opts.PackageName, if set), builds each
// one into the default cache locations, and runs its verify expectations
// if it declares any (§3 SUPPLEMENTED FEATURES: "devel test"). Manager
// entries are not candidates here: their discovery function needs a
// sub-name the caller has no way to supply for a blanket "test this
// recipe file" invocation.
func Test(ctx context.Context, opts Options) ([]Result, error) {
	shared := recipehost.NewShared()
	hostOpts := recipehost.Options{
		RecipeFile:   opts.RecipeFile,
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		CacheDir:     paths.CacheRoot(),
		DownloadsDir: paths.Downloads(),
		PackagesDir:  paths.Packages(),
		Force:        opts.Force,
		Shared:       shared,
	}

	evalCtx, err := recipehost.EvalFile(hostOpts)
	if err != nil {
		return nil, err
	}
	if len(evalCtx.Packages) == 0 && len(evalCtx.Managers) == 0 {
		return nil, ErrNoPackagesRegistered
	}

	entries := matchingPackages(evalCtx.Packages, opts.PackageName)
	if opts.PackageName != "" && len(entries) == 0 {
		return nil, errors.Wrapf(ErrNoPackageMatched, "%q", opts.PackageName)
	}

	var results []Result
	for _, entry := range entries {
		discCtx, err := recipehost.CallDiscoveryArgs(hostOpts, entry.DiscoveryFunc, entry.Name)
		if err != nil {
			return nil, err
		}
		chosen, err := selector.Resolve(discCtx.Versions, "")
		if err != nil {
			return nil, errors.Wrapf(err, "resolve %s", entry.Name)
		}

		res, err := buildAndVerify(ctx, chosen, opts.Force)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// matchingPackages returns every registered package entry whose name
// equals name, or every entry if name is empty.
func matchingPackages(entries []recipe.PackageEntry, name string) []recipe.PackageEntry {
	if name == "" {
		return entries
	}
	var out []recipe.PackageEntry
	for _, e := range entries {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func buildAndVerify(ctx context.Context, rec recipe.Record, force bool) (Result, error) {
	result, err := pipeline.Run(ctx, pipeline.Options{
		Repo:        "devel",
		Record:      rec,
		Store:       store.New(),
		Force:       force,
		PackagesDir: paths.Packages(),
	})
	if err != nil {
		return Result{}, errors.Wrapf(err, "build %s=%s", rec.PkgName, rec.Version)
	}

	res := Result{PackageName: rec.PkgName, Version: rec.Version, SourceRoot: result.SourceRoot}
	if rec.Verify.Command == "" {
		return res, nil
	}

	output, err := runVerify(ctx, rec, result.SourceRoot)
	res.Output = output
	if err != nil {
		return res, err
	}
	res.Verified = true
	return res, nil
}

// runVerify executes a record's verify command directly inside its built
// source root, outside any cave composition root, and checks the
// declared output pattern (§3: the tsuku-style VerifySection convention).
func runVerify(ctx context.Context, rec recipe.Record, sourceRoot string) (string, error) {
	if err := paths.EnsureDir(paths.DevelHome()); err != nil {
		return "", err
	}

	cfg := sandbox.Config{
		WorkspaceRoot: sourceRoot,
		HomeRoot:      paths.DevelHome(),
		PiCacheDir:    paths.CacheRoot(),
		PackagesDir:   paths.Packages(),
		Workdir:       sourceRoot,
		Command:       []string{"/bin/bash", "-c", strings.ReplaceAll(rec.Verify.Command, "@PACKAGES_DIR", paths.Packages())},
	}

	var stdout, stderr strings.Builder
	code, err := sandbox.Run(ctx, cfg, &stdout, &stderr)
	output := stdout.String() + stderr.String()
	if err != nil {
		return output, errors.Wrapf(ErrVerifyFailed, "%s: %s", rec.PkgName, err.Error())
	}
	if code != 0 {
		return output, errors.Wrapf(ErrVerifyFailed, "%s: exit %d", rec.PkgName, code)
	}

	if rec.Verify.Pattern == "" {
		return output, nil
	}
	re, err := regexp.Compile(rec.Verify.Pattern)
	if err != nil {
		return output, errors.Wrapf(err, "verify pattern %q", rec.Verify.Pattern)
	}
	if !re.MatchString(output) {
		return output, errors.Wrapf(ErrVerifyFailed, "%s: output does not match %q", rec.PkgName, rec.Verify.Pattern)
	}
	return output, nil
}
