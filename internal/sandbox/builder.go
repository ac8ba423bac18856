package sandbox

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// bwrapBinary is the name of the external unprivileged-sandbox tool this
// package shells out to (§1: process isolation is an assumed external
// collaborator).
const bwrapBinary = "bwrap"

// requiredROBinds are system roots bound read-only into every sandbox.
// Missing optional entries (lib64) are skipped; a missing workspace root
// or home root is fatal.
var requiredROBinds = []string{"/usr", "/lib", "/bin", "/sbin", "/etc", "/sys"}
var optionalROBinds = []string{"/lib64"}

// Build translates cfg into a bwrap invocation. The returned *exec.Cmd has
// not been started.
func Build(ctx context.Context, cfg Config) (*exec.Cmd, error) {
	args, err := buildArgs(cfg)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, bwrapBinary, args...)
	cmd.Stdin = nil
	return cmd, nil
}

// Run builds and executes the sandboxed command, returning its exit code
// (a non-zero exit is not itself an error: see package pipeline, which
// decides whether a Run step's failure is fatal) and any setup error.
func Run(ctx context.Context, cfg Config, stdout, stderr *strings.Builder) (int, error) {
	cmd, err := Build(ctx, cfg)
	if err != nil {
		return 0, err
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	if runErr == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, errors.Wrap(ErrSandboxFailed, runErr.Error())
}

func buildArgs(cfg Config) ([]string, error) {
	var args []string

	for _, path := range requiredROBinds {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(ErrMissingRequiredBind, "%s", path)
		}
		args = append(args, "--ro-bind", path, path)
	}
	for _, path := range optionalROBinds {
		if _, err := os.Stat(path); err == nil {
			args = append(args, "--ro-bind", path, path)
		}
	}

	args = append(args,
		"--proc", "/proc",
		"--dev", "/dev",
		"--tmpfs", "/tmp",
		"--tmpfs", "/run",
	)

	if cfg.WorkspaceRoot == "" {
		return nil, errors.Wrap(ErrMissingRequiredBind, "workspace root")
	}
	if _, err := os.Stat(cfg.WorkspaceRoot); err != nil {
		return nil, errors.Wrapf(ErrMissingRequiredBind, "workspace root %s", cfg.WorkspaceRoot)
	}
	args = append(args, "--bind", cfg.WorkspaceRoot, cfg.WorkspaceRoot)

	if cfg.HomeRoot == "" || cfg.HostHome == "" {
		return nil, errors.Wrap(ErrMissingRequiredBind, "home root")
	}
	args = append(args, "--bind", cfg.HomeRoot, cfg.HostHome)

	compositionDest := filepath.Join(cfg.HostHome, compositionSubdir)
	if cfg.CompositionRoot != "" {
		bindFlag := "--ro-bind"
		if cfg.CompositionMode == ReadWrite {
			bindFlag = "--bind"
		}
		args = append(args, bindFlag, cfg.CompositionRoot, compositionDest)
	}

	if cfg.PiCacheDir != "" {
		if _, err := os.Stat(cfg.PiCacheDir); err == nil {
			args = append(args, "--ro-bind", cfg.PiCacheDir, cfg.PiCacheDir)
		}
	}
	if cfg.PiConfigDir != "" {
		if _, err := os.Stat(cfg.PiConfigDir); err == nil {
			args = append(args, "--ro-bind", cfg.PiConfigDir, cfg.PiConfigDir)
		}
	}

	if cfg.RuntimeDir != "" {
		if _, err := os.Stat(cfg.RuntimeDir); err == nil {
			args = append(args, "--bind", cfg.RuntimeDir, cfg.RuntimeDir)
		}
	}

	for _, dep := range cfg.Dependencies {
		if _, err := os.Stat(dep.Dir); err != nil {
			continue // Optional: a dependency directory may have been pruned.
		}
		args = append(args, "--ro-bind", dep.Dir, dep.Dir)
	}

	args = append(args,
		"--unshare-pid",
		"--unshare-uts",
		"--die-with-parent",
		"--hostname", hostname(cfg),
	)

	if cfg.Workdir != "" {
		args = append(args, "--chdir", cfg.Workdir)
	}

	env := cfg.mergedEnv()
	env["PATH"] = buildPath(cfg)
	if cfg.RuntimeDir != "" {
		env["XDG_RUNTIME_DIR"] = cfg.RuntimeDir
	}
	for k, v := range env {
		args = append(args, "--setenv", k, v)
	}

	args = append(args, "--")
	args = append(args, cfg.Command...)

	return args, nil
}

// buildPath constructs PATH per §4.4: composition bin wins, then language
// tool directories under home, then dependency bin directories, then the
// host system paths.
func buildPath(cfg Config) string {
	var parts []string
	if cfg.CompositionRoot != "" {
		parts = append(parts, filepath.Join(cfg.CompositionRoot, "bin"))
	}
	parts = append(parts,
		filepath.Join(cfg.HostHome, ".cargo", "bin"),
		filepath.Join(cfg.HostHome, ".mix", "escripts"),
		filepath.Join(cfg.HostHome, ".local", "bin"),
	)
	for _, dep := range cfg.Dependencies {
		if dep.BinDir != "" {
			parts = append(parts, dep.BinDir)
		}
	}
	parts = append(parts, "/usr/bin", "/bin")
	return strings.Join(parts, ":")
}

// hostname synthesizes "<host>-<workspace>[-<variant>][.<domain>]" (§4.4).
func hostname(cfg Config) string {
	host, err := os.Hostname()
	if err != nil {
		host = "pi"
	}
	name := fmt.Sprintf("%s-%s", host, cfg.Workspace)
	if cfg.Variant != "" {
		name = fmt.Sprintf("%s-%s", name, cfg.Variant)
	}
	if cfg.Domain != "" {
		name = fmt.Sprintf("%s.%s", name, cfg.Domain)
	}
	return name
}
