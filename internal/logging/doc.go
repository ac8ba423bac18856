// Package logging configures the process-wide structured logger used by
// every command and internal package. It wraps charmbracelet/log the way
// the daemon this project grew out of wrapped its own handler: a single
// configureLogger-style entry point reacts to the quiet and debug flags
// (the verbose flag is accepted but does not change the level), and
// StepFailure renders the failure-line convention from §7
// ("[repo/pkg=version] step failed: ...").
package logging
