// Package sandbox assembles an unprivileged, namespaced execution
// environment for a Run step (§4.4).
//
// The actual process isolation is delegated to bubblewrap ("bwrap"), the
// unprivileged-sandbox tool named as an external collaborator in §1; this
// package only computes the bind mounts, environment map, working
// directory, and namespace flags fed to it, and execs it.
package sandbox
