// Package paths provides platform-appropriate locations for pi's on-disk
// state: the repositories directory, the metadata/version/build-outcome
// caches, the download cache, and the packages directory that holds
// extracted and run step outputs (§6.3).
//
// All paths follow XDG conventions on Linux and platform-native
// conventions on macOS, via github.com/adrg/xdg, the same as the teacher's
// internal/paths package.
package paths
