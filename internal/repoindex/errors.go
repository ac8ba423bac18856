package repoindex

import "errors"

var (
	ErrRepoNotFound  = errors.New("repository not found")
	ErrRepoExists    = errors.New("repository already registered")
	ErrIndexNotFound = errors.New("repository index not found")
)
