package vcs

import "errors"

var ErrVCSRepositoryNotExist = errors.New("vcs repository not found")

// NoVCsState implements the StateFetcher interface.
// All it's methods return ErrVCSRepositoryNotExist.
type NoVCsState struct{}

// CommitID returns ErrVCSRepositoryNotExist.
func (*NoVCsState) CommitID() (string, error) {
	return "", ErrVCSRepositoryNotExist
}

// WorktreeIsDirty returns ErrVCSRepositoryNotExist.
func (*NoVCsState) WorktreeIsDirty() (bool, error) {
	return false, ErrVCSRepositoryNotExist
}
