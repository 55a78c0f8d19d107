// Package git provides functionality to interact with a Git repository.
package git

import (
	"errors"
	"os"
	stdexec "os/exec"
	"strings"

	"github.com/envrun/envrun/internal/exec"
	"github.com/envrun/envrun/internal/fs"
)

// CommandIsInstalled returns true if an executable called "git" is found in
// the directories listed in the PATH environment variable.
func CommandIsInstalled() bool {
	_, err := stdexec.LookPath("git")

	return err == nil
}

// IsGitDir checks if the passed directory is part of a git repository.
// It returns true if dir or any of its parent directories contains a
// directory named ".git".
func IsGitDir(dir string) (bool, error) {
	_, err := fs.FindDirInParentDirs(dir, ".git")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// CommitID return the commit id of HEAD by running git rev-parse in the passed
// directory
func CommitID(dir string) (string, error) {
	res, err := exec.Command("git", "rev-parse", "HEAD").Directory(dir).ExpectSuccess().Run()
	if err != nil {
		return "", err
	}

	commitID := strings.TrimSpace(res.StrOutput())
	if len(commitID) == 0 {
		return "", errors.New("executing git rev-parse HEAD failed, no Stdout output")
	}

	return commitID, err
}

// WorktreeIsDirty returns true if the repository contains modified files,
// untracked files are considered, files in .gitignore are ignored
func WorktreeIsDirty(dir string) (bool, error) {
	res, err := exec.Command("git", "status", "-s").Directory(dir).ExpectSuccess().Run()
	if err != nil {
		return false, err
	}

	return len(res.Output) != 0, nil
}
