// Package fs provides filesystem utility functions.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsFile returns true if path is a file.
// If the path does not exist an error is returned
func IsFile(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return fi.Mode().IsRegular(), nil
}

// FileExists returns true if path exist and is a file
func FileExists(path string) bool {
	ret, _ := IsFile(path)

	return ret
}

// IsDir returns true if the path is a directory.
// If the directory does not exist, the error from os.Stat() is returned.
func IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return fi.IsDir(), nil
}

// DirExists returns true if path exist and is a directory
func DirExists(path string) bool {
	ret, _ := IsDir(path)

	return ret
}

// Mkdir creates directories recursively
func Mkdir(path string) error {
	return os.MkdirAll(path, os.FileMode(0o755))
}

// ClearDir removes the directory and its content and recreates it empty.
func ClearDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return err
	}

	return Mkdir(path)
}

// RealPath returns the canonical version of path, all symlinks are resolved
// and the path is made absolute.
func RealPath(path string) (string, error) {
	path, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}

	return filepath.Abs(path)
}

// AbsPath makes path absolute by prepending rootPath if it is relative.
func AbsPath(path, rootPath string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(rootPath, path)
}

// FindDirInParentDirs finds a directory in startPath or its parent
// directories. It returns the absolute path of the first match.
// If it reaches the root directory without finding the directory it returns
// os.ErrNotExist.
func FindDirInParentDirs(startPath, dirName string) (string, error) {
	searchDir := filepath.Clean(startPath)

	for {
		p := filepath.Join(searchDir, dirName)

		isDir, err := IsDir(p)
		if err == nil && isDir {
			return filepath.Abs(p)
		}

		if err != nil && !os.IsNotExist(err) {
			return "", err
		}

		if searchDir[len(searchDir)-1] == os.PathSeparator {
			return "", os.ErrNotExist
		}

		searchDir = filepath.Dir(searchDir)
	}
}

// FindFileInParentDirs finds a file in startPath or its parent directories.
// The function starts looking for a file called filename in startPath and then
// checks recursively its parent directories.
// It returns the absolute path of the first match.
// If it reaches the root directory without finding the file it returns
// os.ErrNotExist.
func FindFileInParentDirs(startPath, filename string) (string, error) {
	// filepath.Clean() is called to remove excessive PathSeperators from the end.
	// If this does not happen, the search might be aborted too early because a path
	// ending in a Separator is interpreted as the root directory.
	searchDir := filepath.Clean(startPath)

	for {
		p := filepath.Join(searchDir, filename)

		_, err := os.Stat(p)
		if err == nil {
			abs, err := filepath.Abs(p)
			if err != nil {
				return "", fmt.Errorf("could not get absolute path of %v: %w", p, err)
			}

			return abs, nil
		}

		if !os.IsNotExist(err) {
			return "", err
		}

		if searchDir[len(searchDir)-1] == os.PathSeparator {
			return "", os.ErrNotExist
		}

		searchDir = filepath.Dir(searchDir)
	}
}
