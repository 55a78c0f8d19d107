// Package fstest provides test utilties to operate with files and directories
package fstest

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteToFile writes data to a file.
// Directories that are in the path but do not exist are created.
// If an error happens, t.Fatal() is called.
func WriteToFile(t *testing.T, data []byte, path string) {
	t.Helper()

	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0o775)
	if err != nil {
		t.Fatal(err)
	}

	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatal(err)
	}
}

// Chdir changes the working directory to dir and restores the previous one
// when the test finished.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
