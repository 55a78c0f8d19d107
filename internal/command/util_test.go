package command

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/internal/exec"
	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/internal/testutils/logwriter"
)

// interceptCmdOutput changes the stdout and stderr streams so that the
// commands write to the returned buffers, all output is additionally still
// logged via the test logger
func interceptCmdOutput(t *testing.T) (stdoutBuf, stderrBuf *bytes.Buffer) {
	var bufStdout bytes.Buffer
	var bufStderr bytes.Buffer

	oldStdout := stdout
	stdout = term.NewStream(logwriter.New(t, &bufStdout))
	oldStderr := stderr
	stderr = term.NewStream(logwriter.New(t, &bufStderr))

	t.Cleanup(func() {
		stdout = oldStdout
		stderr = oldStderr
	})

	return &bufStdout, &bufStderr
}

type exitInfo struct {
	Code int
}

func (e *exitInfo) String() string {
	return fmt.Sprintf("program terminated with exit code: %d", e.Code)
}

// initTest does the following:
//   - changes the exitFunc to panic instead of calling os.Exit(),
//   - redirects the stdout and stderr streams of the commands to the test
//     logger,
//   - changes the exec debug function to the test logger
func initTest(t *testing.T) {
	t.Helper()

	oldExitFunc := exitFunc
	exitFunc = func(code int) {
		panic(&exitInfo{Code: code})
	}

	t.Cleanup(func() {
		exitFunc = oldExitFunc
	})

	redirectOutputToLogger(t)
}

func redirectOutputToLogger(t *testing.T) {
	log.RedirectToTestingLog(t)

	oldExecDebugfFn := exec.DefaultDebugfFn
	exec.DefaultDebugfFn = t.Logf

	oldStdout := stdout
	stdout = term.NewStream(logwriter.New(t, io.Discard))
	oldStderr := stderr
	stderr = term.NewStream(logwriter.New(t, io.Discard))

	t.Cleanup(func() {
		exec.DefaultDebugfFn = oldExecDebugfFn
		stdout = oldStdout
		stderr = oldStderr
	})
}

type cmdExecuter interface {
	Execute() error
}

// execCheck runs cmd and asserts that it terminates with the expected exit
// code. An expectedExitCode of -1 accepts any exit code.
func execCheck(t *testing.T, cmd cmdExecuter, expectedExitCode int) {
	t.Helper()

	defer func() {
		t.Helper()

		r := recover()
		if r == nil {
			return
		}

		if info, ok := r.(*exitInfo); ok {
			if expectedExitCode == -1 {
				return
			}

			if info.Code != expectedExitCode {
				t.Fatalf("command exited with code %d, expected: %d", info.Code, expectedExitCode)
			}

			return
		}

		panic(r)
	}()

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("command failed: %s", err)
	}

	if expectedExitCode != 0 && expectedExitCode != -1 {
		t.Fatalf("command terminated with exit code 0, expected: %d", expectedExitCode)
	}
}
