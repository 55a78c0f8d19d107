package exec

// Result describes the result of a run Cmd.
type Result struct {
	Command  string
	Dir      string
	ExitCode int
	Output   []byte
}

// StrOutput returns the combined stdout and stderr output of the command.
func (r *Result) StrOutput() string {
	return string(r.Output)
}

// Success returns true if the command exited with code 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// ExpectSuccess returns an ExitCodeError if the command exited with a code
// != 0.
func (r *Result) ExpectSuccess() error {
	if r.ExitCode != 0 {
		return ExitCodeError{Result: r}
	}

	return nil
}
