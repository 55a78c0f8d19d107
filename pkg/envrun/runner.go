package envrun

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/envrun/envrun/internal/docker"
	execcmd "github.com/envrun/envrun/internal/exec"
	"github.com/envrun/envrun/internal/fs"
	"github.com/envrun/envrun/internal/set"
	"github.com/envrun/envrun/pkg/storage"
)

// ContainerClient runs commands in containers of a container engine.
type ContainerClient interface {
	PullIfNotExist(ctx context.Context, imageRef string) error
	Run(ctx context.Context, opts *docker.RunOptions) (int, error)
}

// EnvRunner runs the command sequences of environments.
type EnvRunner struct {
	logger Logger

	// Recreate clears existing environment work directories before the
	// run.
	Recreate bool
	// SkipMissingExecutables skips an environment instead of failing it
	// when an executable of one of its commands can not be found.
	SkipMissingExecutables bool
	// ContainerClt runs the commands of environments that declare a
	// container_image. It only must be set when such an environment is
	// run.
	ContainerClt ContainerClient
}

// NewEnvRunner returns an EnvRunner that logs via logger.
func NewEnvRunner(logger Logger) *EnvRunner {
	return &EnvRunner{logger: logger}
}

// CommandResult is the result of a single command execution.
type CommandResult struct {
	*execcmd.Result
	Phase     storage.Phase
	StartTime time.Time
	StopTime  time.Time
}

// RunResult is the result of running all command sequences of an
// environment.
type RunResult struct {
	Environment *Environment
	Result      storage.Result
	// SkipReason describes why the environment was skipped, it is only
	// set when Result is ResultSkipped.
	SkipReason string
	Commands   []*CommandResult
	StartTime  time.Time
	StopTime   time.Time
}

// Failed returns true when the environment did not succeed and was not
// skipped.
func (r *RunResult) Failed() bool {
	return r.Result == storage.ResultFailure
}

// FailedCommand returns the first command that exited with a code != 0 or
// nil.
func (r *RunResult) FailedCommand() *CommandResult {
	for _, cmd := range r.Commands {
		if cmd.ExitCode != 0 {
			return cmd
		}
	}

	return nil
}

// Run provisions the environment's work directory and executes its install
// step and command sequences.
// Commands run strictly sequential, the first command that exits with a code
// != 0 aborts the remaining sequence and fails the environment.
// A failing command is not an error, it is reflected in the returned
// RunResult. An error is returned when the environment could not be run at
// all.
func (r *EnvRunner) Run(ctx context.Context, env *Environment) (*RunResult, error) {
	result := &RunResult{
		Environment: env,
		Result:      storage.ResultSuccess,
		StartTime:   time.Now(),
	}

	if err := r.provision(env); err != nil {
		return nil, fmt.Errorf("provisioning work directory failed: %w", err)
	}

	if env.ContainerImage == "" {
		if missing := r.missingExecutables(env); len(missing) > 0 {
			if r.SkipMissingExecutables {
				result.Result = storage.ResultSkipped
				result.SkipReason = fmt.Sprintf("executables not found: %s", strings.Join(missing, ", "))
				result.StopTime = time.Now()

				return result, nil
			}

			return nil, fmt.Errorf("executables not found: %s", strings.Join(missing, ", "))
		}
	} else {
		if r.ContainerClt == nil {
			return nil, fmt.Errorf("environment declares container_image %q but no container engine is available", env.ContainerImage)
		}

		if err := r.ContainerClt.PullIfNotExist(ctx, env.ContainerImage); err != nil {
			return nil, err
		}
	}

	procEnv := env.ProcessEnv(os.Environ())

	phases := []struct {
		phase    storage.Phase
		commands [][]string
	}{
		{storage.PhaseInstall, r.installCommands(env)},
		{storage.PhasePre, env.CommandsPre},
		{storage.PhaseMain, env.Commands},
		{storage.PhasePost, env.CommandsPost},
	}

	for _, p := range phases {
		for _, command := range p.commands {
			cmdResult, err := r.runCommand(ctx, env, procEnv, p.phase, command)
			if err != nil {
				return nil, err
			}

			result.Commands = append(result.Commands, cmdResult)

			if cmdResult.ExitCode != 0 {
				result.Result = storage.ResultFailure
				result.StopTime = time.Now()

				return result, nil
			}
		}
	}

	result.StopTime = time.Now()

	return result, nil
}

func (r *EnvRunner) provision(env *Environment) error {
	if r.Recreate && fs.DirExists(env.Directory) {
		r.logger.Debugf("%s: clearing work directory %q", env, env.Directory)

		if err := fs.ClearDir(env.Directory); err != nil {
			return err
		}
	}

	return fs.Mkdir(env.Directory)
}

// installCommands returns the install step of the environment as command
// list.
func (r *EnvRunner) installCommands(env *Environment) [][]string {
	if env.SkipInstall {
		return nil
	}

	target := env.InstallTarget()
	if len(env.Deps) == 0 && target == "" {
		return nil
	}

	command := slices.Clone(env.InstallCommand)
	command = append(command, env.Deps...)
	if target != "" {
		command = append(command, target)
	}

	return [][]string{command}
}

// missingExecutables returns the executables of the environment's commands
// that can neither be found in PATH nor are allow-listed.
func (r *EnvRunner) missingExecutables(env *Environment) []string {
	var missing []string
	checked := make(set.Set[string])

	var commands [][]string
	commands = append(commands, r.installCommands(env)...)
	commands = append(commands, env.CommandsPre...)
	commands = append(commands, env.Commands...)
	commands = append(commands, env.CommandsPost...)

	for _, command := range commands {
		executable := command[0]

		if checked.Contains(executable) {
			continue
		}
		checked.Add(executable)

		if slices.Contains(env.AllowlistExternals, executable) {
			continue
		}

		if _, err := exec.LookPath(executable); err != nil {
			missing = append(missing, executable)
		}
	}

	return missing
}

func (r *EnvRunner) runCommand(
	ctx context.Context,
	env *Environment,
	procEnv []string,
	phase storage.Phase,
	command []string,
) (*CommandResult, error) {
	startTime := time.Now()

	var execResult *execcmd.Result
	var err error

	if env.ContainerImage == "" {
		execResult, err = execcmd.CommandContext(ctx, command[0], command[1:]...).
			Directory(env.RepositoryRoot).
			SetEnv(procEnv).
			LogFn(r.logger.Debugf).
			DebugfPrefix(color.YellowString(fmt.Sprintf("%s: ", env))).
			Run()
	} else {
		execResult, err = r.runContainerCommand(ctx, env, procEnv, command)
	}

	if err != nil {
		return nil, err
	}

	return &CommandResult{
		Result:    execResult,
		Phase:     phase,
		StartTime: startTime,
		StopTime:  time.Now(),
	}, nil
}

func (r *EnvRunner) runContainerCommand(
	ctx context.Context,
	env *Environment,
	procEnv []string,
	command []string,
) (*execcmd.Result, error) {
	var outBuf bytes.Buffer

	mounts := []string{env.RepositoryRoot}
	if !strings.HasPrefix(env.Directory, env.RepositoryRoot+string(os.PathSeparator)) {
		mounts = append(mounts, env.Directory)
	}

	r.logger.Debugf("%s: running '%s' in a %q container", env, strings.Join(command, " "), env.ContainerImage)

	exitCode, err := r.ContainerClt.Run(ctx, &docker.RunOptions{
		Image:   env.ContainerImage,
		Command: command,
		Env:     procEnv,
		Mounts:  mounts,
		WorkDir: env.RepositoryRoot,
		Stdout:  &outBuf,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debugf("%s: command terminated with exitCode: %d", env, exitCode)

	return &execcmd.Result{
		Command:  strings.Join(command, " "),
		Dir:      env.RepositoryRoot,
		ExitCode: exitCode,
		Output:   outBuf.Bytes(),
	}, nil
}
