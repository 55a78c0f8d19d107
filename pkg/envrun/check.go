package envrun

import (
	"context"
	"os"
	"slices"

	"github.com/envrun/envrun/pkg/storage"
)

// CheckDeps probes whether the declared dependencies of the environment are
// installable, without installing anything.
// It runs the environment's install command with an appended --dry-run flag.
// The returned CommandResult is nil when the environment declares no
// dependencies.
// SkipInstall is ignored, the probe never modifies the environment.
func (r *EnvRunner) CheckDeps(ctx context.Context, env *Environment) (*CommandResult, error) {
	target := env.InstallTarget()
	if len(env.Deps) == 0 && target == "" {
		return nil, nil
	}

	command := slices.Clone(env.InstallCommand)
	command = append(command, "--dry-run")
	command = append(command, env.Deps...)
	if target != "" {
		command = append(command, target)
	}

	if err := r.provision(env); err != nil {
		return nil, err
	}

	procEnv := env.ProcessEnv(os.Environ())

	return r.runCommand(ctx, env, procEnv, storage.PhaseInstall, command)
}
