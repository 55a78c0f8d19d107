package command

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/internal/vcs"
	"github.com/envrun/envrun/pkg/envrun"
)

const checkLongHelp = `
Check that the dependencies of environments are installable.
The install command is run with the --dry-run argument, nothing is
installed.

When no environment name is passed, the environments listed in the env_list
setting of the repository configuration are checked.
`

func init() {
	rootCmd.AddCommand(&newCheckCmd().Command)
}

type checkCmd struct {
	cobra.Command
}

func newCheckCmd() *checkCmd {
	cmd := checkCmd{
		Command: cobra.Command{
			Use:   "check [ENVIRONMENT]...",
			Short: "check that environment dependencies are installable",
			Long:  strings.TrimSpace(checkLongHelp),
			Args:  cobra.ArbitraryArgs,
		},
	}

	cmd.Run = cmd.run

	return &cmd
}

func (c *checkCmd) run(_ *cobra.Command, args []string) {
	startTime := time.Now()

	repo := MustFindRepository()

	vcsState, err := vcs.GetState(repo.Path, log.Debugf)
	exitOnErr(err, "determining vcs state failed")

	loader := envrun.NewLoader(repo, nil, vcsState.CommitID, log.StdLogger)
	environments, err := loader.LoadEnvironments(args...)
	exitOnErr(err)

	runner := envrun.NewEnvRunner(log.StdLogger)

	var failed int
	for _, env := range environments {
		result, err := runner.CheckDeps(ctx, env)
		exitOnErrf(err, "%s", env)

		if result == nil {
			stdout.EnvPrintf(env, "has no dependencies to check\n")
			continue
		}

		if result.ExitCode != 0 {
			failed++
			stderr.EnvPrintf(env, "%s, '%s' exited with code %d, output:\n%s\n",
				term.RedHighlight("dependencies are not installable"),
				result.Command, result.ExitCode, result.StrOutput())
			continue
		}

		stdout.EnvPrintf(env, "%s (%ss)\n",
			term.GreenHighlight("dependencies are installable"),
			term.StrDurationSec(result.StartTime, result.StopTime))
	}

	stdout.PrintSep()
	stdout.Printf("checked %d environment(s) in %ss, %d with uninstallable dependencies\n",
		len(environments), term.StrDurationSec(startTime, time.Now()), failed)

	if failed > 0 {
		exitFunc(exitCodeError)
	}
}
