package command

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/internal/vcs"
	"github.com/envrun/envrun/pkg/envrun"
)

const cleanLongHelp = `
Delete the working directories of environments.
The next run recreates the environments from scratch.

When no environment name is passed, the working directories of all declared
environments are deleted.
The configured work_dir itself is removed when it is empty afterwards.
`

func init() {
	rootCmd.AddCommand(&newCleanCmd().Command)
}

type cleanCmd struct {
	cobra.Command
}

func newCleanCmd() *cleanCmd {
	cmd := cleanCmd{
		Command: cobra.Command{
			Use:   "clean [ENVIRONMENT]...",
			Short: "delete the working directories of environments",
			Long:  strings.TrimSpace(cleanLongHelp),
			Args:  cobra.ArbitraryArgs,
		},
	}

	cmd.Run = cmd.run

	return &cmd
}

func (c *cleanCmd) run(_ *cobra.Command, args []string) {
	repo := MustFindRepository()

	vcsState, err := vcs.GetState(repo.Path, log.Debugf)
	exitOnErr(err, "determining vcs state failed")

	if len(args) == 0 {
		args = []string{"*"}
	}

	loader := envrun.NewLoader(repo, nil, vcsState.CommitID, log.StdLogger)
	environments, err := loader.LoadEnvironments(args...)
	exitOnErr(err)

	var deleted int
	for _, env := range environments {
		if _, err := os.Stat(env.Directory); os.IsNotExist(err) {
			log.Debugf("clean: %s does not exist, nothing to delete", env.Directory)
			continue
		}

		err := os.RemoveAll(env.Directory)
		exitOnErrf(err, "%s: deleting %s failed", env, env.Directory)

		stdout.EnvPrintf(env, "deleted %s\n", term.Highlight(env.Directory))
		deleted++
	}

	// remove the work dir itself when nothing is left in it
	if err := os.Remove(repo.WorkDir); err == nil {
		log.Debugf("clean: removed empty work dir %s", repo.WorkDir)
	}

	stdout.Printf("deleted the working directories of %d environment(s)\n", deleted)
}
