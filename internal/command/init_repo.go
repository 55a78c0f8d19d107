package command

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/pkg/cfg"
	"github.com/envrun/envrun/pkg/envrun"
)

func init() {
	initCmd.AddCommand(initRepoCmd)
}

const initRepoLongHelp = `
Create a new repository configuration file.
This is the first command that should be run when setting up envrun for a
repository.
If no argument is passed, the file is created in the current directory.
`

var initRepoCmd = &cobra.Command{
	Use:   "repo [DIR]",
	Short: "create a repository config file",
	Long:  strings.TrimSpace(initRepoLongHelp),
	Run:   initRepo,
	Args:  cobra.MaximumNArgs(1),
}

func initRepo(_ *cobra.Command, args []string) {
	var repoDir string
	var err error

	if len(args) == 1 {
		repoDir = args[0]
	} else {
		repoDir, err = os.Getwd()
		exitOnErr(err)
	}

	repoCfg := cfg.ExampleConfig()
	repoCfgPath := filepath.Join(repoDir, envrun.RepositoryCfgFile)

	err = repoCfg.ToFile(repoCfgPath, cfg.ToFileOptCommented())
	if err != nil {
		if os.IsExist(err) {
			stderr.Printf("%s already exist\n", repoCfgPath)
			exitFunc(exitCodeAlreadyExist)
		}

		fatal(err)
	}

	stdout.Printf("Repository configuration was written to %s\n",
		term.Highlight(repoCfgPath))
	stdout.Printf("\nNext Steps:\n"+
		"1. Adapt your '%s' configuration file, declare your environments\n"+
		"2. Optional: set the '%s' parameter and run '%s' to record environment runs\n",
		term.Highlight(envrun.RepositoryCfgFile),
		term.Highlight("postgresql_url"),
		term.Highlight(cmdInitDb))
}
