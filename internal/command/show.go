package command

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/flag"
	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/internal/format"
	"github.com/envrun/envrun/internal/format/table"
	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/internal/vcs"
	"github.com/envrun/envrun/pkg/envrun"
	"github.com/envrun/envrun/pkg/storage"
)

const showLongHelp = `
Show information about an environment or a recorded environment run.

If an environment name is passed, the resolved environment configuration
is shown.
If a numeric run ID is passed, information about the recorded run are shown.
`

const showExamples = `
envrun show lint	show the resolved configuration of the lint environment
envrun show 512		show information about the recorded run 512
`

func init() {
	rootCmd.AddCommand(&newShowCmd().Command)
}

type showCmd struct {
	cobra.Command
}

func newShowCmd() *showCmd {
	cmd := showCmd{
		Command: cobra.Command{
			Use:     "show ENVIRONMENT|RUN-ID",
			Short:   "show information about environments or recorded runs",
			Args:    cobra.ExactArgs(1),
			Long:    strings.TrimSpace(showLongHelp),
			Example: strings.TrimSpace(showExamples),
		},
	}

	cmd.Run = cmd.run

	return &cmd
}

func (c *showCmd) run(_ *cobra.Command, args []string) {
	runID, err := strconv.Atoi(args[0])
	if err == nil {
		c.showRun(runID)
	} else {
		c.showEnvironment(args[0])
	}
}

func mustWriteStringSliceRows(fmt format.Formatter, header string, indentlvl int, sl []string) {
	defRowArgs := make([]any, 0, indentlvl+2)

	for i := 0; i < indentlvl; i++ {
		defRowArgs = append(defRowArgs, "")
	}

	for i, val := range sl {
		var rowArgs []any

		if i == 0 {
			rowArgs = append(defRowArgs, header)
		} else {
			rowArgs = append(defRowArgs, "")
		}

		if i+1 < len(sl) {
			val += ", "
		}
		rowArgs = append(rowArgs, term.Highlight(val))

		mustWriteRow(fmt, rowArgs...)
	}
}

func mustWriteCommandRows(fmt format.Formatter, header string, commands [][]string) {
	if len(commands) == 0 {
		return
	}

	joined := make([]string, 0, len(commands))
	for _, command := range commands {
		joined = append(joined, strings.Join(command, " "))
	}

	mustWriteStringSliceRows(fmt, header, 1, joined)
}

func (c *showCmd) showEnvironment(name string) {
	repo := MustFindRepository()

	vcsState, err := vcs.GetState(repo.Path, log.Debugf)
	exitOnErr(err, "determining vcs state failed")

	loader := envrun.NewLoader(repo, nil, vcsState.CommitID, log.StdLogger)
	environments, err := loader.LoadEnvironments(name)
	exitOnErr(err)

	if len(environments) != 1 {
		fatalf("argument %q matches %d environments, must match exactly 1", name, len(environments))
	}

	env := environments[0]

	formatter := table.New(nil, stdout)

	mustWriteRow(formatter, "Environment Name:", term.Highlight(env.Name))
	if env.Description != "" {
		mustWriteRow(formatter, "Description:", term.Highlight(env.Description))
	}
	mustWriteRow(formatter, "Work Directory:", term.Highlight(env.Directory))

	if env.ContainerImage != "" {
		mustWriteRow(formatter, "Container Image:", term.Highlight(env.ContainerImage))
	}

	mustWriteRow(formatter, "")
	mustWriteRow(formatter, term.Underline("Installation"))
	mustWriteRow(formatter, "", "Skip Install:", term.Highlight(env.SkipInstall))

	if !env.SkipInstall {
		mustWriteStringSliceRows(formatter, "Install Command:", 1, env.InstallCommand)
		mustWriteStringSliceRows(formatter, "Deps:", 1, env.Deps)

		if env.Package != "" {
			mustWriteRow(formatter, "", "Package:", term.Highlight(env.InstallTarget()))
		}
	}

	mustWriteRow(formatter, "")
	mustWriteRow(formatter, term.Underline("Process Environment"))
	mustWriteStringSliceRows(formatter, "Pass Env:", 1, env.PassEnv)
	mustWriteStringSliceRows(formatter, "Set Env:", 1, env.SetEnv)
	mustWriteStringSliceRows(formatter, "Allowlisted Externals:", 1, env.AllowlistExternals)

	mustWriteRow(formatter, "")
	mustWriteRow(formatter, term.Underline("Commands"))
	mustWriteCommandRows(formatter, "Pre:", env.CommandsPre)
	mustWriteCommandRows(formatter, "Main:", env.Commands)
	mustWriteCommandRows(formatter, "Post:", env.CommandsPost)

	if len(env.Artifacts) > 0 {
		mustWriteRow(formatter, "")
		mustWriteRow(formatter, term.Underline("Artifacts"))

		for i, artifact := range env.Artifacts {
			mustWriteRow(formatter, "", "Path:", term.Highlight(artifact.Path))

			for _, s3 := range artifact.S3Upload {
				mustWriteRow(formatter, "", "S3 Bucket:", term.Highlight(s3.Bucket))
				mustWriteRow(formatter, "", "S3 Key:", term.Highlight(s3.Key))
			}

			if i+1 < len(env.Artifacts) {
				mustWriteRow(formatter, "")
			}
		}
	}

	exitOnErr(formatter.Flush())
}

func (c *showCmd) showRun(runID int) {
	repo := MustFindRepository()
	psql := mustNewCompatibleStorage(repo)
	defer psql.Close()

	run, err := psql.EnvRun(ctx, runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			stderr.Printf("environment run with ID %d does not exist\n", runID)
			exitFunc(exitCodeNotExist)
		}

		fatal(err)
	}

	commands, err := psql.CommandRuns(ctx, runID)
	if err != nil && !errors.Is(err, storage.ErrNotExist) {
		fatal(err)
	}

	formatter := table.New(nil, stdout)

	mustWriteRow(formatter, "Run ID:", term.Highlight(run.ID))
	mustWriteRow(formatter, "Environment:", term.Highlight(run.EnvironmentName))
	mustWriteRow(formatter, "Result:", term.ColoredResult(run.Result))

	if vcsInfo := vcsStr(&run.EnvRun); vcsInfo != "" {
		mustWriteRow(formatter, "VCS:", term.Highlight(vcsInfo))
	}

	mustWriteRow(formatter, "Started At:", term.Highlight(
		run.StartTimestamp.Format(flag.DateTimeFormatTz)))
	mustWriteRow(formatter, "Duration:", term.Highlight(
		term.DurationToStrSeconds(run.StopTimestamp.Sub(run.StartTimestamp))+" s"))

	if len(commands) > 0 {
		mustWriteRow(formatter, "")
		mustWriteRow(formatter, term.Underline("Commands"))

		for _, command := range commands {
			mustWriteRow(formatter, "",
				string(command.Phase)+":",
				term.Highlight(command.Command),
				"exit code: "+strconv.Itoa(command.ExitCode),
				term.DurationToStrSeconds(
					command.StopTimestamp.Sub(command.StartTimestamp))+" s",
			)
		}
	}

	exitOnErr(formatter.Flush())
}
