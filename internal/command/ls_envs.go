package command

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/flag"
	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/internal/format"
	"github.com/envrun/envrun/internal/format/csv"
	"github.com/envrun/envrun/internal/format/json"
	"github.com/envrun/envrun/internal/format/table"
	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/internal/vcs"
	"github.com/envrun/envrun/pkg/envrun"
)

const lsEnvsLongHelp = `
List the environments that are declared in the repository configuration.
Environments that are part of the env_list setting are marked as default.
`

func init() {
	lsCmd.AddCommand(&newLsEnvsCmd().Command)
}

type lsEnvsCmd struct {
	cobra.Command

	quiet  bool
	format *flag.Format
}

func newLsEnvsCmd() *lsEnvsCmd {
	cmd := lsEnvsCmd{
		Command: cobra.Command{
			Use:   "envs",
			Short: "list declared environments",
			Long:  strings.TrimSpace(lsEnvsLongHelp),
			Args:  cobra.NoArgs,
		},

		format: flag.NewFormatFlag(),
	}

	cmd.Run = cmd.run

	cmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false,
		"only print environment names")
	cmd.Flags().VarP(cmd.format, "format", "f", cmd.format.Usage(term.Highlight))
	exitOnErr(cmd.format.RegisterFlagCompletion(&cmd.Command))

	return &cmd
}

const (
	lsEnvHeaderName        = "Name"
	lsEnvHeaderDefault     = "Default"
	lsEnvHeaderContainer   = "Container Image"
	lsEnvHeaderDescription = "Description"
)

type lsEnvRow struct {
	env *envrun.Environment
}

func (r *lsEnvRow) AsMap(fields []string) map[string]any {
	result := make(map[string]any, len(fields))

	for _, field := range fields {
		switch field {
		case lsEnvHeaderName:
			result[field] = r.env.Name
		case lsEnvHeaderDefault:
			result[field] = r.env.IsDefault
		case lsEnvHeaderContainer:
			result[field] = r.env.ContainerImage
		case lsEnvHeaderDescription:
			result[field] = r.env.Description
		}
	}

	return result
}

func (c *lsEnvsCmd) run(_ *cobra.Command, _ []string) {
	repo := MustFindRepository()

	vcsState, err := vcs.GetState(repo.Path, log.Debugf)
	exitOnErr(err, "determining vcs state failed")

	loader := envrun.NewLoader(repo, nil, vcsState.CommitID, log.StdLogger)
	environments, err := loader.LoadEnvironments("*")
	exitOnErr(err)

	envrun.SortEnvironmentsByName(environments)

	if c.format.Val == flag.FormatJSON {
		rows := make([]*lsEnvRow, 0, len(environments))
		for _, env := range environments {
			rows = append(rows, &lsEnvRow{env: env})
		}

		err := json.Encode(stdout, rows, []string{
			lsEnvHeaderName,
			lsEnvHeaderDefault,
			lsEnvHeaderContainer,
			lsEnvHeaderDescription,
		})
		exitOnErr(err)

		return
	}

	var headers []string
	if !c.quiet && c.format.Val == flag.FormatPlain {
		headers = []string{
			lsEnvHeaderName,
			lsEnvHeaderDefault,
			lsEnvHeaderContainer,
			lsEnvHeaderDescription,
		}
	}

	var formatter format.Formatter
	if c.format.Val == flag.FormatCSV {
		formatter = csv.New(headers, stdout)
	} else {
		formatter = table.New(headers, stdout)
	}

	for _, env := range environments {
		if c.quiet {
			mustWriteRow(formatter, env.Name)
			continue
		}

		defaultMarker := ""
		if env.IsDefault {
			defaultMarker = "x"
		}

		mustWriteRow(formatter, env.Name, defaultMarker, env.ContainerImage, env.Description)
	}

	exitOnErr(formatter.Flush())
}
