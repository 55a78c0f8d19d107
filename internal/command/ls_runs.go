package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/flag"
	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/internal/format"
	"github.com/envrun/envrun/internal/format/csv"
	"github.com/envrun/envrun/internal/format/json"
	"github.com/envrun/envrun/internal/format/table"
	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/pkg/storage"
)

const lsRunsLongHelp = `
List recorded environment runs.

Arguments:
	'*' can be passed as ENVIRONMENT argument to match all environments.
`

const lsRunsExample = `
envrun ls runs -s duration-desc lint		  list runs of the lint environment,
						  sorted by run duration
envrun ls runs --after=2026.08.01-11:30 '*'	  list all runs that
						  started after 2026.08.01 11:30`

func init() {
	lsCmd.AddCommand(&newLsRunsCmd().Command)
}

type lsRunsCmd struct {
	cobra.Command

	format *flag.Format
	after  flag.DateTimeFlagValue
	before flag.DateTimeFlagValue
	sort   *flag.Sort
	limit  uint
	quiet  bool
}

func newLsRunsCmd() *lsRunsCmd {
	cmd := lsRunsCmd{
		Command: cobra.Command{
			Use:     "runs ENVIRONMENT",
			Short:   "list recorded environment runs",
			Long:    strings.TrimSpace(lsRunsLongHelp),
			Example: strings.TrimSpace(lsRunsExample),
			Args:    cobra.ExactArgs(1),
		},

		format: flag.NewFormatFlag(),
		sort: flag.NewSort(map[string]storage.Field{
			"time":     storage.FieldStartTime,
			"duration": storage.FieldDuration,
		}),
	}

	cmd.Run = cmd.run

	cmd.Flags().VarP(cmd.format, "format", "f", cmd.format.Usage(term.Highlight))
	exitOnErr(cmd.format.RegisterFlagCompletion(&cmd.Command))

	cmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false,
		"only print run IDs")

	cmd.Flags().UintVar(&cmd.limit, "limit", 0,
		"limit the number of listed runs, 0 lists all")

	cmd.Flags().VarP(cmd.sort, "sort", "s",
		cmd.sort.Usage(term.Highlight))

	cmd.Flags().VarP(&cmd.after, "after", "a",
		fmt.Sprintf("only show runs that started after this datetime\nFormat: %s", term.Highlight(flag.DateTimeFormatDescr)))

	cmd.Flags().VarP(&cmd.before, "before", "b",
		fmt.Sprintf("only show runs that started before this datetime\nFormat: %s", term.Highlight(flag.DateTimeFormatDescr)))

	return &cmd
}

const (
	lsRunHeaderID          = "Id"
	lsRunHeaderEnvironment = "Environment"
	lsRunHeaderResult      = "Result"
	lsRunHeaderVCS         = "VCS"
	lsRunHeaderStartTime   = "Start Time"
	lsRunHeaderDuration    = "Duration (s)"
)

type lsRunRow struct {
	run *storage.EnvRunWithID
}

func (r *lsRunRow) AsMap(fields []string) map[string]any {
	result := make(map[string]any, len(fields))

	for _, field := range fields {
		switch field {
		case lsRunHeaderID:
			result[field] = r.run.ID
		case lsRunHeaderEnvironment:
			result[field] = r.run.EnvironmentName
		case lsRunHeaderResult:
			result[field] = string(r.run.Result)
		case lsRunHeaderVCS:
			result[field] = vcsStr(&r.run.EnvRun)
		case lsRunHeaderStartTime:
			result[field] = r.run.StartTimestamp.Format(flag.DateTimeFormatTz)
		case lsRunHeaderDuration:
			result[field] = term.DurationToStrSeconds(
				r.run.StopTimestamp.Sub(r.run.StartTimestamp))
		}
	}

	return result
}

var lsRunHeaders = []string{
	lsRunHeaderID,
	lsRunHeaderEnvironment,
	lsRunHeaderResult,
	lsRunHeaderVCS,
	lsRunHeaderStartTime,
	lsRunHeaderDuration,
}

func (c *lsRunsCmd) run(_ *cobra.Command, args []string) {
	repo := MustFindRepository()
	psql := mustNewCompatibleStorage(repo)
	defer psql.Close()

	sorters := c.getSorters()
	filters := c.getFilters(args[0])

	if c.format.Val == flag.FormatJSON {
		c.printJSON(psql, filters, sorters)
		return
	}

	var headers []string
	if !c.quiet && c.format.Val == flag.FormatPlain {
		headers = lsRunHeaders
	}

	var formatter format.Formatter
	if c.format.Val == flag.FormatCSV {
		formatter = csv.New(headers, stdout)
	} else {
		formatter = table.New(headers, stdout)
	}

	err := psql.EnvRuns(ctx, filters, sorters, c.limit,
		func(run *storage.EnvRunWithID) error {
			if c.quiet {
				return formatter.WriteRow(run.ID)
			}

			return formatter.WriteRow(
				run.ID,
				run.EnvironmentName,
				term.ColoredResult(run.Result),
				vcsStr(&run.EnvRun),
				run.StartTimestamp.Format(flag.DateTimeFormatTz),
				term.DurationToStrSeconds(
					run.StopTimestamp.Sub(run.StartTimestamp)),
			)
		},
	)
	if err != nil {
		if err == storage.ErrNotExist {
			log.Debugln("no matching environment runs exist")
			exitFunc(exitCodeNotExist)
		}

		fatal(err)
	}

	exitOnErr(formatter.Flush())
}

func (c *lsRunsCmd) printJSON(psql storage.Storer, filters []*storage.Filter, sorters []*storage.Sorter) {
	var rows []*lsRunRow

	err := psql.EnvRuns(ctx, filters, sorters, c.limit,
		func(run *storage.EnvRunWithID) error {
			rows = append(rows, &lsRunRow{run: run})
			return nil
		},
	)
	if err != nil {
		if err == storage.ErrNotExist {
			log.Debugln("no matching environment runs exist")
			exitFunc(exitCodeNotExist)
		}

		fatal(err)
	}

	exitOnErr(json.Encode(stdout, rows, lsRunHeaders))
}

func (c *lsRunsCmd) getSorters() []*storage.Sorter {
	defaultSorter := storage.Sorter{
		Field: storage.FieldStartTime,
		Order: storage.OrderDesc,
	}

	var sorters []*storage.Sorter

	if c.sort.Value != (storage.Sorter{}) {
		sorters = append(sorters, &c.sort.Value)
	}

	return append(sorters, &defaultSorter)
}

func (c *lsRunsCmd) getFilters(envArg string) []*storage.Filter {
	var filters []*storage.Filter

	if envArg != "" && envArg != "*" {
		filters = append(filters, &storage.Filter{
			Field:    storage.FieldEnvironmentName,
			Operator: storage.OpEQ,
			Value:    envArg,
		})
	}

	if c.before.IsSet {
		filters = append(filters, &storage.Filter{
			Field:    storage.FieldStartTime,
			Operator: storage.OpLT,
			Value:    c.before.Time,
		})
	}

	if c.after.IsSet {
		filters = append(filters, &storage.Filter{
			Field:    storage.FieldStartTime,
			Operator: storage.OpGT,
			Value:    c.after.Time,
		})
	}

	return filters
}
