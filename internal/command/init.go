package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/term"
)

const (
	cmdInitDb   = "envrun init db"
	cmdInitRepo = "envrun init repo"
)

var initLongHelp = fmt.Sprintf(`
The init commands create an envrun configuration file or the envrun
tables in a PostgreSQL database.

To setup envrun for the first time, the following commands should be run:
1.) %s
2.) %s
`, term.Highlight(cmdInitRepo),
	term.Highlight(cmdInitDb))

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "initialize a configuration file or the envrun database",
	Long:  strings.TrimSpace(initLongHelp),
}

func init() {
	rootCmd.AddCommand(initCmd)
}
