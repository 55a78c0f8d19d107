package command

import (
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "list environments and recorded runs",
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
