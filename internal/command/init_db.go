package command

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/pkg/envrun"
	"github.com/envrun/envrun/pkg/storage"
)

const initDbExample = `
envrun init db postgres://postgres@localhost:5432/envrun?sslmode=disable
`

var initDbLongHelp = fmt.Sprintf(`
Creates the envrun tables in a PostgreSQL database.

The Postgres URL is read from the repository configuration file.
Alternatively the URL can be passed as argument or
by setting the '%s' environment variable.`,
	term.Highlight(envVarPSQLURL))

var initDbCmd = &cobra.Command{
	Use:     "db [POSTGRES-URL]",
	Short:   "create envrun tables in a PostgreSQL database",
	Example: strings.TrimSpace(initDbExample),
	Long:    strings.TrimSpace(initDbLongHelp),
	Run:     initDb,
	Args:    cobra.MaximumNArgs(1),
}

func init() {
	initCmd.AddCommand(initDbCmd)
}

func initDb(_ *cobra.Command, args []string) {
	var dbURL string

	if len(args) == 1 {
		dbURL = args[0]
	} else {
		repo, err := findRepository()
		if err != nil {
			if os.IsNotExist(err) {
				stderr.Printf("could not find '%s' repository config file.\n"+
					"Run '%s' first or pass the Postgres URL as argument.\n",
					term.Highlight(envrun.RepositoryCfgFile), term.Highlight(cmdInitRepo))
				exitFunc(exitCodeError)
			}

			stderr.Println(err)
			exitFunc(exitCodeError)
		}

		dbURL = mustGetPSQLURI(repo)
	}

	storageClt, err := newStorageClient(dbURL)
	exitOnErr(err, "establishing connection failed")
	defer storageClt.Close()

	err = storageClt.Init(ctx)
	if errors.Is(err, storage.ErrExists) {
		stderr.Println("database already exists")
		exitFunc(exitCodeAlreadyExist)
	}
	exitOnErr(err)

	stdout.Println("database tables created successfully")
}
