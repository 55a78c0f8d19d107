package command

import (
	"fmt"
	"os"

	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/internal/format"
	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/pkg/envrun"
	"github.com/envrun/envrun/pkg/storage"
	"github.com/envrun/envrun/pkg/storage/postgres"
)

// envVarPSQLURL is the name of an environment variable that overrides the
// postgresql_url setting of the repository configuration.
const envVarPSQLURL = "ENVRUN_POSTGRESQL_URL"

func findRepository() (*envrun.Repository, error) {
	log.Debugln("searching for repository config file...")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfgPath, err := envrun.FindRepositoryCfg(cwd)
	if err != nil {
		return nil, err
	}

	log.Debugf("repository config found: %s", cfgPath)

	return envrun.NewRepository(cfgPath)
}

// MustFindRepository locates the repository root config file, starting from
// the current working directory. It terminates the process when no config
// file was found.
func MustFindRepository() *envrun.Repository {
	repo, err := findRepository()
	if err != nil {
		if os.IsNotExist(err) {
			fatalf("could not find repository config file '%s' in the current or a parent directory.\n"+
				"Run '%s' to create one.",
				envrun.RepositoryCfgFile, term.Highlight(cmdInitRepo))
		}

		fatal(err)
	}

	return repo
}

// mustGetPSQLURI returns the postgresql URL from the envVarPSQLURL
// environment variable or, when unset, from the repository configuration.
// It terminates the process when neither is set.
func mustGetPSQLURI(repo *envrun.Repository) string {
	if envURL := os.Getenv(envVarPSQLURL); envURL != "" {
		log.Debugf("using postgresql connection URL from $%s environment variable", envVarPSQLURL)
		return envURL
	}

	if url := repo.Cfg.Database.PGSQLURL; url != "" {
		return url
	}

	fatalf("PostgreSQL connection information is missing.\n"+
		"- set postgresql_url in %s or\n"+
		"- set the $%s environment variable", repo.CfgPath, envVarPSQLURL)

	return ""
}

// psqlURI returns the configured postgresql URL or an empty string when none
// is set.
func psqlURI(repo *envrun.Repository) string {
	if envURL := os.Getenv(envVarPSQLURL); envURL != "" {
		return envURL
	}

	return repo.Cfg.Database.PGSQLURL
}

func newStorageClient(url string) (storage.Storer, error) {
	return postgres.New(ctx, url, log.StdLogger)
}

// mustNewCompatibleStorage returns a storage client and verifies that the
// database schema has the expected version.
func mustNewCompatibleStorage(repo *envrun.Repository) storage.Storer {
	clt, err := newStorageClient(mustGetPSQLURI(repo))
	exitOnErr(err, "creating postgresql storage client failed")

	if err := clt.IsCompatible(ctx); err != nil {
		_ = clt.Close()
		exitOnErr(err)
	}

	return clt
}

func fatal(msg ...any) {
	stderr.Println(msg...)
	exitFunc(exitCodeError)
}

func fatalf(format string, v ...any) {
	if len(format) > 0 && format[len(format)-1] != '\n' {
		format += "\n"
	}

	stderr.Printf(format, v...)
	exitFunc(exitCodeError)
}

func exitOnErrf(err error, format string, v ...any) {
	if err == nil {
		return
	}

	fatalf("%s: %s", fmt.Sprintf(format, v...), err)
}

func exitOnErr(err error, msg ...any) {
	if err == nil {
		return
	}

	if len(msg) == 0 {
		fatal(err)
	}

	fatal(fmt.Sprintf("%s: %s", fmt.Sprint(msg...), err))
}

func mustWriteRow(fmt format.Formatter, row ...any) {
	err := fmt.WriteRow(row...)
	exitOnErr(err)
}

func vcsStr(run *storage.EnvRun) string {
	if run.VCSRevision == "" {
		return ""
	}

	if run.VCSIsDirty {
		return fmt.Sprintf("%s-dirty", run.VCSRevision)
	}

	return run.VCSRevision
}
