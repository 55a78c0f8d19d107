package command

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/envrun/envrun/internal/command/term"
	"github.com/envrun/envrun/internal/docker"
	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/internal/routines"
	"github.com/envrun/envrun/internal/upload/s3"
	"github.com/envrun/envrun/internal/vcs"
	"github.com/envrun/envrun/pkg/cfg"
	"github.com/envrun/envrun/pkg/envrun"
	"github.com/envrun/envrun/pkg/storage"
)

var runLongHelp = fmt.Sprintf(`
Run the command sequences of environments.
When no environment name is passed, the environments listed in the env_list
setting of the repository configuration are run.
Arguments following a '--' separator are substituted for the posargs
placeholder in the configured commands.

The following environment variables are supported:
    %s
    %s

  S3 Upload:
    %s
    %s
    %s

  Container Environments:
    %s
    %s
    %s
    %s
`,
	term.Highlight(envVarPSQLURL),
	term.Highlight(envrun.WorkDirEnvVar),

	term.Highlight("AWS_REGION"),
	term.Highlight("AWS_ACCESS_KEY_ID"),
	term.Highlight("AWS_SECRET_ACCESS_KEY"),

	term.Highlight("DOCKER_HOST"),
	term.Highlight("DOCKER_API_VERSION"),
	term.Highlight("DOCKER_CERT_PATH"),
	term.Highlight("DOCKER_TLS_VERIFY"))

func init() {
	rootCmd.AddCommand(&newRunCmd().Command)
}

type runCmd struct {
	cobra.Command

	// Cmdline parameters
	recreate   bool
	parallel   uint
	failFast   bool
	skipRecord bool
	skipUpload bool

	// other fields
	ctx      context.Context
	repo     *envrun.Repository
	storage  storage.Storer
	vcsState vcs.StateFetcher
	runner   *envrun.EnvRunner
	uploader *envrun.Uploader

	uploadRoutinePool *routines.Pool

	failures atomic.Int32
	skipped  atomic.Int32
}

func newRunCmd() *runCmd {
	const example = `
run			run the environments listed in env_list
run lint py311		run the lint and py311 environments
run '*'			run all declared environments
run test -- -k fast	run the test environment, substituting posargs`

	cmd := runCmd{
		Command: cobra.Command{
			Use:     "run [ENVIRONMENT]... [-- POSARGS...]",
			Short:   "run environments",
			Long:    strings.TrimSpace(runLongHelp),
			Example: strings.TrimSpace(example),
			Args:    cobra.ArbitraryArgs,
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().BoolVarP(&cmd.recreate, "recreate", "r", false,
		"delete the work directories of the environments before running them")
	cmd.Flags().UintVarP(&cmd.parallel, "parallel", "p", 1,
		"number of environments that are run concurrently")
	cmd.Flags().BoolVar(&cmd.failFast, "fail-fast", false,
		"do not start further environments after the first one failed")
	cmd.Flags().BoolVar(&cmd.skipRecord, "skip-record", false,
		"do not record the environment runs in the database")
	cmd.Flags().BoolVarP(&cmd.skipUpload, "skip-upload", "s", false,
		"skip uploading the artifacts that environments produce")

	return &cmd
}

func (c *runCmd) run(_ *cobra.Command, args []string) {
	startTime := time.Now()

	if c.parallel == 0 {
		fatal("--parallel must be >0")
	}

	var cancel func()
	c.ctx, cancel = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c.repo = MustFindRepository()

	var err error
	c.vcsState, err = vcs.GetState(c.repo.Path, log.Debugf)
	exitOnErr(err, "determining vcs state failed")

	if !c.skipRecord {
		if url := psqlURI(c.repo); url != "" {
			c.storage = mustNewCompatibleStorage(c.repo)
			defer c.storage.Close()
		} else {
			log.Debugf("no postgresql_url configured, environment runs are not recorded")
		}
	}

	envNames, posArgs := splitPosArgs(c.Flags().ArgsLenAtDash(), args)

	loader := envrun.NewLoader(c.repo, posArgs, c.vcsState.CommitID, log.StdLogger)
	environments, err := loader.LoadEnvironments(envNames...)
	exitOnErr(err)

	c.runner = envrun.NewEnvRunner(log.StdLogger)
	c.runner.Recreate = c.recreate
	c.runner.SkipMissingExecutables = c.repo.Cfg.Defaults.SkipMissingExecutables

	if needsContainerEngine(environments) {
		clt, err := docker.NewClient(log.StdLogger.Debugf)
		exitOnErr(err, "creating container engine client failed")
		c.runner.ContainerClt = clt
	}

	if !c.skipUpload && declaresS3Uploads(environments) {
		s3Clt, err := s3.NewClient(c.ctx, log.StdLogger)
		exitOnErr(err, "creating S3 client failed")
		c.uploader = envrun.NewUploader(s3Clt)
	}

	// one upload/record routine runs in parallel with the environments
	c.uploadRoutinePool = routines.NewPool(1)

	stdout.Printf("Running %d environment(s)\n", len(environments))
	stdout.PrintSep()

	runPool := routines.NewPool(c.parallel)
	for _, env := range environments {
		runPool.Queue(func() {
			c.runEnvironment(env)
		})
	}

	runPool.Wait()
	c.uploadRoutinePool.Wait()

	stdout.PrintSep()

	failures := int(c.failures.Load())
	skipped := int(c.skipped.Load())
	succeeded := len(environments) - failures - skipped

	stdout.Printf("%s: %d  %s: %d  %s: %d (%ss)\n",
		term.ColoredResult(storage.ResultSuccess), succeeded,
		term.ColoredResult(storage.ResultFailure), failures,
		term.ColoredResult(storage.ResultSkipped), skipped,
		term.StrDurationSec(startTime, time.Now()))

	if failures > 0 {
		exitFunc(exitCodeError)
	}
}

// splitPosArgs separates the environment names from the positional arguments
// that follow a '--' separator.
func splitPosArgs(lenAtDash int, args []string) (envNames, posArgs []string) {
	if lenAtDash < 0 {
		return args, nil
	}

	return args[:lenAtDash], args[lenAtDash:]
}

func needsContainerEngine(environments []*envrun.Environment) bool {
	for _, env := range environments {
		if env.ContainerImage != "" {
			return true
		}
	}

	return false
}

func declaresS3Uploads(environments []*envrun.Environment) bool {
	for _, env := range environments {
		for _, artifact := range env.Artifacts {
			if len(artifact.S3Upload) > 0 {
				return true
			}
		}
	}

	return false
}

func (c *runCmd) runEnvironment(env *envrun.Environment) {
	if c.failFast && c.failures.Load() > 0 {
		c.skipped.Add(1)
		stdout.EnvPrintf(env, "%s, an earlier environment failed\n",
			term.ColoredResult(storage.ResultSkipped))
		return
	}

	result, err := c.runner.Run(c.ctx, env)
	if err != nil {
		c.failures.Add(1)
		stderr.EnvPrintf(env, "%s: %s\n", term.RedHighlight("error"), err)
		return
	}

	c.printRunResult(result)

	switch result.Result {
	case storage.ResultFailure:
		c.failures.Add(1)
	case storage.ResultSkipped:
		c.skipped.Add(1)
	}

	uploads := c.uploadArtifacts(result)

	if c.storage != nil {
		c.uploadRoutinePool.Queue(func() {
			c.record(result, uploads)
		})
	}
}

func (c *runCmd) printRunResult(result *envrun.RunResult) {
	env := result.Environment

	switch result.Result {
	case storage.ResultSuccess:
		stdout.EnvPrintf(env, "%s (%ss)\n",
			term.ColoredResult(result.Result),
			term.StrDurationSec(result.StartTime, result.StopTime))

	case storage.ResultSkipped:
		stdout.EnvPrintf(env, "%s, %s\n",
			term.ColoredResult(result.Result), result.SkipReason)

	case storage.ResultFailure:
		failedCmd := result.FailedCommand()
		stderr.EnvPrintf(env, "%s (%ss), command '%s' exited with code %d, output:\n%s\n",
			term.ColoredResult(result.Result),
			term.StrDurationSec(result.StartTime, result.StopTime),
			failedCmd.Command,
			failedCmd.ExitCode,
			failedCmd.StrOutput())
	}
}

// uploadArtifacts collects the artifacts that env produced and uploads them
// to their declared destinations.
func (c *runCmd) uploadArtifacts(result *envrun.RunResult) []*envrun.UploadResult {
	var uploadResults []*envrun.UploadResult

	if result.Result != storage.ResultSuccess {
		return nil
	}

	env := result.Environment

	artifacts, err := env.CollectArtifacts()
	exitOnErrf(err, "%s: collecting artifacts failed", env)

	for _, artifact := range artifacts {
		stdout.EnvPrintf(env, "created %s (%s)\n",
			term.Highlight(artifact.Name), term.FormatSize(artifact.SizeBytes))

		if c.uploader == nil {
			continue
		}

		err := c.uploader.Upload(c.ctx, artifact,
			func(a *envrun.ArtifactFile, dest *cfg.S3Upload) {
				log.Debugf("%s: uploading %s to s3://%s/%s\n",
					env, a, dest.Bucket, dest.Key)
			},
			func(a *envrun.ArtifactFile, uploadResult *envrun.UploadResult) {
				mbps := float64(a.SizeBytes) / 1024 / 1024 /
					uploadResult.Stop.Sub(uploadResult.Start).Seconds()

				stdout.EnvPrintf(env, "%s uploaded to %s (%.3f MiB/s)\n",
					a.Name, uploadResult.URL, mbps)

				uploadResults = append(uploadResults, uploadResult)
			},
		)
		exitOnErrf(err, "%s", env)
	}

	return uploadResults
}

func (c *runCmd) record(result *envrun.RunResult, uploads []*envrun.UploadResult) {
	id, err := envrun.StoreRun(c.ctx, c.storage, c.vcsState, result, uploads)
	exitOnErrf(err, "%s: recording the run failed", result.Environment)

	stdout.EnvPrintf(result.Environment, "run recorded with ID %s\n",
		term.Highlight(id))
}
