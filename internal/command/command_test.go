package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envrun/envrun/pkg/cfg"
	"github.com/envrun/envrun/pkg/envrun"
)

func writeTestRepositoryCfg(t *testing.T, dir string, config *cfg.Config) {
	t.Helper()

	err := config.ToFile(filepath.Join(dir, envrun.RepositoryCfgFile))
	require.NoError(t, err)
}

func testCfg(environments ...*cfg.Environment) *cfg.Config {
	envList := make([]string, 0, len(environments))
	for _, env := range environments {
		envList = append(envList, env.Name)
	}

	return &cfg.Config{
		ConfigVersion: cfg.Version,
		Defaults: cfg.Defaults{
			EnvList: envList,
			WorkDir: ".envrun",
		},
		Environments: environments,
	}
}

func TestInitRepo(t *testing.T) {
	initTest(t)
	t.Chdir(t.TempDir())

	initRepo(nil, nil)

	_, err := os.Stat(envrun.RepositoryCfgFile)
	require.NoError(t, err)
}

func TestInitRepoFailsWhenCfgExists(t *testing.T) {
	initTest(t)
	t.Chdir(t.TempDir())

	initRepo(nil, nil)

	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)

			info, ok := r.(*exitInfo)
			require.True(t, ok)
			assert.Equal(t, exitCodeAlreadyExist, info.Code)
		}()

		initRepo(nil, nil)
	}()
}

func TestRunSucceedingEnvironment(t *testing.T) {
	initTest(t)

	dir := t.TempDir()
	writeTestRepositoryCfg(t, dir, testCfg(&cfg.Environment{
		Name:        "ok",
		SkipInstall: true,
		Commands:    [][]string{{"true"}},
	}))
	t.Chdir(dir)

	runCmd := newRunCmd()
	runCmd.SetArgs([]string{"--skip-record", "ok"})
	execCheck(t, runCmd, 0)
}

func TestRunFailingEnvironmentExitsNonZero(t *testing.T) {
	initTest(t)

	dir := t.TempDir()
	writeTestRepositoryCfg(t, dir, testCfg(
		&cfg.Environment{
			Name:        "fail",
			SkipInstall: true,
			Commands:    [][]string{{"sh", "-c", "exit 1"}},
		},
		&cfg.Environment{
			Name:        "ok",
			SkipInstall: true,
			Commands:    [][]string{{"true"}},
		},
	))
	t.Chdir(dir)

	runCmd := newRunCmd()
	runCmd.SetArgs([]string{"--skip-record"})
	execCheck(t, runCmd, exitCodeError)
}

func TestRunEnvironmentsInSelectionOrder(t *testing.T) {
	initTest(t)

	dir := t.TempDir()
	orderFile := filepath.Join(dir, "order")
	writeTestRepositoryCfg(t, dir, testCfg(
		&cfg.Environment{
			Name:        "alpha",
			SkipInstall: true,
			Commands:    [][]string{{"sh", "-c", "echo alpha >>" + orderFile}},
		},
		&cfg.Environment{
			Name:        "beta",
			SkipInstall: true,
			Commands:    [][]string{{"sh", "-c", "echo beta >>" + orderFile}},
		},
	))
	t.Chdir(dir)

	runCmd := newRunCmd()
	runCmd.SetArgs([]string{"--skip-record", "beta", "alpha"})
	execCheck(t, runCmd, 0)

	content, err := os.ReadFile(orderFile)
	require.NoError(t, err)
	assert.Equal(t, "beta\nalpha\n", string(content))
}

func TestCleanDeletesEnvironmentWorkDirs(t *testing.T) {
	initTest(t)

	dir := t.TempDir()
	writeTestRepositoryCfg(t, dir, testCfg(
		&cfg.Environment{
			Name:        "a",
			SkipInstall: true,
			Commands:    [][]string{{"true"}},
		},
		&cfg.Environment{
			Name:        "b",
			SkipInstall: true,
			Commands:    [][]string{{"true"}},
		},
	))
	t.Chdir(dir)

	workDir := filepath.Join(dir, ".envrun")
	for _, name := range []string{"a", "b"} {
		envDir := filepath.Join(workDir, name)
		require.NoError(t, os.MkdirAll(envDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(envDir, "f"), []byte("x"), 0o644))
	}

	cleanCmd := newCleanCmd()
	cleanCmd.SetArgs([]string{"a"})
	require.NoError(t, cleanCmd.Execute())

	assert.NoDirExists(t, filepath.Join(workDir, "a"))
	assert.DirExists(t, filepath.Join(workDir, "b"))

	cleanAllCmd := newCleanCmd()
	require.NoError(t, cleanAllCmd.Execute())

	assert.NoDirExists(t, workDir)
}

func TestLsEnvsJSON(t *testing.T) {
	initTest(t)

	dir := t.TempDir()
	writeTestRepositoryCfg(t, dir, testCfg(
		&cfg.Environment{
			Name:        "lint",
			Description: "static checks",
			SkipInstall: true,
			Commands:    [][]string{{"true"}},
		},
		&cfg.Environment{
			Name:        "test",
			SkipInstall: true,
			Commands:    [][]string{{"true"}},
		},
	))
	t.Chdir(dir)

	lsEnvsCmd := newLsEnvsCmd()
	lsEnvsCmd.format.Val = "json"
	stdoutBuf, _ := interceptCmdOutput(t)
	require.NoError(t, lsEnvsCmd.Execute())

	var res []map[string]any
	require.NoError(t, json.Unmarshal(stdoutBuf.Bytes(), &res))
	require.Len(t, res, 2)
	assert.Equal(t, "lint", res[0]["Name"])
	assert.Equal(t, "static checks", res[0]["Description"])
	assert.Equal(t, true, res[0]["Default"])
	assert.Equal(t, "test", res[1]["Name"])
}

func TestCheckWithoutDeps(t *testing.T) {
	initTest(t)

	dir := t.TempDir()
	writeTestRepositoryCfg(t, dir, testCfg(&cfg.Environment{
		Name:        "nodeps",
		SkipInstall: true,
		Commands:    [][]string{{"true"}},
	}))
	t.Chdir(dir)

	checkCmd := newCheckCmd()
	checkCmd.SetArgs([]string{})
	execCheck(t, checkCmd, 0)
}
