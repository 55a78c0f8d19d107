package envrun

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/pkg/cfg"
)

func testCommitFn() (string, error) {
	return "0011", nil
}

func testRepository(t *testing.T, config *cfg.Config) *Repository {
	t.Helper()

	repoDir := t.TempDir()
	cfgPath := writeRepositoryCfg(t, repoDir, config)

	repo, err := NewRepository(cfgPath)
	require.NoError(t, err)

	return repo
}

func TestLoadEnvironmentsDefaultList(t *testing.T) {
	log.RedirectToTestingLog(t)

	repo := testRepository(t, cfg.ExampleConfig())
	loader := NewLoader(repo, nil, testCommitFn, log.StdLogger)

	envs, err := loader.LoadEnvironments()
	require.NoError(t, err)

	require.Len(t, envs, 2)
	assert.Equal(t, "test", envs[0].Name)
	assert.Equal(t, "lint", envs[1].Name)
	assert.True(t, envs[0].IsDefault)

	assert.Equal(t, filepath.Join(repo.WorkDir, "test"), envs[0].Directory)
}

func TestLoadEnvironmentsByName(t *testing.T) {
	log.RedirectToTestingLog(t)

	repo := testRepository(t, cfg.ExampleConfig())
	loader := NewLoader(repo, nil, testCommitFn, log.StdLogger)

	envs, err := loader.LoadEnvironments("lint", "lint")
	require.NoError(t, err)

	require.Len(t, envs, 1)
	assert.Equal(t, "lint", envs[0].Name)
	assert.True(t, envs[0].SkipInstall)
}

func TestLoadEnvironmentsUndeclaredNameFails(t *testing.T) {
	log.RedirectToTestingLog(t)

	repo := testRepository(t, cfg.ExampleConfig())
	loader := NewLoader(repo, nil, testCommitFn, log.StdLogger)

	_, err := loader.LoadEnvironments("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestLoadEnvironmentsResolvesPlaceholders(t *testing.T) {
	log.RedirectToTestingLog(t)

	config := &cfg.Config{
		ConfigVersion: cfg.Version,
		Environments: []*cfg.Environment{
			{
				Name:        "test",
				SkipInstall: true,
				SetEnv: []string{
					"PIP_CONSTRAINT={{ .workdir }}/constraints.txt",
					"ENV_DIR={{ .envdir }}",
				},
				Commands: [][]string{
					{"pytest", "{{ posargs }}"},
				},
			},
		},
	}

	repo := testRepository(t, config)
	loader := NewLoader(repo, []string{"-k", "fast"}, testCommitFn, log.StdLogger)

	envs, err := loader.LoadEnvironments("test")
	require.NoError(t, err)
	require.Len(t, envs, 1)

	env := envs[0]
	assert.Equal(t,
		[]string{
			"PIP_CONSTRAINT=" + repo.WorkDir + "/constraints.txt",
			"ENV_DIR=" + filepath.Join(repo.WorkDir, "test"),
		},
		env.SetEnv,
	)
	assert.Equal(t, [][]string{{"pytest", "-k fast"}}, env.Commands)
}

func TestLoadEnvironmentsEmptyPosArgsDropsArgument(t *testing.T) {
	log.RedirectToTestingLog(t)

	config := &cfg.Config{
		ConfigVersion: cfg.Version,
		Environments: []*cfg.Environment{
			{
				Name:        "test",
				SkipInstall: true,
				Commands: [][]string{
					{"pytest", "{{ posargs }}"},
				},
			},
		},
	}

	repo := testRepository(t, config)
	loader := NewLoader(repo, nil, testCommitFn, log.StdLogger)

	envs, err := loader.LoadEnvironments("test")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"pytest"}}, envs[0].Commands)
}

func TestLoadEnvironmentsDropsCommandsThatResolveEmpty(t *testing.T) {
	log.RedirectToTestingLog(t)

	config := &cfg.Config{
		ConfigVersion: cfg.Version,
		Environments: []*cfg.Environment{
			{
				Name:        "test",
				SkipInstall: true,
				Commands: [][]string{
					{"{{ posargs }}"},
					{"pytest"},
				},
			},
		},
	}

	repo := testRepository(t, config)
	loader := NewLoader(repo, nil, testCommitFn, log.StdLogger)

	envs, err := loader.LoadEnvironments("test")
	require.NoError(t, err)

	// the first command consists only of posargs, without positional
	// arguments nothing is left of it to execute
	assert.Equal(t, [][]string{{"pytest"}}, envs[0].Commands)
}

func TestLoadEnvironmentsWildcard(t *testing.T) {
	log.RedirectToTestingLog(t)

	repo := testRepository(t, cfg.ExampleConfig())
	loader := NewLoader(repo, nil, testCommitFn, log.StdLogger)

	envs, err := loader.LoadEnvironments("*")
	require.NoError(t, err)

	assert.Len(t, envs, 2)
}

func TestLoadEnvironmentsMergesDefaults(t *testing.T) {
	log.RedirectToTestingLog(t)

	config := &cfg.Config{
		ConfigVersion: cfg.Version,
		Defaults: cfg.Defaults{
			PassEnv: []string{"HOME"},
			SetEnv:  []string{"CI=true"},
		},
		Environments: []*cfg.Environment{
			{
				Name:        "test",
				SkipInstall: true,
				PassEnv:     []string{"TERM"},
				SetEnv:      []string{"CI=false"},
				Commands:    [][]string{{"true"}},
			},
		},
	}

	repo := testRepository(t, config)
	loader := NewLoader(repo, nil, testCommitFn, log.StdLogger)

	envs, err := loader.LoadEnvironments("test")
	require.NoError(t, err)

	env := envs[0]
	assert.Equal(t, []string{"HOME", "TERM"}, env.PassEnv)
	// defaults are prepended, the per-environment assignment wins
	assert.Equal(t, []string{"CI=true", "CI=false"}, env.SetEnv)
}
