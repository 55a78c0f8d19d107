package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envrun/envrun/pkg/cfg/resolver"
)

func TestMergePrependsDefaults(t *testing.T) {
	defaults := Defaults{
		PassEnv:        []string{"HOME", "TERM"},
		SetEnv:         []string{"FORCE_COLOR=1"},
		InstallCommand: []string{"pip", "install"},
	}

	env := Environment{
		Name:    "test",
		PassEnv: []string{"PYTEST_*"},
		SetEnv:  []string{"FORCE_COLOR=0"},
	}

	env.Merge(&defaults)

	assert.Equal(t, []string{"HOME", "TERM", "PYTEST_*"}, env.PassEnv)
	// the per-environment assignment comes last and therefore wins when
	// the variables are applied in order
	assert.Equal(t, []string{"FORCE_COLOR=1", "FORCE_COLOR=0"}, env.SetEnv)
	assert.Equal(t, []string{"pip", "install"}, env.InstallCommand)
}

func TestMergeDoesNotOverrideInstallCommand(t *testing.T) {
	defaults := Defaults{InstallCommand: []string{"pip", "install"}}
	env := Environment{InstallCommand: []string{"uv", "pip", "install"}}

	env.Merge(&defaults)

	assert.Equal(t, []string{"uv", "pip", "install"}, env.InstallCommand)
}

func TestResolveReplacesPlaceholders(t *testing.T) {
	env := Environment{
		Name:   "test",
		Deps:   []string{"$pkg"},
		SetEnv: []string{"COVERAGE_FILE=$dir/.coverage"},
		Commands: [][]string{
			{"pytest", "$dir"},
		},
		Artifacts: []*Artifact{
			{
				Path: "$dir/dist/*.tar.gz",
				S3Upload: []S3Upload{
					{Bucket: "artifacts", Key: "$pkg.tar.gz"},
				},
			},
		},
	}

	resolvers := resolver.List{
		&resolver.StrReplacement{Old: "$pkg", New: "pytest"},
		&resolver.StrReplacement{Old: "$dir", New: "/tmp/envdir"},
	}

	require.NoError(t, env.Resolve(resolvers))

	assert.Equal(t, []string{"pytest"}, env.Deps)
	assert.Equal(t, []string{"COVERAGE_FILE=/tmp/envdir/.coverage"}, env.SetEnv)
	assert.Equal(t, [][]string{{"pytest", "/tmp/envdir"}}, env.Commands)
	assert.Equal(t, "/tmp/envdir/dist/*.tar.gz", env.Artifacts[0].Path)
	assert.Equal(t, "pytest.tar.gz", env.Artifacts[0].S3Upload[0].Key)
}

func TestResolveDropsEmptyCommandArgs(t *testing.T) {
	env := Environment{
		Name: "test",
		Commands: [][]string{
			{"pytest", "-v", "$posargs"},
		},
	}

	resolvers := resolver.List{
		&resolver.StrReplacement{Old: "$posargs", New: ""},
	}

	require.NoError(t, env.Resolve(resolvers))

	assert.Equal(t, [][]string{{"pytest", "-v"}}, env.Commands)
}

func TestResolveDropsCommandsThatResolveEmpty(t *testing.T) {
	env := Environment{
		Name: "test",
		CommandsPre: [][]string{
			{"$posargs"},
		},
		Commands: [][]string{
			{"$posargs"},
			{"pytest", "$posargs"},
		},
	}

	resolvers := resolver.List{
		&resolver.StrReplacement{Old: "$posargs", New: ""},
	}

	require.NoError(t, env.Resolve(resolvers))

	assert.Empty(t, env.CommandsPre)
	assert.Equal(t, [][]string{{"pytest"}}, env.Commands)
}
