package cfg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleConfigTOML = `
config_version = 1

[Defaults]
env_list = ["test", "docs"]
work_dir = ".envrun"
skip_missing_executables = true
pass_env = ["HOME", "TERM", "GITHUB_*"]
set_env = ["FORCE_COLOR=1", "PIP_CONSTRAINT={{ .workdir }}/constraints.txt"]

[Database]
postgresql_url = "postgres://postgres@localhost:5432/envrun?sslmode=disable"

[[Environment]]
name = "test"
description = "run the test suite"
deps = ["pytest"]
extras = ["test"]
package = "."
commands = [["pytest", "-v", "{{ posargs }}"]]

[[Environment]]
name = "docs"
description = "build the documentation"
skip_install = true
set_env = ["NO_COLOR=1"]
commands_pre = [["mkdocs", "--version"]]
commands = [["mkdocs", "build"]]
commands_post = [["ls", "site"]]
`

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".envrun.toml")
	require.NoError(t, os.WriteFile(path, []byte(exampleConfigTOML), 0o644))

	config, err := FromFile(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, Version, config.ConfigVersion)
	assert.Equal(t, []string{"test", "docs"}, config.Defaults.EnvList)
	assert.True(t, config.Defaults.SkipMissingExecutables)
	assert.Equal(t, path, config.FilePath())

	require.Len(t, config.Environments, 2)

	test := config.Environment("test")
	require.NotNil(t, test)
	assert.Equal(t, "run the test suite", test.Description)
	assert.Equal(t, []string{"pytest"}, test.Deps)
	assert.Equal(t, []string{"test"}, test.Extras)
	assert.Equal(t, ".", test.Package)

	docs := config.Environment("docs")
	require.NotNil(t, docs)
	assert.True(t, docs.SkipInstall)
	assert.Equal(t, []string{"NO_COLOR=1"}, docs.SetEnv)
	assert.Equal(t, [][]string{{"mkdocs", "--version"}}, docs.CommandsPre)
	assert.Equal(t, [][]string{{"mkdocs", "build"}}, docs.Commands)
	assert.Equal(t, [][]string{{"ls", "site"}}, docs.CommandsPost)

	assert.Nil(t, config.Environment("does-not-exist"))
}

func TestValidateFailsOnDuplicateEnvNames(t *testing.T) {
	config := ExampleConfig()
	config.Environments = append(config.Environments, &Environment{
		Name:     config.Environments[0].Name,
		Commands: [][]string{{"true"}},
	})

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared multiple times")
}

func TestValidateFailsOnUndeclaredEnvInEnvList(t *testing.T) {
	config := ExampleConfig()
	config.Defaults.EnvList = append(config.Defaults.EnvList, "missing")

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Defaults.env_list")
}

func TestValidateFailsOnInvalidSetEnv(t *testing.T) {
	config := ExampleConfig()
	config.Environments[0].SetEnv = []string{"MISSING_EQUAL_SIGN"}

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set_env")
}

func TestValidateFailsOnEmptyCommand(t *testing.T) {
	config := ExampleConfig()
	config.Environments[0].Commands = append(config.Environments[0].Commands, []string{})

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commands")
}

func TestValidateFailsOnWrongConfigVersion(t *testing.T) {
	config := ExampleConfig()
	config.ConfigVersion = Version + 1

	require.Error(t, config.Validate())
}

func TestExampleConfigIsValidAndRoundtrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".envrun.toml")

	example := ExampleConfig()
	require.NoError(t, example.Validate())
	require.NoError(t, example.ToFile(path))

	// writing again without the overwrite option must fail
	require.Error(t, example.ToFile(path))
	require.NoError(t, example.ToFile(path, ToFileOptOverwrite()))

	loaded, err := FromFile(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())

	assert.Equal(t, example.Defaults.EnvList, loaded.Defaults.EnvList)
	require.Len(t, loaded.Environments, len(example.Environments))
	assert.Equal(t, example.Environments[0].Name, loaded.Environments[0].Name)
}

func TestToFileCommented(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".envrun.toml")

	require.NoError(t, ExampleConfig().ToFile(path, ToFileOptCommented()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		assert.True(t, strings.HasPrefix(line, "#"), "line %q is not commented", line)
	}
}
