package envrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessEnv(t *testing.T) {
	env := Environment{
		PassEnv: []string{"HOME", "GITHUB_*"},
		SetEnv:  []string{"FORCE_COLOR=1"},
	}

	environ := []string{
		"HOME=/home/user",
		"GITHUB_TOKEN=abc",
		"GITHUB_REF=main",
		"SECRET=xyz",
	}

	assert.Equal(t,
		[]string{
			"HOME=/home/user",
			"GITHUB_TOKEN=abc",
			"GITHUB_REF=main",
			"FORCE_COLOR=1",
		},
		env.ProcessEnv(environ),
	)
}

func TestProcessEnvSetEnvTakesPrecedence(t *testing.T) {
	env := Environment{
		PassEnv: []string{"LANG"},
		SetEnv:  []string{"LANG=C"},
	}

	procEnv := env.ProcessEnv([]string{"LANG=en_US.UTF-8"})

	// later assignments win when a process environment contains a
	// variable twice
	assert.Equal(t, []string{"LANG=en_US.UTF-8", "LANG=C"}, procEnv)
}

func TestInstallTarget(t *testing.T) {
	assert.Empty(t, (&Environment{}).InstallTarget())

	assert.Equal(t, ".",
		(&Environment{Package: "."}).InstallTarget())

	assert.Equal(t, ".[test,docs]",
		(&Environment{Package: ".", Extras: []string{"test", "docs"}}).InstallTarget())
}
