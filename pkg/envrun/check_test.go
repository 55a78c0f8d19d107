package envrun

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envrun/envrun/internal/log"
	"github.com/envrun/envrun/pkg/storage"
)

func TestCheckDeps(t *testing.T) {
	log.RedirectToTestingLog(t)

	env := testEnvironment(t, "test")
	env.SkipInstall = false
	env.InstallCommand = []string{"echo", "install"}
	env.Deps = []string{"pytest"}

	result, err := NewEnvRunner(log.StdLogger).CheckDeps(context.Background(), env)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, storage.PhaseInstall, result.Phase)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Command, "--dry-run")
	assert.Contains(t, result.Command, "pytest")
}

func TestCheckDepsWithoutDeps(t *testing.T) {
	log.RedirectToTestingLog(t)

	env := testEnvironment(t, "test")

	result, err := NewEnvRunner(log.StdLogger).CheckDeps(context.Background(), env)
	require.NoError(t, err)
	assert.Nil(t, result)
}
