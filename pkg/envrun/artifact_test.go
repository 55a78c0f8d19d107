package envrun

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envrun/envrun/internal/testutils/fstest"
	"github.com/envrun/envrun/pkg/cfg"
)

func TestCollectArtifacts(t *testing.T) {
	repoDir := t.TempDir()
	distDir := filepath.Join(repoDir, "dist")

	for _, name := range []string{"pkg-1.0.tar.gz", "pkg-1.0.whl", "notes.txt"} {
		fstest.WriteToFile(t, []byte("content"), filepath.Join(distDir, name))
	}

	env := &Environment{
		Name:           "build",
		RepositoryRoot: repoDir,
		Artifacts: []*cfg.Artifact{
			{
				Path: "dist/*.tar.gz",
				S3Upload: []cfg.S3Upload{
					{Bucket: "releases", Key: "pkg/latest.tar.gz"},
				},
			},
			{
				Path: "dist/pkg-*",
				S3Upload: []cfg.S3Upload{
					{Bucket: "releases", Key: "pkg"},
				},
			},
		},
	}

	artifacts, err := env.CollectArtifacts()
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	assert.Equal(t, "dist/pkg-1.0.tar.gz", artifacts[0].Name)
	assert.Equal(t, uint64(len("content")), artifacts[0].SizeBytes)
	require.Len(t, artifacts[0].S3Uploads, 1)
	assert.Equal(t, "pkg/latest.tar.gz", artifacts[0].S3Uploads[0].Key)

	// multiple matches append the file name to the key
	assert.Equal(t, "pkg/pkg-1.0.tar.gz", artifacts[1].S3Uploads[0].Key)
	assert.Equal(t, "pkg/pkg-1.0.whl", artifacts[2].S3Uploads[0].Key)
}

func TestCollectArtifactsNoMatches(t *testing.T) {
	env := &Environment{
		Name:           "build",
		RepositoryRoot: t.TempDir(),
		Artifacts: []*cfg.Artifact{
			{Path: "dist/*.tar.gz"},
		},
	}

	artifacts, err := env.CollectArtifacts()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}
