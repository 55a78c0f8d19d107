package envrun

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/envrun/envrun/internal/fs"
	"github.com/envrun/envrun/pkg/cfg"
)

// ArtifactFile is a file that an environment run produced.
type ArtifactFile struct {
	// Path is the absolute path of the file.
	Path string
	// Name is the path of the file relative to the repository root.
	Name      string
	SizeBytes uint64

	S3Uploads []cfg.S3Upload
}

// String returns the name of the artifact.
func (a *ArtifactFile) String() string {
	return a.Name
}

// CollectArtifacts resolves the artifact glob patterns of the environment to
// the produced files.
// Patterns are resolved relative to the repository root. A pattern that
// matches no files is not an error.
func (e *Environment) CollectArtifacts() ([]*ArtifactFile, error) {
	var result []*ArtifactFile

	for _, artifact := range e.Artifacts {
		pattern := fs.AbsPath(artifact.Path, e.RepositoryRoot)

		paths, err := fs.FileGlob(pattern)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, fmt.Errorf("resolving artifact glob %q failed: %w", artifact.Path, err)
		}

		for _, path := range paths {
			fi, err := os.Stat(path)
			if err != nil {
				return nil, err
			}

			name, err := filepath.Rel(e.RepositoryRoot, path)
			if err != nil {
				name = path
			}

			result = append(result, &ArtifactFile{
				Path:      path,
				Name:      name,
				SizeBytes: uint64(fi.Size()),
				S3Uploads: s3Destinations(artifact, name, len(paths) > 1),
			})
		}
	}

	return result, nil
}

// s3Destinations returns the upload destinations for one matched file.
// When the glob matched multiple files or the configured key ends with a
// slash, the file's base name is appended to the key.
func s3Destinations(artifact *cfg.Artifact, name string, multipleMatches bool) []cfg.S3Upload {
	result := make([]cfg.S3Upload, 0, len(artifact.S3Upload))

	for _, dest := range artifact.S3Upload {
		key := dest.Key

		if strings.HasSuffix(key, "/") {
			key += filepath.Base(name)
		} else if multipleMatches {
			key += "/" + filepath.Base(name)
		}

		result = append(result, cfg.S3Upload{
			Bucket: dest.Bucket,
			Key:    key,
		})
	}

	return result
}
