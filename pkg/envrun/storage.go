package envrun

import (
	"context"
	"errors"

	"github.com/envrun/envrun/internal/vcs"
	"github.com/envrun/envrun/pkg/storage"
)

// StoreRun stores the result of an environment run in an envrun storage.
// Runs outside of a vcs repository are stored without revision information.
func StoreRun(
	ctx context.Context,
	storer storage.Storer,
	vcsState vcs.StateFetcher,
	runResult *RunResult,
	uploads []*UploadResult,
) (int, error) {
	commitID, err := vcsState.CommitID()
	if err != nil && !errors.Is(err, vcs.ErrVCSRepositoryNotExist) {
		return -1, err
	}

	isDirty, err := vcsState.WorktreeIsDirty()
	if err != nil && !errors.Is(err, vcs.ErrVCSRepositoryNotExist) {
		return -1, err
	}

	commands := make([]*storage.CommandRun, 0, len(runResult.Commands))
	for _, cmd := range runResult.Commands {
		commands = append(commands, &storage.CommandRun{
			Phase:          cmd.Phase,
			Command:        cmd.Command,
			ExitCode:       cmd.ExitCode,
			StartTimestamp: cmd.StartTime,
			StopTimestamp:  cmd.StopTime,
		})
	}

	er := storage.EnvRunFull{
		EnvRun: storage.EnvRun{
			EnvironmentName: runResult.Environment.Name,
			VCSRevision:     commitID,
			VCSIsDirty:      isDirty,
			StartTimestamp:  runResult.StartTime,
			StopTimestamp:   runResult.StopTime,
			Result:          runResult.Result,
		},
		Commands:  commands,
		Artifacts: toStorageArtifacts(uploads),
	}

	return storer.SaveEnvRun(ctx, &er)
}

func toStorageArtifacts(uploadResults []*UploadResult) []*storage.Artifact {
	resultMap := make(map[*ArtifactFile]*storage.Artifact, len(uploadResults))
	var order []*ArtifactFile

	for _, uploadResult := range uploadResults {
		artifact, exist := resultMap[uploadResult.Artifact]
		if !exist {
			artifact = &storage.Artifact{
				Name:      uploadResult.Artifact.Name,
				SizeBytes: uploadResult.Artifact.SizeBytes,
			}

			resultMap[uploadResult.Artifact] = artifact
			order = append(order, uploadResult.Artifact)
		}

		artifact.Uploads = append(artifact.Uploads, &storage.Upload{
			URI:                  uploadResult.URL,
			Method:               uploadResult.Method,
			UploadStartTimestamp: uploadResult.Start,
			UploadStopTimestamp:  uploadResult.Stop,
		})
	}

	result := make([]*storage.Artifact, 0, len(order))
	for _, file := range order {
		result = append(result, resultMap[file])
	}

	return result
}
