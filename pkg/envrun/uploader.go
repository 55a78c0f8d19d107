package envrun

import (
	"context"
	"fmt"
	"time"

	"github.com/envrun/envrun/pkg/cfg"
	"github.com/envrun/envrun/pkg/storage"
)

// S3Uploader is an interface for uploading files to AWS S3 buckets.
type S3Uploader interface {
	Upload(ctx context.Context, filepath, bucket, key string) (string, error)
}

// Uploader uploads artifacts, produced by environment runs, to remote
// locations.
type Uploader struct {
	s3client S3Uploader
}

func NewUploader(s3client S3Uploader) *Uploader {
	return &Uploader{s3client: s3client}
}

// UploadResult is the result of an upload operation.
type UploadResult struct {
	// Artifact is the artifact that was uploaded.
	Artifact *ArtifactFile
	URL      string
	Start    time.Time
	Stop     time.Time
	Method   storage.UploadMethod
}

// UploadStartFn is a function that is called before an upload operation
// starts.
type UploadStartFn func(*ArtifactFile, *cfg.S3Upload)

// UploadResultFn is a function that is called after an upload finishes.
type UploadResultFn func(*ArtifactFile, *UploadResult)

// Upload uploads an artifact to its declared destinations.
// Immediately before an upload starts uploadStartCb is called, when the
// upload finished resultCb is called.
func (u *Uploader) Upload(
	ctx context.Context,
	artifact *ArtifactFile,
	uploadStartCb UploadStartFn,
	resultCb UploadResultFn,
) error {
	for i := range artifact.S3Uploads {
		dest := &artifact.S3Uploads[i]

		uploadStartCb(artifact, dest)

		startTime := time.Now()

		url, err := u.s3client.Upload(ctx, artifact.Path, dest.Bucket, dest.Key)
		if err != nil {
			return fmt.Errorf("s3 upload of %q failed: %w", artifact.Name, err)
		}

		result := &UploadResult{
			Artifact: artifact,
			URL:      url,
			Start:    startTime,
			Stop:     time.Now(),
			Method:   storage.UploadMethodS3,
		}

		resultCb(artifact, result)
	}

	return nil
}
