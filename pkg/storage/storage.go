// Package storage provides an interface for envrun run-history storage
// implementations.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist indicates that a record does not exist
var ErrNotExist = errors.New("does not exist")

// ErrExists indicates that the database or a record already exist.
var ErrExists = errors.New("already exists")

// Result is the outcome of an environment run.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultSkipped Result = "skipped"
)

// Phase describes in which command sequence of an environment a command ran.
type Phase string

const (
	PhaseInstall Phase = "install"
	PhasePre     Phase = "pre"
	PhaseMain    Phase = "main"
	PhasePost    Phase = "post"
)

// UploadMethod is the method that was used to upload an artifact.
type UploadMethod string

const (
	UploadMethodS3 UploadMethod = "s3"
)

// CommandRun describes the execution of a single command of an environment.
type CommandRun struct {
	Phase          Phase
	Command        string
	ExitCode       int
	StartTimestamp time.Time
	StopTimestamp  time.Time
}

// Upload contains informations about an artifact upload.
type Upload struct {
	URI                  string
	Method               UploadMethod
	UploadStartTimestamp time.Time
	UploadStopTimestamp  time.Time
}

// Artifact is a file that an environment run produced.
type Artifact struct {
	Name      string
	SizeBytes uint64
	Uploads   []*Upload
}

// EnvRun describes a recorded environment run.
type EnvRun struct {
	EnvironmentName string
	VCSRevision     string
	VCSIsDirty      bool
	StartTimestamp  time.Time
	StopTimestamp   time.Time
	Result          Result
}

// EnvRunFull is an EnvRun plus its command and artifact records.
type EnvRunFull struct {
	EnvRun
	Commands  []*CommandRun
	Artifacts []*Artifact
}

type EnvRunWithID struct {
	ID int
	EnvRun
}

const (
	NoLimit uint = 0
)

// Storer is an interface for storing and retrieving environment runs.
type Storer interface {
	Close() error

	// SchemaVersion returns the version of the schema that the storage is
	// using.
	SchemaVersion(ctx context.Context) (int32, error)
	// RequiredSchemaVersion returns the schema version that the Storer
	// implementation requires.
	RequiredSchemaVersion() int32
	// IsCompatible verifies that the storage is compatible with the
	// envrun version
	IsCompatible(context.Context) error
	// Init initializes a storage, e.g. creating the database scheme.
	// If it already exist, ErrExists is returned.
	Init(context.Context) error

	SaveEnvRun(context.Context, *EnvRunFull) (id int, err error)

	EnvRun(ctx context.Context, id int) (*EnvRunWithID, error)
	// EnvRuns queries the storage for runs that match the filters.
	// A limit value of NoLimit will return all results.
	// The found results are passed in iterative manner to the callback
	// function. When the callback function returns an error, the
	// iteration stops.
	// When no matching records exist, the method returns ErrNotExist.
	EnvRuns(ctx context.Context,
		filters []*Filter,
		sorters []*Sorter,
		limit uint,
		callback func(*EnvRunWithID) error,
	) error

	// CommandRuns returns the command records of an environment run. If
	// no records were found, the method returns ErrNotExist.
	CommandRuns(ctx context.Context, envRunID int) ([]*CommandRun, error)
}
