package cfg

// Artifact declares files that an environment produces and where they are
// uploaded to.
type Artifact struct {
	// Path is a glob pattern, relative to the project root, matching the
	// produced files.
	Path string `toml:"path"`

	S3Upload []S3Upload `toml:"S3Upload"`
}

// S3Upload is an upload destination of an artifact in S3.
type S3Upload struct {
	Bucket string `toml:"bucket"`
	Key    string `toml:"key"`
}

func (a *Artifact) validate() error {
	if a.Path == "" {
		return newFieldError("can not be empty", "path")
	}

	for _, s3 := range a.S3Upload {
		if err := s3.validate(); err != nil {
			return fieldErrorWrap(err, "S3Upload")
		}
	}

	return nil
}

func (s *S3Upload) validate() error {
	if s.Bucket == "" {
		return newFieldError("can not be empty", "bucket")
	}

	if s.Key == "" {
		return newFieldError("can not be empty", "key")
	}

	return nil
}

func (a *Artifact) resolve(resolver Resolver) error {
	var err error

	if a.Path, err = resolver.Resolve(a.Path); err != nil {
		return fieldErrorWrap(err, "path")
	}

	for i, s3 := range a.S3Upload {
		if a.S3Upload[i].Key, err = resolver.Resolve(s3.Key); err != nil {
			return fieldErrorWrap(err, "S3Upload", "key")
		}

		if a.S3Upload[i].Bucket, err = resolver.Resolve(s3.Bucket); err != nil {
			return fieldErrorWrap(err, "S3Upload", "bucket")
		}
	}

	return nil
}
