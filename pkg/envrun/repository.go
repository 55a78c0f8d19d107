package envrun

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/envrun/envrun/internal/fs"
	"github.com/envrun/envrun/pkg/cfg"
)

// Repository represents a directory tree that contains an envrun
// configuration file.
type Repository struct {
	Path    string
	CfgPath string
	Cfg     *cfg.Config

	// WorkDir is the absolute path of the directory containing the
	// per-environment work directories.
	WorkDir string
}

// FindRepositoryCfg searches for a repository config file. The search starts
// in dir and traverses the parent directory down to the root.
// It returns the path to the first found repository configuration file.
func FindRepositoryCfg(dir string) (string, error) {
	return fs.FindFileInParentDirs(dir, RepositoryCfgFile)
}

// NewRepository parses the repository configuration file cfgPath and returns
// a Repository.
// When the ENVRUN_WORK_DIR environment variable is set, it overrides the
// work_dir setting of the configuration.
func NewRepository(cfgPath string) (*Repository, error) {
	realCfgPath, err := fs.RealPath(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing repository config path %q failed: %w", cfgPath, err)
	}

	repoCfg, err := cfg.FromFile(realCfgPath)
	if err != nil {
		return nil, fmt.Errorf(
			"reading repository config %q failed: %w", realCfgPath, err)
	}

	err = repoCfg.Validate()
	if err != nil {
		return nil, fmt.Errorf(
			"validating repository config %q failed: %w", realCfgPath, err)
	}

	repoPath := filepath.Dir(realCfgPath)

	workDir := repoCfg.Defaults.WorkDir
	if envWorkDir := os.Getenv(WorkDirEnvVar); envWorkDir != "" {
		workDir = envWorkDir
	}
	workDir = fs.AbsPath(workDir, repoPath)

	r := Repository{
		Cfg:     repoCfg,
		CfgPath: realCfgPath,
		Path:    repoPath,
		WorkDir: workDir,
	}

	return &r, nil
}
