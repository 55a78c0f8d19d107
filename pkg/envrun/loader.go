package envrun

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/envrun/envrun/internal/set"
	"github.com/envrun/envrun/pkg/cfg"
)

// Logger is the interface for logging debug informations.
type Logger interface {
	Debugf(format string, v ...interface{})
}

// Loader instantiates runnable environments from the repository
// configuration.
type Loader struct {
	logger      Logger
	repo        *Repository
	posArgs     []string
	gitCommitFn func() (string, error)
}

// NewLoader instantiates a Loader.
// posArgs are substituted for "{{ posargs }}" placeholders, gitCommitFn
// resolves "{{ gitcommit }}" placeholders in environment configs.
func NewLoader(repo *Repository, posArgs []string, gitCommitFn func() (string, error), logger Logger) *Loader {
	return &Loader{
		logger:      logger,
		repo:        repo,
		posArgs:     posArgs,
		gitCommitFn: gitCommitFn,
	}
}

// LoadEnvironments loads the environments with the given names, in the given
// order.
// The special name "*" loads all declared environments.
// When no name is passed, the environments of the Defaults env_list setting
// are loaded.
// Duplicate names are only loaded and returned once.
func (l *Loader) LoadEnvironments(names ...string) ([]*Environment, error) {
	// the config is re-read per load, resolving modifies it and
	// placeholders like uuid must resolve anew
	config, err := cfg.FromFile(l.repo.CfgPath)
	if err != nil {
		return nil, fmt.Errorf("reading repository config %q failed: %w", l.repo.CfgPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating repository config %q failed: %w", l.repo.CfgPath, err)
	}

	if len(names) == 0 {
		if len(config.Defaults.EnvList) == 0 {
			return nil, fmt.Errorf("no environment names were specified and env_list in %s is empty", l.repo.CfgPath)
		}

		names = config.Defaults.EnvList
		l.logger.Debugf("loader: no environments specified, running env_list: %q", names)
	}

	if slices.Contains(names, "*") {
		names = make([]string, 0, len(config.Environments))
		for _, envCfg := range config.Environments {
			names = append(names, envCfg.Name)
		}
	}

	result := make([]*Environment, 0, len(names))
	loaded := make(set.Set[string], len(names))

	for _, name := range names {
		if loaded.Contains(name) {
			continue
		}
		loaded.Add(name)

		env, err := l.load(config, name)
		if err != nil {
			return nil, err
		}

		result = append(result, env)
	}

	return result, nil
}

func (l *Loader) load(config *cfg.Config, name string) (*Environment, error) {
	envCfg := config.Environment(name)
	if envCfg == nil {
		return nil, fmt.Errorf("environment %q is not declared in %s", name, l.repo.CfgPath)
	}

	l.logger.Debugf("loader: loading environment %q", name)

	envDir := filepath.Join(l.repo.WorkDir, name)

	envCfg.Merge(&config.Defaults)

	resolvers := defaultCfgResolvers(l.repo.Path, l.repo.WorkDir, envDir, name, l.posArgs, l.gitCommitFn)
	if err := envCfg.Resolve(resolvers); err != nil {
		return nil, fmt.Errorf("environment %q: resolving variables in config failed: %w", name, err)
	}

	env := NewEnvironment(envCfg, l.repo.Path, envDir)
	env.IsDefault = slices.Contains(config.Defaults.EnvList, name)

	return env, nil
}
