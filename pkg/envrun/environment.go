package envrun

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/envrun/envrun/pkg/cfg"
)

// Environment is a runnable, resolved instance of an environment
// declaration.
type Environment struct {
	Name        string
	Description string

	RepositoryRoot string
	// Directory is the work directory of the environment.
	Directory string

	Deps           []string
	Extras         []string
	Package        string
	SkipInstall    bool
	InstallCommand []string

	PassEnv []string
	SetEnv  []string

	AllowlistExternals []string
	ContainerImage     string

	CommandsPre  [][]string
	Commands     [][]string
	CommandsPost [][]string

	Artifacts []*cfg.Artifact

	// IsDefault is true when the environment is part of the configured
	// default environment list.
	IsDefault bool
}

// NewEnvironment returns an Environment for a merged and resolved
// environment config.
func NewEnvironment(envCfg *cfg.Environment, repositoryRoot, directory string) *Environment {
	return &Environment{
		Name:               envCfg.Name,
		Description:        envCfg.Description,
		RepositoryRoot:     repositoryRoot,
		Directory:          directory,
		Deps:               envCfg.Deps,
		Extras:             envCfg.Extras,
		Package:            envCfg.Package,
		SkipInstall:        envCfg.SkipInstall,
		InstallCommand:     envCfg.InstallCommand,
		PassEnv:            envCfg.PassEnv,
		SetEnv:             envCfg.SetEnv,
		AllowlistExternals: envCfg.AllowlistExternals,
		ContainerImage:     envCfg.ContainerImage,
		CommandsPre:        envCfg.CommandsPre,
		Commands:           envCfg.Commands,
		CommandsPost:       envCfg.CommandsPost,
		Artifacts:          envCfg.Artifacts,
	}
}

// String returns the environment name.
func (e *Environment) String() string {
	return e.Name
}

// InstallTarget returns the package installation argument, including the
// extras suffix, or an empty string when the environment declares no
// package.
func (e *Environment) InstallTarget() string {
	if e.Package == "" {
		return ""
	}

	if len(e.Extras) == 0 {
		return e.Package
	}

	return fmt.Sprintf("%s[%s]", e.Package, strings.Join(e.Extras, ","))
}

// ProcessEnv returns the environment variables of the environment's
// processes.
// environ entries whose name matches one of the PassEnv patterns are
// inherited, SetEnv assignments are appended afterwards and take precedence.
func (e *Environment) ProcessEnv(environ []string) []string {
	result := make([]string, 0, len(e.SetEnv))

	for _, assignment := range environ {
		name, _, found := strings.Cut(assignment, "=")
		if !found {
			continue
		}

		for _, pattern := range e.PassEnv {
			match, err := doublestar.Match(pattern, name)
			if err != nil {
				// patterns were validated when the config was
				// loaded
				continue
			}

			if match {
				result = append(result, assignment)
				break
			}
		}
	}

	return append(result, e.SetEnv...)
}

// SortEnvironmentsByName sorts the environments slice by their names.
func SortEnvironmentsByName(environments []*Environment) {
	sort.Slice(environments, func(i, j int) bool {
		return environments[i].Name < environments[j].Name
	})
}
