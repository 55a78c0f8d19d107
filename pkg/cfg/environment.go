package cfg

// Environment is a named, isolated execution context with its own dependency
// set and command sequences.
type Environment struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`

	Deps        []string `toml:"deps"`
	Extras      []string `toml:"extras"`
	Package     string   `toml:"package"`
	SkipInstall bool     `toml:"skip_install"`

	// InstallCommand overrides Defaults.install_command for this
	// environment.
	InstallCommand []string `toml:"install_command"`

	PassEnv []string `toml:"pass_env"`
	SetEnv  []string `toml:"set_env"`

	AllowlistExternals []string `toml:"allowlist_externals"`

	// ContainerImage makes the command sequences run in a container of
	// the given image instead of on the host.
	ContainerImage string `toml:"container_image"`

	CommandsPre  [][]string `toml:"commands_pre"`
	Commands     [][]string `toml:"commands"`
	CommandsPost [][]string `toml:"commands_post"`

	Artifacts []*Artifact `toml:"Artifact"`
}

// validate validates the environment section.
func (e *Environment) validate() error {
	if err := validateEnvName(e.Name); err != nil {
		return fieldErrorWrap(err, "name")
	}

	if err := validateEnvVarAssignments(e.SetEnv); err != nil {
		return fieldErrorWrap(err, "set_env")
	}

	if err := validatePassEnvPatterns(e.PassEnv); err != nil {
		return fieldErrorWrap(err, "pass_env")
	}

	for _, commands := range []struct {
		name string
		cmds [][]string
	}{
		{"commands_pre", e.CommandsPre},
		{"commands", e.Commands},
		{"commands_post", e.CommandsPost},
	} {
		if err := validateCommands(commands.cmds); err != nil {
			return fieldErrorWrap(err, commands.name)
		}
	}

	for _, artifact := range e.Artifacts {
		if err := artifact.validate(); err != nil {
			return fieldErrorWrap(err, "Artifact")
		}
	}

	return nil
}

// Merge merges the Defaults section into the environment.
// Defaults are prepended, the per-environment settings take precedence when
// the same variable is set in both.
func (e *Environment) Merge(defaults *Defaults) {
	e.PassEnv = append(append([]string{}, defaults.PassEnv...), e.PassEnv...)
	e.SetEnv = append(append([]string{}, defaults.SetEnv...), e.SetEnv...)

	if len(e.InstallCommand) == 0 {
		e.InstallCommand = defaults.InstallCommand
	}
}

// Resolve resolves all placeholders in the environment definition.
// Command elements that only consist of a placeholder which resolves to an
// empty string are removed from the command.
// Commands that become empty after resolution are removed entirely, they
// have no executable left to run.
func (e *Environment) Resolve(resolver Resolver) error {
	var err error

	if e.Deps, err = resolveStrSlice(resolver, e.Deps); err != nil {
		return fieldErrorWrap(err, "deps")
	}

	if e.SetEnv, err = resolveStrSlice(resolver, e.SetEnv); err != nil {
		return fieldErrorWrap(err, "set_env")
	}

	if e.InstallCommand, err = resolveStrSlice(resolver, e.InstallCommand); err != nil {
		return fieldErrorWrap(err, "install_command")
	}

	for _, commands := range []struct {
		name string
		cmds *[][]string
	}{
		{"commands_pre", &e.CommandsPre},
		{"commands", &e.Commands},
		{"commands_post", &e.CommandsPost},
	} {
		result := make([][]string, 0, len(*commands.cmds))

		for _, command := range *commands.cmds {
			resolved, err := resolveCommand(resolver, command)
			if err != nil {
				return fieldErrorWrap(err, commands.name)
			}

			if len(resolved) == 0 {
				continue
			}

			result = append(result, resolved)
		}

		if len(result) == 0 {
			result = nil
		}

		*commands.cmds = result
	}

	for _, artifact := range e.Artifacts {
		if err := artifact.resolve(resolver); err != nil {
			return fieldErrorWrap(err, "Artifact")
		}
	}

	return nil
}

func resolveStrSlice(resolver Resolver, in []string) ([]string, error) {
	var err error

	for i, elem := range in {
		if in[i], err = resolver.Resolve(elem); err != nil {
			return nil, err
		}
	}

	return in, nil
}

func resolveCommand(resolver Resolver, command []string) ([]string, error) {
	result := make([]string, 0, len(command))

	for _, elem := range command {
		resolved, err := resolver.Resolve(elem)
		if err != nil {
			return nil, err
		}

		// an argument that only contained a placeholder which
		// resolved to nothing is dropped, it must not be passed as
		// empty argument to the command
		if resolved == "" && elem != "" {
			continue
		}

		result = append(result, resolved)
	}

	return result, nil
}
