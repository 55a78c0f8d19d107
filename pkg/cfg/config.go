package cfg

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Version identifies the format of the configuration files that the
// package can parse. Whenever an incompatible change is made, the
// Version number is increased.
const Version int = 1

// Config is the envrun project configuration.
// It declares the environments that can be run plus shared defaults.
type Config struct {
	ConfigVersion int `toml:"config_version"`

	Defaults Defaults
	Database Database

	Environments []*Environment `toml:"Environment"`

	filePath string
}

// Database contains the run-history database configuration.
type Database struct {
	PGSQLURL string `toml:"postgresql_url"`
}

// Defaults is the global section of the configuration.
// Its settings apply to all environments, per-environment settings take
// precedence.
type Defaults struct {
	EnvList                []string `toml:"env_list"`
	WorkDir                string   `toml:"work_dir"`
	SkipMissingExecutables bool     `toml:"skip_missing_executables"`
	InstallCommand         []string `toml:"install_command"`
	PassEnv                []string `toml:"pass_env"`
	SetEnv                 []string `toml:"set_env"`
}

// FromFile reads the configuration from a file and returns it.
func FromFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Config{}
	err = toml.Unmarshal(content, &config)
	if err != nil {
		return nil, err
	}

	config.filePath = path

	return &config, nil
}

// ExampleConfig returns an exemplary configuration declaring a test and a
// lint environment.
func ExampleConfig() *Config {
	return &Config{
		ConfigVersion: Version,

		Defaults: Defaults{
			EnvList:        []string{"test", "lint"},
			WorkDir:        ".envrun",
			InstallCommand: []string{"python3", "-m", "pip", "install"},
			PassEnv:        []string{"HOME", "TERM", "USER", "CI", "GITHUB_*"},
			SetEnv:         []string{"FORCE_COLOR=1"},
		},

		Database: Database{
			PGSQLURL: "postgres://postgres@localhost:5432/envrun?sslmode=disable&connect_timeout=5",
		},

		Environments: []*Environment{
			{
				Name:        "test",
				Description: "run the unit tests",
				Deps:        []string{"pytest"},
				Extras:      []string{"test"},
				Package:     ".",
				SetEnv:      []string{"COVERAGE_FILE={{ .envdir }}/.coverage"},
				Commands: [][]string{
					{"pytest", "-v", "{{ posargs }}"},
				},
			},
			{
				Name:               "lint",
				Description:        "run the linters",
				SkipInstall:        true,
				Deps:               []string{"pre-commit"},
				AllowlistExternals: []string{"git"},
				Commands: [][]string{
					{"pre-commit", "run", "--all-files"},
				},
			},
		},
	}
}

// ToFile writes the configuration in TOML format to filepath.
func (c *Config) ToFile(filepath string, opts ...toFileOpt) error {
	return toFile(c, filepath, opts...)
}

// FilePath returns the path of the file the configuration was loaded from.
func (c *Config) FilePath() string {
	return c.filePath
}

// Environment returns the environment definition with the given name or nil
// if it does not exist.
func (c *Config) Environment(name string) *Environment {
	for _, env := range c.Environments {
		if env.Name == name {
			return env
		}
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ConfigVersion == 0 {
		return newFieldError("can not be unset or 0", "config_version")
	}
	if c.ConfigVersion != Version {
		return fmt.Errorf("incompatible configuration file\n"+
			"config_version value is %d, expecting version: %d\n"+
			"Update your envrun configuration file or downgrade envrun.", c.ConfigVersion, Version)
	}

	if err := c.Defaults.validate(c); err != nil {
		return fieldErrorWrap(err, "Defaults")
	}

	names := make(map[string]struct{}, len(c.Environments))
	for _, env := range c.Environments {
		if err := env.validate(); err != nil {
			return fieldErrorWrap(err, "Environment")
		}

		if _, exist := names[env.Name]; exist {
			return newFieldError(
				fmt.Sprintf("environment %q is declared multiple times, names must be unique", env.Name),
				"Environment", "name")
		}
		names[env.Name] = struct{}{}
	}

	return nil
}

// validate validates the Defaults section and sets defaults.
func (d *Defaults) validate(c *Config) error {
	if d.WorkDir == "" {
		d.WorkDir = ".envrun"
	}

	if len(d.InstallCommand) == 0 {
		d.InstallCommand = []string{"python3", "-m", "pip", "install"}
	}

	for _, name := range d.EnvList {
		if c.Environment(name) == nil {
			return newFieldError(
				fmt.Sprintf("environment %q is listed but not declared", name),
				"env_list")
		}
	}

	if err := validateEnvVarAssignments(d.SetEnv); err != nil {
		return fieldErrorWrap(err, "set_env")
	}

	if err := validatePassEnvPatterns(d.PassEnv); err != nil {
		return fieldErrorWrap(err, "pass_env")
	}

	return nil
}
