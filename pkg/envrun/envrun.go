// Package envrun implements a runner for declaratively configured, isolated
// execution environments.
package envrun

// RepositoryCfgFile is the name of the project configuration file.
const RepositoryCfgFile = ".envrun.toml"

// WorkDirEnvVar overrides the work_dir setting of the configuration file.
const WorkDirEnvVar = "ENVRUN_WORK_DIR"
