package resolver

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/envrun/envrun/internal/vcs"
)

const (
	rootVar    = "root"
	workDirVar = "workdir"
	envDirVar  = "envdir"
	envNameVar = "envname"

	gitcommitFunc = "gitcommit"
	envFunc       = "env"
	uuidFunc      = "uuid"
	posArgsFunc   = "posargs"
)

// GoTemplate resolves strings as Go text templates.
// The template vars root, workdir, envdir and envname and the functions
// gitcommit, env, uuid and posargs are defined.
type GoTemplate struct {
	gitCommitFn  func() (string, error)
	templateVars map[string]string
	funcMap      template.FuncMap
}

func newUUID() string {
	return uuid.NewString()
}

func lookupEnv(envVarName string) (string, error) {
	envVal, exist := os.LookupEnv(envVarName)
	if !exist {
		return "", fmt.Errorf("environment variable %q is undefined", envVarName)
	}

	return envVal, nil
}

func (s *GoTemplate) gitCommit() (string, error) {
	commit, err := s.gitCommitFn()
	if errors.Is(err, vcs.ErrVCSRepositoryNotExist) {
		return "", errors.New("project is not part of a git repository")
	}

	return commit, err
}

func NewGoTemplate(root, workDir, envDir, envName string, posArgs []string, gitCommitFn func() (string, error)) *GoTemplate {
	result := &GoTemplate{
		gitCommitFn: gitCommitFn,
		templateVars: map[string]string{
			rootVar:    root,
			workDirVar: workDir,
			envDirVar:  envDir,
			envNameVar: envName,
		},
	}

	result.funcMap = template.FuncMap{
		gitcommitFunc: result.gitCommit,
		envFunc:       lookupEnv,
		uuidFunc:      newUUID,
		posArgsFunc:   func() string { return strings.Join(posArgs, " ") },
	}

	return result
}

func (s *GoTemplate) Resolve(in string) (string, error) {
	t, err := template.New("envrun").Funcs(s.funcMap).Parse(in)
	if err != nil {
		return "", fmt.Errorf("failed parsing go template: %w", err)
	}

	output := new(bytes.Buffer)
	if err = t.Execute(output, s.templateVars); err != nil {
		return "", fmt.Errorf("failed evaluating template: %w", err)
	}

	return output.String(), nil
}
