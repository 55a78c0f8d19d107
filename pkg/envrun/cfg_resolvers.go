package envrun

import (
	"github.com/envrun/envrun/pkg/cfg/resolver"
)

// defaultCfgResolvers returns the set of resolvers that is applied on
// environment configs.
func defaultCfgResolvers(
	rootPath, workDir, envDir, envName string,
	posArgs []string,
	gitCommitFn func() (string, error),
) resolver.Resolver {
	return resolver.List{
		resolver.NewGoTemplate(rootPath, workDir, envDir, envName, posArgs, gitCommitFn),
	}
}
