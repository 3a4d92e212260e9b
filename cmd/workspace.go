package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/logger"
	"github.com/fulmenhq/repokit/pkg/safeio"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

// workspace is the repository a command operates on.
type workspace struct {
	dir    string
	fs     billy.Filesystem
	layers *config.Layers
	noOp   bool
}

// openWorkspace roots a filesystem at --dir and loads the layered settings.
// bindings maps the command's own flags onto setting keys.
func openWorkspace(cmd *cobra.Command, requireConfig bool, bindings map[string]string) (*workspace, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, toolerr.Wrap(toolerr.KindConfig, err, "failed to determine working directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindConfig, err, "invalid --dir %q", dir)
	}
	if st, err := os.Stat(abs); err != nil || !st.IsDir() {
		return nil, toolerr.Configf("repository root %s is not a directory", abs)
	}

	rawConfig, _ := cmd.Flags().GetString("config")
	configPath, err := safeio.RepoPath(abs, rawConfig)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindConfig, err, "invalid --config %q", rawConfig)
	}

	fs := osfs.New(abs)
	layers, err := config.Load(fs, config.Options{
		Root:     abs,
		Path:     configPath,
		Required: requireConfig,
		Flags:    cmd.Flags(),
		Bindings: bindings,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Workspace ready",
		logger.String("dir", abs),
		logger.String("config", layers.Path()),
		logger.Bool("config_found", layers.Found()))

	noOp, _ := cmd.Flags().GetBool("no-op")
	return &workspace{dir: abs, fs: fs, layers: layers, noOp: noOp}, nil
}

// noOpf prints a dry-run report line.
func noOpf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "[NO-OP] "+format+"\n", args...)
}
