package cmd

import (
	"fmt"

	"github.com/fulmenhq/repokit/internal/secpolicy"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/logger"
	"github.com/spf13/cobra"
)

func newEmailCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Set the contact email in the security policy",
		Long: `Replace the placeholder address example@hello.com in .github/SECURITY.md with
CONTACT_EMAIL from the repo config. A policy without the placeholder is left as is.`,
		Args: cobra.NoArgs,
		RunE: runEmail,
	}
	cmd.Flags().String("file", "", "Security policy (env SECURITY_PATH, default .github/SECURITY.md)")
	cmd.Flags().String("email", "", "Contact address (config CONTACT_EMAIL)")
	return cmd
}

func runEmail(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd, true, map[string]string{
		"file":  config.KeySecurityPath,
		"email": config.KeyContactEmail,
	})
	if err != nil {
		return err
	}
	settings, err := ws.layers.Email()
	if err != nil {
		return err
	}

	r := &secpolicy.Runner{FS: ws.fs, Settings: settings, NoOp: ws.noOp}
	res, err := r.Run()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case res.Replaced == 0:
		logger.Warn("Placeholder not found", logger.String("placeholder", secpolicy.Placeholder), logger.String("path", res.Path))
		fmt.Fprintf(out, "⚠️ Placeholder '%s' not found in %s, no changes made.\n", secpolicy.Placeholder, res.Path)
	case res.UpToDate:
		fmt.Fprintf(out, "ℹ️ %s already uses '%s', nothing to change.\n", res.Path, res.Email)
	case !res.Written:
		noOpf(cmd, "Would replace '%s' with '%s' in %s", secpolicy.Placeholder, res.Email, res.Path)
	default:
		fmt.Fprintf(out, "✅ Replaced '%s' with '%s' in %s\n", secpolicy.Placeholder, res.Email, res.Path)
	}
	return nil
}
