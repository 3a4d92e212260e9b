package cmd

import (
	"context"
	"fmt"

	"github.com/fulmenhq/repokit/internal/links"
	"github.com/fulmenhq/repokit/pkg/buildinfo"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/github"
	"github.com/spf13/cobra"
)

func newLinksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Replace the placeholder repo and DATE token in the README",
		Long: `Replace every occurrence of the configured placeholder (PLACEHOLDER_REPO) with
owner/name and every DATE token with today's date ("09 Aug 25").

The name comes from the git remote, the owner from the authenticated GitHub
user. Either falls back to the configured default when it cannot be found.`,
		Args: cobra.NoArgs,
		RunE: runLinks,
	}
	cmd.Flags().String("file", "", "File to rewrite (env LINKS_PATH, default README.md)")
	cmd.Flags().String("placeholder", "", "Placeholder to replace (config PLACEHOLDER_REPO)")
	cmd.Flags().String("owner", "", "Owner used when the identity lookup fails (config DEFAULT_OWNER)")
	cmd.Flags().String("remote", "", "Git remote that names the repository (default origin)")
	addGitHubFlags(cmd)
	return cmd
}

func runLinks(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd, true, withGitHubBindings(map[string]string{
		"file":        config.KeyLinksPath,
		"placeholder": config.KeyPlaceholderRepo,
		"owner":       config.KeyDefaultOwner,
		"remote":      config.KeyRemote,
	}))
	if err != nil {
		return err
	}
	settings, err := ws.layers.Links()
	if err != nil {
		return err
	}

	client := github.NewClient(settings.Token, settings.Timeout,
		github.WithEndpoints(settings.Endpoints),
		github.WithUserAgent(buildinfo.UserAgent()))

	ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
	defer cancel()

	r := &links.Runner{FS: ws.fs, Dir: ws.dir, Settings: settings, Identity: client, NoOp: ws.noOp}
	res, err := r.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case !res.Changed():
		fmt.Fprintf(out, "ℹ️ No placeholders found or already up to date in %s\n", res.Path)
	case !res.Written:
		noOpf(cmd, "Would replace %d placeholder(s) with '%s' and %d date token(s) in %s",
			res.Placeholders, res.Repo, res.Dates, res.Path)
	default:
		fmt.Fprintf(out, "✅ Replaced %d placeholder(s) with '%s' and %d date token(s) in %s\n",
			res.Placeholders, res.Repo, res.Dates, res.Path)
	}
	return nil
}
