package cmd

import (
	"context"
	"fmt"

	"github.com/fulmenhq/repokit/internal/indexpage"
	"github.com/fulmenhq/repokit/pkg/buildinfo"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/github"
	"github.com/spf13/cobra"
)

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Render index.html from GitHub repository metadata and the README",
		Long: `Fetch name, description and homepage for a repository from the GitHub API and
render a static landing page that embeds the README for client-side rendering.

The repository may be given as owner/name, a web URL, or an API URL.`,
		Args: cobra.NoArgs,
		RunE: runIndex,
	}
	cmd.Flags().String("repo", "", "Repository identifier (env INPUT_STORE)")
	cmd.Flags().String("readme", "", "README to embed (env README_PATH, default README.md)")
	cmd.Flags().String("out", "", "Output HTML path (env INDEX_OUT, default index.html)")
	cmd.Flags().String("sitemap", "", "Also write a sitemap to this path (env SITEMAP_OUT)")
	addGitHubFlags(cmd)
	return cmd
}

// addGitHubFlags registers the flags shared by commands that call the API.
func addGitHubFlags(cmd *cobra.Command) {
	cmd.Flags().String("token", "", "GitHub token (env GITHUB_TOKEN or GH_TOKEN)")
	cmd.Flags().String("api-url", "", "GitHub API root (env GITHUB_API_URL)")
	cmd.Flags().String("timeout", "", "Network deadline, e.g. 20s (env REPOKIT_TIMEOUT)")
}

var githubBindings = map[string]string{
	"token":   config.KeyToken,
	"api-url": config.KeyAPIURL,
	"timeout": config.KeyTimeout,
}

func withGitHubBindings(own map[string]string) map[string]string {
	out := make(map[string]string, len(own)+len(githubBindings))
	for k, v := range githubBindings {
		out[k] = v
	}
	for k, v := range own {
		out[k] = v
	}
	return out
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd, false, withGitHubBindings(map[string]string{
		"repo":    config.KeyInputStore,
		"readme":  config.KeyReadmePath,
		"out":     config.KeyIndexOut,
		"sitemap": config.KeySitemapOut,
	}))
	if err != nil {
		return err
	}
	settings, err := ws.layers.Index()
	if err != nil {
		return err
	}

	client := github.NewClient(settings.Token, settings.Timeout,
		github.WithEndpoints(settings.Endpoints),
		github.WithUserAgent(buildinfo.UserAgent()))

	ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
	defer cancel()

	gen := &indexpage.Generator{FS: ws.fs, Fetcher: client, Settings: settings, NoOp: ws.noOp}
	res, err := gen.Run(ctx)
	if err != nil {
		return err
	}

	if !res.Written {
		noOpf(cmd, "Would write %s (%d bytes) for %s", res.OutputPath, res.Bytes, res.Page.SiteURL)
		if res.SitemapPath != "" {
			noOpf(cmd, "Would write %s", res.SitemapPath)
		}
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", res.OutputPath)
	if res.SitemapPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", res.SitemapPath)
	}
	return nil
}
