package cmd

import (
	"fmt"

	"github.com/fulmenhq/repokit/internal/gitctx"
	"github.com/fulmenhq/repokit/internal/license"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/spf13/cobra"
)

func newLicenseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Bring copyright years in the license file up to date",
		Long: `Close ranges such as "2019 - YEAR" at the current year, then replace the
remaining YEAR, {YEAR} and {{YEAR}} tokens with the current year, or with
start-current when a start year is configured.`,
		Args: cobra.NoArgs,
		RunE: runLicense,
	}
	cmd.Flags().String("file", "", "License file (env LICENSE_PATH, default LICENSE.md or the first LICENSE*/COPYING* file)")
	cmd.Flags().String("start-year", "", "First copyright year (env/config LICENSE_START_YEAR)")
	cmd.Flags().Bool("start-year-from-git", false, "Use the year of the first commit when no start year is configured")
	return cmd
}

func runLicense(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd, false, map[string]string{
		"file":                config.KeyLicensePath,
		"start-year":          config.KeyLicenseStartYear,
		"start-year-from-git": config.KeyStartYearFromGit,
	})
	if err != nil {
		return err
	}
	settings, err := ws.layers.License()
	if err != nil {
		return err
	}

	r := &license.Runner{
		FS:          ws.fs,
		Dir:         ws.dir,
		Settings:    settings,
		FirstCommit: gitctx.FirstCommitTime,
		NoOp:        ws.noOp,
	}
	res, err := r.Run()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case res.Counts.Total() == 0:
		fmt.Fprintf(out, "ℹ️ No YEAR placeholders found or already up to date in %s\n", res.Path)
	case !res.Written:
		noOpf(cmd, "Would set year(s) in %s to %s", res.Path, res.YearValue())
	case res.StartYear != "":
		fmt.Fprintf(out, "✅ Updated %s → set year(s) to %s\n", res.Path, res.YearValue())
	default:
		fmt.Fprintf(out, "✅ Updated %s → set year to %s\n", res.Path, res.CurrentYear)
	}
	return nil
}
