// Package cmd implements the ghprofile command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/johnsaigle/ghprofile/pkg/buildinfo"
	perrors "github.com/johnsaigle/ghprofile/pkg/errors"
	"github.com/johnsaigle/ghprofile/pkg/formatter"
	"github.com/johnsaigle/ghprofile/pkg/store"
)

type rootOptions struct {
	token        string
	configPath   string
	format       string
	cacheBackend string
	baseURL      string
	page         int
	maxPages     int
	verbose      bool
	noCache      bool
	all          bool
	noExitCode   bool
}

var opts rootOptions

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts = rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ghprofile <username>",
		Short: "Show a GitHub profile, its repositories and language usage",
		Long: `ghprofile fetches a GitHub user's profile and every public repository,
aggregates language usage across their most recent repositories, and prints a
paginated view. Results are cached locally for a few minutes.`,
		Args:          cobra.ExactArgs(1),
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
		RunE: runQuery,
	}

	rootCmd.SetVersionTemplate(buildinfo.Template())

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.token, "token", "", "GitHub token for this run (overrides the stored and default token)")
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ghprofile/config.toml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	pf.BoolVar(&opts.noCache, "no-cache", false, "neither read nor write cached results")
	pf.StringVar(&opts.cacheBackend, "cache-backend", store.BackendFile, "cache backend: file, sqlite, redis or none")
	pf.StringVar(&opts.baseURL, "base-url", "", "GitHub API root (for GitHub Enterprise)")
	pf.IntVar(&opts.maxPages, "max-pages", 0, "maximum repository pages to fetch (0 = all)")

	rootCmd.Flags().StringVarP(&opts.format, "format", "f", "console", "output format: console or json")
	rootCmd.Flags().IntVarP(&opts.page, "page", "p", 1, "repository page to show")
	rootCmd.Flags().BoolVar(&opts.all, "all", false, "list every repository instead of one page")
	rootCmd.Flags().BoolVar(&opts.noExitCode, "no-exit-code", false, "exit 0 even when the query fails")

	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmtr, err := formatter.New(opts.format, formatter.Options{
		Verbose:    opts.verbose,
		AllRepos:   opts.all,
		NoExitCode: opts.noExitCode,
	})
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := a.newViewer(ctx)
	if err != nil {
		return err
	}

	if err := v.SubmitQuery(ctx, args[0], opts.token); err != nil {
		if perrors.Is(err, perrors.KindInvalidInput) {
			return fmt.Errorf("%s", perrors.UserMessage(err))
		}
		a.logger.Debug("query ended with error", "err", err)
	}

	if opts.page != 1 && !v.GoToPage(opts.page) {
		a.logger.Warn("page out of range, showing page 1", "page", opts.page, "pages", v.Snapshot().Page.TotalPages)
	}

	snap := v.Snapshot()
	if err := fmtr.Format(cmd.OutOrStdout(), snap); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if code := fmtr.ShouldExit(snap); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
			fmt.Fprintln(cmd.OutOrStdout(), "user-agent:", buildinfo.UserAgent())
		},
	}
}
