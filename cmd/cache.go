package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached query results",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cache.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s cache\n", a.settings.CacheBackend)
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache backend, TTL and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.cache.Len(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to count cache entries: %w", err)
			}

			p := message.NewPrinter(language.English)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend: %s\n", a.settings.CacheBackend)
			if a.settings.CacheDir != "" {
				fmt.Fprintf(out, "dir:     %s\n", a.settings.CacheDir)
			}
			fmt.Fprintf(out, "ttl:     %s\n", a.cache.TTL())
			p.Fprintf(out, "entries: %d\n", n)
			return nil
		},
	})

	return cacheCmd
}
