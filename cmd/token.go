package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnsaigle/ghprofile/pkg/token"
)

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored GitHub token",
	}

	tokenCmd.AddCommand(&cobra.Command{
		Use:   "set [token]",
		Short: "Store a token for future runs (reads stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 1 {
				value = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read token: %w", err)
				}
				value = line
			}
			value = strings.TrimSpace(value)
			if value == "" {
				return fmt.Errorf("token is empty (use 'token clear' to remove it)")
			}
			return withTokens(cmd, func(s *token.Store) error {
				if err := s.Set(cmd.Context(), value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Token stored (%s)\n", token.Mask(value))
				return nil
			})
		},
	})

	tokenCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored and effective token, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			stored, err := a.tokens.Get(cmd.Context())
			if err != nil {
				return err
			}
			def := token.Default(a.settings.Token)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stored:    %s\n", token.Mask(stored))
			fmt.Fprintf(out, "default:   %s\n", token.Mask(def))
			fmt.Fprintf(out, "effective: %s\n", token.Mask(token.Resolve(opts.token, token.Resolve(stored, def))))
			return nil
		},
	})

	tokenCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTokens(cmd, func(s *token.Store) error {
				if err := s.Set(cmd.Context(), ""); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Token cleared")
				return nil
			})
		},
	})

	return tokenCmd
}

func withTokens(cmd *cobra.Command, fn func(*token.Store) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a.tokens)
}
