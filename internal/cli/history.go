package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit  int
	Recipe string
}

// NewHistoryCommand creates the history command.
// History reads the mutation journal directly; it does not go through the
// worker because the journal supports concurrent reads.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "Show recent recipe mutations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			if s.journal == nil {
				return NewExitError(ExitCommandError, "mutation journal is unavailable")
			}

			ctx := cmd.Context()
			entries, err := s.journal.Recent(ctx, opts.Limit)
			if opts.Recipe != "" {
				entries, err = s.journal.ForRecipe(ctx, opts.Recipe)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read journal", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No mutations recorded.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-14s %s\n",
					e.AppliedAt.Local().Format(time.DateTime), e.Action, e.RecipeName)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVar(&opts.Recipe, "recipe", "", "show the full history of one recipe")

	return cmd
}
