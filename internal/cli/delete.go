package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Igilq/kubejs-recipes/internal/bridge"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a recipe",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			reply := s.call(bridge.Request{
				Action:     bridge.ActionDeleteRecipe,
				RecipeName: args[0],
			})
			if !reply.Success {
				out.Fail(reply.Error)
				return NewExitError(ExitFailure, reply.Error)
			}
			return out.Success(fmt.Sprintf("Recipe '%s' deleted.", args[0]))
		},
	}
}
