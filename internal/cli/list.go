package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Igilq/kubejs-recipes/internal/bridge"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List all recipes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			reply := s.call(bridge.Request{Action: bridge.ActionLoadRecipes})
			if !reply.Success {
				out.Fail(reply.Error)
				return NewExitError(ExitFailure, reply.Error)
			}

			if rootOpts.Format == "json" {
				return out.Success(reply.Recipes)
			}

			names := reply.Recipes.Names()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes found.")
				return nil
			}
			for _, name := range names {
				r, _ := reply.Recipes.Get(name)
				body, err := json.MarshalIndent(r, "", "    ")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recipe filename: %s\n%s\n%s\n", name, body, divider)
			}
			return nil
		},
	}
}

const divider = "------------------------------"
