package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Igilq/kubejs-recipes/internal/bridge"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search recipes by name, type, output, or ingredient",
		Long: `Search recipes case-insensitively. A recipe matches when the term occurs
in its name, type, output item, or any ingredient.`,
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
				Action:     bridge.ActionSearchRecipes,
				SearchTerm: args[0],
			})
			if !reply.Success {
				out.Fail(reply.Error)
				return NewExitError(ExitFailure, reply.Error)
			}

			if rootOpts.Format == "json" {
				return out.Success(reply.Results)
			}
			if len(reply.Results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No recipes found matching '%s'.\n", args[0])
				return nil
			}
			for _, m := range reply.Results {
				body, err := json.MarshalIndent(m.Recipe, "", "    ")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recipe filename: %s\n%s\n%s\n", m.Name, body, divider)
			}
			return nil
		},
	}
}
