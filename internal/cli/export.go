package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Igilq/kubejs-recipes/internal/bridge"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export all recipes to a script file",
		Long: `Write the whole collection as indented JSON to the given path. Without a
.js or .json suffix, .js is appended. Defaults to the configured export path.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			path := s.cfg.Paths.ExportDefault
			if len(args) == 1 {
				path = args[0]
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			reply := s.call(bridge.Request{
				Action:   bridge.ActionExportRecipes,
				FilePath: path,
			})
			if !reply.Success {
				out.Fail(reply.Error)
				return NewExitError(ExitFailure, reply.Error)
			}
			return out.Success(fmt.Sprintf("Recipes exported successfully to %s.", reply.FilePath))
		},
	}
}
