package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Igilq/kubejs-recipes/internal/bridge"
)

// AddonsOptions holds flags for the addons command.
type AddonsOptions struct {
	*RootOptions
	Refresh bool
}

// NewAddonsCommand creates the addons command.
func NewAddonsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddonsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "addons",
		Short:         "List KubeJS addons from the wiki",
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
			reply := s.call(bridge.Request{
				Action:  bridge.ActionFetchAddons,
				Refresh: opts.Refresh,
			})
			if !reply.Success {
				out.Fail(reply.Error)
				return NewExitError(ExitFailure, reply.Error)
			}

			if rootOpts.Format == "json" {
				return out.Success(reply.Addons)
			}
			for i, a := range reply.Addons {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n   %s\n", i+1, a.Name, a.URL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the local cache and re-fetch from the web")

	return cmd
}
