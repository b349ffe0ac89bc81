package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Igilq/kubejs-recipes/internal/bridge"
	"github.com/Igilq/kubejs-recipes/internal/recipe"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Type        string
	Output      string
	Ingredients string
	Addon       string
	AddonURL    string
	Overwrite   bool
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or overwrite a recipe",
		Long: `Add a recipe under the given name.

Fails when the name is taken unless --overwrite is set.

Example:
  kubejs-recipes add diamond_sword --type shaped \
    --output minecraft:diamond_sword \
    --ingredients "minecraft:stick, minecraft:diamond"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return addRecipe(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", fmt.Sprintf("recipe type, one of %v", recipe.Types))
	cmd.Flags().StringVar(&opts.Output, "output", "", "output item ID")
	cmd.Flags().StringVar(&opts.Ingredients, "ingredients", "", "comma-separated ingredient item IDs")
	cmd.Flags().StringVar(&opts.Addon, "addon", "", "addon name for modded recipes")
	cmd.Flags().StringVar(&opts.AddonURL, "addon-url", "", "addon wiki URL for modded recipes")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "replace an existing recipe of the same name")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("ingredients")

	return cmd
}

func addRecipe(opts *AddOptions, name string, cmd *cobra.Command) error {
	r := recipe.Recipe{
		Type:        opts.Type,
		Output:      opts.Output,
		Ingredients: recipe.ParseIngredients(opts.Ingredients),
		Addon:       opts.Addon,
		AddonURL:    opts.AddonURL,
	}
	// Validate locally before bothering the worker.
	if err := r.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid recipe", err)
	}

	s, err := newSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	reply := s.call(bridge.Request{
		Action:     bridge.ActionSaveRecipe,
		RecipeName: name,
		Recipe:     &r,
		IsNew:      !opts.Overwrite,
	})
	if !reply.Success {
		out.Fail(reply.Error)
		return NewExitError(ExitFailure, reply.Error)
	}
	return out.Success(fmt.Sprintf("Recipe '%s' saved.", name))
}
