package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Igilq/kubejs-recipes/internal/addons"
	"github.com/Igilq/kubejs-recipes/internal/bridge"
	"github.com/Igilq/kubejs-recipes/internal/recipe"
)

// NewMenuCommand creates the menu command. The root command runs the same
// loop when invoked without a subcommand.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "menu",
		Short:         "Run the interactive menu",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(rootOpts, cmd)
		},
	}
}

// menuUI is one interactive session: the worker behind a bridge client,
// plus the user's input stream.
type menuUI struct {
	s   *session
	in  *bufio.Scanner
	out io.Writer
}

func runMenu(opts *RootOptions, cmd *cobra.Command) error {
	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ui := &menuUI{
		s:   s,
		in:  bufio.NewScanner(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
	return ui.run()
}

func (ui *menuUI) run() error {
	for {
		fmt.Fprintln(ui.out)
		fmt.Fprintln(ui.out, "KubeJS Recipe Manager")
		fmt.Fprintln(ui.out, strings.Repeat("=", 30))
		fmt.Fprintln(ui.out, "1. Create a new recipe")
		fmt.Fprintln(ui.out, "2. Edit an existing recipe")
		fmt.Fprintln(ui.out, "3. Delete a recipe")
		fmt.Fprintln(ui.out, "4. View all recipes")
		fmt.Fprintln(ui.out, "5. Search recipes")
		fmt.Fprintln(ui.out, "6. Export recipes")
		fmt.Fprintln(ui.out, "7. Exit")
		fmt.Fprintln(ui.out, strings.Repeat("=", 30))

		choice, ok := ui.prompt("Enter your choice (1-7): ")
		if !ok {
			// Input stream ended; treat like exit.
			return nil
		}

		switch choice {
		case "1":
			ui.createRecipe()
		case "2":
			ui.editRecipe("")
		case "3":
			ui.deleteRecipe()
		case "4":
			ui.viewRecipes()
		case "5":
			ui.searchRecipes()
		case "6":
			ui.exportRecipes()
		case "7":
			fmt.Fprintln(ui.out, "Thank you for using KubeJS Recipe Manager!")
			return nil
		default:
			fmt.Fprintln(ui.out, "Invalid choice. Please enter a number between 1 and 7.")
		}
	}
}

// prompt prints a label and reads one trimmed line.
// Returns false when input is exhausted.
func (ui *menuUI) prompt(label string) (string, bool) {
	fmt.Fprint(ui.out, label)
	if !ui.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(ui.in.Text()), true
}

func (ui *menuUI) createRecipe() {
	name, ok := ui.prompt("Enter the recipe filename (without extension): ")
	if !ok || name == "" {
		fmt.Fprintln(ui.out, "Recipe filename cannot be empty.")
		return
	}

	addon := ui.chooseAddon()

	fmt.Fprintln(ui.out, "\nSelect recipe type:")
	for i, rt := range recipe.Types {
		fmt.Fprintf(ui.out, "%d. %s\n", i+1, rt)
	}
	selection, _ := ui.prompt(fmt.Sprintf("Enter number (1-%d): ", len(recipe.Types)))
	idx, err := strconv.Atoi(selection)
	if err != nil || idx < 1 || idx > len(recipe.Types) {
		fmt.Fprintf(ui.out, "Invalid selection. Please enter a number between 1 and %d.\n", len(recipe.Types))
		return
	}

	output, _ := ui.prompt("Enter the output item: ")
	if output == "" {
		fmt.Fprintln(ui.out, "Output item cannot be empty.")
		return
	}
	ingredientsInput, _ := ui.prompt("Enter the ingredients (comma-separated): ")
	ingredients := recipe.ParseIngredients(ingredientsInput)
	if len(ingredients) == 0 {
		fmt.Fprintln(ui.out, "At least one valid ingredient is required.")
		return
	}

	r := recipe.Recipe{
		Type:        recipe.Types[idx-1],
		Output:      output,
		Ingredients: ingredients,
	}
	if addon != nil {
		r.Addon = addon.Name
		r.AddonURL = addon.URL
	}

	reply := ui.s.call(bridge.Request{
		Action:     bridge.ActionSaveRecipe,
		RecipeName: name,
		Recipe:     &r,
		IsNew:      true,
	})
	if !reply.Success {
		fmt.Fprintln(ui.out, reply.Error)
		return
	}
	fmt.Fprintln(ui.out, "Recipe created successfully.")
	ui.editRecipe(name)
}

// chooseAddon asks normal vs modded; for modded it fetches the addon list
// and lets the user pick one. Returns nil for a normal recipe.
func (ui *menuUI) chooseAddon() *addons.Addon {
	fmt.Fprintln(ui.out, "\nSelect recipe mode:")
	fmt.Fprintln(ui.out, "1. Normal recipe")
	fmt.Fprintln(ui.out, "2. Modded recipe (using KubeJS addons)")
	mode, _ := ui.prompt("Enter your choice (1-2): ")
	if mode != "2" {
		return nil
	}

	fmt.Fprintln(ui.out, "\nFetching KubeJS addons...")
	reply := ui.s.call(bridge.Request{Action: bridge.ActionFetchAddons})
	if !reply.Success || len(reply.Addons) == 0 {
		fmt.Fprintln(ui.out, "No addons found or error fetching addons. Defaulting to normal recipe.")
		return nil
	}

	fmt.Fprintln(ui.out, "\nAvailable KubeJS addons:")
	for i, a := range reply.Addons {
		fmt.Fprintf(ui.out, "%d. %s\n", i+1, a.Name)
	}
	choice, _ := ui.prompt(fmt.Sprintf("Enter addon number (1-%d) or 0 to cancel: ", len(reply.Addons)))
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 0 || idx > len(reply.Addons) {
		fmt.Fprintln(ui.out, "Invalid selection. Defaulting to normal recipe.")
		return nil
	}
	if idx == 0 {
		fmt.Fprintln(ui.out, "Addon selection cancelled. Defaulting to normal recipe.")
		return nil
	}

	a := reply.Addons[idx-1]
	fmt.Fprintf(ui.out, "\nUsing addon: %s\n", a.Name)
	fmt.Fprintf(ui.out, "Addon URL: %s\n", a.URL)
	return &a
}

// editRecipe updates a recipe in place. Blank answers keep the current
// value for that field.
func (ui *menuUI) editRecipe(name string) {
	if name == "" {
		var ok bool
		name, ok = ui.prompt("Enter the recipe filename to edit: ")
		if !ok || name == "" {
			fmt.Fprintln(ui.out, "Recipe filename cannot be empty.")
			return
		}
	}

	current, ok := ui.loadRecipe(name)
	if !ok {
		fmt.Fprintln(ui.out, "Recipe not found.")
		return
	}

	fmt.Fprintln(ui.out, "Current recipe:")
	ui.printRecipe(current)

	fmt.Fprintln(ui.out, "Select recipe type (or press Enter to keep the current type):")
	fmt.Fprintln(ui.out, "0. Keep current type")
	for i, rt := range recipe.Types {
		fmt.Fprintf(ui.out, "%d. %s\n", i+1, rt)
	}
	selection, _ := ui.prompt(fmt.Sprintf("Enter number (0-%d): ", len(recipe.Types)))
	if selection != "" && selection != "0" {
		idx, err := strconv.Atoi(selection)
		if err != nil || idx < 1 || idx > len(recipe.Types) {
			fmt.Fprintln(ui.out, "Invalid selection. Using current type.")
		} else {
			current.Type = recipe.Types[idx-1]
		}
	}

	output, _ := ui.prompt("Enter the new output item (or press Enter to keep the current output): ")
	if output != "" {
		current.Output = output
	}
	ingredientsInput, _ := ui.prompt("Enter the new ingredients (comma-separated, or press Enter to keep the current ingredients): ")
	if ingredientsInput != "" {
		ingredients := recipe.ParseIngredients(ingredientsInput)
		if len(ingredients) > 0 {
			current.Ingredients = ingredients
		} else {
			fmt.Fprintln(ui.out, "Warning: No valid ingredients provided. Keeping existing ingredients.")
		}
	}

	reply := ui.s.call(bridge.Request{
		Action:     bridge.ActionSaveRecipe,
		RecipeName: name,
		Recipe:     &current,
		IsNew:      false,
	})
	if !reply.Success {
		fmt.Fprintln(ui.out, reply.Error)
		return
	}
	fmt.Fprintln(ui.out, "Recipe edited successfully.")
}

func (ui *menuUI) deleteRecipe() {
	name, ok := ui.prompt("Enter the recipe filename to delete: ")
	if !ok || name == "" {
		fmt.Fprintln(ui.out, "Recipe filename cannot be empty.")
		return
	}
	if _, found := ui.loadRecipe(name); !found {
		fmt.Fprintln(ui.out, "Recipe not found.")
		return
	}

	confirm, _ := ui.prompt(fmt.Sprintf("Are you sure you want to delete recipe '%s'? (y/n): ", name))
	if strings.ToLower(confirm) != "y" {
		fmt.Fprintln(ui.out, "Deletion cancelled.")
		return
	}

	reply := ui.s.call(bridge.Request{
		Action:     bridge.ActionDeleteRecipe,
		RecipeName: name,
	})
	if !reply.Success {
		fmt.Fprintln(ui.out, reply.Error)
		return
	}
	fmt.Fprintln(ui.out, "Recipe deleted successfully.")
}

func (ui *menuUI) viewRecipes() {
	reply := ui.s.call(bridge.Request{Action: bridge.ActionLoadRecipes})
	if !reply.Success {
		fmt.Fprintln(ui.out, reply.Error)
		return
	}
	names := reply.Recipes.Names()
	if len(names) == 0 {
		fmt.Fprintln(ui.out, "No recipes found.")
		return
	}
	for _, name := range names {
		r, _ := reply.Recipes.Get(name)
		fmt.Fprintf(ui.out, "Recipe filename: %s\n", name)
		ui.printRecipe(r)
		fmt.Fprintln(ui.out, divider)
	}
}

func (ui *menuUI) searchRecipes() {
	term, ok := ui.prompt("Enter search term: ")
	if !ok || term == "" {
		fmt.Fprintln(ui.out, "Search term cannot be empty.")
		return
	}

	reply := ui.s.call(bridge.Request{
		Action:     bridge.ActionSearchRecipes,
		SearchTerm: term,
	})
	if !reply.Success {
		fmt.Fprintln(ui.out, reply.Error)
		return
	}
	if len(reply.Results) == 0 {
		fmt.Fprintf(ui.out, "No recipes found matching '%s'.\n", term)
		return
	}
	for _, m := range reply.Results {
		fmt.Fprintf(ui.out, "Recipe filename: %s\n", m.Name)
		ui.printRecipe(m.Recipe)
		fmt.Fprintln(ui.out, divider)
	}
}

func (ui *menuUI) exportRecipes() {
	def := ui.s.cfg.Paths.ExportDefault
	path, _ := ui.prompt(fmt.Sprintf("Enter export filename (default: %s): ", def))
	if path == "" {
		path = def
		fmt.Fprintf(ui.out, "Using default filename: %s\n", def)
	}

	reply := ui.s.call(bridge.Request{
		Action:   bridge.ActionExportRecipes,
		FilePath: path,
	})
	if !reply.Success {
		fmt.Fprintln(ui.out, reply.Error)
		return
	}
	fmt.Fprintf(ui.out, "Recipes exported successfully to %s.\n", reply.FilePath)
}

// loadRecipe fetches one recipe through the bridge.
func (ui *menuUI) loadRecipe(name string) (recipe.Recipe, bool) {
	reply := ui.s.call(bridge.Request{Action: bridge.ActionLoadRecipes})
	if !reply.Success || reply.Recipes == nil {
		return recipe.Recipe{}, false
	}
	return reply.Recipes.Get(name)
}

func (ui *menuUI) printRecipe(r recipe.Recipe) {
	body, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		fmt.Fprintln(ui.out, err)
		return
	}
	fmt.Fprintln(ui.out, string(body))
}
