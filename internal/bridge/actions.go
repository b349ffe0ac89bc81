package bridge

import "time"

// Request actions (verbs).
const (
	ActionLoadRecipes   = "load_recipes"
	ActionSaveRecipe    = "save_recipe"
	ActionDeleteRecipe  = "delete_recipe"
	ActionSearchRecipes = "search_recipes"
	ActionExportRecipes = "export_recipes"
	ActionFetchAddons   = "fetch_addons"
	ActionExit          = "exit"
)

// Reply actions (past participle / noun forms).
const (
	ReplyRecipesLoaded   = "recipes_loaded"
	ReplyRecipeSaved     = "recipe_saved"
	ReplyRecipeDeleted   = "recipe_deleted"
	ReplySearchResults   = "search_results"
	ReplyRecipesExported = "recipes_exported"
	ReplyAddonsFetched   = "addons_fetched"

	// ReplyWorkerError reports an unrecoverable worker fault. It is the
	// worker's final message before terminating.
	ReplyWorkerError = "worker_error"
)

// Call timeouts. Store actions are local file work; the addon fetch is
// network-bound and gets a longer budget.
const (
	DefaultTimeout = 5 * time.Second
	FetchTimeout   = 10 * time.Second
)

var replyFor = map[string]string{
	ActionLoadRecipes:   ReplyRecipesLoaded,
	ActionSaveRecipe:    ReplyRecipeSaved,
	ActionDeleteRecipe:  ReplyRecipeDeleted,
	ActionSearchRecipes: ReplySearchResults,
	ActionExportRecipes: ReplyRecipesExported,
	ActionFetchAddons:   ReplyAddonsFetched,
}

// ReplyAction returns the reply action name paired with a request action.
// Unknown actions map to ReplyWorkerError.
func ReplyAction(action string) string {
	if reply, ok := replyFor[action]; ok {
		return reply
	}
	return ReplyWorkerError
}

// TimeoutFor returns the reply budget for a request action.
func TimeoutFor(action string) time.Duration {
	if action == ActionFetchAddons {
		return FetchTimeout
	}
	return DefaultTimeout
}
