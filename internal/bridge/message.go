// Package bridge defines the request/reply contract between the presentation
// layer and the backend worker, and the client that correlates calls with
// replies.
//
// Every call carries a unique correlation token in both envelopes and is
// matched on that token, not on the action name. The action vocabulary
// (verbs out, past participles back) stays on the wire for readability and
// logging, but nothing correlates on it, so any number of same-action calls
// may be in flight at once and a late reply from a timed-out call can never
// satisfy a later one.
package bridge

import (
	"github.com/Igilq/kubejs-recipes/internal/addons"
	"github.com/Igilq/kubejs-recipes/internal/recipe"
	"github.com/Igilq/kubejs-recipes/internal/store"
)

// Request is a message from the presentation layer to the worker.
// Payload field names match the original wire format.
type Request struct {
	Action string `json:"action"`
	Token  string `json:"token,omitempty"`

	RecipeName string         `json:"recipeName,omitempty"`
	Recipe     *recipe.Recipe `json:"recipe,omitempty"`
	IsNew      bool           `json:"isNew,omitempty"`
	SearchTerm string         `json:"searchTerm,omitempty"`
	FilePath   string         `json:"filePath,omitempty"`

	// Refresh forces an addon re-fetch from the web, bypassing the DB cache.
	Refresh bool `json:"refresh,omitempty"`
}

// Reply is a message from the worker back to the presentation layer.
// Exactly one of the data fields is populated, according to Action.
type Reply struct {
	Action  string `json:"action"`
	Token   string `json:"token,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Recipes    *recipe.Collection `json:"recipes,omitempty"`
	Results    []store.Match      `json:"results,omitempty"`
	Addons     []addons.Addon     `json:"addons,omitempty"`
	RecipeName string             `json:"recipeName,omitempty"`
	IsNew      bool               `json:"isNew,omitempty"`
	SearchTerm string             `json:"searchTerm,omitempty"`
	FilePath   string             `json:"filePath,omitempty"`
}

// Failure builds a failure reply for a request, echoing its token.
func Failure(req Request, msg string) Reply {
	return Reply{
		Action:  ReplyAction(req.Action),
		Token:   req.Token,
		Success: false,
		Error:   msg,
	}
}
