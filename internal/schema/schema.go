// Package schema validates recipe records against an embedded CUE schema.
//
// Basic field checks live on recipe.Recipe itself; this package adds the
// stricter shape constraints (item identifier format, addon URL scheme,
// paired provenance fields) that are easier to state declaratively.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/Igilq/kubejs-recipes/internal/recipe"
)

//go:embed recipe.cue
var recipeSchema string

var (
	compileOnce sync.Once
	cueCtx      *cue.Context
	recipeDef   cue.Value
	compileErr  error
)

func compiled() (cue.Value, error) {
	compileOnce.Do(func() {
		cueCtx = cuecontext.New()
		v := cueCtx.CompileString(recipeSchema, cue.Filename("recipe.cue"))
		if err := v.Err(); err != nil {
			compileErr = fmt.Errorf("compile recipe schema: %w", err)
			return
		}
		recipeDef = v.LookupPath(cue.ParsePath("#Recipe"))
		if err := recipeDef.Err(); err != nil {
			compileErr = fmt.Errorf("lookup #Recipe: %w", err)
		}
	})
	return recipeDef, compileErr
}

// Error reports a schema violation for a named recipe. The wrapped reason
// carries the CUE constraint failure and is suitable for surfacing directly
// to the user.
type Error struct {
	Name   string
	Reason error
}

func (e *Error) Error() string {
	return fmt.Sprintf("recipe %q does not match schema: %v", e.Name, e.Reason)
}

func (e *Error) Unwrap() error { return e.Reason }

// Validate checks r against the #Recipe definition. name is used only for
// error reporting.
func Validate(name string, r recipe.Recipe) error {
	def, err := compiled()
	if err != nil {
		return err
	}

	val := cueCtx.Encode(r)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode recipe %q: %w", name, err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &Error{Name: name, Reason: err}
	}

	// Paired provenance: an addon name without a URL (or vice versa) is a
	// half-filled modded recipe form.
	if (r.Addon == "") != (r.AddonURL == "") {
		return &Error{Name: name, Reason: fmt.Errorf("addon and addon_url must be set together")}
	}
	return nil
}
