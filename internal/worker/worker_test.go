package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igilq/kubejs-recipes/internal/addons"
	"github.com/Igilq/kubejs-recipes/internal/bridge"
	"github.com/Igilq/kubejs-recipes/internal/journal"
	"github.com/Igilq/kubejs-recipes/internal/recipe"
	"github.com/Igilq/kubejs-recipes/internal/store"
)

type workerFixture struct {
	w   *Worker
	st  *store.Store
	jnl *journal.Journal
	dir string
}

func startWorker(t *testing.T, opts ...addons.Option) *workerFixture {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "recipes.json"))
	require.NoError(t, err)
	jnl, err := journal.Open(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { jnl.Close() })

	ac := addons.NewClient(filepath.Join(dir, "addons_db.json"), opts...)
	w := New(st, jnl, ac)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(context.Background())
	}()
	t.Cleanup(func() {
		w.Stop()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("worker did not stop")
		}
	})

	return &workerFixture{w: w, st: st, jnl: jnl, dir: dir}
}

// call sends a request and waits for the matching reply by token.
func (f *workerFixture) call(t *testing.T, req bridge.Request) bridge.Reply {
	t.Helper()
	require.NoError(t, f.w.Send(req))
	select {
	case reply := <-f.w.Replies():
		require.Equal(t, req.Token, reply.Token)
		return reply
	case <-time.After(5 * time.Second):
		t.Fatalf("no reply for %s", req.Action)
		return bridge.Reply{}
	}
}

func shaped(output string, ingredients ...string) *recipe.Recipe {
	return &recipe.Recipe{Type: "shaped", Output: output, Ingredients: ingredients}
}

func TestWorker_SaveLoadDelete(t *testing.T) {
	f := startWorker(t)

	reply := f.call(t, bridge.Request{
		Action:     bridge.ActionSaveRecipe,
		Token:      "tok-1",
		RecipeName: "diamond_sword",
		Recipe:     shaped("minecraft:diamond_sword", "minecraft:stick", "minecraft:diamond"),
		IsNew:      true,
	})
	assert.True(t, reply.Success)
	assert.Equal(t, bridge.ReplyRecipeSaved, reply.Action)
	assert.Equal(t, "diamond_sword", reply.RecipeName)
	assert.True(t, reply.IsNew)

	reply = f.call(t, bridge.Request{Action: bridge.ActionLoadRecipes, Token: "tok-2"})
	assert.True(t, reply.Success)
	require.NotNil(t, reply.Recipes)
	assert.Equal(t, []string{"diamond_sword"}, reply.Recipes.Names())

	reply = f.call(t, bridge.Request{
		Action:     bridge.ActionDeleteRecipe,
		Token:      "tok-3",
		RecipeName: "diamond_sword",
	})
	assert.True(t, reply.Success)

	reply = f.call(t, bridge.Request{Action: bridge.ActionLoadRecipes, Token: "tok-4"})
	assert.True(t, reply.Success)
	assert.Empty(t, reply.Recipes.Names())
}

func TestWorker_DuplicateSave(t *testing.T) {
	f := startWorker(t)

	first := shaped("minecraft:glass", "minecraft:sand")
	reply := f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-1",
		RecipeName: "glass", Recipe: first, IsNew: true,
	})
	require.True(t, reply.Success)

	reply = f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-2",
		RecipeName: "glass", Recipe: shaped("minecraft:tinted_glass", "minecraft:amethyst_shard"), IsNew: true,
	})
	assert.False(t, reply.Success)
	assert.Equal(t, "Recipe 'glass' already exists", reply.Error)

	// First recipe unchanged.
	got, ok := f.st.Get("glass")
	require.True(t, ok)
	assert.Equal(t, "minecraft:glass", got.Output)

	// Overwrite succeeds when not flagged new.
	reply = f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-3",
		RecipeName: "glass", Recipe: shaped("minecraft:tinted_glass", "minecraft:amethyst_shard"), IsNew: false,
	})
	assert.True(t, reply.Success)
}

func TestWorker_DeleteMissing(t *testing.T) {
	f := startWorker(t)

	reply := f.call(t, bridge.Request{
		Action: bridge.ActionDeleteRecipe, Token: "tok-1", RecipeName: "ghost",
	})
	assert.False(t, reply.Success)
	assert.Equal(t, "Recipe 'ghost' not found", reply.Error)
}

func TestWorker_InputValidation(t *testing.T) {
	f := startWorker(t)

	reply := f.call(t, bridge.Request{Action: bridge.ActionSaveRecipe, Token: "tok-1"})
	assert.False(t, reply.Success)
	assert.Equal(t, "Recipe name is required", reply.Error)

	reply = f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-2", RecipeName: "x",
	})
	assert.False(t, reply.Success)
	assert.Equal(t, "Recipe data is required", reply.Error)

	reply = f.call(t, bridge.Request{Action: bridge.ActionSearchRecipes, Token: "tok-3"})
	assert.False(t, reply.Success)
	assert.Equal(t, "Search term is required", reply.Error)

	reply = f.call(t, bridge.Request{Action: bridge.ActionExportRecipes, Token: "tok-4"})
	assert.False(t, reply.Success)
	assert.Equal(t, "File path is required", reply.Error)
}

func TestWorker_SaveRejectsInvalidRecipe(t *testing.T) {
	f := startWorker(t)

	reply := f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-1",
		RecipeName: "bad",
		Recipe:     &recipe.Recipe{Type: "microwave", Output: "minecraft:dinner", Ingredients: []string{"minecraft:leftovers"}},
	})
	assert.False(t, reply.Success)
	assert.NotEmpty(t, reply.Error)
}

func TestWorker_Search(t *testing.T) {
	f := startWorker(t)

	f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-1",
		RecipeName: "iron_pick", Recipe: shaped("minecraft:iron_pickaxe", "minecraft:iron_ingot", "minecraft:stick"), IsNew: true,
	})
	f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-2",
		RecipeName: "glass", Recipe: &recipe.Recipe{Type: "smelting", Output: "minecraft:glass", Ingredients: []string{"minecraft:sand"}}, IsNew: true,
	})

	reply := f.call(t, bridge.Request{
		Action: bridge.ActionSearchRecipes, Token: "tok-3", SearchTerm: "IRON",
	})
	assert.True(t, reply.Success)
	require.Len(t, reply.Results, 1)
	assert.Equal(t, "iron_pick", reply.Results[0].Name)
	assert.Equal(t, "IRON", reply.SearchTerm)

	reply = f.call(t, bridge.Request{
		Action: bridge.ActionSearchRecipes, Token: "tok-4", SearchTerm: "obsidian",
	})
	assert.True(t, reply.Success)
	assert.Empty(t, reply.Results)
}

func TestWorker_Export(t *testing.T) {
	f := startWorker(t)

	f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-1",
		RecipeName: "glass", Recipe: &recipe.Recipe{Type: "smelting", Output: "minecraft:glass", Ingredients: []string{"minecraft:sand"}}, IsNew: true,
	})

	target := filepath.Join(f.dir, "out")
	reply := f.call(t, bridge.Request{
		Action: bridge.ActionExportRecipes, Token: "tok-2", FilePath: target,
	})
	assert.True(t, reply.Success)
	assert.Equal(t, target+".js", reply.FilePath)

	data, err := os.ReadFile(target + ".js")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"minecraft:glass"`)
}

func TestWorker_FetchAddons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<main><a href="/wiki/addons/kubejs-create">KubeJS Create</a></main>`))
	}))
	t.Cleanup(srv.Close)

	f := startWorker(t, addons.WithURL(srv.URL))
	reply := f.call(t, bridge.Request{Action: bridge.ActionFetchAddons, Token: "tok-1"})
	assert.True(t, reply.Success)
	require.Len(t, reply.Addons, 1)
	assert.Equal(t, "KubeJS Create", reply.Addons[0].Name)
}

func TestWorker_JournalRecordsMutations(t *testing.T) {
	f := startWorker(t)

	f.call(t, bridge.Request{
		Action: bridge.ActionSaveRecipe, Token: "tok-1",
		RecipeName: "glass", Recipe: &recipe.Recipe{Type: "smelting", Output: "minecraft:glass", Ingredients: []string{"minecraft:sand"}}, IsNew: true,
	})
	f.call(t, bridge.Request{
		Action: bridge.ActionDeleteRecipe, Token: "tok-2", RecipeName: "glass",
	})
	// Reads do not journal.
	f.call(t, bridge.Request{Action: bridge.ActionLoadRecipes, Token: "tok-3"})

	entries, err := f.jnl.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, bridge.ActionDeleteRecipe, entries[0].Action)
	assert.Equal(t, "tok-2", entries[0].Token)
	assert.Equal(t, bridge.ActionSaveRecipe, entries[1].Action)
	assert.Contains(t, entries[1].Payload, `"minecraft:glass"`)
}

func TestWorker_ExitClosesReplies(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "recipes.json"))
	require.NoError(t, err)
	w := New(st, nil, addons.NewClient(filepath.Join(dir, "addons_db.json")))

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	require.NoError(t, w.Send(bridge.Request{Action: bridge.ActionExit, Token: "tok-1"}))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not exit")
	}

	_, open := <-w.Replies()
	assert.False(t, open)
	assert.ErrorIs(t, w.Send(bridge.Request{Action: bridge.ActionLoadRecipes}), ErrNotRunning)
}

func TestWorker_EndToEndThroughBridge(t *testing.T) {
	f := startWorker(t)
	c := bridge.NewClient(f.w, nil)

	reply, err := c.Call(context.Background(), bridge.Request{
		Action:     bridge.ActionSaveRecipe,
		RecipeName: "diamond_sword",
		Recipe:     shaped("minecraft:diamond_sword", "minecraft:stick", "minecraft:diamond"),
		IsNew:      true,
	})
	require.NoError(t, err)
	assert.True(t, reply.Success)

	reply, err = c.Call(context.Background(), bridge.Request{Action: bridge.ActionLoadRecipes})
	require.NoError(t, err)
	require.True(t, reply.Success)
	assert.Equal(t, []string{"diamond_sword"}, reply.Recipes.Names())
}
