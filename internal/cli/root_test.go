package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig writes a config whose data files all live under dir, and
// returns its path.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`paths:
    recipes_file: %s
    addons_db_file: %s
    journal_file: %s
    export_default: %s
settings:
    db_max_age_days: 7
    kubejs_addons_url: https://kubejs.com/wiki/addons
logging:
    level: error
`,
		filepath.Join(dir, "recipes.json"),
		filepath.Join(dir, "addons_db.json"),
		filepath.Join(dir, "journal.db"),
		filepath.Join(dir, "export.js"),
	)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// runCommand executes the CLI with args and returns stdout and the error.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "kubejs-recipes", cmd.Use)
	assert.Contains(t, cmd.Long, "KubeJS")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"menu", "list", "add", "delete", "search", "export", "addons", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "config.yaml", configFlag.DefValue)
}

func TestInvalidFormatRejected(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestConfig(t, dir)

	_, err := runCommand(t, "--config", cfg, "--format", "xml", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAddCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"add"})
	require.NoError(t, err)

	for _, name := range []string{"type", "output", "ingredients", "addon", "addon-url", "overwrite"} {
		assert.NotNil(t, addCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}
