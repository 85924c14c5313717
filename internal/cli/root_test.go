package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lineage", cmd.Use)
	assert.Contains(t, cmd.Long, "closure tables")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"add", "move", "detach", "remove", "tree", "path", "ancestors", "descendants", "roots"}

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

	typeFlag := cmd.PersistentFlags().Lookup("type")
	require.NotNil(t, typeFlag)
	assert.Equal(t, "default", typeFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestInvalidFormatRejected(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"roots", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestAddCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"add"})
	require.NoError(t, err)

	parentFlag := addCmd.Flags().Lookup("parent")
	require.NotNil(t, parentFlag)
	assert.Equal(t, "p", parentFlag.Shorthand)
	assert.Equal(t, "", parentFlag.DefValue)
}

func TestAncestorsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	ancCmd, _, err := cmd.Find([]string{"ancestors"})
	require.NoError(t, err)

	selfFlag := ancCmd.Flags().Lookup("self")
	require.NotNil(t, selfFlag)
	assert.Equal(t, "false", selfFlag.DefValue)

	depthFlag := ancCmd.Flags().Lookup("max-depth")
	require.NotNil(t, depthFlag)
	assert.Equal(t, "0", depthFlag.DefValue)
}
