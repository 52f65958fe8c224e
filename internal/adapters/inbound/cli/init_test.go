package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etlvalidator/etlvalidator/internal/adapters/inbound/cli"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetOut(new(discard))
	root.SetArgs([]string{"init", tmpDir})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".etlvalidator.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "provider: openai")
	assert.Contains(t, string(data), "model: gpt-4o")
	assert.Contains(t, string(data), "generate_correction: true")
	assert.NotContains(t, string(data), "api_key")
}

func TestInitCmd_Gemini(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetOut(new(discard))
	root.SetArgs([]string{"init", tmpDir, "--provider", "gemini"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".etlvalidator.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "provider: gemini")
	assert.Contains(t, string(data), "model: gemini-2.5-pro")
}

func TestInitCmd_UnknownProvider(t *testing.T) {
	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", t.TempDir(), "--provider", "bard"})
	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm.provider")
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".etlvalidator.yaml"), []byte("existing"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".etlvalidator.yaml"), []byte("old"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetOut(new(discard))
	root.SetArgs([]string{"init", tmpDir, "--force"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".etlvalidator.yaml"))
	require.NoError(t, err)
	assert.NotEqual(t, "old", string(data))
}
