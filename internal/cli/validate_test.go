package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidTree(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "brands/shop/supermarket.json", fooMartFile)

	out, _, err := execute(t, "--root", root, "validate", "brands")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ brands: 1 entries in 1 file(s)")
	assert.Contains(t, out, "✓ All trees valid")

	// validate never writes
	got, err := os.ReadFile(filepath.Join(root, "brands/shop/supermarket.json"))
	require.NoError(t, err)
	assert.Equal(t, fooMartFile, string(got))
}

func TestValidateJSON(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "brands/shop/supermarket.json", fooMartFile)

	out, _, err := execute(t, "--root", root, "--format", "json", "validate", "brands")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateDuplicateID(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "brands/shop/supermarket.json", `{"brands/shop/supermarket": [
  {"displayName": "Foo Mart", "locationSet": {"include": ["us"]}, "tags": {"name": "Foo Mart"}},
  {"displayName": "Foo Mart (US)", "locationSet": {"include": ["usa"]}, "tags": {"name": "Foo Mart"}}
]}`)

	out, _, err := execute(t, "--root", root, "--format", "json", "validate", "brands")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_ID", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "foo-mart-fea9d3")
}

func TestValidateParseError(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "brands/shop/supermarket.json", `{"brands/shop/supermarket": [}`)

	_, errOut, err := execute(t, "--root", root, "validate", "brands")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "Error [PARSE_ERROR]")
}

func TestValidateBadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "nsi.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("unknown_key: 1\n"), 0o644))

	_, errOut, err := execute(t, "--config", cfg, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "Error [CONFIG_ERROR]")
}
