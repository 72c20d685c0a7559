package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWritesCanonicalFiles(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "brands/shop/supermarket.json", fooMartFile)

	out, _, err := execute(t, "--root", root, "build", "brands")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ brands: 1 entries, 1 file(s) read, 1 written")

	got, err := os.ReadFile(filepath.Join(root, "brands/shop/supermarket.json"))
	require.NoError(t, err)
	assert.Equal(t, `{
  "brands/shop/supermarket": [
    {
      "displayName": "Foo Mart",
      "id": "foo-mart-fea9d3",
      "locationSet": {"include": ["us"]},
      "tags": {
        "name": "Foo Mart",
        "shop": "supermarket"
      }
    }
  ]
}
`, string(got))
}

func TestBuildJSON(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "brands/shop/supermarket.json", fooMartFile)

	out, _, err := execute(t, "--root", root, "--format", "json", "build", "brands")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   BuildResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []TreeBuild{{Tree: "brands", Read: 1, Written: 1, Entries: 1}}, resp.Data.Trees)
}

func TestBuildAllTreesSkipsMissing(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "brands/shop/supermarket.json", fooMartFile)

	out, errOut, err := execute(t, "--root", root, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ brands: 1 entries")
	assert.Contains(t, out, "✓ transit: 0 entries")
	assert.Contains(t, errOut, "nothing to write")
}

func TestBuildNamedTreeWithoutData(t *testing.T) {
	_, errOut, err := execute(t, "--root", t.TempDir(), "build", "transit")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "Error [NO_DATA]")
}

func TestBuildUnknownTree(t *testing.T) {
	_, errOut, err := execute(t, "--root", t.TempDir(), "build", "parks")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "unknown tree")
}

func TestBuildDataErrorWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "brands/shop/supermarket.json", fooMartFile)
	broken := `{"brands/amenity/cafe": [
  {"displayName": "Foo Cafe", "locationSet": {"include": ["us"]}, "tags": {}}
]}`
	writeFixture(t, root, "brands/amenity/cafe.json", broken)

	_, errOut, err := execute(t, "--root", root, "build", "brands")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "Error [MISSING_NAME]")

	got, err := os.ReadFile(filepath.Join(root, "brands/shop/supermarket.json"))
	require.NoError(t, err)
	assert.Equal(t, fooMartFile, string(got), "no tree is written when ingest fails")
}

func TestBuildRecordsLedger(t *testing.T) {
	root := t.TempDir()
	db := filepath.Join(t.TempDir(), "ids.db")
	writeFixture(t, root, "brands/shop/supermarket.json", fooMartFile)

	out, _, err := execute(t, "--root", root, "--ledger", db, "build", "brands")
	require.NoError(t, err)
	assert.Contains(t, out, "(run ")

	out, _, err = execute(t, "--ledger", db, "ids", "brands")
	require.NoError(t, err)
	assert.Contains(t, out, "brands: first run")
	assert.Contains(t, out, `+ foo-mart-fea9d3  brands/shop/supermarket  "Foo Mart"`)
	assert.Contains(t, out, "1 added, 0 removed")

	// a second build of unchanged data adds and removes nothing
	_, _, err = execute(t, "--root", root, "--ledger", db, "build", "brands")
	require.NoError(t, err)
	out, _, err = execute(t, "--ledger", db, "ids", "brands")
	require.NoError(t, err)
	assert.Contains(t, out, "0 added, 0 removed")
}
