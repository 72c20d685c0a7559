package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDsRequiresLedger(t *testing.T) {
	_, errOut, err := execute(t, "ids", "brands")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "no ledger configured")
}

func TestIDsNoRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ids.db")
	_, errOut, err := execute(t, "--ledger", db, "ids", "brands")
	require.Error(t, err)
	assert.Contains(t, errOut, "no recorded runs")
}

func TestIDsFromRequiresTo(t *testing.T) {
	_, errOut, err := execute(t, "--ledger", "ids.db", "ids", "brands", "--from", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "--from requires --to")
}

func TestIDsRenameShowsAsRemoveAndAdd(t *testing.T) {
	root := t.TempDir()
	db := filepath.Join(t.TempDir(), "ids.db")
	writeFixture(t, root, "brands/shop/supermarket.json", fooMartFile)

	_, _, err := execute(t, "--root", root, "--ledger", db, "build", "brands")
	require.NoError(t, err)

	writeFixture(t, root, "brands/shop/supermarket.json", `{"brands/shop/supermarket": [
  {"displayName": "Foo Mart", "locationSet": {"include": ["ca"]}, "tags": {"name": "Foo Mart"}}
]}`)
	_, _, err = execute(t, "--root", root, "--ledger", db, "build", "brands")
	require.NoError(t, err)

	out, _, err := execute(t, "--ledger", db, "ids", "brands")
	require.NoError(t, err)
	assert.Contains(t, out, "- foo-mart-fea9d3")
	assert.Contains(t, out, "1 added, 1 removed")
}
