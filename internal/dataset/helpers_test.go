package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1-Byte/name-suggestion-index/internal/location"
	"github.com/1-Byte/name-suggestion-index/internal/schema"
)

var testFallbackTags = map[string]string{
	"brands":    "brand",
	"operators": "operator",
}

// writeFixture writes content to root/rel, creating directories.
func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestIngester(t *testing.T, root string) *Ingester {
	t.Helper()
	v, err := schema.New()
	require.NoError(t, err)
	in, err := NewIngester(IngestConfig{
		Root:         root,
		Validator:    v,
		Resolver:     location.NewResolver(),
		FallbackTags: testFallbackTags,
	})
	require.NoError(t, err)
	return in
}

func newEntry(name, id string) *Entry {
	return &Entry{
		ID:          id,
		DisplayName: name,
		Tags:        map[string]string{"name": name},
	}
}

const supermarketFixture = `{
  // hand-edited: keys and arrays out of order on purpose
  "brands/shop/supermarket": [
    {
      "displayName": "Foo Mart",
      "locationSet": {"include": ["US"]},
      "tags": {"shop": "convenience", "name": "Foo Mart"}
    },
    {
      "tags": {"name": "Bar Market", "brand": "Bar"},
      "matchNames": ["BAR", "Bar Mkt"],
      "locationSet": {"include": ["us", "CA"], "exclude": ["US-NY"]},
      "displayName": "Bar Market"
    },
    {
      "displayName": "Zed Grocer",
      "locationSet": {},
      "tags": {"brand": "Zed Grocer"}
    }
  ]
}
`
