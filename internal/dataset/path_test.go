package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryPath(t *testing.T) {
	p, err := ParseCategoryPath("brands/shop/supermarket")
	require.NoError(t, err)
	assert.Equal(t, CategoryPath{Tree: "brands", Key: "shop", Value: "supermarket"}, p)
	assert.Equal(t, "brands/shop/supermarket", p.String())
	assert.Equal(t, filepath.Join("data", "brands", "shop", "supermarket.json"), p.File("data"))
}

func TestParseCategoryPathInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"brands",
		"brands/shop",
		"brands/shop/supermarket/extra",
		"brands//supermarket",
		"brands/shop/..",
		"brands/ shop/supermarket",
	} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseCategoryPath(s)
			assert.Error(t, err)
		})
	}
}

func TestMustParseCategoryPathPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseCategoryPath("nope") })
}
