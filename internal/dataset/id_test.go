package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveID(t *testing.T) {
	path := MustParseCategoryPath("brands/shop/supermarket")

	id := DeriveID("foo-mart", path, "+[us]")
	assert.Equal(t, "foo-mart-fea9d3", id)

	// same inputs, same id
	for i := 0; i < 3; i++ {
		assert.Equal(t, id, DeriveID("foo-mart", path, "+[us]"))
	}
}

func TestDeriveIDSensitivity(t *testing.T) {
	path := MustParseCategoryPath("brands/shop/supermarket")
	base := DeriveID("foo-mart", path, "+[us]")

	otherLocation := DeriveID("foo-mart", path, "+[ca,us]-[us-ny]")
	assert.Equal(t, "foo-mart-c19263", otherLocation)
	assert.NotEqual(t, base, otherLocation)

	otherPath := DeriveID("foo-mart", MustParseCategoryPath("brands/amenity/cafe"), "+[us]")
	assert.Equal(t, "foo-mart-03dbc9", otherPath)
	assert.NotEqual(t, base, otherPath)
}

func TestLocationHashLength(t *testing.T) {
	h := LocationHash(MustParseCategoryPath("a/b/c"), "+[001]")
	assert.Len(t, h, 6)
	assert.Regexp(t, `^[0-9a-f]{6}$`, h)
}
