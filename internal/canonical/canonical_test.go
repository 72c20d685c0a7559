package canonical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareLocaleAware(t *testing.T) {
	words := []string{"cherry", "Éclair", "Banana", "apple", "donut"}
	sorted := SortObject(objectOf(words...)).Keys()
	assert.Equal(t, []string{"apple", "Banana", "cherry", "donut", "Éclair"}, sorted)
}

func TestCompareTotalOrder(t *testing.T) {
	assert.Equal(t, 0, Compare("same", "same"))
	assert.NotEqual(t, 0, Compare("a", "A"))
	assert.Equal(t, -Compare("a", "A"), Compare("A", "a"))
}

func TestSortDeepCopy(t *testing.T) {
	in := Object{
		{Key: "tags", Value: Object{
			{Key: "shop", Value: String("supermarket")},
			{Key: "brand", Value: String("Foo")},
		}},
		{Key: "matchNames", Value: Strings([]string{"zeta", "alpha"})},
		{Key: "displayName", Value: String("Foo")},
	}

	out := SortObject(in)

	assert.Equal(t, []string{"displayName", "matchNames", "tags"}, out.Keys())
	tags, ok := out.Get("tags")
	require.True(t, ok)
	assert.Equal(t, []string{"brand", "shop"}, tags.(Object).Keys())

	// arrays keep their order
	names, _ := out.Get("matchNames")
	assert.Equal(t, Array{String("zeta"), String("alpha")}, names)

	// input untouched
	assert.Equal(t, []string{"tags", "matchNames", "displayName"}, in.Keys())
	assert.Equal(t, "shop", in[0].Value.(Object)[0].Key)
}

func TestObjectSetDelete(t *testing.T) {
	var o Object
	o.Set("a", String("1"))
	o.Set("b", String("2"))
	o.Set("a", String("3"))
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	v, _ := o.Get("a")
	assert.Equal(t, String("3"), v)

	o.Delete("a")
	o.Delete("missing")
	assert.Equal(t, []string{"b"}, o.Keys())
}

func TestMarshalFlat(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"integer number", Number(100), "100"},
		{"negative float", Number(-74.0059), "-74.0059"},
		{"zero", Number(0), "0"},
		{"bool", Bool(true), "true"},
		{"null", Null{}, "null"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array", Array{Number(1), Number(2)}, "[1, 2]"},
		{"object", Object{{Key: "a", Value: Array{String("x")}}}, `{"a": ["x"]}`},
		{"no html escaping", String("A&B <c>"), `"A&B <c>"`},
		{"quote and backslash", String(`say "hi" \o/`), `"say \"hi\" \\o/"`},
		{"control chars", String("a\nb\u0001"), `"a\nb\u0001"`},
		{"line separator literal", String("a\u2028b"), "\"a\u2028b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestMarshalRejectsNaN(t *testing.T) {
	_, err := Marshal(Array{Number(math.NaN())})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array[0]")
}

func TestMarshalPrettyWraps(t *testing.T) {
	doc := Object{{Key: "brands/shop/supermarket", Value: Array{
		Object{
			{Key: "displayName", Value: String("Foo Mart")},
			{Key: "id", Value: String("foo-mart-abc123")},
			{Key: "locationSet", Value: Object{{Key: "include", Value: Strings([]string{"us"})}}},
			{Key: "tags", Value: Object{
				{Key: "name", Value: String("Foo Mart")},
				{Key: "shop", Value: String("supermarket")},
			}},
		},
	}}}

	out, err := MarshalPretty(doc, 50)
	require.NoError(t, err)

	expected := `{
  "brands/shop/supermarket": [
    {
      "displayName": "Foo Mart",
      "id": "foo-mart-abc123",
      "locationSet": {"include": ["us"]},
      "tags": {
        "name": "Foo Mart",
        "shop": "supermarket"
      }
    }
  ]
}
`
	assert.Equal(t, expected, string(out))
}

func TestMarshalPrettyFitsOnOneLine(t *testing.T) {
	out, err := MarshalPretty(Object{{Key: "a", Value: Number(1)}}, 0)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": 1}\n", string(out))
}

func TestMarshalPrettyWidthBoundary(t *testing.T) {
	// ["aaaa", "bbbb"] is 16 columns wide
	arr := Strings([]string{"aaaa", "bbbb"})

	out, err := MarshalPretty(arr, 16)
	require.NoError(t, err)
	assert.Equal(t, "[\"aaaa\", \"bbbb\"]\n", string(out))

	out, err = MarshalPretty(arr, 15)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"aaaa\",\n  \"bbbb\"\n]\n", string(out))
}

func objectOf(keys ...string) Object {
	obj := make(Object, 0, len(keys))
	for _, k := range keys {
		obj = append(obj, Member{Key: k, Value: Null{}})
	}
	return obj
}
