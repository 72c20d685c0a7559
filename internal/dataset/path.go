package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CategoryPath is a parsed "tree/key/value" key. Tree names the dataset
// partition; Key=Value is the tag every entry under the path carries.
type CategoryPath struct {
	Tree  string
	Key   string
	Value string
}

// ParseCategoryPath splits s into exactly three non-empty segments.
func ParseCategoryPath(s string) (CategoryPath, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return CategoryPath{}, fmt.Errorf("category path %q must have the form tree/key/value", s)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.TrimSpace(p) != p {
			return CategoryPath{}, fmt.Errorf("category path %q has an invalid segment %q", s, p)
		}
	}
	return CategoryPath{Tree: parts[0], Key: parts[1], Value: parts[2]}, nil
}

// MustParseCategoryPath is like ParseCategoryPath but panics on error.
// Use only in tests or with constant input.
func MustParseCategoryPath(s string) CategoryPath {
	p, err := ParseCategoryPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p CategoryPath) String() string {
	return p.Tree + "/" + p.Key + "/" + p.Value
}

// File returns the file a path is written to: <root>/<tree>/<key>/<value>.json.
func (p CategoryPath) File(root string) string {
	return filepath.Join(root, p.Tree, p.Key, p.Value+".json")
}
