package dataset

import (
	"fmt"
	"maps"
	"slices"

	"github.com/1-Byte/name-suggestion-index/internal/canonical"
	"github.com/1-Byte/name-suggestion-index/internal/location"
)

// Entry is one dataset record. ID is derived during ingest and is never
// authored by hand. A nil MatchNames, MatchTags or PreserveTags means the
// field is absent from the file.
type Entry struct {
	ID           string
	DisplayName  string
	Tags         map[string]string
	LocationSet  location.Set
	MatchNames   []string
	MatchTags    []string
	PreserveTags []string
	Note         string
}

// Name returns the name used for the entry's id: the name tag, or the
// given fallback tag when there is no name tag.
func (e *Entry) Name(fallbackTag string) (string, bool) {
	if name := e.Tags["name"]; name != "" {
		return name, true
	}
	if fallbackTag != "" {
		if name := e.Tags[fallbackTag]; name != "" {
			return name, true
		}
	}
	return "", false
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Tags = maps.Clone(e.Tags)
	c.LocationSet = location.Set{
		Include: slices.Clone(e.LocationSet.Include),
		Exclude: slices.Clone(e.LocationSet.Exclude),
	}
	c.MatchNames = slices.Clone(e.MatchNames)
	c.MatchTags = slices.Clone(e.MatchTags)
	c.PreserveTags = slices.Clone(e.PreserveTags)
	return &c
}

// Value renders e in its file form. Member order is unspecified until the
// result is sorted.
func (e *Entry) Value() canonical.Object {
	obj := canonical.Object{
		{Key: "displayName", Value: canonical.String(e.DisplayName)},
	}
	if e.ID != "" {
		obj.Set("id", canonical.String(e.ID))
	}
	obj.Set("locationSet", e.LocationSet.Value())
	if e.MatchNames != nil {
		obj.Set("matchNames", canonical.Strings(e.MatchNames))
	}
	if e.MatchTags != nil {
		obj.Set("matchTags", canonical.Strings(e.MatchTags))
	}
	if e.Note != "" {
		obj.Set("note", canonical.String(e.Note))
	}
	if e.PreserveTags != nil {
		obj.Set("preserveTags", canonical.Strings(e.PreserveTags))
	}
	obj.Set("tags", canonical.StringMap(e.Tags))
	return obj
}

// entryFromValue reads an entry from its file form. Documents have passed
// the schema already, so errors here indicate a schema gap.
func entryFromValue(v canonical.Value) (*Entry, error) {
	obj, ok := v.(canonical.Object)
	if !ok {
		return nil, fmt.Errorf("entry must be an object, got %T", v)
	}

	e := &Entry{Tags: map[string]string{}}
	for _, m := range obj {
		var err error
		switch m.Key {
		case "displayName":
			e.DisplayName, err = stringValue(m.Key, m.Value)
		case "id":
			e.ID, err = stringValue(m.Key, m.Value)
		case "note":
			e.Note, err = stringValue(m.Key, m.Value)
		case "locationSet":
			e.LocationSet, err = location.ParseSet(m.Value)
		case "matchNames":
			e.MatchNames, err = stringsValue(m.Key, m.Value)
		case "matchTags":
			e.MatchTags, err = stringsValue(m.Key, m.Value)
		case "preserveTags":
			e.PreserveTags, err = stringsValue(m.Key, m.Value)
		case "tags":
			err = readTags(e.Tags, m.Value)
		default:
			err = fmt.Errorf("unknown field %q", m.Key)
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func stringValue(field string, v canonical.Value) (string, error) {
	s, ok := v.(canonical.String)
	if !ok {
		return "", fmt.Errorf("%s must be a string", field)
	}
	return string(s), nil
}

func stringsValue(field string, v canonical.Value) ([]string, error) {
	arr, ok := v.(canonical.Array)
	if !ok {
		return nil, fmt.Errorf("%s must be an array", field)
	}
	out := make([]string, len(arr))
	for i, elem := range arr {
		s, ok := elem.(canonical.String)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", field, i)
		}
		out[i] = string(s)
	}
	return out, nil
}

func readTags(dst map[string]string, v canonical.Value) error {
	obj, ok := v.(canonical.Object)
	if !ok {
		return fmt.Errorf("tags must be an object")
	}
	for _, m := range obj {
		s, ok := m.Value.(canonical.String)
		if !ok {
			return fmt.Errorf("tags.%s must be a string", m.Key)
		}
		dst[m.Key] = string(s)
	}
	return nil
}
