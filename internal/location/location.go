// Package location validates location sets and resolves them to a
// canonical location id.
//
// A location is either a code or a point:
//
//   - "001", "150": UN M49 regions ("001" is the whole world)
//   - "us", "usa", "840": ISO 3166-1 countries, any of the three forms
//   - "us-ca": a subdivision, checked on its country part
//   - "new_jersey.geojson": a custom feature from the features directory
//   - [lon, lat] or [lon, lat, radiusKm]: a circle around a point
//
// The resolved id lists the canonical tokens of the includes and excludes
// in sorted order, so equivalent sets ("US" vs "usa") share one id.
package location

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/1-Byte/name-suggestion-index/internal/canonical"
)

// World is the code of the location that covers everything. A set without
// includes means World.
const World = "001"

// DefaultRadiusKm is the radius assumed for a point given without one.
const DefaultRadiusKm = 25

// ErrInvalidLocation is wrapped by every validation failure.
var ErrInvalidLocation = errors.New("invalid location")

// Point is a circle on the globe. HasRadius records whether the radius was
// written explicitly so that points round-trip unchanged.
type Point struct {
	Lon       float64
	Lat       float64
	Radius    float64
	HasRadius bool
}

// Location is one include or exclude token. Exactly one of Code and Point
// is set.
type Location struct {
	Code  string
	Point *Point
}

// Code returns a code location.
func Code(code string) Location {
	return Location{Code: code}
}

// IsPoint reports whether l is a point location.
func (l Location) IsPoint() bool {
	return l.Point != nil
}

// Lower returns l with a lowercased code. Points are returned unchanged.
func (l Location) Lower() Location {
	if l.IsPoint() {
		return l
	}
	return Location{Code: strings.ToLower(l.Code)}
}

func (l Location) String() string {
	if !l.IsPoint() {
		return l.Code
	}
	s, _ := canonical.Marshal(l.Value())
	return string(s)
}

// Value renders l in its file form.
func (l Location) Value() canonical.Value {
	if !l.IsPoint() {
		return canonical.String(l.Code)
	}
	arr := canonical.Array{canonical.Number(l.Point.Lon), canonical.Number(l.Point.Lat)}
	if l.Point.HasRadius {
		arr = append(arr, canonical.Number(l.Point.Radius))
	}
	return arr
}

// Compare orders locations for output: codes first in collation order,
// then points by longitude, latitude and radius.
func Compare(a, b Location) int {
	switch {
	case !a.IsPoint() && !b.IsPoint():
		return canonical.Compare(a.Code, b.Code)
	case !a.IsPoint():
		return -1
	case !b.IsPoint():
		return 1
	}
	if c := cmpFloat(a.Point.Lon, b.Point.Lon); c != 0 {
		return c
	}
	if c := cmpFloat(a.Point.Lat, b.Point.Lat); c != 0 {
		return c
	}
	return cmpFloat(a.Point.radius(), b.Point.radius())
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (p *Point) radius() float64 {
	if p.HasRadius {
		return p.Radius
	}
	return DefaultRadiusKm
}

// Set is a location set. A nil Include means the field was absent; a nil
// Exclude is omitted on output.
type Set struct {
	Include []Location
	Exclude []Location
}

// Value renders s as {include, exclude?}.
func (s Set) Value() canonical.Object {
	obj := canonical.Object{}
	if s.Include != nil {
		obj.Set("include", locationsValue(s.Include))
	}
	if s.Exclude != nil {
		obj.Set("exclude", locationsValue(s.Exclude))
	}
	return obj
}

func locationsValue(locs []Location) canonical.Array {
	arr := make(canonical.Array, len(locs))
	for i, l := range locs {
		arr[i] = l.Value()
	}
	return arr
}

// ParseSet reads a location set from its file form. Unknown members are
// ignored; they are dropped when the set is written back.
func ParseSet(v canonical.Value) (Set, error) {
	obj, ok := v.(canonical.Object)
	if !ok {
		return Set{}, fmt.Errorf("%w: locationSet must be an object", ErrInvalidLocation)
	}
	var set Set
	var err error
	if inc, ok := obj.Get("include"); ok {
		if set.Include, err = parseLocations("include", inc); err != nil {
			return Set{}, err
		}
	}
	if exc, ok := obj.Get("exclude"); ok {
		if set.Exclude, err = parseLocations("exclude", exc); err != nil {
			return Set{}, err
		}
	}
	return set, nil
}

func parseLocations(field string, v canonical.Value) ([]Location, error) {
	arr, ok := v.(canonical.Array)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an array", ErrInvalidLocation, field)
	}
	locs := make([]Location, 0, len(arr))
	for i, elem := range arr {
		loc, err := ParseLocation(elem)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// ParseLocation reads a single code or point.
func ParseLocation(v canonical.Value) (Location, error) {
	switch val := v.(type) {
	case canonical.String:
		return Code(string(val)), nil
	case canonical.Array:
		if len(val) != 2 && len(val) != 3 {
			return Location{}, fmt.Errorf("%w: point must be [lon, lat] or [lon, lat, radius]", ErrInvalidLocation)
		}
		nums := make([]float64, len(val))
		for i, elem := range val {
			n, ok := elem.(canonical.Number)
			if !ok {
				return Location{}, fmt.Errorf("%w: point coordinates must be numbers", ErrInvalidLocation)
			}
			nums[i] = float64(n)
		}
		p := &Point{Lon: nums[0], Lat: nums[1]}
		if len(nums) == 3 {
			p.Radius, p.HasRadius = nums[2], true
		}
		return Location{Point: p}, nil
	default:
		return Location{}, fmt.Errorf("%w: expected a code or a point, got %T", ErrInvalidLocation, v)
	}
}

// Resolved is the outcome of a successful validation.
type Resolved struct {
	ID      string
	Include []string
	Exclude []string
}

// formatID builds "+[a,b]" or "+[a,b]-[c]".
func formatID(include, exclude []string) string {
	id := "+[" + strings.Join(include, ",") + "]"
	if len(exclude) > 0 {
		id += "-[" + strings.Join(exclude, ",") + "]"
	}
	return id
}

func sortedUnique(tokens []string) []string {
	slices.Sort(tokens)
	return slices.Compact(tokens)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
