package location

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/golang/geo/s2"
	"golang.org/x/text/language"
)

var (
	subdivisionPattern = regexp.MustCompile(`^([a-z]{2})-([a-z0-9]{1,3})$`)
	featurePattern     = regexp.MustCompile(`^[a-z0-9_.-]+\.geojson$`)
)

// Resolver validates location sets. The zero value knows no custom
// features.
type Resolver struct {
	features map[string]struct{}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFeatures registers custom feature ids (e.g. "new_jersey.geojson").
func WithFeatures(ids ...string) Option {
	return func(r *Resolver) {
		for _, id := range ids {
			r.features[strings.ToLower(id)] = struct{}{}
		}
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{features: make(map[string]struct{})}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadFeatures walks dir and returns the ids of every *.geojson file in it.
// A missing directory yields no features and no error.
func LoadFeatures(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var ids []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".geojson") {
			ids = append(ids, strings.ToLower(d.Name()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading features from %s: %w", dir, err)
	}
	return ids, nil
}

// ValidateLocationSet checks every location in set and returns the
// resolved id. An absent or empty include list resolves as the world.
func (r *Resolver) ValidateLocationSet(set Set) (Resolved, error) {
	include := set.Include
	if len(include) == 0 {
		include = []Location{Code(World)}
	}

	inc, err := r.resolveAll("include", include)
	if err != nil {
		return Resolved{}, err
	}
	exc, err := r.resolveAll("exclude", set.Exclude)
	if err != nil {
		return Resolved{}, err
	}

	excluded := make(map[string]struct{}, len(exc))
	for _, token := range exc {
		excluded[token] = struct{}{}
	}
	for _, token := range inc {
		if _, ok := excluded[token]; ok {
			return Resolved{}, fmt.Errorf("%w: %s is both included and excluded", ErrInvalidLocation, token)
		}
	}

	return Resolved{
		ID:      formatID(inc, exc),
		Include: inc,
		Exclude: exc,
	}, nil
}

func (r *Resolver) resolveAll(field string, locs []Location) ([]string, error) {
	if len(locs) == 0 {
		return nil, nil
	}
	tokens := make([]string, 0, len(locs))
	for i, loc := range locs {
		token, err := r.resolve(loc)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		tokens = append(tokens, token)
	}
	return sortedUnique(tokens), nil
}

// resolve returns the canonical token of a single location.
func (r *Resolver) resolve(loc Location) (string, error) {
	if loc.IsPoint() {
		return resolvePoint(loc.Point)
	}

	code := strings.ToLower(strings.TrimSpace(loc.Code))
	switch {
	case code == "":
		return "", fmt.Errorf("%w: empty code", ErrInvalidLocation)
	case strings.HasSuffix(code, ".geojson"):
		return r.resolveFeature(code)
	case subdivisionPattern.MatchString(code):
		m := subdivisionPattern.FindStringSubmatch(code)
		country, err := resolveRegion(m[1])
		if err != nil {
			return "", err
		}
		return country + "-" + m[2], nil
	default:
		return resolveRegion(code)
	}
}

func resolveRegion(code string) (string, error) {
	region, err := language.ParseRegion(code)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLocation, code, err)
	}
	canon := region.Canonicalize().String()
	if canon == "ZZ" {
		return "", fmt.Errorf("%w %q: unknown region", ErrInvalidLocation, code)
	}
	return strings.ToLower(canon), nil
}

func (r *Resolver) resolveFeature(id string) (string, error) {
	if !featurePattern.MatchString(id) {
		return "", fmt.Errorf("%w %q: malformed feature id", ErrInvalidLocation, id)
	}
	if _, ok := r.features[id]; !ok {
		return "", fmt.Errorf("%w %q: unknown feature", ErrInvalidLocation, id)
	}
	return id, nil
}

// resolvePoint keys a point by the token of the leaf s2 cell containing it
// plus its radius.
func resolvePoint(p *Point) (string, error) {
	ll := s2.LatLngFromDegrees(p.Lat, p.Lon)
	if !ll.IsValid() || p.Lon < -180 || p.Lon > 180 {
		return "", fmt.Errorf("%w: point [%s, %s] is out of range", ErrInvalidLocation, formatFloat(p.Lon), formatFloat(p.Lat))
	}
	if p.HasRadius && p.Radius <= 0 {
		return "", fmt.Errorf("%w: point radius must be positive", ErrInvalidLocation)
	}
	cell := s2.CellIDFromLatLng(ll)
	return "[" + cell.ToToken() + "," + formatFloat(p.radius()) + "]", nil
}
