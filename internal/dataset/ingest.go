package dataset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"

	"github.com/1-Byte/name-suggestion-index/internal/canonical"
	"github.com/1-Byte/name-suggestion-index/internal/location"
	"github.com/1-Byte/name-suggestion-index/internal/schema"
	"github.com/1-Byte/name-suggestion-index/internal/simplify"
)

// Validator parses dataset files and checks them structurally.
type Validator interface {
	Parse(path string, data []byte) (cue.Value, error)
	Validate(path string, doc cue.Value) error
}

// LocationResolver validates a location set and returns its canonical id.
type LocationResolver interface {
	ValidateLocationSet(set location.Set) (location.Resolved, error)
}

// IngestConfig holds the collaborators of an Ingester.
type IngestConfig struct {
	// Root is the directory holding one subdirectory per tree.
	Root string

	// Validator parses and structurally validates files. Required.
	Validator Validator

	// Resolver resolves location sets. Required.
	Resolver LocationResolver

	// Simplify maps a name to the slug used in ids.
	// Defaults to simplify.Simplify.
	Simplify func(string) string

	// FallbackTags maps a tree to the tag naming an entry when it has no
	// name tag, e.g. "brands" -> "brand".
	FallbackTags map[string]string

	// Logger receives progress. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Ingester is the Ingest Pipeline.
type Ingester struct {
	cfg IngestConfig
}

// IngestReport counts what one run read.
type IngestReport struct {
	Tree    string `json:"tree"`
	Files   int    `json:"files"`
	Entries int    `json:"entries"`
}

// NewIngester checks cfg and fills its defaults.
func NewIngester(cfg IngestConfig) (*Ingester, error) {
	if cfg.Validator == nil {
		return nil, fmt.Errorf("dataset: ingest requires a validator")
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("dataset: ingest requires a location resolver")
	}
	if cfg.Simplify == nil {
		cfg.Simplify = simplify.Simplify
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ingester{cfg: cfg}, nil
}

// run is the state of one Ingest call.
type run struct {
	tree    string
	cache   *Cache
	seen    map[CategoryPath]bool
	entries int
}

// Ingest reads every file of tree into a copy of seed (or a new cache when
// seed is nil) and returns it. Buckets of seed that the tree's files
// mention again are replaced, not merged. On error nothing is returned and
// seed is left untouched.
func (in *Ingester) Ingest(tree string, seed *Cache) (*Cache, IngestReport, error) {
	report := IngestReport{Tree: tree}

	cache := NewCache()
	if seed != nil {
		cache = seed.Clone()
	}

	dir := filepath.Join(in.cfg.Root, tree)
	files, err := FindFiles(dir, ".json")
	if err != nil {
		return nil, report, newIOError(dir, "scanning tree", err)
	}
	if len(files) == 0 {
		in.cfg.Logger.Warn("no files found", "tree", tree, "dir", dir)
	}

	r := &run{tree: tree, cache: cache, seen: make(map[CategoryPath]bool)}
	for _, file := range files {
		before := r.entries
		if err := in.ingestFile(r, file); err != nil {
			return nil, report, err
		}
		report.Files++
		in.cfg.Logger.Debug("file ingested", "file", file, "entries", r.entries-before)
	}
	report.Entries = r.entries

	in.cfg.Logger.Info("tree ingested",
		"tree", tree,
		"files", report.Files,
		"entries", report.Entries,
	)
	return cache, report, nil
}

func (in *Ingester) ingestFile(r *run, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return newIOError(file, "reading file", err)
	}

	doc, err := in.cfg.Validator.Parse(file, data)
	if err != nil {
		return &Error{Code: ErrCodeParse, Message: "file is not valid JSON", File: file, Err: err}
	}
	if err := in.cfg.Validator.Validate(file, doc); err != nil {
		return &Error{Code: ErrCodeSchema, Message: "file does not match the schema", File: file, Err: err}
	}

	decoded, err := schema.Decode(doc)
	if err != nil {
		return &Error{Code: ErrCodeSchema, Message: "decoding document", File: file, Err: err}
	}
	obj, ok := decoded.(canonical.Object)
	if !ok {
		return &Error{Code: ErrCodeSchema, Message: "top level must be an object", File: file}
	}

	for _, m := range obj {
		path, err := ParseCategoryPath(m.Key)
		if err != nil {
			return &Error{Code: ErrCodeSchema, Message: "bad category path", File: file, Err: err}
		}
		if path.Tree != r.tree {
			return &Error{
				Code:    ErrCodeSchema,
				Message: fmt.Sprintf("category path does not belong to tree %q", r.tree),
				File:    file,
				Path:    path.String(),
			}
		}
		items, ok := m.Value.(canonical.Array)
		if !ok {
			return &Error{Code: ErrCodeSchema, Message: "entries must be an array", File: file, Path: path.String()}
		}

		// A path read for the first time in this run replaces whatever the
		// seed cache held for it.
		if !r.seen[path] {
			r.cache.Reset(path)
			r.seen[path] = true
		}
		if target := path.File(in.cfg.Root); target != file {
			in.cfg.Logger.Warn("category is written to a different file than it was read from",
				"path", path.String(),
				"source", file,
				"target", target,
			)
		}

		for _, item := range items {
			if err := in.ingestEntry(r, file, path, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (in *Ingester) ingestEntry(r *run, file string, path CategoryPath, item canonical.Value) error {
	e, err := entryFromValue(item)
	if err != nil {
		return &Error{Code: ErrCodeSchema, Message: "bad entry", File: file, Path: path.String(), Err: err}
	}

	if r.cache.HasName(path, e.DisplayName) {
		dup := newDuplicateNameError(path, e.DisplayName)
		dup.File = file
		return dup
	}

	resolved, err := in.cfg.Resolver.ValidateLocationSet(e.LocationSet)
	if err != nil {
		return &Error{
			Code:    ErrCodeLocation,
			Message: "invalid locationSet",
			File:    file,
			Path:    path.String(),
			Name:    e.DisplayName,
			Err:     err,
		}
	}

	e.Tags[path.Key] = path.Value

	fallback := in.cfg.FallbackTags[r.tree]
	name, ok := e.Name(fallback)
	if !ok {
		msg := "entry has no name tag"
		if fallback != "" {
			msg = fmt.Sprintf("entry has neither a name tag nor a %q tag", fallback)
		}
		return &Error{
			Code:    ErrCodeMissingName,
			Message: msg,
			File:    file,
			Path:    path.String(),
			Name:    e.DisplayName,
		}
	}

	slug := in.cfg.Simplify(name)
	if slug == "" {
		return &Error{
			Code:    ErrCodeMissingName,
			Message: fmt.Sprintf("name %q has no letters or digits to build an id from", name),
			File:    file,
			Path:    path.String(),
			Name:    e.DisplayName,
		}
	}
	e.ID = DeriveID(slug, path, resolved.ID)

	if err := r.cache.Insert(path, e); err != nil {
		var de *Error
		if errors.As(err, &de) {
			de.File = file
		}
		return err
	}
	r.entries++
	return nil
}
