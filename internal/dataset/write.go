package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/1-Byte/name-suggestion-index/internal/canonical"
	"github.com/1-Byte/name-suggestion-index/internal/location"
)

// WriteConfig configures a Writer.
type WriteConfig struct {
	// Root is the directory holding one subdirectory per tree.
	Root string

	// LineWidth bounds the rendered line length.
	// Defaults to canonical.DefaultWidth.
	LineWidth int

	// Logger receives progress. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Writer is the Canonicalize/Write Pipeline.
type Writer struct {
	cfg WriteConfig
}

// WriteReport counts what one run wrote.
type WriteReport struct {
	Tree    string `json:"tree"`
	Files   int    `json:"files"`
	Entries int    `json:"entries"`
}

// NewWriter fills the defaults of cfg.
func NewWriter(cfg WriteConfig) *Writer {
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = canonical.DefaultWidth
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{cfg: cfg}
}

// Write normalizes every entry of tree held by cache and rewrites one file
// per category path. Entries are normalized in place. Empty buckets are
// skipped. The first file system error aborts the run.
func (w *Writer) Write(tree string, cache *Cache) (WriteReport, error) {
	report := WriteReport{Tree: tree}

	buckets := cache.SelectByTree(tree)
	if len(buckets) == 0 {
		return report, &Error{Code: ErrCodeNoData, Message: fmt.Sprintf("nothing to write for tree %q", tree)}
	}

	for _, b := range buckets {
		if len(b.Entries) == 0 {
			w.cfg.Logger.Debug("skipping empty category", "path", b.Path.String())
			continue
		}

		data, err := Render(b.Path, b.Entries, w.cfg.LineWidth)
		if err != nil {
			return report, &Error{Code: ErrCodeSchema, Message: "rendering entries", Path: b.Path.String(), Err: err}
		}

		file := b.Path.File(w.cfg.Root)
		if err := writeFile(file, data); err != nil {
			return report, err
		}
		report.Files++
		report.Entries += len(b.Entries)
		w.cfg.Logger.Debug("file written", "file", file, "entries", len(b.Entries))
	}

	w.cfg.Logger.Info("tree written",
		"tree", tree,
		"files", report.Files,
		"entries", report.Entries,
	)
	return report, nil
}

// Render canonicalizes entries and renders them as the file of path:
// {"<path>": [entries sorted by display name]}. The entries are
// normalized in place; the slice itself is sorted in place.
func Render(path CategoryPath, entries []*Entry, width int) ([]byte, error) {
	SortEntries(entries)

	arr := make(canonical.Array, len(entries))
	for i, e := range entries {
		arr[i] = Canonicalize(e)
	}
	doc := canonical.Object{{Key: path.String(), Value: arr}}
	return canonical.MarshalPretty(doc, width)
}

// SortEntries orders entries by display name (locale-aware), then by id.
func SortEntries(entries []*Entry) {
	slices.SortStableFunc(entries, func(a, b *Entry) int {
		if c := canonical.Compare(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Canonicalize normalizes e in place and returns its sorted file form:
//   - locationSet becomes {include, exclude?}; codes are lowercased and
//     sorted, and a missing or empty include becomes ["001"]
//   - matchNames and matchTags are lowercased, order kept
//   - tags, then the whole entry, get canonical key order
func Canonicalize(e *Entry) canonical.Object {
	e.LocationSet = NormalizeLocationSet(e.LocationSet)
	if e.MatchNames != nil {
		e.MatchNames = lowercase(e.MatchNames)
	}
	if e.MatchTags != nil {
		e.MatchTags = lowercase(e.MatchTags)
	}

	obj := e.Value()
	obj.Set("tags", canonical.SortObject(canonical.StringMap(e.Tags)))
	return canonical.SortObject(obj)
}

// NormalizeLocationSet returns the canonical form of set. An empty exclude
// list is dropped.
func NormalizeLocationSet(set location.Set) location.Set {
	out := location.Set{Include: []location.Location{location.Code(location.World)}}
	if len(set.Include) > 0 {
		out.Include = normalizeLocations(set.Include)
	}
	if len(set.Exclude) > 0 {
		out.Exclude = normalizeLocations(set.Exclude)
	}
	return out
}

func normalizeLocations(locs []location.Location) []location.Location {
	out := make([]location.Location, len(locs))
	for i, l := range locs {
		out[i] = l.Lower()
	}
	slices.SortStableFunc(out, location.Compare)
	return out
}

func lowercase(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

// writeFile creates the parent directories and the file, then writes data.
// The file is closed on every path.
func writeFile(file string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return newIOError(file, "creating directory", err)
	}
	f, err := os.Create(file)
	if err != nil {
		return newIOError(file, "creating file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = newIOError(file, "closing file", cerr)
		}
	}()
	if _, err := f.Write(data); err != nil {
		return newIOError(file, "writing file", err)
	}
	return nil
}
