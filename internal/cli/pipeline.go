package cli

import (
	"fmt"
	"log/slog"

	"github.com/1-Byte/name-suggestion-index/internal/config"
	"github.com/1-Byte/name-suggestion-index/internal/dataset"
	"github.com/1-Byte/name-suggestion-index/internal/ledger"
	"github.com/1-Byte/name-suggestion-index/internal/location"
	"github.com/1-Byte/name-suggestion-index/internal/schema"
)

// pipeline wires the ingest and write pipelines from a configuration.
type pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	ingester *dataset.Ingester
	writer   *dataset.Writer
}

func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	validator, err := schema.New()
	if err != nil {
		return nil, err
	}

	features, err := location.LoadFeatures(cfg.Features)
	if err != nil {
		return nil, fmt.Errorf("loading features: %w", err)
	}
	logger.Debug("features loaded", "dir", cfg.Features, "count", len(features))

	ingester, err := dataset.NewIngester(dataset.IngestConfig{
		Root:         cfg.Root,
		Validator:    validator,
		Resolver:     location.NewResolver(location.WithFeatures(features...)),
		FallbackTags: cfg.FallbackTags(),
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	return &pipeline{
		cfg:      cfg,
		logger:   logger,
		ingester: ingester,
		writer: dataset.NewWriter(dataset.WriteConfig{
			Root:      cfg.Root,
			LineWidth: cfg.LineWidth,
			Logger:    logger,
		}),
	}, nil
}

// selectTrees returns args, or every configured tree when args is empty.
func (p *pipeline) selectTrees(args []string) ([]string, error) {
	if len(args) == 0 {
		return p.cfg.TreeNames(), nil
	}
	seen := make(map[string]bool, len(args))
	var trees []string
	for _, tree := range args {
		if !p.cfg.HasTree(tree) {
			return nil, fmt.Errorf("unknown tree %q (configured: %v)", tree, p.cfg.TreeNames())
		}
		if !seen[tree] {
			seen[tree] = true
			trees = append(trees, tree)
		}
	}
	return trees, nil
}

// ingest reads every tree into one cache, so ids are checked for
// uniqueness across trees.
func (p *pipeline) ingest(trees []string) (*dataset.Cache, []dataset.IngestReport, error) {
	var cache *dataset.Cache
	reports := make([]dataset.IngestReport, 0, len(trees))
	for _, tree := range trees {
		next, report, err := p.ingester.Ingest(tree, cache)
		if err != nil {
			return nil, nil, err
		}
		cache = next
		reports = append(reports, report)
	}
	if cache == nil {
		cache = dataset.NewCache()
	}
	return cache, reports, nil
}

// snapshots lists the ids of tree held by cache, in path order.
func snapshots(cache *dataset.Cache, tree string) []ledger.Snapshot {
	var out []ledger.Snapshot
	for _, b := range cache.SelectByTree(tree) {
		for _, e := range b.Entries {
			out = append(out, ledger.Snapshot{
				ID:          e.ID,
				Path:        b.Path.String(),
				DisplayName: e.DisplayName,
			})
		}
	}
	return out
}
