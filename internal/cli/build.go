package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1-Byte/name-suggestion-index/internal/dataset"
	"github.com/1-Byte/name-suggestion-index/internal/ledger"
)

// BuildResult is the output of the build command.
type BuildResult struct {
	Trees []TreeBuild `json:"trees"`
}

// TreeBuild reports one tree of a build.
type TreeBuild struct {
	Tree    string `json:"tree"`
	Read    int    `json:"filesRead"`
	Written int    `json:"filesWritten"`
	Entries int    `json:"entries"`
	RunID   string `json:"runId,omitempty"`
}

func (r BuildResult) String() string {
	var b strings.Builder
	for _, t := range r.Trees {
		fmt.Fprintf(&b, "✓ %s: %d entries, %d file(s) read, %d written", t.Tree, t.Entries, t.Read, t.Written)
		if t.RunID != "" {
			fmt.Fprintf(&b, " (run %s)", t.RunID)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [tree...]",
		Short: "Derive ids and rewrite dataset files in canonical form",
		Long: `Read every category file of the given trees (all configured trees by
default), check them, derive the id of every entry and write the files back
sorted and pretty-printed.

A tree named on the command line must have data; a configured tree without
files is skipped with a warning.

Nothing is written unless every tree reads cleanly. When a ledger is
configured, the ids of each tree are recorded as a new run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runBuild(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts, cmd.ErrOrStderr())

	cfg, err := loadConfig(opts)
	if err != nil {
		return formatter.Fail(ErrCodeConfig, err)
	}
	p, err := newPipeline(cfg, logger)
	if err != nil {
		return formatter.Fail(ErrCodeConfig, err)
	}
	trees, err := p.selectTrees(args)
	if err != nil {
		return formatter.Fail(ErrCodeUsage, err)
	}

	cache, reports, err := p.ingest(trees)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err)
	}

	var led *ledger.Ledger
	if cfg.Ledger != "" {
		led, err = ledger.Open(cfg.Ledger)
		if err != nil {
			return formatter.Fail(ErrCodeLedger, err)
		}
		defer led.Close()
	}

	result := BuildResult{}
	for i, tree := range trees {
		// snapshot before Write, which sorts buckets in place
		ids := snapshots(cache, tree)

		wr, err := p.writer.Write(tree, cache)
		if err != nil {
			// A tree picked by default may simply not exist yet.
			if dataset.IsNoData(err) && len(args) == 0 {
				logger.Warn("nothing to write", "tree", tree)
				result.Trees = append(result.Trees, TreeBuild{Tree: tree, Read: reports[i].Files})
				continue
			}
			return formatter.Fail(ErrCodeGeneric, err)
		}

		tb := TreeBuild{
			Tree:    tree,
			Read:    reports[i].Files,
			Written: wr.Files,
			Entries: wr.Entries,
		}
		if led != nil {
			run, err := led.Record(cmd.Context(), tree, ids)
			if err != nil {
				return formatter.Fail(ErrCodeLedger, err)
			}
			tb.RunID = run.ID
		}
		result.Trees = append(result.Trees, tb)
	}

	return formatter.Success(result)
}
