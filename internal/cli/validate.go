package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1-Byte/name-suggestion-index/internal/dataset"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool                   `json:"valid"`
	Trees []dataset.IngestReport `json:"trees"`
}

func (r ValidationResult) String() string {
	var b strings.Builder
	for _, t := range r.Trees {
		fmt.Fprintf(&b, "✓ %s: %d entries in %d file(s)\n", t.Tree, t.Entries, t.Files)
	}
	b.WriteString("✓ All trees valid")
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [tree...]",
		Short: "Check dataset files without writing them",
		Long: `Read and check every category file of the given trees (all configured
trees by default): JSON syntax, schema, location sets, names and id
uniqueness. No file is written.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return formatter.Fail(ErrCodeConfig, err)
	}
	p, err := newPipeline(cfg, newLogger(opts, cmd.ErrOrStderr()))
	if err != nil {
		return formatter.Fail(ErrCodeConfig, err)
	}
	trees, err := p.selectTrees(args)
	if err != nil {
		return formatter.Fail(ErrCodeUsage, err)
	}

	formatter.VerboseLog("Validating %d tree(s) under %s", len(trees), cfg.Root)
	_, reports, err := p.ingest(trees)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err)
	}

	return formatter.Success(ValidationResult{Valid: true, Trees: reports})
}
