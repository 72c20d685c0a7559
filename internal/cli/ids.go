package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1-Byte/name-suggestion-index/internal/config"
	"github.com/1-Byte/name-suggestion-index/internal/ledger"
)

// IDsOptions holds flags for the ids command.
type IDsOptions struct {
	From string
	To   string
}

// IDsResult wraps a ledger diff for output.
type IDsResult struct {
	ledger.Diff
}

func (r IDsResult) String() string {
	var b strings.Builder
	if r.From == "" {
		fmt.Fprintf(&b, "%s: first run %s\n", r.Tree, r.To)
	} else {
		fmt.Fprintf(&b, "%s: %s -> %s\n", r.Tree, r.From, r.To)
	}
	for _, s := range r.Added {
		fmt.Fprintf(&b, "+ %s  %s  %q\n", s.ID, s.Path, s.DisplayName)
	}
	for _, s := range r.Removed {
		fmt.Fprintf(&b, "- %s  %s  %q\n", s.ID, s.Path, s.DisplayName)
	}
	fmt.Fprintf(&b, "%d added, %d removed", len(r.Added), len(r.Removed))
	return b.String()
}

// NewIDsCommand creates the ids command.
func NewIDsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IDsOptions{}

	cmd := &cobra.Command{
		Use:   "ids <tree>",
		Short: "Show how the ids of a tree changed between builds",
		Long: `Compare the ids recorded in the ledger by two builds of a tree. By
default the latest build is compared with the one before it. Renaming an
entry or changing its locations changes its id, which shows up here as a
removed and an added id.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIDs(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "run id to compare from (requires --to)")
	cmd.Flags().StringVar(&opts.To, "to", "", "run id to compare to")

	return cmd
}

func runIDs(rootOpts *RootOptions, opts *IDsOptions, tree string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if opts.From != "" && opts.To == "" {
		return formatter.Fail(ErrCodeUsage, fmt.Errorf("--from requires --to"))
	}

	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return formatter.Fail(ErrCodeConfig, err)
	}
	if cfg.Ledger == "" {
		return formatter.Fail(ErrCodeLedger, fmt.Errorf("no ledger configured (set ledger in %s or pass --ledger)", config.FileName))
	}

	led, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return formatter.Fail(ErrCodeLedger, err)
	}
	defer led.Close()

	var d ledger.Diff
	if opts.To != "" {
		d, err = led.Diff(cmd.Context(), tree, opts.From, opts.To)
	} else {
		d, err = led.Latest(cmd.Context(), tree)
	}
	if err != nil {
		return formatter.Fail(ErrCodeLedger, err)
	}

	return formatter.Success(IDsResult{Diff: d})
}
