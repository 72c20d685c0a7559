package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/1-Byte/name-suggestion-index/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	Config    string
	Root      string
	LineWidth int
	Ledger    string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the nsi CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nsi",
		Short: "nsi - name suggestion index dataset tools",
		Long: `Tools for the name suggestion index dataset.

Reads the hand-edited category files of each tree, checks them, derives a
stable id for every entry and writes the files back in canonical form.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.LineWidth < 0 {
				return fmt.Errorf("invalid line width %d", opts.LineWidth)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "config file (default ./"+config.FileName+" if present)")
	cmd.PersistentFlags().StringVar(&opts.Root, "root", "", "data directory (overrides config)")
	cmd.PersistentFlags().IntVar(&opts.LineWidth, "line-width", 0, "line width of written files (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Ledger, "ledger", "", "id ledger database (overrides config)")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewIDsCommand(opts))

	return cmd
}

// loadConfig reads the configuration named by --config, or ./nsi.yaml when
// it exists, or the defaults, and applies the flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case opts.Config != "":
		c, err := config.Load(opts.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		c, err := config.Load(config.FileName)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, fs.ErrNotExist):
			cfg = config.Default()
		default:
			return nil, err
		}
	}

	if opts.Root != "" {
		cfg.Root = opts.Root
	}
	if opts.LineWidth > 0 {
		cfg.LineWidth = opts.LineWidth
	}
	if opts.Ledger != "" {
		cfg.Ledger = opts.Ledger
	}
	return cfg, nil
}

// newLogger returns the structured logger of a command: text on w, debug
// level when verbose.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
