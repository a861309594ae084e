package cli

import (
	"fmt"
	"runtime"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idelchi/dupstat/internal/dupstat"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the provided arguments.
func (c CLI) Execute() error {
	var (
		options      dupstat.Options
		minSizeStr   string
		chunkSizeStr string
	)

	cmd := &cobra.Command{
		Use:   "dupstat [flags] roots...",
		Short: "Find duplicate files and report the wasted disk space",
		Long: heredoc.Doc(`
			dupstat scans one or more directory trees for files with identical content
			and reports the disk space wasted by the redundant copies.

			Files are first grouped by exact size, so only sizes shared by two or more
			files are ever read. The candidates are then verified with a fast streaming
			content hash and the confirmed duplicate groups are ranked by wasted space.

			The full report is written to the file given with --output; the console
			shows per-stage progress and a summary with the most duplicated file and
			the largest waste of space.
		`),
		Version:      c.version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			options.Roots = args

			// Parse human-readable sizes to bytes
			size, err := humanize.ParseBytes(minSizeStr)
			if err != nil {
				return fmt.Errorf("invalid min-size: %w", err)
			}

			options.MinSize = int64(size) //nolint:gosec // Size conversion from humanize is safe

			chunk, err := humanize.ParseBytes(chunkSizeStr)
			if err != nil {
				return fmt.Errorf("invalid chunk-size: %w", err)
			}

			options.ChunkSize = int64(chunk) //nolint:gosec // Size conversion from humanize is safe

			return logic(options)
		},
	}

	cmd.Flags().StringVarP(&options.Output, "output", "o", "duplicates.txt", "Report file path")
	cmd.Flags().IntVarP(&options.Workers, "workers", "w", runtime.NumCPU(), "Worker count for walking and hashing")
	cmd.Flags().StringVar(&chunkSizeStr, "chunk-size", "16MiB", "Read size used when hashing content (e.g., 1MiB)")
	cmd.Flags().StringVar(&minSizeStr, "min-size", "0KB", "Minimum file size (e.g., 1KB)")
	cmd.Flags().StringSliceVarP(&options.Excludes, "exclude", "e", nil, "Regex patterns to exclude")
	cmd.Flags().BoolVar(&options.FastWalk, "fast-walk", false, "Walk each root with a parallel traversal")
	cmd.Flags().BoolVar(&options.JSON, "json", false, "Print the report as JSON instead of a summary")
	cmd.Flags().BoolVar(&options.Debug, "debug", false, "Enable debug output")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.Flags().SortFlags = false

	return cmd.Execute()
}
