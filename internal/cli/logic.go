package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/idelchi/dupstat/internal/dupstat"
)

func logic(options dupstat.Options) error {
	enableProgress := !options.JSON &&
		!options.Debug &&
		isatty.IsTerminal(os.Stderr.Fd())

	ctx := context.Background()

	// Create the report file before scanning so a bad output path fails
	// fast and a report exists even for a run that finds nothing.
	out, err := os.Create(options.Output)
	if err != nil {
		return fmt.Errorf("creating report file %q: %w", options.Output, err)
	}
	defer out.Close()

	notify := newNotifier(os.Stdout, os.Stderr, notifierOptions{
		progress: enableProgress,
		quiet:    options.JSON,
	})

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")
	}

	report, err := dupstat.Run(ctx, options, notify)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if err := WriteReport(out, report); err != nil {
		return fmt.Errorf("writing report file %q: %w", options.Output, err)
	}

	if options.JSON {
		return PrintJSON(report, os.Stdout)
	}

	return PrintSummary(report, options.Output, os.Stdout)
}
