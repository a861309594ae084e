package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

//nolint:gochecknoglobals // Shared color palette
var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
)

// notifierOptions configures the console notifier.
type notifierOptions struct {
	// progress enables the transient in-place status line.
	progress bool
	// quiet suppresses stage lines (root failures still print).
	quiet bool
}

// notifier renders pipeline events for the console: stage lines on w,
// root failures on errW, and a transient status line on errW while the
// scan runs. Safe for concurrent use; the scan stage reports progress
// and root failures from worker goroutines.
type notifier struct {
	mu      sync.Mutex
	w       io.Writer
	errW    io.Writer
	opts    notifierOptions
	showing bool // a transient status line is on screen
}

func newNotifier(w, errW io.Writer, opts notifierOptions) *notifier {
	return &notifier{w: w, errW: errW, opts: opts}
}

// clearStatus erases the in-place status line. Callers hold mu.
func (n *notifier) clearStatus() {
	if n.showing {
		fmt.Fprint(n.errW, "\r\033[2K")
		n.showing = false
	}
}

// ScanStarted announces the walk.
func (n *notifier) ScanStarted(roots []string, workers int) {
	if n.opts.quiet {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.clearStatus()
	bold.Fprintf(n.w, "Scanning %d root(s) with up to %d worker(s)\n", len(roots), workers)
}

// ScanProgress redraws the status line with the running tallies.
func (n *notifier) ScanProgress(files, bytes int64) {
	if !n.opts.progress {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	msg := fmt.Sprintf("Scanning… %d files, %s",
		files, humanize.Bytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
	fmt.Fprintf(n.errW, "\r\033[2K%s\r", msg)
	n.showing = true
}

// RootFailed warns about a root that contributed nothing. Printed even
// in quiet mode since it changes what the report covers.
func (n *notifier) RootFailed(root string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.clearStatus()
	yellow.Fprintf(n.errW, "skipping root %q: %v\n", root, err)
}

// ScanFinished reports the completed walk.
func (n *notifier) ScanFinished(files int, skipped int64, elapsed time.Duration) {
	if n.opts.quiet {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.clearStatus()
	fmt.Fprintf(n.w, "Scanned %d files in %v", files, elapsed.Round(time.Millisecond))

	if skipped > 0 {
		fmt.Fprintf(n.w, " (skipped %d unreadable entries)", skipped)
	}

	fmt.Fprintln(n.w)
}

// SizeGroupsFound reports the size-grouping outcome.
func (n *notifier) SizeGroupsFound(groups, candidates int, _ time.Duration) {
	if n.opts.quiet {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.clearStatus()
	fmt.Fprintf(n.w, "Found %d size(s) shared by %d candidate file(s)\n", groups, candidates)
}

// HashingFinished reports the hashing outcome.
func (n *notifier) HashingFinished(hashed int, failures int64, elapsed time.Duration) {
	if n.opts.quiet {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.clearStatus()
	fmt.Fprintf(n.w, "Hashed %d candidate file(s) in %v", hashed, elapsed.Round(time.Millisecond))

	if failures > 0 {
		fmt.Fprintf(n.w, " (%d unreadable)", failures)
	}

	fmt.Fprintln(n.w)
}
