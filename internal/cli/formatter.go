package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dupstat/internal/dupstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// formatSize renders a byte count with its human-readable SI form.
func formatSize(size int64) string {
	return fmt.Sprintf("%d bytes (%s)", size, humanize.Bytes(uint64(size)))
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *dupstat.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// WriteReport renders the full report: a preamble with the group count
// and total waste, the two highlight sections, then every group with its
// member paths, largest waste first.
func WriteReport(writer io.Writer, report *dupstat.Report) error {
	w := bufio.NewWriter(writer)

	fmt.Fprintf(w, "Found %d duplicate groups\n", report.GroupCount)
	fmt.Fprintf(w, "Total wasted space: %s\n\n", formatSize(report.TotalWastedSize))

	if group := report.MostDuplicated; group != nil {
		fmt.Fprintln(w, "Most duplicated file:")
		fmt.Fprintf(w, "  Copies: %d\n", group.Count)
		fmt.Fprintf(w, "  Size per copy: %s\n", formatSize(group.Size))
		fmt.Fprintf(w, "  Wasted space: %s\n", formatSize(group.WastedSize))
		fmt.Fprintf(w, "  Example: %s\n\n", group.Paths[0])
	}

	if group := report.LargestWaste; group != nil {
		fmt.Fprintln(w, "Largest waste of space:")
		fmt.Fprintf(w, "  Copies: %d\n", group.Count)
		fmt.Fprintf(w, "  Size per copy: %s\n", formatSize(group.Size))
		fmt.Fprintf(w, "  Wasted space: %s\n", formatSize(group.WastedSize))
		fmt.Fprintf(w, "  Example: %s\n\n", group.Paths[0])
	}

	if report.GroupCount == 0 {
		fmt.Fprintln(w, "No duplicate files found")

		return w.Flush()
	}

	fmt.Fprintln(w, "All duplicate groups, largest waste first")
	fmt.Fprintln(w, "=========================================")
	fmt.Fprintln(w)

	for _, group := range report.Groups {
		fmt.Fprintf(w, "Group: %d copies, %s each, %s wasted\n",
			group.Count, formatSize(group.Size), formatSize(group.WastedSize))

		for _, path := range group.Paths {
			fmt.Fprintf(w, "  %s\n", path)
		}

		fmt.Fprintln(w)
	}

	return w.Flush()
}

// PrintSummary outputs the run in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintSummary(report *dupstat.Report, reportPath string, writer io.Writer) error {
	if report.GroupCount == 0 {
		green.Fprintf(writer, "\nNo duplicate files found (%d files scanned)\n", report.FilesScanned)
	}

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	if report.GroupCount > 0 {
		fmt.Fprintln(w, "\nDuplicates:\t\t")
		fmt.Fprintf(w, "Groups:\t%d\n", report.GroupCount)
		fmt.Fprintf(w, "Wasted space:\t%s (%d bytes)\n",
			humanize.Bytes(uint64(report.TotalWastedSize)), report.TotalWastedSize)

		if group := report.MostDuplicated; group != nil {
			fmt.Fprintf(w, "Most duplicated:\t%d copies of %s\t%s\n",
				group.Count, humanize.Bytes(uint64(group.Size)), group.Paths[0])
		}

		if group := report.LargestWaste; group != nil {
			fmt.Fprintf(w, "Largest waste:\t%s across %d copies\t%s\n",
				humanize.Bytes(uint64(group.WastedSize)), group.Count, group.Paths[0])
		}
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Files scanned:\t%d\n", report.FilesScanned)
	fmt.Fprintf(w, "Shared sizes:\t%d\n", report.SizeGroupCount)

	if report.SkippedEntries > 0 {
		fmt.Fprintf(w, "Skipped entries:\t%d\n", report.SkippedEntries)
	}

	if report.HashFailures > 0 {
		fmt.Fprintf(w, "Hash failures:\t%d\n", report.HashFailures)
	}

	fmt.Fprintf(w, "Report:\t%s\n", reportPath)

	fmt.Fprintf(w, "\nElapsed:\t%v (scan %v, group %v, hash %v)\n",
		report.Elapsed, report.ScanElapsed, report.GroupElapsed, report.HashElapsed)

	return w.Flush()
}
