package ui

import (
	"fmt"
	"io"

	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

// PrintSummary renders the end-of-run banner with capture counts, timing and
// the report location.
func PrintSummary(w io.Writer, info models.BatchInfo, inaccessible int, reportDir string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Bold("Capture summary"))
	fmt.Fprintf(w, "  %s %d\n", pad("Captured:"), info.TotalSuccess)
	if info.TotalFailed > 0 {
		fmt.Fprintf(w, "  %s %s\n", pad("Failed:"), Error(fmt.Sprintf("%d", info.TotalFailed)))
	} else {
		fmt.Fprintf(w, "  %s %d\n", pad("Failed:"), info.TotalFailed)
	}
	if inaccessible > 0 {
		fmt.Fprintf(w, "  %s %s\n", pad("Unreachable:"), Info(fmt.Sprintf("%d", inaccessible)))
	}
	fmt.Fprintf(w, "  %s %.1fs total, %.1fs/url avg\n",
		pad("Timing:"), info.BatchTime.TotalTimeSeconds, info.BatchTime.AverageURLTime)
	fmt.Fprintf(w, "  %s %.0f%%\n", pad("Efficiency:"), info.BatchTime.ParallelEfficiency)
	fmt.Fprintf(w, "  %s %s\n", pad("Report:"), Success(reportDir))
	fmt.Fprintln(w)
}

func pad(label string) string {
	return fmt.Sprintf("%-13s", label)
}
