// Package report renders a SummaryReport as aligned text tables for the
// terminal or for file export. Rates are formatted as percentages here;
// the model keeps them as fractions.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zwimpee2/clinical-note-review/internal/model"
)

// Render writes the full report to out. An empty report renders a single
// diagnostic line instead of the sub-tables.
func Render(out io.Writer, rep *model.SummaryReport) {
	fmt.Fprintf(out, "Records analyzed: %d resolved", rep.ResolvedCount)
	if rep.AmbiguousCount > 0 {
		fmt.Fprintf(out, " (%d excluded with ambiguous validation status)", rep.AmbiguousCount)
	}
	fmt.Fprintln(out)

	if rep.Empty {
		fmt.Fprintln(out, "No records with a clear Valid/Invalid status found for analysis.")
		return
	}

	renderOverall(out, rep.Overall)
	renderPerVersion(out, rep.PerVersion)
	renderReasons(out, rep.InvalidReason)
	renderAgreement(out, rep.Agreement)
}

func renderOverall(out io.Writer, s model.OverallSummary) {
	fmt.Fprintln(out, "\n--- Overall Validation Summary ---")
	fmt.Fprintf(out, "Total Reviews Analyzed: %d\n", s.Total)
	fmt.Fprintf(out, "  Valid Attributions: %d (%s)\n", s.Valid, pct(s.ValidRate))
	fmt.Fprintf(out, "  Invalid Attributions: %d (%s)\n", s.Invalid, pct(s.InvalidRate))
}

func renderPerVersion(out io.Writer, summaries []model.VersionSummary) {
	fmt.Fprintln(out, "\n--- Validation Summary by Version Key ---")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VERSION\tTOTAL\tVALID\tINVALID\tVALID RATE\tINVALID RATE")
	_, _ = fmt.Fprintln(w, "-------\t-----\t-----\t-------\t----------\t------------")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n",
			s.VersionKey, s.Total, s.Valid, s.Invalid, pct(s.ValidRate), pct(s.InvalidRate))
	}
	_ = w.Flush()
}

func renderReasons(out io.Writer, ct *model.ReasonCrossTab) {
	fmt.Fprintln(out, "\n--- Invalid Reason Analysis (for Invalid Attributions) ---")
	if ct == nil || ct.GrandTotal == 0 {
		fmt.Fprintln(out, "No invalid attributions found to analyze reasons.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := append([]string{"VERSION"}, ct.Reasons...)
	header = append(header, "TOTAL INVALID")
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range ct.Rows {
		cells := []string{row}
		for _, reason := range ct.Reasons {
			cells = append(cells, fmt.Sprintf("%d", ct.Cell(row, reason)))
		}
		cells = append(cells, fmt.Sprintf("%d", ct.RowTotals[row]))
		_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	// Column totals, grand total in the corner.
	totals := []string{"Total"}
	for _, reason := range ct.Reasons {
		totals = append(totals, fmt.Sprintf("%d", ct.ReasonTotals[reason]))
	}
	totals = append(totals, fmt.Sprintf("%d", ct.GrandTotal))
	_, _ = fmt.Fprintln(w, strings.Join(totals, "\t"))
	_ = w.Flush()
}

func renderAgreement(out io.Writer, summaries []model.AgreementSummary) {
	fmt.Fprintln(out, "\n--- Agreement with Ground Truth (Predicted Class vs Ground Truth Class) ---")
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No records found with non-empty Ground Truth and Predicted Class for agreement analysis.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VERSION\tTOTAL W/ GT & PRED\tMATCHES\tMISMATCHES\tAGREEMENT\tDISAGREEMENT")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n",
			s.VersionKey, s.Total, s.Matches, s.Mismatches, pct(s.AgreementRate), pct(s.DisagreementRate))
	}
	_ = w.Flush()
}

func pct(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
