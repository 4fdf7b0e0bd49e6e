package bench

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alexbotov/rnglab/internal/domain"
)

// WriteTable renders a report as the classic console table: one line per
// sample size with aggregated statistics, NIST pass rates, and timing.
func WriteTable(w io.Writer, report *domain.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Generator\tSamples\tMean\tSTDdev\tCV\tchi2\tmonobit\tblock freq\truns\tcumulative sums\tserial2\tgen ms\tanalyze ms\n")
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			report.Generator, row.SampleSize,
			row.Mean, row.Stdev, row.CoeffVar, row.ChiSquared,
			row.Monobit, row.BlockFrequency, row.Runs, row.CumulativeSums, row.Serial2,
			row.GenerateMS, row.AnalyzeMS)
	}

	return tw.Flush()
}
