package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"creditScope/internal/model"
)

const histogramWidth = 40

// RenderSummary prints the distribution statistics, score ranges and
// low/high cohorts.
func RenderSummary(w io.Writer, s Summary) {
	if s.Wallets == 0 {
		fmt.Fprintln(w, "No wallets to analyze.")
		return
	}

	fmt.Fprintln(w, "Score Distribution Statistics:")
	t := newTable(w)
	t.AppendHeader(table.Row{"Wallets", "Mean", "Median", "Std Dev", "Min", "Max"})
	t.AppendRow(table.Row{
		s.Wallets,
		fmt.Sprintf("%.2f", s.Mean),
		fmt.Sprintf("%.2f", s.Median),
		fmt.Sprintf("%.2f", s.Std),
		fmt.Sprintf("%.2f", s.Min),
		fmt.Sprintf("%.2f", s.Max),
	})
	t.Render()

	fmt.Fprintln(w, "\nScore Range Distribution:")
	t = newTable(w)
	t.AppendHeader(table.Row{"Range", "Wallets", "Share"})
	for _, b := range s.Buckets {
		t.AppendRow(table.Row{b.Label(), b.Count, fmt.Sprintf("%.1f%%", b.Percentage)})
	}
	t.Render()

	fmt.Fprintln(w, "\nScore Cohorts:")
	t = newTable(w)
	t.AppendHeader(table.Row{"Cohort", "Wallets", "Avg Transactions", "Avg USD Volume", "Avg Risk", "Avg Consistency"})
	t.AppendRow(cohortRow(fmt.Sprintf("low (< %d)", lowScoreCutoff), s.Low, true))
	t.AppendRow(cohortRow(fmt.Sprintf("high (>= %d)", highScoreCutoff), s.High, false))
	t.Render()
}

// RenderWallets prints wallet, score, transaction count and USD volume.
func RenderWallets(w io.Writer, title string, scores []model.WalletScore) {
	fmt.Fprintln(w, title)
	t := newTable(w)
	t.AppendHeader(table.Row{"Wallet", "Credit Score", "Transactions", "USD Volume"})
	for _, s := range scores {
		t.AppendRow(table.Row{
			s.Wallet,
			fmt.Sprintf("%.2f", s.CreditScore),
			s.Features.TotalTransactions,
			fmt.Sprintf("%.2f", s.Features.TotalUSDVolume),
		})
	}
	t.Render()
}

// RenderHistogram prints the score ranges as horizontal bars.
func RenderHistogram(w io.Writer, s Summary) {
	fmt.Fprintln(w, "Wallet Credit Score Distribution")
	peak := 0
	for _, b := range s.Buckets {
		peak = max(peak, b.Count)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Credit Score", "Wallets", ""})
	for _, b := range s.Buckets {
		t.AppendRow(table.Row{b.Label(), b.Count, bar(b.Count, peak)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	return t
}

func cohortRow(name string, c Cohort, low bool) table.Row {
	if c.Count == 0 {
		return table.Row{name, 0, "-", "-", "-", "-"}
	}
	risk, consistency := fmt.Sprintf("%.3f", c.AvgRiskIndicators), "-"
	if !low {
		risk, consistency = "-", fmt.Sprintf("%.3f", c.AvgConsistentUsage)
	}
	return table.Row{
		name,
		c.Count,
		fmt.Sprintf("%.2f", c.AvgTransactions),
		fmt.Sprintf("$%.2f", c.AvgUSDVolume),
		risk,
		consistency,
	}
}

func bar(count, peak int) string {
	if peak == 0 || count == 0 {
		return ""
	}
	return strings.Repeat("#", max(1, count*histogramWidth/peak))
}
