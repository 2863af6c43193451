package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"RiskSentinel/internal/backtest"
	"RiskSentinel/internal/model"
)

// NewDefaultTableStyle is the rounded style used for every CLI table.
func NewDefaultTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleRounded",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsDefault,
	}
	return &style
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*NewDefaultTableStyle())
	t.SetTitle(title)
	return t
}

// WriteVaR renders VaR and, when given, ES results for one symbol.
func WriteVaR(w io.Writer, symbol string, v *model.VaRResult, es *model.ExpectedShortfallResult) {
	t := newTable(w, symbol)
	t.AppendHeader(table.Row{"measure", "horizon", "confidence", "value", "detail"})
	if v != nil {
		t.AppendRow(table.Row{"VaR", v.Horizon, pct(v.Confidence), fmt.Sprintf("%+.4f", v.Value), string(v.Method)})
	}
	if es != nil {
		t.AppendRow(table.Row{"ES", es.Horizon, pct(es.Confidence), fmt.Sprintf("%+.4f", es.Value),
			fmt.Sprintf("%d tail days below %+.4f", es.TailSize, es.Threshold)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
}

// WriteBacktest renders the summary of a backtest, then every exception day.
func WriteBacktest(w io.Writer, bt *BacktestReport) {
	t := newTable(w, bt.Symbol+" VaR backtest")
	o, res := bt.Outcome, bt.Test
	t.AppendRows([]table.Row{
		{"window", model.FormatDate(o.WindowStart) + " - " + model.FormatDate(o.WindowEnd)},
		{"lookback days", o.LookbackDays},
		{"confidence", pct(o.Confidence)},
		{"observations", res.Observations},
		{"exceptions", res.Exceptions},
		{"expected", fmt.Sprintf("%.2f", res.Expected)},
		{"p-value P(X<=k)", fmt.Sprintf("%.4f", res.PValue)},
		{"zone", string(res.Zone)},
		{"verdict", bt.Verdict.Description()},
	})
	t.Render()

	var rows []table.Row
	for _, d := range bt.Days {
		if d.Exception {
			rows = append(rows, table.Row{model.FormatDate(d.Date), fmt.Sprintf("%+.4f", d.Return), fmt.Sprintf("%+.4f", d.VaR)})
		}
	}
	if len(rows) == 0 {
		return
	}
	e := newTable(w, "exceptions")
	e.AppendHeader(table.Row{"date", "return", "VaR"})
	e.AppendRows(rows)
	e.Render()
}

// WriteDistribution renders the binomial exception distribution and marks the observed count.
func WriteDistribution(w io.Writer, bars []backtest.DistributionBar, observed int) {
	t := newTable(w, "exception count distribution")
	t.AppendHeader(table.Row{"k", "P(X=k)", "P(X<=k)", ""})
	for _, bar := range bars {
		mark := ""
		if bar.K == observed {
			mark = "<- observed"
		}
		t.AppendRow(table.Row{bar.K, fmt.Sprintf("%.4f", bar.PMF), fmt.Sprintf("%.4f", bar.CDF), mark})
	}
	t.Render()
}

// WritePaths renders simulated paths, one row per date, at most maxPaths columns.
func WritePaths(w io.Writer, sim *model.SimulatedPaths, maxPaths int) {
	n := sim.Paths()
	if maxPaths > 0 && n > maxPaths {
		n = maxPaths
	}
	t := newTable(w, fmt.Sprintf("GBM paths (mu %+.6f, sigma %.6f)", sim.Params.Mu, sim.Params.Sigma))
	header := table.Row{"date"}
	for p := 0; p < n; p++ {
		header = append(header, fmt.Sprintf("path_%d", p+1))
	}
	t.AppendHeader(header)
	for i, row := range sim.Prices {
		r := table.Row{model.FormatDate(sim.Dates[i])}
		for p := 0; p < n; p++ {
			r = append(r, fmt.Sprintf("%.2f", row[p]))
		}
		t.AppendRow(r)
	}
	t.Render()
}

// WriteHistogram renders return histogram bins.
func WriteHistogram(w io.Writer, bins []Bin) {
	t := newTable(w, "return distribution")
	t.AppendHeader(table.Row{"from", "to", "count"})
	for _, b := range bins {
		t.AppendRow(table.Row{fmt.Sprintf("%+.4f", b.Lower), fmt.Sprintf("%+.4f", b.Upper), b.Count})
	}
	t.Render()
}

func pct(c float64) string {
	return fmt.Sprintf("%.1f%%", c*100)
}
