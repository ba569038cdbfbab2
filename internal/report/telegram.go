package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"CanslimScout/internal/model"
)

// FormatTelegram renders a compact HTML report for Telegram delivery.
func FormatTelegram(r *model.RunReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>CANSLIM Scout</b> | %s\n\n", r.GeneratedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Market Direction: <b>%s</b> (%s)\n", r.MarketLabel, r.MarketDetail))
	b.WriteString(fmt.Sprintf("Analyzed %d of %d tickers", r.Analyzed, r.UniverseSize))
	if r.Skipped > 0 {
		b.WriteString(fmt.Sprintf(", %d skipped", r.Skipped))
	}
	b.WriteString("\n\n")

	if len(r.Results) == 0 {
		b.WriteString("No stocks could be analyzed.\n")
	}

	for i, a := range r.Results {
		p := a.Projection
		name := a.Name
		if name == "" {
			name = a.Ticker
		}
		b.WriteString(fmt.Sprintf("<b>#%d %s</b> - %s\n", i+1, a.Ticker, name))
		b.WriteString(fmt.Sprintf("  $%s | score %.0f/%.0f\n",
			humanize.FormatFloat("#,###.##", a.CurrentPrice), a.Score.Total, model.MaxTotalScore))
		b.WriteString(fmt.Sprintf("  6-month growth <b>%+.1f%%</b> → $%s (%s confidence)\n",
			p.ProjectedGrowthPct, humanize.FormatFloat("#,###.##", p.ProjectedPrice), p.Confidence))
		b.WriteString(fmt.Sprintf("  M %+.1f%% | E %+.1f%% | C %+.1f%% | S %+.1f%%\n\n",
			p.MomentumComponent, p.EarningsComponent, p.CanslimComponent, p.SectorComponent))
	}

	b.WriteString("<i>Educational purposes only. Not financial advice.</i>")
	return b.String()
}

// FormatMarketStatus renders just the market direction, for the /market
// command.
func FormatMarketStatus(label, detail string) string {
	return fmt.Sprintf("📈 Market Direction: <b>%s</b>\n%s", label, detail)
}
