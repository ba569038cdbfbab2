// Package report renders a pipeline run for the console and for Telegram.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"CanslimScout/internal/model"
)

const lineWidth = 65

const disclaimer = `  This is for educational purposes only. Not financial advice.
  Past performance does not guarantee future results.
  Always do your own research before making investment decisions.`

// WriteConsole renders the full run report as fixed-width console output.
func WriteConsole(w io.Writer, r *model.RunReport) error {
	rule := strings.Repeat("═", lineWidth)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("%s\n", center(fmt.Sprintf("CANSLIM STOCK ANALYZER - TOP %d PICKS", len(r.Results)))))
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Market Direction: %s (%s)\n", r.MarketLabel, r.MarketDetail))
	b.WriteString(fmt.Sprintf("Analysis Date: %s\n", r.GeneratedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Stocks Analyzed: %d / %d\n", r.Analyzed, r.UniverseSize))
	if r.Skipped > 0 {
		b.WriteString(fmt.Sprintf("Stocks Skipped (insufficient data): %d\n", r.Skipped))
	}
	b.WriteString(rule + "\n")

	for i, a := range r.Results {
		writeStock(&b, i+1, a)
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString(center("DISCLAIMER") + "\n")
	b.WriteString(disclaimer + "\n")
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeStock(b *strings.Builder, rank int, a model.Analysis) {
	s := a.Score
	p := a.Projection

	name := a.Name
	if name == "" {
		name = a.Ticker
	}
	if len(name) > 40 {
		name = name[:40]
	}

	fmt.Fprintf(b, "\n#%d %s - %s\n", rank, a.Ticker, name)
	fmt.Fprintf(b, "   Current Price: $%s\n", humanize.FormatFloat("#,###.##", a.CurrentPrice))
	fmt.Fprintf(b, "   CANSLIM Score: %.0f/%.0f\n", s.Total, model.MaxTotalScore)
	fmt.Fprintf(b, "   Projected 6-Month Growth: %+.1f%%\n", p.ProjectedGrowthPct)
	fmt.Fprintf(b, "   Confidence: %s\n\n", p.Confidence)

	b.WriteString("   Score Breakdown:\n")
	fmt.Fprintf(b, "   ├─ C (Current Earnings):    %.0f/%.0f (%s)\n", s.CurrentEarnings, model.MaxCurrentEarnings, s.Details[model.FactorCurrentEarnings])
	fmt.Fprintf(b, "   ├─ A (Annual Earnings):     %.0f/%.0f (%s)\n", s.AnnualEarnings, model.MaxAnnualEarnings, s.Details[model.FactorAnnualEarnings])
	fmt.Fprintf(b, "   ├─ N (New Highs):           %.0f/%.0f (%s)\n", s.NewHighs, model.MaxNewHighs, s.Details[model.FactorNewHighs])
	fmt.Fprintf(b, "   ├─ S (Supply/Demand):       %.0f/%.0f (%s)\n", s.SupplyDemand, model.MaxSupplyDemand, s.Details[model.FactorSupplyDemand])
	fmt.Fprintf(b, "   ├─ L (Leader):              %.0f/%.0f (%s)\n", s.Leader, model.MaxLeader, s.Details[model.FactorLeader])
	fmt.Fprintf(b, "   ├─ I (Institutional):       %.0f/%.0f (%s)\n", s.Institutional, model.MaxInstitutional, s.Details[model.FactorInstitutional])
	fmt.Fprintf(b, "   └─ M (Market):              %.0f/%.0f (%s)\n\n", s.Market, model.MaxMarket, s.Details[model.FactorMarket])

	b.WriteString("   Growth Projection Factors:\n")
	fmt.Fprintf(b, "   ├─ Momentum (%.0f%%):   %+.1f%%\n", model.WeightMomentum*100, p.MomentumComponent)
	fmt.Fprintf(b, "   ├─ Earnings (%.0f%%):   %+.1f%%\n", model.WeightEarnings*100, p.EarningsComponent)
	fmt.Fprintf(b, "   ├─ CANSLIM (%.0f%%):    %+.1f%%\n", model.WeightCanslim*100, p.CanslimComponent)
	fmt.Fprintf(b, "   └─ Sector (%.0f%%):     %+.1f%%\n", model.WeightSector*100, p.SectorComponent)
}

func center(s string) string {
	if len(s) >= lineWidth {
		return s
	}
	pad := (lineWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
