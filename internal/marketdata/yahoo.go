package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"CanslimScout/internal/calculator"
	"CanslimScout/internal/model"
)

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

func (f *YahooFetcher) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	var chart yahooChart
	if err := f.getJSON(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote series")
	}
	quote := result.Indicators.Quote[0]

	// The quote arrays are expected to run parallel to the timestamps, but a
	// truncated payload must not index past their ends.
	n := len(result.Timestamp)
	for _, series := range [][]interface{}{quote.Open, quote.High, quote.Low, quote.Close, quote.Volume} {
		if len(series) < n {
			n = len(series)
		}
	}
	bars := make([]model.OHLCV, 0, n)

	for i, ts := range result.Timestamp[:n] {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// FetchDailyBars returns up to `days` chronological daily bars.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	// Yahoo range: max "2y" for daily interval
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}
	bars, err := f.fetchChart(ctx, symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	// Trim to requested count
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// yahooValue is Yahoo's {raw, fmt} number wrapper.
type yahooValue struct {
	Raw float64 `json:"raw"`
}

// yahooQuoteSummary is the response structure from the quoteSummary API.
type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName          string     `json:"shortName"`
				LongName           string     `json:"longName"`
				RegularMarketPrice yahooValue `json:"regularMarketPrice"`
			} `json:"price"`
			SummaryDetail *struct {
				FiftyTwoWeekHigh yahooValue `json:"fiftyTwoWeekHigh"`
				AverageVolume    yahooValue `json:"averageVolume"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				HeldPercentInstitutions *yahooValue `json:"heldPercentInstitutions"`
			} `json:"defaultKeyStatistics"`
			AssetProfile *struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
			IncomeStatementHistory *struct {
				Statements []yahooIncomeStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			IncomeStatementHistoryQuarterly *struct {
				Statements []yahooIncomeStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistoryQuarterly"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type yahooIncomeStatement struct {
	EndDate   yahooValue  `json:"endDate"`
	NetIncome *yahooValue `json:"netIncome"`
}

func (f *YahooFetcher) fetchQuoteSummary(ctx context.Context, symbol string, modules string) (*yahooQuoteSummary, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=%s",
		url.PathEscape(f.yahooSymbol(symbol)), modules)

	var summary yahooQuoteSummary
	if err := f.getJSON(ctx, u, &summary); err != nil {
		return nil, err
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}
	return &summary, nil
}

// FetchQuote returns the snapshot fields for a ticker.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	summary, err := f.fetchQuoteSummary(ctx, symbol, "price,summaryDetail,defaultKeyStatistics,assetProfile")
	if err != nil {
		return nil, err
	}

	r := summary.QuoteSummary.Result[0]
	q := &model.Quote{Symbol: symbol}

	if r.Price != nil {
		q.ShortName = r.Price.ShortName
		if q.ShortName == "" {
			q.ShortName = r.Price.LongName
		}
		q.CurrentPrice = r.Price.RegularMarketPrice.Raw
	}
	if q.ShortName == "" {
		q.ShortName = symbol
	}
	if r.SummaryDetail != nil {
		q.High52Week = r.SummaryDetail.FiftyTwoWeekHigh.Raw
		q.AverageVolume = r.SummaryDetail.AverageVolume.Raw
	}
	if r.DefaultKeyStatistics != nil && r.DefaultKeyStatistics.HeldPercentInstitutions != nil {
		q.InstitutionalPct = r.DefaultKeyStatistics.HeldPercentInstitutions.Raw * 100
		q.InstitutionalKnown = true
	}
	if r.AssetProfile != nil {
		q.Sector = r.AssetProfile.Sector
	}

	// Some quotes omit the 52-week high; derive it from a year of bars.
	if q.High52Week == 0 {
		if bars, err := f.FetchDailyBars(ctx, symbol, 252); err == nil {
			if high, err := calculator.Calculate52WeekHigh(bars); err == nil {
				q.High52Week = high
			}
		}
	}

	return q, nil
}

// FetchIncomeStatements returns net-income periods, most recent first.
func (f *YahooFetcher) FetchIncomeStatements(ctx context.Context, symbol string, quarterly bool) ([]model.FinancialPeriod, error) {
	module := "incomeStatementHistory"
	if quarterly {
		module = "incomeStatementHistoryQuarterly"
	}
	summary, err := f.fetchQuoteSummary(ctx, symbol, module)
	if err != nil {
		return nil, err
	}

	r := summary.QuoteSummary.Result[0]
	var statements []yahooIncomeStatement
	if quarterly && r.IncomeStatementHistoryQuarterly != nil {
		statements = r.IncomeStatementHistoryQuarterly.Statements
	} else if !quarterly && r.IncomeStatementHistory != nil {
		statements = r.IncomeStatementHistory.Statements
	}

	periods := make([]model.FinancialPeriod, 0, len(statements))
	for _, s := range statements {
		if s.NetIncome == nil {
			continue // period without a reported net income
		}
		periods = append(periods, model.FinancialPeriod{
			End:       time.Unix(int64(s.EndDate.Raw), 0),
			NetIncome: s.NetIncome.Raw,
		})
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("yahoo: no income statements for %s", symbol)
	}

	// Most recent first.
	sort.Slice(periods, func(i, j int) bool { return periods[i].End.After(periods[j].End) })
	return periods, nil
}
