package universe

// fallbackTickers holds the 100 largest S&P 500 components by weight, used
// when the live constituents page is unreachable.
var fallbackTickers = []string{
	"AAPL", "MSFT", "AMZN", "NVDA", "GOOGL", "META", "TSLA", "BRK-B", "UNH", "XOM",
	"JNJ", "JPM", "V", "PG", "MA", "HD", "CVX", "MRK", "ABBV", "LLY",
	"PEP", "KO", "AVGO", "COST", "TMO", "MCD", "WMT", "CSCO", "ACN", "ABT",
	"DHR", "NEE", "VZ", "ADBE", "CRM", "NKE", "PM", "TXN", "UPS", "CMCSA",
	"ORCL", "RTX", "HON", "INTC", "QCOM", "T", "LOW", "BMY", "UNP", "AMD",
	"AMGN", "MS", "SPGI", "GS", "CAT", "IBM", "ELV", "DE", "BA", "SBUX",
	"PLD", "GILD", "BLK", "INTU", "MDLZ", "ADP", "ISRG", "CVS", "ADI", "REGN",
	"CI", "BKNG", "NOW", "VRTX", "TJX", "SYK", "CB", "LMT", "MMC", "TMUS",
	"ZTS", "PGR", "SCHW", "MO", "SO", "DUK", "BDX", "CME", "C", "EOG",
	"NOC", "ITW", "SLB", "CL", "BSX", "AON", "FI", "WM", "USB", "EQIX",
}

// FallbackTickers returns a copy of the built-in list so callers can't
// mutate it.
func FallbackTickers() []string {
	out := make([]string, len(fallbackTickers))
	copy(out, fallbackTickers)
	return out
}
