package model

// Factor identifies one of the seven CANSLIM components.
type Factor string

const (
	FactorCurrentEarnings Factor = "C"
	FactorAnnualEarnings  Factor = "A"
	FactorNewHighs        Factor = "N"
	FactorSupplyDemand    Factor = "S"
	FactorLeader          Factor = "L"
	FactorInstitutional   Factor = "I"
	FactorMarket          Factor = "M"
)

// Maximum points per factor. C, A, N, S, L and M are worth 15, I is worth 10,
// for a nominal total of 100.
const (
	MaxCurrentEarnings = 15.0
	MaxAnnualEarnings  = 15.0
	MaxNewHighs        = 15.0
	MaxSupplyDemand    = 15.0
	MaxLeader          = 15.0
	MaxInstitutional   = 10.0
	MaxMarket          = 15.0

	MaxTotalScore = 100.0
)

// FactorScore holds the seven CANSLIM sub-scores for one ticker, the
// unclamped total, and a human-readable rationale per factor.
type FactorScore struct {
	Ticker          string
	CurrentEarnings float64
	AnnualEarnings  float64
	NewHighs        float64
	SupplyDemand    float64
	Leader          float64
	Institutional   float64
	Market          float64
	Total           float64
	Details         map[Factor]string
}
