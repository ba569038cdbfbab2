package model

// Confidence grades how much real data backed a growth projection.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Nominal component weights of the growth projection.
const (
	WeightMomentum = 0.4
	WeightEarnings = 0.3
	WeightCanslim  = 0.2
	WeightSector   = 0.1
)

// GrowthProjection is the six-month growth estimate for one ticker.
// Component fields hold the raw (pre-weight) growth contribution of each
// input; absent components are recorded as 0.
type GrowthProjection struct {
	Ticker             string
	CurrentPrice       float64
	ProjectedPrice     float64
	ProjectedGrowthPct float64
	MomentumComponent  float64
	EarningsComponent  float64
	CanslimComponent   float64
	SectorComponent    float64
	Confidence         Confidence
}
