package model

// TrendState classifies the current short-term trend of the watched symbol.
type TrendState string

const (
	// TrendRising means the last three recorded prices are strictly increasing.
	TrendRising TrendState = "RISING"
	// TrendFlatOrMixed means three or more prices exist but they are not
	// strictly increasing.
	TrendFlatOrMixed TrendState = "FLAT_OR_MIXED"
	// TrendInsufficientData means fewer than three prices have been recorded.
	TrendInsufficientData TrendState = "INSUFFICIENT_DATA"
)

// ClassifyTrend maps the entity-level trend query onto a TrendState.
func ClassifyTrend(updates int, increasing bool) TrendState {
	switch {
	case updates < 3:
		return TrendInsufficientData
	case increasing:
		return TrendRising
	default:
		return TrendFlatOrMixed
	}
}
