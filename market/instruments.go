package market

// Instrument identifies one tradable equity on an exchange segment.
type Instrument struct {
	Symbol     string `json:"symbol" yaml:"symbol"`
	SecurityID string `json:"security_id" yaml:"security_id"`
	Segment    string `json:"segment" yaml:"segment"`
}

// DefaultUniverse returns the stock universe scanned when no universe is
// configured. Callers receive a fresh copy they may modify.
func DefaultUniverse() []Instrument {
	return append([]Instrument(nil), defaultUniverse...)
}

var defaultUniverse = []Instrument{
	{Symbol: "RELIANCE", SecurityID: "2885", Segment: "NSE_EQ"},
	{Symbol: "TCS", SecurityID: "11536", Segment: "NSE_EQ"},
	{Symbol: "HDFCBANK", SecurityID: "1333", Segment: "NSE_EQ"},
	{Symbol: "INFY", SecurityID: "4963", Segment: "NSE_EQ"},
	{Symbol: "HINDUNILVR", SecurityID: "356", Segment: "NSE_EQ"},
	{Symbol: "SBIN", SecurityID: "3045", Segment: "NSE_EQ"},
	{Symbol: "BHARTIARTL", SecurityID: "10604", Segment: "NSE_EQ"},
	{Symbol: "ITC", SecurityID: "424", Segment: "NSE_EQ"},
	{Symbol: "LT", SecurityID: "2672", Segment: "NSE_EQ"},
	{Symbol: "KOTAKBANK", SecurityID: "1922", Segment: "NSE_EQ"},
	{Symbol: "AXISBANK", SecurityID: "5900", Segment: "NSE_EQ"},
	{Symbol: "MARUTI", SecurityID: "10999", Segment: "NSE_EQ"},
}
