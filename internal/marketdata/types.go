package marketdata

// Vendor wire types. Explicit value types at the ingestion boundary: the
// scoring core never sees untyped maps.

type quoteResponse struct {
	Symbol        string   `json:"symbol"`
	Last          float64  `json:"last"`
	Volume        float64  `json:"volume"`
	VolumeAvg20D  *float64 `json:"volume_avg_20d"`
	Volatility30D *float64 `json:"volatility_30d"`
	PutCallRatio  *float64 `json:"put_call_ratio"`
	UpdatedUnix   int64    `json:"updated"`
}

type expirationsResponse struct {
	Symbol      string   `json:"symbol"`
	Expirations []string `json:"expirations"` // YYYY-MM-DD
}

type chainResponse struct {
	Symbol    string         `json:"symbol"`
	Contracts []chainContract `json:"contracts"`
}

type chainContract struct {
	ContractSymbol string   `json:"contract_symbol"`
	Expiry         string   `json:"expiration"` // YYYY-MM-DD
	Strike         float64  `json:"strike"`
	Side           string   `json:"side"` // put | call
	Bid            float64  `json:"bid"`
	Ask            float64  `json:"ask"`
	Last           float64  `json:"last"`
	Delta          *float64 `json:"delta"`
	Gamma          *float64 `json:"gamma"`
	Theta          *float64 `json:"theta"`
	Vega           *float64 `json:"vega"`
	IV             *float64 `json:"iv"`
	OpenInterest   int64    `json:"open_interest"`
	Volume         int64    `json:"volume"`
}
