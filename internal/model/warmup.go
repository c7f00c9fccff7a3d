package model

// Stage is one computation stage in the chain feeding a series. It reads a
// window of Period values of its input, plus Lag further bars of history (a
// one-bar difference has Period 1, Lag 1).
type Stage struct {
	Period int `json:"period"`
	Lag    int `json:"lag"`
}
