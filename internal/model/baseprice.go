package model

import (
	"fmt"
	"strconv"
	"strings"
)

// BasePrice selects which price field an indicator uses as its raw input.
type BasePrice int

const (
	PriceOpen BasePrice = iota
	PriceHigh
	PriceLow
	PriceClose
	PriceMedian   // (H+L)/2
	PriceTypical  // (H+L+C)/3
	PriceWeighted // (H+L+2C)/4
)

var basePriceNames = [...]string{"Open", "High", "Low", "Close", "Median", "Typical", "Weighted"}

func (bp BasePrice) String() string {
	if bp < PriceOpen || bp > PriceWeighted {
		return "BasePrice(" + strconv.Itoa(int(bp)) + ")"
	}
	return basePriceNames[bp]
}

// Valid reports whether bp is one of the declared choices.
func (bp BasePrice) Valid() bool {
	return bp >= PriceOpen && bp <= PriceWeighted
}

// ParseBasePrice maps a config value ("close", "Typical", ...) to its tag.
func ParseBasePrice(s string) (BasePrice, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range basePriceNames {
		if strings.ToLower(name) == key {
			return BasePrice(i), nil
		}
	}
	return 0, fmt.Errorf("unknown base price %q", s)
}

// Price derives the base-price series for every bar of ds.
func Price(ds DataSet, bp BasePrice) []float64 {
	n := ds.Bars()
	out := make([]float64, n)
	for bar := 0; bar < n; bar++ {
		switch bp {
		case PriceOpen:
			out[bar] = ds.Open(bar)
		case PriceHigh:
			out[bar] = ds.High(bar)
		case PriceLow:
			out[bar] = ds.Low(bar)
		case PriceClose:
			out[bar] = ds.Close(bar)
		case PriceMedian:
			out[bar] = (ds.High(bar) + ds.Low(bar)) / 2
		case PriceTypical:
			out[bar] = (ds.High(bar) + ds.Low(bar) + ds.Close(bar)) / 3
		case PriceWeighted:
			out[bar] = (ds.High(bar) + ds.Low(bar) + 2*ds.Close(bar)) / 4
		default:
			panic(fmt.Sprintf("model: invalid base price %d", int(bp)))
		}
	}
	return out
}
