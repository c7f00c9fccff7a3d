package model

import "fmt"

// ComponentType is the semantic role of an output series.
type ComponentType int

const (
	NotDefined ComponentType = iota
	IndicatorValue
	AllowOpenLong
	AllowOpenShort
	ForceCloseLong
	ForceCloseShort
)

var componentTypeNames = [...]string{
	"not_defined", "indicator_value",
	"allow_open_long", "allow_open_short",
	"force_close_long", "force_close_short",
}

func (t ComponentType) String() string {
	if t < NotDefined || t > ForceCloseShort {
		return componentTypeNames[NotDefined]
	}
	return componentTypeNames[t]
}

// MarshalText encodes the role by its name so stored and published states
// stay readable.
func (t ComponentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ComponentType) UnmarshalText(b []byte) error {
	for i, name := range componentTypeNames {
		if name == string(b) {
			*t = ComponentType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown component type %q", b)
}

// IsSignal reports whether the component carries a 1/0 signal rather than
// a chartable value.
func (t ComponentType) IsSignal() bool {
	return t >= AllowOpenLong && t <= ForceCloseShort
}

// ChartType tells a charting consumer how to draw a component.
type ChartType int

const (
	NoChart ChartType = iota
	Line
	Histogram
)

func (c ChartType) String() string {
	switch c {
	case Line:
		return "line"
	case Histogram:
		return "histogram"
	default:
		return "none"
	}
}

// SlotType is the strategy slot an indicator is placed in. It decides which
// roles the two signal components take.
type SlotType int

const (
	OpenFilter SlotType = iota
	CloseFilter
)

func (s SlotType) String() string {
	if s == CloseFilter {
		return "close"
	}
	return "open"
}

// Component is one named, role-tagged output series.
// Values before FirstBar are always zero.
type Component struct {
	Name     string        `json:"name"`
	Type     ComponentType `json:"type"`
	Chart    ChartType     `json:"chart"`
	FirstBar int           `json:"first_bar"`
	Value    []float64     `json:"value"`
}

// Active reports whether a signal component is set on bar.
func (c *Component) Active(bar int) bool {
	return c.Value[bar] > 0
}

// ActiveCount returns how many bars carry a non-zero value.
func (c *Component) ActiveCount() int {
	n := 0
	for _, v := range c.Value {
		if v != 0 {
			n++
		}
	}
	return n
}

// NewValueComponent packages a chartable series.
func NewValueComponent(name string, chart ChartType, firstBar int, values []float64) Component {
	return Component{
		Name:     name,
		Type:     IndicatorValue,
		Chart:    chart,
		FirstBar: firstBar,
		Value:    values,
	}
}

// Result is the ordered output of one indicator computation.
// Stages lists the warm-up stages FirstBar was composed from, so a dependent
// indicator can extend them instead of re-deriving the sub-indicator's maths.
type Result struct {
	Indicator  string      `json:"indicator"`
	FirstBar   int         `json:"first_bar"`
	Stages     []Stage     `json:"stages,omitempty"`
	Components []Component `json:"components"`
}

// Component returns the first component with the given role.
func (r *Result) Component(t ComponentType) (*Component, bool) {
	for i := range r.Components {
		if r.Components[i].Type == t {
			return &r.Components[i], true
		}
	}
	return nil, false
}

// Validate checks that all components share one length and hold zero before
// their FirstBar.
func (r *Result) Validate(bars int) error {
	for _, c := range r.Components {
		if len(c.Value) != bars {
			return fmt.Errorf("%s/%s: length %d, want %d", r.Indicator, c.Name, len(c.Value), bars)
		}
		for bar := 0; bar < c.FirstBar && bar < bars; bar++ {
			if c.Value[bar] != 0 {
				return fmt.Errorf("%s/%s: non-zero value %v at bar %d before first bar %d",
					r.Indicator, c.Name, c.Value[bar], bar, c.FirstBar)
			}
		}
	}
	return nil
}
