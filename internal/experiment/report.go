package experiment

import "time"

// Report compares the two scan timings. When the indexed scan measured zero
// the gain is unbounded and GainRatio is left at 0.
type Report struct {
	WithoutMs      float64 `json:"withoutMs"`
	WithMs         float64 `json:"withMs"`
	GainRatio      float64 `json:"gainRatio"`
	Unbounded      bool    `json:"unbounded"`
	Rows           int     `json:"rows,omitempty"`
	ResultsWithout int     `json:"resultsWithout,omitempty"`
	ResultsWith    int     `json:"resultsWith,omitempty"`
}

func NewReport(without, with time.Duration) Report {
	rep := Report{
		WithoutMs: float64(without.Nanoseconds()) / 1e6,
		WithMs:    float64(with.Nanoseconds()) / 1e6,
	}
	if with <= 0 {
		rep.Unbounded = true
		return rep
	}
	rep.GainRatio = float64(without) / float64(with)
	return rep
}
