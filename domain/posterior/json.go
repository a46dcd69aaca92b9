package posterior

import (
	"encoding/json"
	"math"
)

// finite maps NaN and ±Inf to nil so they encode as JSON null
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON writes non-finite statistics as null. Samples files may hold
// nan or inf cells, which encoding/json rejects.
func (e Estimate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Parameter  Parameter `json:"parameter"`
		MAP        *float64  `json:"map"`
		StdDev     *float64  `json:"std_dev"`
		Mean       *float64  `json:"mean"`
		Median     *float64  `json:"median"`
		Lower5     *float64  `json:"lower_5"`
		Upper95    *float64  `json:"upper_95"`
		SampleSize int       `json:"sample_size"`
	}{
		Parameter:  e.Parameter,
		MAP:        finite(e.MAP),
		StdDev:     finite(e.StdDev),
		Mean:       finite(e.Mean),
		Median:     finite(e.Median),
		Lower5:     finite(e.Lower5),
		Upper95:    finite(e.Upper95),
		SampleSize: e.SampleSize,
	})
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label string   `json:"label"`
		Value *float64 `json:"value"`
	}{s.Label, finite(s.Value)})
}
