package samples

import (
	"math"

	"gracedbinfo/domain/posterior"
)

// alias derives a column from columns the samples file does carry
type alias struct {
	target string
	from   []string
	derive func(cols [][]float64, i int) float64
}

var aliases = []alias{
	{target: "distance", from: []string{"dist"}, derive: func(c [][]float64, i int) float64 { return c[0][i] }},
	{target: "distance", from: []string{"logdistance"}, derive: func(c [][]float64, i int) float64 { return math.Exp(c[0][i]) }},
	{target: "hrss", from: []string{"loghrss"}, derive: func(c [][]float64, i int) float64 { return math.Exp(c[0][i]) }},
	{target: "mchirp", from: []string{"mc"}, derive: func(c [][]float64, i int) float64 { return c[0][i] }},
	{target: "mchirp", from: []string{"m1", "m2"}, derive: func(c [][]float64, i int) float64 { return chirpMass(c[0][i], c[1][i]) }},
	{target: "q", from: []string{"m1", "m2"}, derive: func(c [][]float64, i int) float64 { return massRatio(c[0][i], c[1][i]) }},
	{target: "q", from: []string{"eta"}, derive: func(c [][]float64, i int) float64 { return etaToQ(c[0][i]) }},
}

// ApplyAliases adds the derived columns a posterior reader would expose for
// the raw columns present. Columns already in the table are never replaced.
// It returns the names of the columns it added.
func ApplyAliases(table *posterior.Table) ([]string, error) {
	var added []string
	for _, a := range aliases {
		if table.Has(a.target) {
			continue
		}
		cols := make([][]float64, 0, len(a.from))
		for _, name := range a.from {
			col, ok := table.Column(name)
			if !ok {
				break
			}
			cols = append(cols, col)
		}
		if len(cols) != len(a.from) {
			continue
		}

		values := make([]float64, table.Len())
		for i := range values {
			values[i] = a.derive(cols, i)
		}
		if err := table.AddColumn(a.target, values); err != nil {
			return added, err
		}
		added = append(added, a.target)
	}
	return added, nil
}

func chirpMass(m1, m2 float64) float64 {
	return math.Pow(m1*m2, 3.0/5.0) / math.Pow(m1+m2, 1.0/5.0)
}

// massRatio is the lighter over the heavier component mass, so q <= 1
func massRatio(m1, m2 float64) float64 {
	if m1 < m2 {
		m1, m2 = m2, m1
	}
	return m2 / m1
}

// etaToQ inverts the symmetric mass ratio; eta is clamped to (0, 0.25]
func etaToQ(eta float64) float64 {
	if eta <= 0 {
		return math.NaN()
	}
	if eta > 0.25 {
		eta = 0.25
	}
	return (1 - 2*eta - math.Sqrt(1-4*eta)) / (2 * eta)
}
