package analysis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
	"gracedbinfo/internal"
)

func newTestAnalyzer() *PosteriorAnalyzer {
	return NewPosteriorAnalyzer(internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError))
}

func mustTable(t *testing.T, columns []string, rows ...[]float64) *posterior.Table {
	t.Helper()
	table, err := posterior.NewTable(columns, rows)
	require.NoError(t, err)
	return table
}

func names(estimates []posterior.Estimate) []string {
	out := make([]string, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, e.Parameter.Name)
	}
	return out
}

func TestInterpret_CompactBinary(t *testing.T) {
	table := mustTable(t, []string{"distance", "q", "mchirp", "logl"},
		[]float64{410.0, 0.80, 1.20, -10.5},
		[]float64{395.5, 0.75, 1.22, -9.1},
		[]float64{420.2, 0.83, 1.19, -11.0},
	)

	result, err := newTestAnalyzer().Interpret(table)
	require.NoError(t, err)

	cbc, ok := result.(posterior.CompactBinaryResult)
	require.True(t, ok, "expected CompactBinaryResult, got %T", result)
	assert.Equal(t, posterior.KindCompactBinary, cbc.Kind())
	assert.Equal(t, 1, cbc.MAPIndex)
	assert.Equal(t, "logl", cbc.Density)

	// Set order, not file order
	require.Equal(t, []string{"mchirp", "q", "distance"}, names(cbc.Estimates))

	mchirp := cbc.Estimates[0]
	assert.Equal(t, 1.22, mchirp.MAP)
	assert.InDelta(t, 0.012472191289246483, mchirp.StdDev, 1e-12)
	assert.InDelta(t, 1.2033333, mchirp.Mean, 1e-6)
	assert.Equal(t, 1.20, mchirp.Median)
	assert.Equal(t, 1.19, mchirp.Lower5)
	assert.Equal(t, 1.22, mchirp.Upper95)
	assert.Equal(t, 3, mchirp.SampleSize)

	assert.Equal(t, 395.5, cbc.Estimates[2].MAP)
}

func TestInterpret_Burst(t *testing.T) {
	table := mustTable(t, []string{"frequency", "quality", "hrss", "logl"},
		[]float64{150, 9.0, 2.0e-22, -3},
		[]float64{155, 8.0, 3.0e-22, -1},
		[]float64{160, 7.0, 4.0e-22, -2},
	)

	result, err := newTestAnalyzer().Interpret(table)
	require.NoError(t, err)

	burst, ok := result.(posterior.BurstResult)
	require.True(t, ok, "expected BurstResult, got %T", result)
	assert.Equal(t, []string{"frequency", "quality", "hrss"}, names(burst.Estimates))
	assert.Equal(t, 155.0, burst.Estimates[0].MAP)
	assert.Equal(t, "[Hz]", burst.Estimates[0].Parameter.Unit)
	assert.Equal(t, 3.0e-22, burst.Estimates[2].MAP)
}

func TestInterpret_FallsBackWithoutHrss(t *testing.T) {
	table := mustTable(t, []string{"frequency", "quality", "mchirp"},
		[]float64{150, 9, 1.2},
	)

	result, err := newTestAnalyzer().Interpret(table)
	require.NoError(t, err)
	assert.Equal(t, posterior.KindCompactBinary, result.Kind())
	assert.Equal(t, []string{"mchirp"}, names(result.Stats().Estimates))
}

func TestInterpret_MissingParametersSkipped(t *testing.T) {
	table := mustTable(t, []string{"distance", "mchirp"},
		[]float64{400, 1.2},
		[]float64{410, 1.3},
	)

	result, err := newTestAnalyzer().Interpret(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"mchirp", "distance"}, names(result.Stats().Estimates))
}

func TestInterpret_NoTable(t *testing.T) {
	_, err := newTestAnalyzer().Interpret(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoInterpretation)
}

func TestMAPIndex(t *testing.T) {
	tests := []struct {
		name        string
		columns     []string
		rows        [][]float64
		wantIdx     int
		wantDensity string
	}{
		{
			name:        "logpost wins over logl",
			columns:     []string{"x", "logl", "logpost"},
			rows:        [][]float64{{1, 5, 0}, {2, 0, 9}, {3, 1, 1}},
			wantIdx:     1,
			wantDensity: "logpost",
		},
		{
			name:        "post",
			columns:     []string{"x", "post"},
			rows:        [][]float64{{1, 0.1}, {2, 0.2}, {3, 0.7}},
			wantIdx:     2,
			wantDensity: "post",
		},
		{
			name:        "logl plus logprior",
			columns:     []string{"x", "logl", "logprior"},
			rows:        [][]float64{{1, -1, -5}, {2, -2, -1}, {3, -4, -1}},
			wantIdx:     1,
			wantDensity: "logl+logprior",
		},
		{
			name:        "logprior alone",
			columns:     []string{"x", "logprior"},
			rows:        [][]float64{{1, -3}, {2, -2}},
			wantIdx:     1,
			wantDensity: "logprior",
		},
		{
			name:        "ties go to first",
			columns:     []string{"x", "logl"},
			rows:        [][]float64{{1, -2}, {2, -1}, {3, -1}},
			wantIdx:     1,
			wantDensity: "logl",
		},
		{
			name:        "uniform",
			columns:     []string{"mchirp", "q", "distance"},
			rows:        [][]float64{{1.3, 0.8, 400}, {1.2, 0.9, 300}},
			wantIdx:     0,
			wantDensity: DensityUniform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, density := MAPIndex(mustTable(t, tt.columns, tt.rows...))
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.wantDensity, density)
		})
	}
}

func TestEstimate_SingleSample(t *testing.T) {
	e := Estimate(posterior.Parameter{Name: "q"}, []float64{0.5}, 0)
	assert.Equal(t, 0.5, e.MAP)
	assert.Equal(t, 0.0, e.StdDev)
	assert.Equal(t, 0.5, e.Lower5)
	assert.Equal(t, 0.5, e.Upper95)
}
