package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
	"gracedbinfo/internal"
)

// PosteriorAnalyzer picks the burst or compact-binary reading of a samples
// table and summarises the parameters that reading reports.
type PosteriorAnalyzer struct {
	logger *internal.Logger
}

// NewPosteriorAnalyzer creates an analyzer
func NewPosteriorAnalyzer(logger *internal.Logger) *PosteriorAnalyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PosteriorAnalyzer{logger: logger}
}

// Interpret tries the burst reading first and falls back to the compact
// binary one when it fails. There is no third outcome.
func (a *PosteriorAnalyzer) Interpret(table *posterior.Table) (posterior.Result, error) {
	burst, burstErr := a.interpretBurst(table)
	if burstErr == nil {
		a.logger.Info("[Summary] burst posterior, %d of %d parameters present", len(burst.Estimates), len(posterior.BurstParameters))
		return burst, nil
	}
	a.logger.Debug("[Summary] burst reading failed (%v), using compact binary parameters", burstErr)

	cbc, err := a.interpretCompactBinary(table)
	if err != nil {
		return nil, fmt.Errorf("%w: burst: %v; compact binary: %v", core.ErrNoInterpretation, burstErr, err)
	}
	a.logger.Info("[Summary] compact binary posterior, %d of %d parameters present", len(cbc.Estimates), len(posterior.CompactBinaryParameters))
	return cbc, nil
}

func (a *PosteriorAnalyzer) interpretBurst(table *posterior.Table) (posterior.BurstResult, error) {
	if table == nil || table.Len() == 0 {
		return posterior.BurstResult{}, core.ErrEmptyTable
	}
	if !table.Has("hrss") {
		return posterior.BurstResult{}, fmt.Errorf("%w: no hrss or loghrss column", core.ErrNotBurst)
	}
	return posterior.BurstResult{Summary: a.summarise(table, posterior.BurstParameters)}, nil
}

func (a *PosteriorAnalyzer) interpretCompactBinary(table *posterior.Table) (posterior.CompactBinaryResult, error) {
	if table == nil || table.Len() == 0 {
		return posterior.CompactBinaryResult{}, core.ErrEmptyTable
	}
	return posterior.CompactBinaryResult{Summary: a.summarise(table, posterior.CompactBinaryParameters)}, nil
}

// summarise computes an Estimate for every parameter of params present in
// the table, in params order. Absent parameters are skipped.
func (a *PosteriorAnalyzer) summarise(table *posterior.Table, params []posterior.Parameter) posterior.Summary {
	idx, density := MAPIndex(table)
	if density == DensityUniform {
		a.logger.Warn("[Summary] no logpost, post, logl or logprior column; taking the first sample as MAP")
	}

	summary := posterior.Summary{MAPIndex: idx, Density: density}
	for _, p := range params {
		col, ok := table.Column(p.Name)
		if !ok {
			a.logger.Debug("[Summary] %s not in samples, skipping", p.Name)
			continue
		}
		summary.Estimates = append(summary.Estimates, Estimate(p, col, idx))
	}
	return summary
}

// DensityUniform marks a MAP index chosen without any density column
const DensityUniform = "uniform"

// MAPIndex returns the sample index with maximum posterior density and the
// column(s) it was computed from. Density is logpost, else post, else
// logl + logprior (either may be missing). Ties go to the first index.
func MAPIndex(table *posterior.Table) (int, string) {
	for _, name := range []string{"logpost", "post"} {
		if col, ok := table.Column(name); ok {
			return floats.MaxIdx(col), name
		}
	}

	var terms []string
	density := make([]float64, table.Len())
	for _, name := range []string{"logl", "logprior"} {
		if col, ok := table.Column(name); ok {
			floats.Add(density, col)
			terms = append(terms, name)
		}
	}
	if len(terms) == 0 {
		return 0, DensityUniform
	}
	return floats.MaxIdx(density), strings.Join(terms, "+")
}

// Estimate summarises one column. samples must be non-empty and mapIdx in
// range.
func Estimate(p posterior.Parameter, samples []float64, mapIdx int) posterior.Estimate {
	stdDev, _ := stats.StandardDeviation(samples)
	mean, _ := stats.Mean(samples)
	median, _ := stats.Median(samples)

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	return posterior.Estimate{
		Parameter:  p,
		MAP:        samples[mapIdx],
		StdDev:     stdDev,
		Mean:       mean,
		Median:     median,
		Lower5:     stat.Quantile(0.05, stat.Empirical, sorted, nil),
		Upper95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		SampleSize: len(samples),
	}
}
