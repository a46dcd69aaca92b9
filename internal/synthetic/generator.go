package synthetic

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gracedbinfo/domain/posterior"
)

// Dataset is a synthetic posterior with a planted maximum.
//
// Compact binary columns: mchirp, q, distance, logl, logprior.
// Burst columns: frequency, quality, loghrss, logl, logprior.
type Dataset struct {
	Kind    posterior.Kind
	Headers []string
	Rows    [][]string // already formatted/rounded strings

	// Columns holds the rounded values, i.e. exactly what a parser reads back
	Columns map[string][]float64

	// MAPIndex is the row with the largest logl + logprior
	MAPIndex int
}

type Config struct {
	Kind posterior.Kind
	Rows int
	Seed int64

	// Injection values the samples scatter around
	MChirp    float64
	Q         float64
	Distance  float64
	Frequency float64
	Quality   float64
	LogHrss   float64
}

func DefaultConfig() Config {
	return Config{
		Kind:      posterior.KindCompactBinary,
		Rows:      500,
		Seed:      42,
		MChirp:    1.2,
		Q:         0.8,
		Distance:  410,
		Frequency: 235,
		Quality:   9,
		LogHrss:   -50.5,
	}
}

// column is one sampled parameter: its centre and spread
type column struct {
	name     string
	centre   float64
	sigma    float64
	decimals int
	lo, hi   float64
}

func (c Config) columns() ([]column, error) {
	switch c.Kind {
	case posterior.KindCompactBinary:
		return []column{
			{"mchirp", c.MChirp, 0.01 * c.MChirp, 6, 0, math.Inf(1)},
			{"q", c.Q, 0.08, 6, 0.05, 1},
			{"distance", c.Distance, 0.15 * c.Distance, 3, 1, math.Inf(1)},
		}, nil
	case posterior.KindBurst:
		return []column{
			{"frequency", c.Frequency, 0.02 * c.Frequency, 4, 1, math.Inf(1)},
			{"quality", c.Quality, 0.5, 4, 0.1, math.Inf(1)},
			{"loghrss", c.LogHrss, 0.3, 6, math.Inf(-1), math.Inf(1)},
		}, nil
	default:
		return nil, fmt.Errorf("unknown posterior kind %q", c.Kind)
	}
}

func Generate(cfg Config) (*Dataset, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("rows must be > 0")
	}
	cols, err := cfg.columns()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	ds := &Dataset{
		Kind:    cfg.Kind,
		Columns: make(map[string][]float64, len(cols)+2),
	}
	for _, c := range cols {
		ds.Headers = append(ds.Headers, c.name)
	}
	ds.Headers = append(ds.Headers, "logl", "logprior")

	// Gaussian likelihood around the injection, flat-ish prior
	logl := make([]float64, cfg.Rows)
	logprior := make([]float64, cfg.Rows)
	for _, c := range cols {
		values := make([]float64, cfg.Rows)
		for t := 0; t < cfg.Rows; t++ {
			v := clamp(c.centre+rng.NormFloat64()*c.sigma, c.lo, c.hi)
			values[t] = round(v, c.decimals)
			z := (values[t] - c.centre) / c.sigma
			logl[t] -= 0.5 * z * z
		}
		ds.Columns[c.name] = values
	}
	for t := 0; t < cfg.Rows; t++ {
		logl[t] = round(logl[t]+rng.NormFloat64()*1e-3, 6)
		logprior[t] = round(-1+rng.Float64()*1e-2, 6)
	}
	ds.Columns["logl"] = logl
	ds.Columns["logprior"] = logprior

	best := math.Inf(-1)
	for t := 0; t < cfg.Rows; t++ {
		if d := logl[t] + logprior[t]; d > best {
			best = d
			ds.MAPIndex = t
		}
	}

	decimals := make([]int, 0, len(ds.Headers))
	for _, c := range cols {
		decimals = append(decimals, c.decimals)
	}
	decimals = append(decimals, 6, 6)

	ds.Rows = make([][]string, cfg.Rows)
	for t := 0; t < cfg.Rows; t++ {
		r := make([]string, 0, len(ds.Headers))
		for i, h := range ds.Headers {
			r = append(r, fToStr(ds.Columns[h][t], decimals[i]))
		}
		ds.Rows[t] = r
	}

	return ds, nil
}

// Write picks the format from the file extension: .csv, .xlsx, or the
// whitespace-delimited common format for anything else.
func Write(path string, ds *Dataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(path, ds)
	case ".xlsx":
		return WriteXLSX(path, ds)
	default:
		return WriteCommon(path, ds)
	}
}

// WriteCommon writes the tab-separated "common" samples format with a
// leading comment line.
func WriteCommon(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# synthetic %s posterior, %d samples\n", ds.Kind, len(ds.Rows))
	fmt.Fprintln(w, strings.Join(ds.Headers, "\t"))
	for _, row := range ds.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range ds.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	// Numeric cells, so readers see numbers rather than text
	for r := range ds.Rows {
		for c, h := range ds.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, ds.Columns[h][r]); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func round(x float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(x*p) / p
}

func fToStr(x float64, decimals int) string {
	return strconv.FormatFloat(round(x, decimals), 'f', decimals, 64)
}
