package samples

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
	"gracedbinfo/internal"
	"gracedbinfo/internal/errors"
	"gracedbinfo/ports"
)

// Reader loads samples files from disk, choosing a parser by extension
type Reader struct {
	logger  *internal.Logger
	parsers map[string]ports.PosteriorParser
}

var _ ports.PosteriorSource = (*Reader)(nil)

// NewReader creates a reader with the common, CSV and XLSX parsers
func NewReader(logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{
		logger: logger,
		parsers: map[string]ports.PosteriorParser{
			".csv":  NewCSVParser(),
			".xlsx": NewXLSXParser(),
		},
	}
}

// ParserFor returns the parser used for path; anything that is not CSV or
// XLSX is read as the common whitespace format.
func (r *Reader) ParserFor(path string) ports.PosteriorParser {
	if p, ok := r.parsers[strings.ToLower(filepath.Ext(path))]; ok {
		return p
	}
	return NewCommonParser()
}

// Load implements ports.PosteriorSource
func (r *Reader) Load(path string) (*posterior.Table, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "samples file %s", path)
	}

	start := time.Now()
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read samples file %s", resolved)
	}

	table, err := r.ParserFor(resolved).Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to parse samples file %s", resolved), err)
	}
	table.Source = resolved
	table.Fingerprint = core.NewHash(raw)

	added, err := ApplyAliases(table)
	if err != nil {
		return nil, errors.ParseError("failed to derive posterior columns", err)
	}

	r.logger.Info("[SamplesReader] %s parsed in %.2fms (%d columns, %d samples, sha256 %s)",
		resolved, float64(time.Since(start).Nanoseconds())/1e6, len(table.Columns()), table.Len(), table.Fingerprint.Short())
	if len(added) > 0 {
		r.logger.Debug("[SamplesReader] derived columns: %s", strings.Join(added, ", "))
	}
	return table, nil
}

// resolvePath makes path absolute and follows symlinks
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
