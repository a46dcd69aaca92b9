package scalar

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
	"gracedbinfo/internal"
	"gracedbinfo/internal/errors"
)

// Loader reads single-value statistic files such as bci.dat and bsn.dat
type Loader struct {
	logger *internal.Logger
}

// NewLoader creates a scalar loader
func NewLoader(logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{logger: logger}
}

// Load returns the first numeric value in the file at path. An empty path, or
// one that is not a regular file, is "not supplied": ok is false and err is nil.
func (l *Loader) Load(path string) (value float64, ok bool, err error) {
	if path == "" {
		return 0, false, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		l.logger.Debug("[ScalarLoader] %s not readable (%v), skipping", path, statErr)
		return 0, false, nil
	}
	if !info.Mode().IsRegular() {
		l.logger.Debug("[ScalarLoader] %s is not a regular file, skipping", path)
		return 0, false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, false, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, false, errors.ParseError(fmt.Sprintf("failed to parse %s", path), fmt.Errorf("%w %q", core.ErrNonNumeric, fields[0]))
		}
		return v, true, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, false, errors.Wrapf(err, "failed to read %s", path)
	}
	return 0, false, errors.ParseError(fmt.Sprintf("failed to parse %s", path), core.ErrNoScalar)
}

// LoadScalar wraps Load with a report label. It returns nil when the file
// was not supplied.
func (l *Loader) LoadScalar(label, path string) (*posterior.Scalar, error) {
	v, ok, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	l.logger.Info("[ScalarLoader] %s = %g (from %s)", label, v, path)
	return &posterior.Scalar{Label: label, Value: v}, nil
}
