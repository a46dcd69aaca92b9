package samples

import (
	"bytes"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gracedbinfo/domain/core"
	"gracedbinfo/internal"
	"gracedbinfo/internal/errors"
)

const commonSamples = `# lalinference posterior samples
mchirp	q	distance	logl
1.20	0.80	410.0	-10.5
1.22	0.75	395.5	-9.1

1.19	0.83	420.2	-11.0
`

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError)
}

func TestCommonParser_Parse(t *testing.T) {
	table, err := NewCommonParser().Parse(strings.NewReader(commonSamples))
	require.NoError(t, err)

	assert.Equal(t, []string{"mchirp", "q", "distance", "logl"}, table.Columns())
	assert.Equal(t, 3, table.Len())

	distance, ok := table.Column("distance")
	require.True(t, ok)
	assert.Equal(t, []float64{410.0, 395.5, 420.2}, distance)
}

func TestCommonParser_LowercasesHeader(t *testing.T) {
	table, err := NewCommonParser().Parse(strings.NewReader("Frequency Quality LogHrss\n100 9 -50\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"frequency", "quality", "loghrss"}, table.Columns())
}

func TestCommonParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		line  string
	}{
		{"empty", "", core.ErrNoHeader, ""},
		{"comments only", "# nothing\n# here\n", core.ErrNoHeader, ""},
		{"header only", "mchirp q\n", core.ErrEmptyTable, ""},
		{"ragged", "mchirp q\n1 2\n3\n", core.ErrRaggedRow, "line 3"},
		{"non numeric", "mchirp q\n1 abc\n", core.ErrNonNumeric, "line 2, column q"},
		{"duplicate", "q q\n1 2\n", core.ErrDuplicateColumn, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCommonParser().Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			if tt.line != "" {
				assert.Contains(t, err.Error(), tt.line)
			}
		})
	}
}

func TestCSVParser_Parse(t *testing.T) {
	input := "# exported\nmchirp, q ,distance\n1.2,0.8,400\n1.3, 0.7,410\n"
	table, err := NewCSVParser().Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"mchirp", "q", "distance"}, table.Columns())
	q, _ := table.Column("q")
	assert.Equal(t, []float64{0.8, 0.7}, q)

	_, err = NewCSVParser().Parse(strings.NewReader("mchirp,q\n1.2\n"))
	assert.ErrorIs(t, err, core.ErrRaggedRow)
}

func TestXLSXParser_Parse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posterior.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"frequency", "quality", "hrss"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{150.5, 9.0, 2.5e-22}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{152.25, 8.5, 3e-22}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	table, err := NewXLSXParser().Parse(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"frequency", "quality", "hrss"}, table.Columns())
	assert.Equal(t, 2, table.Len())

	freq, _ := table.Column("frequency")
	assert.Equal(t, []float64{150.5, 152.25}, freq)
	hrss, _ := table.Column("hrss")
	assert.InDelta(t, 2.5e-22, hrss[0], 1e-30)
}

func TestApplyAliases(t *testing.T) {
	input := "dist loghrss m1 m2\n400 -50 1.4 1.6\n500 -49 10 5\n"
	table, err := NewCommonParser().Parse(strings.NewReader(input))
	require.NoError(t, err)

	added, err := ApplyAliases(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"distance", "hrss", "mchirp", "q"}, added)

	distance, _ := table.Column("distance")
	assert.Equal(t, []float64{400, 500}, distance)

	hrss, _ := table.Column("hrss")
	assert.InDelta(t, math.Exp(-50), hrss[0], 1e-30)

	mchirp, _ := table.Column("mchirp")
	assert.InDelta(t, 1.3023, mchirp[0], 1e-4)

	q, _ := table.Column("q")
	assert.InDelta(t, 1.4/1.6, q[0], 1e-12)
	assert.InDelta(t, 0.5, q[1], 1e-12)
}

func TestApplyAliases_NeverOverwrites(t *testing.T) {
	table, err := NewCommonParser().Parse(strings.NewReader("distance dist eta\n100 999 0.25\n"))
	require.NoError(t, err)

	added, err := ApplyAliases(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, added)

	distance, _ := table.Column("distance")
	assert.Equal(t, []float64{100}, distance)

	q, _ := table.Column("q")
	assert.InDelta(t, 1.0, q[0], 1e-12)
}

func TestEtaToQ(t *testing.T) {
	assert.InDelta(t, 1.0, etaToQ(0.25), 1e-12)
	assert.InDelta(t, 0.5, etaToQ(2.0/9.0), 1e-9)
	assert.True(t, math.IsNaN(etaToQ(0)))
}

func TestReader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posterior_samples.dat")
	require.NoError(t, os.WriteFile(path, []byte(commonSamples), 0o644))

	link := filepath.Join(dir, "latest.dat")
	require.NoError(t, os.Symlink(path, link))

	table, err := NewReader(quietLogger()).Load(link)
	require.NoError(t, err)

	resolved, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, resolved, table.Source)
	assert.Equal(t, core.NewHash([]byte(commonSamples)), table.Fingerprint)
	assert.Equal(t, 3, table.Len())
}

func TestReader_LoadErrors(t *testing.T) {
	reader := NewReader(quietLogger())

	_, err := reader.Load(filepath.Join(t.TempDir(), "missing.dat"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.dat")
	require.NoError(t, os.WriteFile(bad, []byte("mchirp\nnope\n"), 0o644))
	_, err = reader.Load(bad)
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseError, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrNonNumeric)
}

func TestReader_ParserFor(t *testing.T) {
	reader := NewReader(quietLogger())
	assert.IsType(t, &CSVParser{}, reader.ParserFor("/data/post.CSV"))
	assert.IsType(t, &XLSXParser{}, reader.ParserFor("post.xlsx"))
	assert.IsType(t, &CommonParser{}, reader.ParserFor("posterior_samples.dat"))
	assert.IsType(t, &CommonParser{}, reader.ParserFor("posterior_samples"))
}
