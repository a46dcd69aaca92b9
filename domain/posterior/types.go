package posterior

// ============================================================================
// PARAMETERS
// ============================================================================

// Parameter is a posterior column the summary knows how to report
type Parameter struct {
	Name string `json:"name"`
	Unit string `json:"unit"` // Display unit, may be empty
}

// Scientific reports whether the parameter spans enough decades to need
// scientific notation.
func (p Parameter) Scientific() bool {
	return p.Name == "hrss"
}

// Label is the name followed by the unit, separated by a single space even
// when the unit is empty.
func (p Parameter) Label() string {
	return p.Name + " " + p.Unit
}

var (
	// BurstParameters are reported for unmodeled-signal posteriors
	BurstParameters = []Parameter{
		{Name: "frequency", Unit: "[Hz]"},
		{Name: "quality", Unit: ""},
		{Name: "hrss", Unit: ""},
	}

	// CompactBinaryParameters are reported for every other posterior
	CompactBinaryParameters = []Parameter{
		{Name: "mchirp", Unit: ""},
		{Name: "q", Unit: ""},
		{Name: "distance", Unit: ""},
	}
)

// ============================================================================
// RESULTS
// ============================================================================

// Kind names which interpretation of the samples was selected
type Kind string

const (
	KindBurst         Kind = "burst"
	KindCompactBinary Kind = "compact_binary"
)

// Estimate summarises the samples of one parameter
type Estimate struct {
	Parameter  Parameter `json:"parameter"`
	MAP        float64   `json:"map"`     // Sample value at the maximum posterior density
	StdDev     float64   `json:"std_dev"` // Population standard deviation
	Mean       float64   `json:"mean"`
	Median     float64   `json:"median"`
	Lower5     float64   `json:"lower_5"`  // 5th percentile
	Upper95    float64   `json:"upper_95"` // 95th percentile
	SampleSize int       `json:"sample_size"`
}

// Summary is the payload shared by both result kinds
type Summary struct {
	MAPIndex  int        `json:"map_index"`
	Density   string     `json:"density"` // Column(s) the MAP index was taken from, "uniform" when none
	Estimates []Estimate `json:"estimates"`
}

// Result is either a BurstResult or a CompactBinaryResult. The unexported
// method keeps the set closed.
type Result interface {
	Kind() Kind
	Parameters() []Parameter
	Stats() Summary
	isResult()
}

// BurstResult is the interpretation of a burst (frequency, quality, hrss) posterior
type BurstResult struct {
	Summary
}

func (BurstResult) Kind() Kind              { return KindBurst }
func (BurstResult) Parameters() []Parameter { return BurstParameters }
func (r BurstResult) Stats() Summary        { return r.Summary }
func (BurstResult) isResult()               {}

// CompactBinaryResult is the interpretation of a compact-binary (mchirp, q,
// distance) posterior
type CompactBinaryResult struct {
	Summary
}

func (CompactBinaryResult) Kind() Kind              { return KindCompactBinary }
func (CompactBinaryResult) Parameters() []Parameter { return CompactBinaryParameters }
func (r CompactBinaryResult) Stats() Summary        { return r.Summary }
func (CompactBinaryResult) isResult()               {}

// ============================================================================
// AUXILIARY SCALARS AND REPORT
// ============================================================================

const (
	LabelBCI = "logBCI" // Coherence test statistic
	LabelBSN = "logBSN" // Signal-vs-noise evidence
)

// Scalar is a single upstream statistic shown below the parameter rows
type Scalar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Report is everything that goes into one PE summary post
type Report struct {
	Analysis string   `json:"analysis"`
	Result   Result   `json:"-"`
	Scalars  []Scalar `json:"scalars"`
	Body     string   `json:"-"` // Rendered HTML
}
