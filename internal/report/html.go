package report

import (
	"fmt"
	"strings"

	"gracedbinfo/domain/posterior"
)

// DefaultAnalysis is the header label used when none is given
const DefaultAnalysis = "LALInference"

// RenderHTML builds the PE summary table posted to the event log. analysis
// is written into the header as given, without escaping.
func RenderHTML(analysis string, result posterior.Result, scalars []posterior.Scalar) string {
	if analysis == "" {
		analysis = DefaultAnalysis
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<table><tr><th colspan=2 align=center>%s PE summary</th></tr>", analysis)

	if result != nil {
		for _, e := range result.Stats().Estimates {
			fmt.Fprintf(&b, "<tr><td align=left>%s</td>", e.Parameter.Label())
			fmt.Fprintf(&b, "<td align=left>%s &plusmn; %s</td></tr>", FormatValue(e.Parameter, e.MAP), FormatValue(e.Parameter, e.StdDev))
		}
	}

	for _, s := range scalars {
		fmt.Fprintf(&b, "<tr><td align=left>%s</td>", s.Label)
		fmt.Fprintf(&b, "<td align=center>%s</td></tr>", FormatScalar(s.Value))
	}

	b.WriteString("</table>")
	return b.String()
}

// FormatValue formats a parameter value: scientific with three decimals for
// parameters that need it, fixed with three decimals otherwise.
func FormatValue(p posterior.Parameter, v float64) string {
	if p.Scientific() {
		return fmt.Sprintf("%.3e", v)
	}
	return fmt.Sprintf("%.3f", v)
}

// FormatScalar formats an auxiliary statistic with two decimals
func FormatScalar(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// UnsafeLabel reports whether the analysis label contains markup characters
// that will reach the HTML unescaped.
func UnsafeLabel(analysis string) bool {
	return strings.ContainsAny(analysis, "<>&\"'")
}
