package samples

import (
	"strconv"
	"strings"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
)

// normalizeHeader lower-cases and trims column names the way posterior
// readers expect to look them up.
func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	for i, name := range raw {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return header
}

// numericRow converts one row of cells; line is the 1-based source line (or
// spreadsheet row) used in error messages.
func numericRow(header, cells []string, line int) ([]float64, error) {
	if len(cells) != len(header) {
		return nil, core.NewRowError(line, core.ErrRaggedRow)
	}
	row := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, core.NewCellError(line, header[i], cell)
		}
		row[i] = v
	}
	return row, nil
}

// isBlank reports whether every cell is empty
func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// rowsToTable is shared by every parser once cells are split
func rowsToTable(header []string, cells [][]string, lines []int) (*posterior.Table, error) {
	rows := make([][]float64, 0, len(cells))
	for i, c := range cells {
		row, err := numericRow(header, c, lines[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return posterior.NewTable(header, rows)
}
