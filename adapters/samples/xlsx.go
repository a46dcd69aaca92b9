package samples

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
)

// XLSXParser reads samples exported to a spreadsheet. The first sheet is
// used; its first non-empty row is the header.
type XLSXParser struct{}

// NewXLSXParser creates a spreadsheet samples parser
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse implements ports.PosteriorParser
func (p *XLSXParser) Parse(r io.Reader) (*posterior.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel samples: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var (
		header []string
		cells  [][]string
		lines  []int
	)
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if header == nil {
			header = normalizeHeader(row)
			continue
		}
		cells = append(cells, row)
		lines = append(lines, i+1)
	}

	if header == nil {
		return nil, core.ErrNoHeader
	}
	return rowsToTable(header, cells, lines)
}
