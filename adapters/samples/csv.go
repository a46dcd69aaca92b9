package samples

import (
	"encoding/csv"
	"fmt"
	"io"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
)

// CSVParser reads comma separated samples with a header row
type CSVParser struct{}

// NewCSVParser creates a CSV samples parser
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse implements ports.PosteriorParser
func (p *CSVParser) Parse(r io.Reader) (*posterior.Table, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		header []string
		cells  [][]string
		lines  []int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV samples: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if header == nil {
			header = normalizeHeader(record)
			continue
		}
		cells = append(cells, record)
		lines = append(lines, line)
	}

	if header == nil {
		return nil, core.ErrNoHeader
	}
	return rowsToTable(header, cells, lines)
}
