package samples

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
)

// CommonParser reads the "common" posterior format: optional '#' comment
// lines, a whitespace-separated header of parameter names, then one
// whitespace-separated row per sample.
type CommonParser struct{}

// NewCommonParser creates a parser for the common format
func NewCommonParser() *CommonParser {
	return &CommonParser{}
}

// Parse implements ports.PosteriorParser
func (p *CommonParser) Parse(r io.Reader) (*posterior.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		header []string
		cells  [][]string
		lines  []int
		line   int
	)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if header == nil {
			header = normalizeHeader(fields)
			continue
		}
		cells = append(cells, fields)
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}

	if header == nil {
		return nil, core.ErrNoHeader
	}
	return rowsToTable(header, cells, lines)
}
