package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gracedbinfo/domain/core"
	"gracedbinfo/domain/posterior"
)

// Document is the machine-readable companion of the HTML table
type Document struct {
	EventID     string               `json:"event_id"`
	Analysis    string               `json:"analysis"`
	Kind        posterior.Kind       `json:"kind"`
	Samples     string               `json:"samples"`
	SampleCount int                  `json:"sample_count"`
	Fingerprint core.Hash            `json:"sha256"`
	MAPIndex    int                  `json:"map_index"`
	Density     string               `json:"density"`
	Estimates   []posterior.Estimate `json:"estimates"`
	Scalars     []posterior.Scalar   `json:"scalars"`
	HTML        string               `json:"html"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// NewDocument collects the summary for serialisation
func NewDocument(eventID string, table *posterior.Table, rep posterior.Report) Document {
	doc := Document{
		EventID:     eventID,
		Analysis:    rep.Analysis,
		Scalars:     rep.Scalars,
		HTML:        rep.Body,
		GeneratedAt: time.Now().UTC(),
	}
	if doc.Scalars == nil {
		doc.Scalars = []posterior.Scalar{}
	}
	if table != nil {
		doc.Samples = table.Source
		doc.SampleCount = table.Len()
		doc.Fingerprint = table.Fingerprint
	}
	if rep.Result != nil {
		s := rep.Result.Stats()
		doc.Kind = rep.Result.Kind()
		doc.MAPIndex = s.MAPIndex
		doc.Density = s.Density
		doc.Estimates = s.Estimates
	}
	if doc.Estimates == nil {
		doc.Estimates = []posterior.Estimate{}
	}
	return doc
}

// WriteJSON writes doc to path, indented
func WriteJSON(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}
