package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gracedbinfo/domain/posterior"
	"gracedbinfo/internal"
	"gracedbinfo/internal/analysis"
	"gracedbinfo/internal/errors"
	"gracedbinfo/internal/report"
	"gracedbinfo/ports"
)

// PETag is the GraceDB tag applied to the summary log message
const PETag = "pe"

const (
	MsgMissingEventID = "Must provide a graceDB id with --gid/-g"
	MsgMissingSamples = "Must provide lalinference posterior samples with --samples/-s"
)

// Request describes one summary run
type Request struct {
	EventID     string
	SamplesPath string
	Analysis    string
	BCIPath     string
	BSNPath     string
	DryRun      bool   // render only, do not post
	JSONPath    string // optional JSON copy of the summary
}

// Validate checks the required inputs. It touches neither the filesystem
// nor the network.
func (r Request) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return errors.InvalidInput(MsgMissingEventID)
	}
	if strings.TrimSpace(r.SamplesPath) == "" {
		return errors.InvalidInput(MsgMissingSamples)
	}
	return nil
}

// SummaryService turns a posterior samples file into a PE summary table and
// posts it to an event's log.
type SummaryService struct {
	samples  ports.PosteriorSource
	scalars  ports.ScalarSource
	analyzer *analysis.PosteriorAnalyzer
	eventLog ports.EventLogWriter
	logger   *internal.Logger
	out      io.Writer
}

func NewSummaryService(
	samples ports.PosteriorSource,
	scalars ports.ScalarSource,
	analyzer *analysis.PosteriorAnalyzer,
	eventLog ports.EventLogWriter,
	logger *internal.Logger,
) *SummaryService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if analyzer == nil {
		analyzer = analysis.NewPosteriorAnalyzer(logger)
	}
	return &SummaryService{
		samples:  samples,
		scalars:  scalars,
		analyzer: analyzer,
		eventLog: eventLog,
		logger:   logger,
	}
}

// WithOutput makes Run write the rendered table, followed by a newline, to w
// before anything is posted.
func (s *SummaryService) WithOutput(w io.Writer) *SummaryService {
	s.out = w
	return s
}

// Run executes the whole flow. The returned report is populated even when
// the post fails, so callers can still show what would have been sent.
func (s *SummaryService) Run(ctx context.Context, req Request) (*posterior.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	analysisLabel := req.Analysis
	if analysisLabel == "" {
		analysisLabel = report.DefaultAnalysis
	}
	if report.UnsafeLabel(analysisLabel) {
		s.logger.Warn("[Summary] analysis label %q contains HTML markup and is inserted verbatim", analysisLabel)
	}

	// 1. Samples
	table, err := s.samples.Load(req.SamplesPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load posterior samples")
	}

	// 2. Statistics
	result, err := s.analyzer.Interpret(table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to summarise %s", req.SamplesPath)
	}

	// 3. Optional Bayes factors, BCI before BSN
	var scalars []posterior.Scalar
	for _, src := range []struct{ label, path string }{
		{posterior.LabelBCI, req.BCIPath},
		{posterior.LabelBSN, req.BSNPath},
	} {
		sc, err := s.scalars.LoadScalar(src.label, src.path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", src.label)
		}
		if sc != nil {
			scalars = append(scalars, *sc)
		}
	}

	// 4. Render
	rep := &posterior.Report{
		Analysis: analysisLabel,
		Result:   result,
		Scalars:  scalars,
	}
	rep.Body = report.RenderHTML(rep.Analysis, rep.Result, rep.Scalars)
	if s.out != nil {
		if _, err := fmt.Fprintln(s.out, rep.Body); err != nil {
			return rep, errors.Wrap(err, "failed to write summary table")
		}
	}

	// The JSON copy is a side output; it never blocks the post
	if req.JSONPath != "" {
		doc := report.NewDocument(req.EventID, table, *rep)
		if err := report.WriteJSON(req.JSONPath, doc); err != nil {
			s.logger.Warn("[Summary] JSON summary not written: %v", err)
		} else {
			s.logger.Info("[Summary] JSON summary written to %s", req.JSONPath)
		}
	}

	if req.DryRun {
		s.logger.Info("[Summary] dry run, not posting to %s", req.EventID)
		return rep, nil
	}

	// 5. Post
	if s.eventLog == nil {
		return rep, errors.InternalError("no event log writer configured")
	}
	entry, err := s.eventLog.WriteLog(ctx, req.EventID, rep.Body, "", PETag)
	if err != nil {
		return rep, errors.Wrapf(err, "failed to post summary to %s", req.EventID)
	}
	if entry != nil {
		s.logger.Info("[Summary] posted %s summary to %s (log N=%d)", result.Kind(), req.EventID, entry.Number)
	}
	return rep, nil
}
