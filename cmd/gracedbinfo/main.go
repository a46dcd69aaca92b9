package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gracedbinfo/adapters/gracedb"
	"gracedbinfo/adapters/samples"
	"gracedbinfo/adapters/scalar"
	"gracedbinfo/app"
	"gracedbinfo/internal"
	"gracedbinfo/internal/analysis"
	"gracedbinfo/internal/config"
	"gracedbinfo/internal/errors"
	"gracedbinfo/internal/report"
	"gracedbinfo/ports"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.GetCode(err) == errors.CodeInvalidInput {
			fmt.Fprintln(stderr, err)
		} else {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

type options struct {
	app.Request
	serviceURL string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "gracedbinfo",
		Short: "Post a parameter estimation summary table to a GraceDB event",
		Long: `Summarise posterior samples as MAP +/- standard deviation for each
recognised parameter and post the table to an event's GraceDB log with tag "pe".

Burst posteriors (frequency, quality, hrss) are tried first; anything else is
summarised as a compact binary (mchirp, q, distance).

Credentials and service settings are read from the environment or .env:
- GRACEDB_URL (default: https://gracedb.ligo.org/api/)
- GRACEDB_TOKEN, or GRACEDB_USERNAME and GRACEDB_PASSWORD
- X509_USER_CERT and X509_USER_KEY
- GRACEDB_TIMEOUT (default: no timeout)
- LOG_LEVEL (default: INFO)

Example: gracedbinfo -g G298048 -s posterior_samples.dat --bsn bsn.dat`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Required inputs are checked before any file or network access
			if err := opts.Validate(); err != nil {
				return err
			}
			return runSummary(cmd.Context(), opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.EventID, "gid", "g", "", "GraceDB event id")
	flags.StringVarP(&opts.SamplesPath, "samples", "s", "", "posterior samples file")
	flags.StringVar(&opts.Analysis, "analysis", report.DefaultAnalysis, "analysis name shown in the table header")
	flags.StringVar(&opts.BCIPath, "bci", "", "file containing the coherence test Bayes factor (logBCI)")
	flags.StringVar(&opts.BSNPath, "bsn", "", "file containing the signal vs noise Bayes factor (logBSN)")
	flags.StringVar(&opts.serviceURL, "service-url", "", "GraceDB API root, overrides GRACEDB_URL")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "print the table without posting it")
	flags.StringVar(&opts.JSONPath, "json", "", "also write the summary as JSON to this file")

	return cmd
}

func runSummary(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.serviceURL != "" {
		cfg.GraceDB.URL = opts.serviceURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := internal.NewLoggerTo(stderr, internal.ParseLogLevel(cfg.LogLevel))

	var eventLog ports.EventLogWriter
	if !opts.DryRun {
		client, err := gracedb.NewClient(gracedb.ClientConfigFrom(cfg.GraceDB), logger)
		if err != nil {
			return err
		}
		eventLog = client
	}

	svc := app.NewSummaryService(
		samples.NewReader(logger),
		scalar.NewLoader(logger),
		analysis.NewPosteriorAnalyzer(logger),
		eventLog,
		logger,
	).WithOutput(stdout)

	_, err = svc.Run(ctx, opts.Request)
	return err
}
