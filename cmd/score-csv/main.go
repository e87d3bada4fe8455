// Command score-csv scores an applicant CSV file offline and writes the
// ranked results as JSON, YAML or CSV.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/okian/scholar/internal/adapters/dataset"
	service "github.com/okian/scholar/internal/app"
	"github.com/okian/scholar/internal/domain/decision"
	"github.com/okian/scholar/internal/domain/explain"
	"github.com/okian/scholar/internal/domain/model"
	"github.com/okian/scholar/internal/domain/ranking"
	"github.com/okian/scholar/internal/domain/scoring"
	"github.com/okian/scholar/internal/domain/types"
	"github.com/okian/scholar/pkg/logger"
)

// Output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatCSV  = "csv"

	stdio = "-"
)

// Flag names.
const (
	flagInput         = "input"
	flagOutput        = "output"
	flagFormat        = "format"
	flagAcademic      = "academic"
	flagFinancial     = "financial"
	flagEngagement    = "engagement"
	flagPercent       = "percent"
	flagPartial       = "partial"
	flagFull          = "full"
	flagExplainRank   = "explain-rank"
	flagExplainID     = "explain-id"
	flagLogLevel      = "log-level"
	flagTop           = "top"
	flagTier          = "tier"
	flagFullAmount    = "full-amount"
	flagPartialAmount = "partial-amount"
)

// flags builds fresh flag values for one command instance.
func flags() []cli.Flag {
	w := scoring.DefaultWeights()
	a := decision.DefaultAmounts()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagInput,
			Aliases: []string{"i"},
			Usage:   "Applicant CSV file, - for stdin",
			Value:   stdio,
		},
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   "Result file, - for stdout",
			Value:   stdio,
		},
		&cli.StringFlag{
			Name:  flagFormat,
			Usage: fmt.Sprintf("Output format (%s, %s, %s)", formatJSON, formatYAML, formatCSV),
			Value: formatCSV,
		},
		&cli.FloatFlag{Name: flagAcademic, Usage: "Academic merit weight", Value: w.Academic()},
		&cli.FloatFlag{Name: flagFinancial, Usage: "Financial need weight", Value: w.Financial()},
		&cli.FloatFlag{Name: flagEngagement, Usage: "Engagement weight", Value: w.Engagement()},
		&cli.BoolFlag{Name: flagPercent, Usage: "Read the weights as percentages summing to 100"},
		&cli.FloatFlag{
			Name:  flagPartial,
			Usage: "Minimum final score for a partial scholarship",
			Value: decision.DefaultPartialThreshold,
		},
		&cli.FloatFlag{
			Name:  flagFull,
			Usage: "Minimum final score for a full scholarship",
			Value: decision.DefaultFullThreshold,
		},
		&cli.StringFlag{
			Name:  flagFullAmount,
			Usage: "Award for a full scholarship",
			Value: a.Full.String(),
		},
		&cli.StringFlag{
			Name:  flagPartialAmount,
			Usage: "Award for a partial scholarship",
			Value: a.Partial.String(),
		},
		&cli.IntFlag{
			Name:  flagTop,
			Usage: "List only the first N results after tier filtering",
		},
		&cli.StringSliceFlag{
			Name:  flagTier,
			Usage: "List only results with this recommendation (repeatable)",
		},
		&cli.IntFlag{
			Name:  flagExplainRank,
			Usage: "Explain the applicant at this rank instead of listing results",
		},
		&cli.StringFlag{
			Name:  flagExplainID,
			Usage: "Explain the applicant with this id instead of listing results",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "Log level written to stderr (debug, info, warn, error)",
			Value: "warn",
		},
	}
}

func main() {
	if err := newCommand(os.Stdin, os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "score-csv: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "score-csv",
		Usage:     "Score, classify and rank scholarship applicants from a CSV file",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := logger.New(logger.WithLevel(cmd.String(flagLogLevel)), logger.WithWriter(stderr))
			if err != nil {
				return err
			}
			r := &runner{stdin: stdin, stdout: stdout, log: log}
			return r.run(ctx, cmd)
		},
	}
}

type runner struct {
	stdin  io.Reader
	stdout io.Writer
	log    logger.Logger
}

func (r *runner) run(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String(flagFormat))
	switch format {
	case formatJSON, formatYAML, formatCSV:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	ov, err := overrides(cmd)
	if err != nil {
		return err
	}
	v, err := parseView(cmd)
	if err != nil {
		return err
	}
	svc := service.New(service.WithLogger(r.log), service.WithMaxApplicants(math.MaxInt))

	tbl, err := r.load(ctx, svc, cmd.String(flagInput))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if sel, ok := selector(cmd); ok {
		x, err := svc.Explain(ctx, tbl, ov, sel)
		if err != nil {
			return err
		}
		if err := writeExplanation(&buf, format, x); err != nil {
			return err
		}
		return r.emit(cmd.String(flagOutput), buf.Bytes())
	}

	res, err := svc.Evaluate(ctx, tbl, ov)
	if err != nil {
		return err
	}
	r.log.Info(ctx, "scored applicants",
		logger.String("run_id", res.RunID),
		logger.Int("applicants", res.Summary.Applicants),
		logger.String("total_awarded", res.Summary.TotalAwarded.String()),
	)
	if err := writeResults(&buf, format, res, v.apply(res.Table)); err != nil {
		return err
	}
	return r.emit(cmd.String(flagOutput), buf.Bytes())
}

// load reads the input table and preprocesses raw attributes when the file
// has no normalized feature columns.
func (r *runner) load(ctx context.Context, svc *service.Service, path string) (model.Table, error) {
	in := r.stdin
	if path != stdio {
		f, err := os.Open(path)
		if err != nil {
			return model.Table{}, err
		}
		defer f.Close()
		in = f
	}
	ds, err := dataset.Read(in)
	if err != nil {
		return model.Table{}, err
	}
	if ds.Preprocessed() {
		return ds.Table(), nil
	}
	return svc.Preprocess(ctx, ds.Applicants)
}

// emit writes a finished report. The output file is only created once
// the pass has succeeded.
func (r *runner) emit(path string, data []byte) error {
	if path == stdio {
		_, err := r.stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func overrides(cmd *cli.Command) (service.Overrides, error) {
	build := scoring.NewWeights
	if cmd.Bool(flagPercent) {
		build = scoring.NewWeightsPercent
	}
	w, err := build(cmd.Float(flagAcademic), cmd.Float(flagFinancial), cmd.Float(flagEngagement))
	if err != nil {
		return service.Overrides{}, err
	}
	full, err := decimal.NewFromString(cmd.String(flagFullAmount))
	if err != nil {
		return service.Overrides{}, fmt.Errorf("--%s: %w", flagFullAmount, err)
	}
	partial, err := decimal.NewFromString(cmd.String(flagPartialAmount))
	if err != nil {
		return service.Overrides{}, fmt.Errorf("--%s: %w", flagPartialAmount, err)
	}
	p, err := decision.NewPolicy(cmd.Float(flagPartial), cmd.Float(flagFull), decision.Amounts{Full: full, Partial: partial})
	if err != nil {
		return service.Overrides{}, err
	}
	return service.Overrides{Weights: &w, Policy: &p}, nil
}

// view narrows the listed results to some tiers, then to the first top.
type view struct {
	tiers []model.Recommendation
	top   int
	limit bool
}

func parseView(cmd *cli.Command) (view, error) {
	var v view
	for _, name := range cmd.StringSlice(flagTier) {
		rec, ok := model.ParseRecommendation(name)
		if !ok {
			return view{}, fmt.Errorf("--%s: unknown recommendation %q", flagTier, name)
		}
		v.tiers = append(v.tiers, rec)
	}
	if cmd.IsSet(flagTop) {
		v.top, v.limit = cmd.Int(flagTop), true
		if v.top < 0 {
			return view{}, fmt.Errorf("--%s must not be negative", flagTop)
		}
	}
	return v, nil
}

func (v view) apply(t ranking.Table) []ranking.Entry {
	filtered := t.Filter(v.tiers...)
	if !v.limit {
		return filtered.Entries
	}
	return filtered.Top(v.top)
}

func selector(cmd *cli.Command) (explain.Selector, bool) {
	switch {
	case cmd.IsSet(flagExplainID):
		return explain.ByID(cmd.String(flagExplainID)), true
	case cmd.IsSet(flagExplainRank):
		return explain.ByRank(cmd.Int(flagExplainRank)), true
	default:
		return explain.Selector{}, false
	}
}

type report struct {
	RunID   string         `json:"run_id" yaml:"run_id"`
	Weights types.Weights  `json:"weights" yaml:"weights"`
	Policy  types.Policy   `json:"policy" yaml:"policy"`
	Results []types.Result `json:"results" yaml:"results"`
	Summary types.Summary  `json:"summary" yaml:"summary"`
}

func writeResults(w io.Writer, format string, res service.Result, entries []ranking.Entry) error {
	rows := types.FromEntries(entries)
	if format == formatCSV {
		return dataset.WriteResults(w, rows)
	}
	return encode(w, format, report{
		RunID:   res.RunID,
		Weights: types.FromWeights(res.Table.Weights),
		Policy:  types.FromPolicy(res.Table.Policy),
		Results: rows,
		Summary: types.FromSummary(res.Summary),
	})
}

func writeExplanation(w io.Writer, format string, x explain.Explanation) error {
	if format == formatCSV {
		_, err := fmt.Fprintln(w, x.Narrative())
		return err
	}
	return encode(w, format, types.FromExplanation(x))
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
