package main

import (
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

// ProductFile is the on-disk product description. JSON files parse too.
// A criterion without a weight takes the default; weight: 0 stays 0.
type ProductFile struct {
	Title    string                   `yaml:"title"`
	Keyword  string                   `yaml:"keyword"`
	ASIN     string                   `yaml:"asin"`
	Criteria []scoring.CriterionInput `yaml:"criteria"`
	Margins  *scoring.Margins         `yaml:"margins"`
}

type scoreOptions struct {
	output       string
	failOnReject bool
}

func newScoreCommand() *cobra.Command {
	var opts scoreOptions
	cmd := &cobra.Command{
		Use:   "score <file>",
		Short: "Evaluate a product file (YAML or JSON, - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args[0], opts)
		},
	}
	addOutputFlag(cmd, &opts.output)
	cmd.Flags().BoolVar(&opts.failOnReject, "fail-on-reject", false, "Exit with status 4 when the recommendation is reject")
	return cmd
}

func runScore(cmd *cobra.Command, path string, opts scoreOptions) error {
	pf, err := readProductFile(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	weights, err := defaultWeights(cmd)
	if err != nil {
		return err
	}

	ev, err := scoring.Evaluate(weights.Resolve(pf.Criteria), pf.Margins)
	if err != nil {
		return exitError(2, "invalid product file: %v", err)
	}

	out := cmd.OutOrStdout()
	handled, err := writeEncoded(out, opts.output, ev)
	if err != nil {
		return err
	}
	if !handled {
		renderEvaluation(out, pf, ev)
	}

	if opts.failOnReject && ev.Recommendation == scoring.RecommendReject {
		return &exitErr{code: 4}
	}
	return nil
}

func readProductFile(stdin io.Reader, path string) (*ProductFile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, exitError(3, "failed to read %s: %v", path, err)
	}

	var pf ProductFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, exitError(3, "failed to parse %s: %v", path, err)
	}
	return &pf, nil
}

func renderEvaluation(w io.Writer, pf *ProductFile, ev *scoring.Evaluation) {
	if pf.Title != "" {
		fprintf(w, "%s\n\n", pf.Title)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fprintf(tw, "CRITERION\tVALUE\tMAX\tNORMALIZED\tWEIGHT\tPOINTS\n")
	for _, f := range ev.Factors {
		label := f.Label
		if f.Inverted {
			label += " (lower is better)"
		}
		fprintf(tw, "%s\t%g\t%g\t%.1f\t%g\t%.2f\n", label, f.Value, f.MaxValue, f.Normalized, f.Weight, f.Weighted)
	}
	_ = tw.Flush()

	fprintf(w, "\nGates (%d/4):\n", ev.GatesPassed)
	for _, rule := range scoring.GateRules {
		fprintf(w, "  %-12s %s %g  %s\n", rule.Gate, rule.Comparison, rule.Threshold, check(ev.Gates.Get(rule.Gate)))
	}

	fprintf(w, "\nScore: %d\n", ev.Score)
	if !ev.WeightsBalanced {
		fprintf(w, "Warning: weights total %g, not 100\n", ev.WeightTotal)
	}
	fprintf(w, "Recommendation: %s\n", ev.Recommendation)
}
