package main

import (
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

func newRubricCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Print criteria, default weights, gates and recommendation bands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			weights, err := defaultWeights(cmd)
			if err != nil {
				return err
			}
			rubric := scoring.NewRubric(weights)

			out := cmd.OutOrStdout()
			handled, err := writeEncoded(out, output, rubric)
			if err != nil || handled {
				return err
			}
			renderRubric(out, rubric)
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func renderRubric(w io.Writer, r scoring.Rubric) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fprintf(tw, "ID\tLABEL\tINVERTED\tDEFAULT WEIGHT\n")
	for _, c := range r.Criteria {
		fprintf(tw, "%s\t%s\t%t\t%g\n", c.ID, c.Label, c.Inverted, c.DefaultWeight)
	}
	_ = tw.Flush()

	fprintf(w, "\nGates:\n")
	for _, g := range r.Gates {
		source := string(g.Criterion)
		if source == "" {
			source = "computed_margin"
		}
		fprintf(w, "  %-12s %s %s %g\n", g.Gate, source, g.Comparison, g.Threshold)
	}

	fprintf(w, "\nRecommendations:\n")
	for _, b := range r.Recommendations {
		if b.Recommendation == scoring.RecommendReject {
			fprintf(w, "  %-12s otherwise\n", b.Recommendation)
			continue
		}
		fprintf(w, "  %-12s score >= %d and gates >= %d\n", b.Recommendation, b.MinScore, b.MinGates)
	}
}
