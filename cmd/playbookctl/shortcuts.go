package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/research"
)

func newShortcutsCommand() *cobra.Command {
	var (
		output string
		q      research.Query
	)
	cmd := &cobra.Command{
		Use:   "shortcuts [keyword...]",
		Short: "Print research links for a keyword or ASIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Keyword = strings.Join(args, " ")
			if q.Marketplace == "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				q.Marketplace = cfg.Research.Marketplace
			}

			links, err := research.Shortcuts(q)
			if err != nil {
				return exitError(2, "%v", err)
			}

			out := cmd.OutOrStdout()
			handled, err := writeEncoded(out, output, links)
			if err != nil || handled {
				return err
			}
			for _, l := range links {
				fprintf(out, "%-24s %s\n", l.Label, l.URL)
			}
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	cmd.Flags().StringVar(&q.ASIN, "asin", "", "Amazon ASIN for a product page link")
	cmd.Flags().StringVar(&q.Marketplace, "marketplace", "", "Amazon marketplace code (com, co.uk, de, ...)")
	return cmd
}
