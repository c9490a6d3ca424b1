package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/config"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playbookctl",
		Short: "Score Amazon product opportunities from the command line",
		Long: `playbookctl runs the product research scoring engine locally.

It normalizes criteria, computes the weighted opportunity score, checks the
four gates and prints a proceed / gather-data / reject recommendation.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "Config file supplying default weights and marketplace")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newRubricCommand())
	cmd.AddCommand(newShortcutsCommand())

	return cmd
}

// loadConfig reads --config, falling back to built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, exitError(3, "failed to load config: %v", err)
	}
	slog.Debug("config loaded", "path", path, "weights", cfg.Scoring.WeightSet())
	return cfg, nil
}

func defaultWeights(cmd *cobra.Command) (scoring.WeightSet, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return scoring.WeightSet{}, err
	}
	return cfg.Scoring.WeightSet(), nil
}

// writeEncoded handles the machine readable output formats. It reports false
// for "text" so the caller can render its own view.
func writeEncoded(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case "text", "":
		return false, nil
	default:
		return true, exitError(2, "unknown output format %q (want text, json or yaml)", format)
	}
}

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "text", "Output format: text, json or yaml")
}

func check(mark bool) string {
	if mark {
		return "pass"
	}
	return "fail"
}

func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
