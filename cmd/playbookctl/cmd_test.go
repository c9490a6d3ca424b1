package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/research"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

const strongProduct = `
title: Bamboo Cutting Board
keyword: bamboo cutting board
criteria:
  - id: revenue
    value: 9000
    max_value: 10000
  - id: demand
    value: 4000
    max_value: 5000
  - id: competition
    value: 20
    max_value: 100
  - id: barriers
    value: 20
    max_value: 100
margins:
  computed_margin: 30
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"PLAYBOOK_MARKETPLACE", "PLAYBOOK_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCommand_Text(t *testing.T) {
	path := writeFile(t, "product.yaml", strongProduct)

	out, err := run(t, "", "score", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Bamboo Cutting Board")
	assert.Contains(t, out, "Competition (lower is better)")
	assert.Contains(t, out, "Gates (4/4)")
	assert.Contains(t, out, "Score: 83")
	assert.Contains(t, out, "Recommendation: proceed")
	assert.NotContains(t, out, "Warning")
}

func TestScoreCommand_JSONInputAndOutput(t *testing.T) {
	path := writeFile(t, "product.json", `{
  "criteria": [{"id": "revenue", "value": 5000, "max_value": 10000, "weight": 100}],
  "margins": {"computed_margin": 25}
}`)

	out, err := run(t, "", "score", path, "-o", "json")
	require.NoError(t, err)

	var ev scoring.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, 50, ev.Score)
	// revenue, competition (missing reads as 0) and margin pass
	assert.Equal(t, 3, ev.GatesPassed)
	assert.Equal(t, scoring.RecommendReject, ev.Recommendation)
}

func TestScoreCommand_Stdin(t *testing.T) {
	out, err := run(t, strongProduct, "score", "-", "--output", "yaml")
	require.NoError(t, err)

	var ev scoring.Evaluation
	require.NoError(t, yaml.Unmarshal([]byte(out), &ev))
	assert.Equal(t, 83, ev.Score)
	assert.Equal(t, scoring.RecommendProceed, ev.Recommendation)
}

func TestScoreCommand_UnbalancedWarning(t *testing.T) {
	path := writeFile(t, "partial.yaml", `
criteria:
  - id: revenue
    value: 10000
    max_value: 10000
    weight: 50
`)
	out, err := run(t, "", "score", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 50")
	assert.Contains(t, out, "Warning: weights total 50, not 100")
}

func TestScoreCommand_ExplicitZeroWeight(t *testing.T) {
	path := writeFile(t, "zero.yaml", `
criteria:
  - id: revenue
    value: 8000
    max_value: 10000
    weight: 0
  - id: demand
    value: 2000
    max_value: 2000
    weight: 100
`)
	out, err := run(t, "", "score", path, "-o", "json")
	require.NoError(t, err)

	var ev scoring.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, 100, ev.Score)
	assert.Equal(t, 100.0, ev.WeightTotal)
}

func TestScoreCommand_FailOnReject(t *testing.T) {
	path := writeFile(t, "weak.yaml", `
criteria:
  - id: revenue
    value: 100
    max_value: 10000
`)
	_, err := run(t, "", "score", path, "--fail-on-reject")
	var ee *exitErr
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 4, ee.code)
}

func TestScoreCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		args     []string
		wantCode int
	}{
		{"invalid criterion", "criteria:\n  - id: revenue\n    value: 1\n    max_value: 0\n", nil, 2},
		{"unknown id", "criteria:\n  - id: rating\n    value: 1\n    max_value: 5\n", nil, 2},
		{"bad yaml", "criteria: [", nil, 3},
		{"bad output", strongProduct, []string{"-o", "xml"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "p.yaml", tt.content)
			_, err := run(t, "", append([]string{"score", path}, tt.args...)...)
			var ee *exitErr
			require.True(t, errors.As(err, &ee), "got %v", err)
			assert.Equal(t, tt.wantCode, ee.code)
		})
	}

	_, err := run(t, "", "score", filepath.Join(t.TempDir(), "missing.yaml"))
	var ee *exitErr
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.code)

	_, err = run(t, "", "score")
	assert.Error(t, err)
}

func TestScoreCommand_ConfigWeights(t *testing.T) {
	cfgPath := writeFile(t, "playbook.yaml", `
scoring:
  weights:
    revenue: 100
    demand: 0
    competition: 0
    barriers: 0
`)
	path := writeFile(t, "product.yaml", strongProduct)

	out, err := run(t, "", "--config", cfgPath, "score", path, "-o", "json")
	require.NoError(t, err)
	var ev scoring.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, 90, ev.Score)
}

func TestRubricCommand(t *testing.T) {
	out, err := run(t, "", "rubric")
	require.NoError(t, err)
	assert.Contains(t, out, "competition")
	assert.Contains(t, out, "computed_margin >= 20")
	assert.Contains(t, out, "proceed      score >= 80 and gates >= 4")
	assert.Contains(t, out, "reject       otherwise")

	out, err = run(t, "", "rubric", "-o", "json")
	require.NoError(t, err)
	var rubric scoring.Rubric
	require.NoError(t, json.Unmarshal([]byte(out), &rubric))
	assert.Equal(t, 25.0, rubric.Weights.Barriers)
}

func TestShortcutsCommand(t *testing.T) {
	out, err := run(t, "", "shortcuts", "yoga", "mat", "--marketplace", "co.uk", "-o", "json")
	require.NoError(t, err)

	var links []research.Shortcut
	require.NoError(t, json.Unmarshal([]byte(out), &links))
	require.Len(t, links, 4)
	assert.Equal(t, "https://www.amazon.co.uk/s?k=yoga+mat", links[0].URL)

	out, err = run(t, "", "shortcuts", "--asin", "B000TEST01")
	require.NoError(t, err)
	assert.Contains(t, out, "https://www.amazon.com/dp/B000TEST01")

	_, err = run(t, "", "shortcuts")
	var ee *exitErr
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.code)
}
