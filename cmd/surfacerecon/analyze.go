package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/surfacerecon/surfacerecon/internal/analyzer"
	"github.com/surfacerecon/surfacerecon/internal/capture"
	"github.com/surfacerecon/surfacerecon/internal/config"
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/scenario"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Diff replayed responses against captured baselines and classify findings",
	Long: `analyze reads requests.json, tests.json, and test_results.json,
locates a baseline captured response for each successful test result,
diffs the two response bodies, and writes findings.json with each
finding's severity and reproduction command.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir := scenario.New(scenarioDir)

	requests, err := capture.Load(dir.RequestsFile())
	if err != nil {
		return err
	}

	var tests []*model.TestCase
	if err := scenario.ReadJSON(dir.TestsFile(), &tests); err != nil {
		return err
	}

	var results []*model.TestResult
	if err := scenario.ReadJSON(dir.ResultsFile(), &results); err != nil {
		return err
	}

	findings := analyzer.Analyze(requests, tests, results, cfg.LengthDiffThreshold)

	if err := scenario.WriteJSON(dir.FindingsFile(), findings); err != nil {
		return err
	}

	counts := map[string]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	log.Printf("analyze: %d findings (HIGH=%d MEDIUM=%d LOW=%d)", len(findings), counts[model.SeverityHigh], counts[model.SeverityMedium], counts[model.SeverityLow])
	return nil
}
