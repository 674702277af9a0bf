package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/surfacerecon/surfacerecon/internal/analyzer"
	"github.com/surfacerecon/surfacerecon/internal/capture"
	"github.com/surfacerecon/surfacerecon/internal/config"
	"github.com/surfacerecon/surfacerecon/internal/idinfer"
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/modeler"
	"github.com/surfacerecon/surfacerecon/internal/progress"
	"github.com/surfacerecon/surfacerecon/internal/replay"
	"github.com/surfacerecon/surfacerecon/internal/scenario"
	"github.com/surfacerecon/surfacerecon/internal/session"
	"github.com/surfacerecon/surfacerecon/internal/testgen"
)

var (
	runCookiesPath string
	runHeadersPath string
	runWebSocket   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full five-stage pipeline against a scenario directory",
	Long: `run chains model -> infer -> generate -> replay -> analyze end to
end, printing a "[n/5] ... done" progress line per stage (mirroring the
original surfacerecon CLI's composite command). Each stage's artifact
is still written to the scenario directory, so any later stage can be
re-run independently.`,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runCookiesPath, "cookies", "", "path to a session cookie JSON file")
	runCmd.Flags().StringVar(&runHeadersPath, "headers", "", "path to a session header JSON file")
	runCmd.Flags().StringVar(&runWebSocket, "websocket-addr", "", "if set, serve a live progress feed at this address (e.g. :8787)")
}

func runAll(cmd *cobra.Command, args []string) error {
	runID := uuid.New().String()
	log.Printf("run %s: starting full pipeline in %s", runID, scenarioDir)

	var hub *progress.Hub
	if runWebSocket != "" {
		hub = progress.NewHub()
		go hub.Run()
		mux := http.NewServeMux()
		mux.HandleFunc("/progress", hub.ServeWS)
		go func() {
			log.Printf("run %s: serving progress feed on %s", runID, runWebSocket)
			if err := http.ListenAndServe(runWebSocket, mux); err != nil {
				log.Printf("run %s: progress server stopped: %v", runID, err)
			}
		}()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir := scenario.New(scenarioDir)

	stage := func(n int, name string, fn func() (int, error)) error {
		if hub != nil {
			hub.StageStarted(name)
		}
		fmt.Printf("[%d/5] %s...\n", n, name)
		count, err := fn()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if hub != nil {
			hub.StageFinished(name, count)
		}
		fmt.Printf("[%d/5] %s done (%d)\n", n, name, count)
		return nil
	}

	var endpoints []*model.Endpoint
	var tests []*model.TestCase
	var results []*model.TestResult
	var findings []*model.Finding
	var requests []capture.Request

	if err := stage(1, "model", func() (int, error) {
		var err error
		requests, err = capture.Load(dir.RequestsFile())
		if err != nil {
			return 0, err
		}
		endpoints, err = modeler.Model(requests)
		if err != nil {
			return 0, err
		}
		return len(endpoints), scenario.WriteJSON(dir.EndpointsFile(), endpoints)
	}); err != nil {
		return err
	}

	if err := stage(2, "infer", func() (int, error) {
		idinfer.Infer(endpoints)
		pools := 0
		for _, ep := range endpoints {
			pools += len(ep.IDPools)
		}
		return pools, scenario.WriteJSON(dir.EndpointsFile(), endpoints)
	}); err != nil {
		return err
	}

	if err := stage(3, "generate", func() (int, error) {
		gen := testgen.New(cfg)
		tests = gen.Generate(endpoints)
		return len(tests), scenario.WriteJSON(dir.TestsFile(), tests)
	}); err != nil {
		return err
	}

	if err := stage(4, "replay", func() (int, error) {
		sessionMaterial, err := session.Load(runCookiesPath, runHeadersPath)
		if err != nil {
			return 0, err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		engine := replay.New(cfg, sessionMaterial)
		results = engine.Run(ctx, tests)
		for _, r := range results {
			if hub != nil {
				hub.ReplayCompleted(r.TestID, r.Success, "")
			}
		}
		return len(results), scenario.WriteJSON(dir.ResultsFile(), results)
	}); err != nil {
		return err
	}

	if err := stage(5, "analyze", func() (int, error) {
		findings = analyzer.Analyze(requests, tests, results, cfg.LengthDiffThreshold)
		return len(findings), scenario.WriteJSON(dir.FindingsFile(), findings)
	}); err != nil {
		return err
	}

	counts := map[string]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	log.Printf("run %s: done. %d findings (HIGH=%d MEDIUM=%d LOW=%d)", runID, len(findings), counts[model.SeverityHigh], counts[model.SeverityMedium], counts[model.SeverityLow])
	return nil
}
