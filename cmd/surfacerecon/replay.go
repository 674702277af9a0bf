package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/surfacerecon/surfacerecon/internal/config"
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/replay"
	"github.com/surfacerecon/surfacerecon/internal/scenario"
	"github.com/surfacerecon/surfacerecon/internal/session"
)

var (
	replayCookiesPath string
	replayHeadersPath string
	replayConcurrency int
	replayRate        float64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay the generated test cases under bounded concurrency and a global rate limit",
	Long: `replay reads tests.json and executes each TestCase as an HTTP
request, bounded by --concurrency in-flight requests and a global
--rate requests/second. An interrupt (Ctrl-C) cancels outstanding
requests and still flushes whatever results have completed so far.`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replayCookiesPath, "cookies", "", "path to a session cookie JSON file (array of {name, value})")
	replayCmd.Flags().StringVar(&replayHeadersPath, "headers", "", "path to a session header JSON file (object of name -> value)")
	replayCmd.Flags().IntVar(&replayConcurrency, "concurrency", 0, "override the configured semaphore capacity (0 = use config default)")
	replayCmd.Flags().Float64Var(&replayRate, "rate", 0, "override the configured requests/second ceiling (0 = use config default)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if replayConcurrency > 0 {
		cfg.Concurrency = replayConcurrency
	}
	if replayRate > 0 {
		cfg.RatePerSecond = replayRate
	}

	dir := scenario.New(scenarioDir)

	var tests []*model.TestCase
	if err := scenario.ReadJSON(dir.TestsFile(), &tests); err != nil {
		return err
	}

	sessionMaterial, err := session.Load(replayCookiesPath, replayHeadersPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine := replay.New(cfg, sessionMaterial)
	results := engine.Run(ctx, tests)

	if err := scenario.WriteJSON(dir.ResultsFile(), results); err != nil {
		return err
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	log.Printf("replay: completed %d/%d requests successfully (concurrency=%d, rate=%.2f/s)", succeeded, len(results), cfg.Concurrency, cfg.RatePerSecond)
	return nil
}
