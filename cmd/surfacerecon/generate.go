package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/surfacerecon/surfacerecon/internal/config"
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/scenario"
	"github.com/surfacerecon/surfacerecon/internal/testgen"
)

var (
	genSeed             int64
	genAllowDestructive bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Synthesize adversarial test cases from enriched endpoints",
	Long: `generate reads the enriched endpoint set (endpoints.json, with
id_pools populated by "infer") and synthesizes IDOR, AUTH_BYPASS,
METHOD_CONFUSION, and MASS_ASSIGNMENT test cases, writing them to
tests.json. Generation is deterministic for a fixed --seed.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "override the configured reproducibility seed (0 = use config default)")
	generateCmd.Flags().BoolVar(&genAllowDestructive, "allow-destructive", false, "allow DELETE in METHOD_CONFUSION variants")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if genSeed != 0 {
		cfg.Seed = genSeed
	}
	if genAllowDestructive {
		cfg.AllowDestructive = true
	}

	dir := scenario.New(scenarioDir)

	var endpoints []*model.Endpoint
	if err := scenario.ReadJSON(dir.EndpointsFile(), &endpoints); err != nil {
		return err
	}

	gen := testgen.New(cfg)
	tests := gen.Generate(endpoints)

	if err := scenario.WriteJSON(dir.TestsFile(), tests); err != nil {
		return err
	}
	log.Printf("generate: synthesized %d test cases across %d endpoints (seed=%d)", len(tests), len(endpoints), cfg.Seed)
	return nil
}
