package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/surfacerecon/surfacerecon/internal/idinfer"
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/scenario"
)

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Annotate modeled endpoints with identifier pools",
	Long: `infer reads endpoints.json, classifies every path/query/body
parameter's observed values into integer/uuid/string buckets, and
rewrites endpoints.json with each Endpoint's id_pools populated.`,
	RunE: runInfer,
}

func init() {
	rootCmd.AddCommand(inferCmd)
}

func runInfer(cmd *cobra.Command, args []string) error {
	dir := scenario.New(scenarioDir)

	var endpoints []*model.Endpoint
	if err := scenario.ReadJSON(dir.EndpointsFile(), &endpoints); err != nil {
		return err
	}

	idinfer.Infer(endpoints)

	if err := scenario.WriteJSON(dir.EndpointsFile(), endpoints); err != nil {
		return err
	}

	pools := 0
	for _, ep := range endpoints {
		pools += len(ep.IDPools)
	}
	log.Printf("infer: annotated %d endpoints with %d id pools", len(endpoints), pools)
	return nil
}
