package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/surfacerecon/surfacerecon/internal/capture"
	"github.com/surfacerecon/surfacerecon/internal/modeler"
	"github.com/surfacerecon/surfacerecon/internal/scenario"
)

var openAPIOut string

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Collapse the capture log into a minimal Endpoint set",
	Long: `model reads requests.json from the scenario directory, groups
captured requests by (method, templated path), and writes the derived
Endpoint set to endpoints.json.`,
	RunE: runModel,
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.Flags().StringVar(&openAPIOut, "openapi", "", "also export the modeled endpoint set as an OpenAPI 3.1 document to this path")
}

func runModel(cmd *cobra.Command, args []string) error {
	dir := scenario.New(scenarioDir)

	requests, err := capture.Load(dir.RequestsFile())
	if err != nil {
		return err
	}

	endpoints, err := modeler.Model(requests)
	if err != nil {
		return err
	}

	if err := scenario.WriteJSON(dir.EndpointsFile(), endpoints); err != nil {
		return err
	}
	log.Printf("model: wrote %d endpoints to %s", len(endpoints), dir.EndpointsFile())

	if openAPIOut != "" {
		doc, err := modeler.ExportOpenAPI(endpoints, "surfacerecon modeled surface")
		if err != nil {
			return err
		}
		if err := scenario.WriteBytes(openAPIOut, doc); err != nil {
			return err
		}
		log.Printf("model: wrote OpenAPI document to %s", openAPIOut)
	}

	return nil
}
