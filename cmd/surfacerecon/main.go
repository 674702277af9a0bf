// Command surfacerecon runs the offline analysis pipeline described in
// spec.md: Endpoint Modeler, ID Inference, Adversarial Test Generator,
// Concurrent Replay Engine, and Differential Analyzer, each available
// as its own subcommand plus a composite "run".
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("surfacerecon: %v", err)
	}
}
