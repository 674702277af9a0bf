package main

import (
	"log"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/surfacerecon/surfacerecon/internal/scenario"
)

var watchStage string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run a stage whenever its upstream artifact file changes",
	Long: `watch keeps a single stage's output in sync with its input during
iterative scenario authoring: edit requests.json by hand, for example,
and "watch --stage model" re-derives endpoints.json on every save.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchStage, "stage", "model", "stage to re-run: model, infer, generate, replay, or analyze")
}

// watchTargets maps a stage name to the upstream artifact file whose
// modification should trigger a re-run, and the RunE that performs it.
func watchTargets(dir *scenario.Dir) map[string]struct {
	upstream string
	rerun    func(*cobra.Command, []string) error
} {
	return map[string]struct {
		upstream string
		rerun    func(*cobra.Command, []string) error
	}{
		"model":    {dir.RequestsFile(), runModel},
		"infer":    {dir.EndpointsFile(), runInfer},
		"generate": {dir.EndpointsFile(), runGenerate},
		"replay":   {dir.TestsFile(), runReplay},
		"analyze":  {dir.ResultsFile(), runAnalyze},
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := scenario.New(scenarioDir)
	targets := watchTargets(dir)

	target, ok := targets[watchStage]
	if !ok {
		log.Fatalf("watch: unknown stage %q", watchStage)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(target.upstream); err != nil {
		return err
	}
	log.Printf("watch: watching %s, re-running %q on change (Ctrl-C to stop)", target.upstream, watchStage)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Printf("watch: %s changed, re-running %q", target.upstream, watchStage)
			if err := target.rerun(cmd, nil); err != nil {
				log.Printf("watch: %q failed: %v", watchStage, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: watcher error: %v", err)
		}
	}
}
