package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teddycode/teddy/pkg/agent"
	"github.com/teddycode/teddy/pkg/config"
	"github.com/teddycode/teddy/pkg/llm"
	"github.com/teddycode/teddy/pkg/ui"
	"github.com/teddycode/teddy/pkg/utils"
	"github.com/teddycode/teddy/pkg/webui"
	"github.com/teddycode/teddy/pkg/workspace"
)

var (
	runModel       string
	runProvider    string
	runContextFile string
	runSkipPrompt  bool
	runMonitor     bool
	runRetries     int
)

var runCmd = &cobra.Command{
	Use:   "run [instruction]",
	Short: "Execute an instruction against the workspace",
	Long: `Runs the full pipeline for one instruction.

When --context points at a file whose content is a recognizable step plan
and the instruction expresses execution intent ("implement the steps
above"), the plan is executed directly. Otherwise teddy drafts a
specification, generates a plan from it, and executes that. Every run is
verified against derived success criteria and retried with corrective
steps until they pass or progress stalls.`,
	Run: func(cmd *cobra.Command, args []string) {
		instruction := ""
		if len(args) > 0 {
			instruction = args[0]
		}
		if instruction == "" {
			ui.Out().Print("An instruction is required.\n")
			cmd.Help()
			return
		}
		utils.GetLogger().Logf("User instruction: %s", instruction)

		root, err := os.Getwd()
		if err != nil {
			log.Fatalf("could not determine working directory: %v", err)
		}
		cfg, err := config.Load(root)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if runModel != "" {
			cfg.Model = runModel
		}
		if runProvider != "" {
			cfg.Provider = runProvider
		}
		if runRetries > 0 {
			cfg.MaxRetries = runRetries
		}
		cfg.SkipPrompt = runSkipPrompt

		client, err := llm.NewFromConfig(cfg)
		if err != nil {
			log.Fatalf("failed to create LLM client: %v", err)
		}

		fragments := []string{instruction}
		if runContextFile != "" {
			data, err := os.ReadFile(runContextFile)
			if err != nil {
				log.Fatalf("failed to read context file: %v", err)
			}
			fragments = []string{string(data), instruction}
		}

		var monitor *webui.Server
		if runMonitor {
			addr := cfg.MonitorAddr
			if addr == "" {
				addr = "127.0.0.1:0"
			}
			monitor = webui.NewServer(addr)
			addr, err := monitor.Start()
			if err != nil {
				log.Fatalf("failed to start monitor: %v", err)
			}
			defer monitor.Close()
			ui.Out().Printf("Monitor available at http://%s/\n", addr)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-interrupts
			ui.Out().Print("\nInterrupted; finishing the current step...\n")
			cancel()
		}()

		pipeline := agent.NewPipeline(workspace.NewOSWorkspace(root), client, cfg)
		startTime := time.Now()
		for line := range pipeline.HandleMessage(ctx, fragments) {
			utils.GetLogger().LogProcessStep(line)
			if monitor != nil {
				monitor.Broadcast(line)
			}
		}
		ui.Out().Print(fmt.Sprintf("Run completed in %s\n", time.Since(startTime).Round(time.Millisecond)))
	},
}

func init() {
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "Model name to use with the LLM")
	runCmd.Flags().StringVarP(&runProvider, "provider", "p", "", "LLM provider (ollama or openai)")
	runCmd.Flags().StringVarP(&runContextFile, "context", "c", "", "File whose content precedes the instruction (e.g. a saved plan)")
	runCmd.Flags().BoolVar(&runSkipPrompt, "skip-prompt", false, "Skip interactive prompts")
	runCmd.Flags().BoolVar(&runMonitor, "monitor", false, "Serve a local web monitor streaming run progress")
	runCmd.Flags().IntVar(&runRetries, "max-retries", 0, "Override the verification attempt ceiling")
}
