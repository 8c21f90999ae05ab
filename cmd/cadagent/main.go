// Command cadagent is an interactive text-to-CAD agent: it turns natural
// language instructions into scripts against a running CATIA session, with
// an operator confirmation gate before every execution.
//
// Usage:
//
//	export GEMINI_API_KEY="your-api-key"
//	cadagent
//
// CATIA must be running with an active part. Type instructions like
// "create a point at 10,20,30"; q, quit or exit ends the session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cadagent/pkg/agent"
	"cadagent/pkg/binder"
	"cadagent/pkg/config"
	"cadagent/pkg/heuristics"
	"cadagent/pkg/host/com"
	"cadagent/pkg/models/gemini"
	"cadagent/pkg/sandbox"
)

func main() {
	var (
		configPath  string
		modelName   string
		temperature float32
		timeoutSecs int
		logFile     string
	)

	root := &cobra.Command{
		Use:           "cadagent",
		Short:         "Natural-language geometry creation against a live CATIA session",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ApplyEnv()
			if cmd.Flags().Changed("model") {
				cfg.Model = modelName
			}
			if cmd.Flags().Changed("temperature") {
				cfg.Temperature = temperature
			}
			if cmd.Flags().Changed("timeout") {
				cfg.TimeoutSeconds = timeoutSecs
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFile
			}
			return run(cmd.Context(), &cfg)
		},
	}

	root.Flags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	root.Flags().StringVar(&modelName, "model", gemini.DefaultModel, "generation model")
	root.Flags().Float32Var(&temperature, "temperature", config.DefaultTemperature, "sampling temperature")
	root.Flags().IntVar(&timeoutSecs, "timeout", config.DefaultTimeoutSeconds, "generation timeout in seconds")
	root.Flags().StringVar(&logFile, "log-file", config.DefaultLogFile, "log file path")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Attachment failure is fatal for the whole session: no turn can
	// proceed without an attached host.
	app, err := binder.Attach(com.Attach)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not connect to CATIA (is it running?)")
		fmt.Fprintln(os.Stderr, "[!] Check that CATIA 3DExperience is running and a part is active.")
		return err
	}
	slog.Info("Connected to CATIA")

	provider, err := gemini.New(ctx, cfg.APIKey, cfg.Model, cfg.RequestTimeout())
	if err != nil {
		return err
	}
	defer provider.Close()

	runner := sandbox.New(heuristics.New(com.Attach))
	ag := agent.New(app, provider, cfg, runner)

	p := tea.NewProgram(initialModel(ctx, ag))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI error: %w", err)
	}
	return nil
}

func setupLogging(cfg *config.Config) (func(), error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	switch strings.ToUpper(cfg.LogLevel) {
	case "TRACE":
		level = gemini.LevelTrace
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	slog.Info("Logging initialized", "level", level)
	return func() { f.Close() }, nil
}
