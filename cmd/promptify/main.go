package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thinkscotty/promptify/internal/ai"
	"github.com/thinkscotty/promptify/internal/config"
	"github.com/thinkscotty/promptify/internal/database"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "promptify",
	Short: "Prompt enhancement gateway for local and hosted LLMs",
	Long: `Promptify rewrites a raw prompt into an improved one using a configured
LLM provider: a local Ollama server, OpenAI, OpenRouter, or Anthropic.

Use 'promptify serve' to run the HTTP API the browser extension talks to,
or 'promptify query' to enhance a prompt from the terminal.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Promptify %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "Path to configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(versionCmd)
}

// app is what every subcommand needs: validated config, logger, and an open database.
type app struct {
	cfg config.Config
	db  *database.DB
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, _ := config.ParseLevel(cfg.Logging.Level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	slog.Debug("Database initialized", "path", cfg.Database.Path)

	return &app{cfg: cfg, db: db}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) gateway() *ai.Gateway {
	return ai.NewGateway(a.db,
		ai.WithGenerateTimeout(a.cfg.Gateway.GenerateTimeout()),
		ai.WithTestTimeout(a.cfg.Gateway.TestTimeout()),
		ai.WithRecorder(a.db),
	)
}
