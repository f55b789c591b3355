package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thinkscotty/promptify/internal/ai"
)

var queryCmd = &cobra.Command{
	Use:   "query <prompt>",
	Short: "Enhance a prompt with the configured provider",
	Long: `Send a prompt through the gateway and print the enhanced version.

Arguments are joined with spaces. Use "-" to read the prompt from stdin.
--model and --host override the stored Ollama settings for this call only.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		prompt := strings.Join(args, " ")
		if prompt == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			prompt = string(data)
		}

		model, _ := cmd.Flags().GetString("model")
		host, _ := cmd.Flags().GetString("host")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res := a.gateway().Query(ctx, ai.QueryRequest{Prompt: prompt, Model: model, Host: host})
		if !res.OK {
			return errors.New(res.Error)
		}
		fmt.Println(res.Text)
		return nil
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check that a provider is reachable and accepts the credentials",
	Long: `Check a provider without generating a prompt.

Flags left blank fall back to the stored settings, then to provider defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var req ai.TestRequest
		req.Provider, _ = cmd.Flags().GetString("provider")
		req.Host, _ = cmd.Flags().GetString("host")
		req.APIKey, _ = cmd.Flags().GetString("api-key")
		req.APIModel, _ = cmd.Flags().GetString("api-model")
		req.APIBaseURL, _ = cmd.Flags().GetString("api-base-url")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res := a.gateway().Test(ctx, req)
		if !res.OK {
			return errors.New(res.Error)
		}
		fmt.Println("Connection OK")
		return nil
	},
}

func init() {
	queryCmd.Flags().StringP("model", "m", "", "Override the Ollama model")
	queryCmd.Flags().String("host", "", "Override the Ollama host")

	testCmd.Flags().StringP("provider", "p", "", "Provider to test: ollama, openai, openrouter, anthropic")
	testCmd.Flags().String("host", "", "Ollama host")
	testCmd.Flags().String("api-key", "", "API key for cloud providers")
	testCmd.Flags().String("api-model", "", "Model for cloud providers (required for Anthropic)")
	testCmd.Flags().String("api-base-url", "", "API base URL for cloud providers")
}
