package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/troikatech/kisan-voicebot/pkg/client"
	"github.com/troikatech/kisan-voicebot/pkg/middleware"
	"github.com/troikatech/kisan-voicebot/pkg/validation"
)

type apiKeyResponse struct {
	Status   string `json:"status"`
	APIKey   string `json:"api_key"`
	Message  string `json:"message"`
	ValidFor string `json:"valid_for"`
}

type callResponse struct {
	Status  string `json:"status"`
	CallSid string `json:"call_sid"`
	Message string `json:"message"`
}

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// buildRootCmd creates the command that asks a running server to ring a farmer.
func buildRootCmd() *cobra.Command {
	var (
		apiURL  string
		apiKey  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "make-call <phone-number>",
		Short: "Place an outbound call through the voice server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMakeCall(cmd, strings.TrimRight(apiURL, "/"), apiKey, args[0], timeout)
		},
	}

	defaultURL := os.Getenv("API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	cmd.Flags().StringVar(&apiURL, "api-url", defaultURL, "Base URL of the voice server")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("API_KEY"), "API key (a new one is issued if empty)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	return cmd
}

func runMakeCall(cmd *cobra.Command, apiURL, apiKey, phone string, timeout time.Duration) error {
	out := cmd.OutOrStdout()

	target, err := validation.NormalizeE164(phone)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	httpClient := client.NewHTTPClient("voice-server", timeout)

	if apiKey == "" {
		fmt.Fprintln(out, "Requesting API key...")
		var keyResp apiKeyResponse
		if err := httpClient.PostJSON(ctx, apiURL+"/generate-api-key", struct{}{}, &keyResp); err != nil {
			return describe("generate API key", err)
		}
		apiKey = keyResp.APIKey
		fmt.Fprintf(out, "API key issued, valid for %s\n", keyResp.ValidFor)
	}

	httpClient.SetHeader(middleware.APIKeyHeader, apiKey)
	// Retries of the same run must not dial twice.
	httpClient.SetHeader(middleware.IdempotencyKeyHeader, uuid.NewString())

	fmt.Fprintf(out, "Calling %s...\n", target)
	var callResp callResponse
	if err := httpClient.PostJSON(ctx, apiURL+"/initiate-call", map[string]string{"phone_number": target}, &callResp); err != nil {
		return describe("initiate call", err)
	}

	fmt.Fprintf(out, "%s\nCall SID: %s\n", callResp.Message, callResp.CallSid)
	return nil
}

func describe(step string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s failed (status %d): %s", step, apiErr.StatusCode, string(apiErr.Body))
	}
	return fmt.Errorf("%s: %w", step, err)
}
