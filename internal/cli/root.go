// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/alvinbaena/pwdguard/internal/evaluate"
	"github.com/alvinbaena/pwdguard/pkg/hibp"
	"github.com/alvinbaena/pwdguard/pkg/strength"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwdcheck [COMMAND] [OPTIONS]",
		Short: "Check password strength and exposure in the Pwned Passwords corpus",
		Long: "Score the strength of a password and check whether it appears in the Pwned Passwords " +
			"(haveibeenpwned.com) corpus. Only the first 5 characters of the password hash are sent over the network.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
}

// addLookupFlags registers the range API flags shared by the commands that query the corpus.
func addLookupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&apiURL, "api-url", hibp.DefaultBaseURL, "Base URL of the Pwned Passwords range API")
	cmd.Flags().StringVar(&mode, "mode", hibp.ModeSHA1.String(), "Hash corpus to query: sha1 or ntlm")
	cmd.Flags().BoolVar(&padding, "padding", false, "Ask the API to pad responses so their size does not leak the range")
	cmd.Flags().DurationVar(&timeout, "timeout", hibp.DefaultTimeout, "Timeout of a single range request")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retries on connection errors and 5xx responses, with exponential backoff (max 3)")
}

// maxRetries bounds --retries so a failing range API is not hammered.
const maxRetries = 3

func clientConfig() hibp.ClientConfig {
	return hibp.ClientConfig{
		BaseURL:  apiURL,
		Timeout:  timeout,
		RetryMax: max(0, min(retries, maxRetries)),
		Padding:  padding,
	}
}

func newEvaluator() (*evaluate.Evaluator, error) {
	m, err := hibp.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	return evaluate.New(&strength.Scorer{}, hibp.NewChecker(hibp.NewClient(clientConfig()), m)), nil
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
