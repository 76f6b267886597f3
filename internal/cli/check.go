// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"io"

	"github.com/alvinbaena/pwdguard/internal/evaluate"
	"github.com/alvinbaena/pwdguard/internal/util"
	"github.com/alvinbaena/pwdguard/pkg/hibp"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errBreachUnknown = errors.New("breach status could not be determined")

var (
	checkCmd = &cobra.Command{
		Use:   "check [password]",
		Short: "Score a password and check it against the Pwned Passwords corpus",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive && inputFile == "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) > 0 {
				password = args[0]
			}
			return checkCommand(cmd.Context(), cmd.OutOrStdout(), password)
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")
	checkCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "The input is a hexadecimal hash (SHA1, or NTLM with --mode ntlm) instead of a plain text password. Only the breach status is checked.")
	checkCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "Audit every password of a file, one per line. Passwords are never printed, only their line numbers.")
	checkCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Concurrent lookups when auditing a file. If omitted or less than 1, defaults to the number of logical processors.")
	checkCmd.Flags().IntVar(&rate, "rate", 0, "Maximum lookups per second when auditing a file. 0 means unlimited.")
	addLookupFlags(checkCmd)

	rootCmd.AddCommand(checkCmd)
}

func checkCommand(ctx context.Context, out io.Writer, password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	evaluator, err := newEvaluator()
	if err != nil {
		return err
	}

	switch {
	case inputFile != "":
		return auditFile(ctx, evaluator, inputFile, out)
	case interactive:
		prompt := passwordPrompt()
		if hashed {
			m, _ := hibp.ParseMode(mode)
			prompt = promptui.Prompt{
				Label: m.String() + " hex hash",
				Validate: func(input string) error {
					_, err := hibp.ParseDigest(m, input)
					return err
				},
			}
			log.Info().Msgf("flag 'hashed' is set. Please use %s hashed passwords.", m)
		}

		return interactiveSession(prompt, func(input string) error {
			err := checkInput(ctx, evaluator, input, out)
			if errors.Is(err, errBreachUnknown) {
				// already rendered, keep the session going
				return nil
			}
			return err
		})
	default:
		return checkInput(ctx, evaluator, password, out)
	}
}

// checkInput renders the verdict of one input. An unknown breach status is returned as errBreachUnknown so
// the process does not exit as if the password were safe.
func checkInput(ctx context.Context, evaluator *evaluate.Evaluator, input string, out io.Writer) error {
	var breach evaluate.BreachStatus
	if hashed {
		status, err := evaluator.CheckHash(ctx, input)
		if err != nil {
			return err
		}
		renderBreach(out, status)
		breach = status
	} else {
		v := evaluator.Evaluate(ctx, input)
		renderVerdict(out, v)
		breach = v.Breach
	}

	if breach.Outcome == evaluate.Unknown {
		log.Debug().Err(breach.Err).Msg("lookup failed")
		return errBreachUnknown
	}
	return nil
}
