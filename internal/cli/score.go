// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"io"

	"github.com/alvinbaena/pwdguard/internal/util"
	"github.com/alvinbaena/pwdguard/pkg/strength"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	scoreCmd = &cobra.Command{
		Use:   "score [password]",
		Short: "Score the strength of a password locally, without any network access",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			util.ApplyCliSettings(verbose, profile, pprofPort)
			out := cmd.OutOrStdout()

			if interactive {
				return interactiveSession(passwordPrompt(), func(input string) error {
					renderStrength(out, strength.Score(input))
					return nil
				})
			}

			renderStrength(out, strength.Score(args[0]))
			return nil
		},
	}
)

func init() {
	scoreCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")

	rootCmd.AddCommand(scoreCmd)
}

func passwordPrompt() promptui.Prompt {
	return promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a password")
			}
			return nil
		},
	}
}

// interactiveSession prompts until ^C or ^D, handing every input to handle.
func interactiveSession(prompt promptui.Prompt, handle func(string) error) error {
	log.Info().Msgf("running interactive session. ^C to exit")
	log.Warn().Msgf("do not enter passwords you use in production")

	for {
		result, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
				log.Info().Msgf("goodbye")
				return nil
			}
			return err
		}

		if err = handle(result); err != nil {
			log.Error().Err(err).Msg("error during query")
		}
	}
}
