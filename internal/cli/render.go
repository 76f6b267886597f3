// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"

	"github.com/alvinbaena/pwdguard/internal/evaluate"
	"github.com/alvinbaena/pwdguard/pkg/strength"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func renderStrength(w io.Writer, r strength.Report) {
	fmt.Fprintf(w, "Strength:  %d/100 (%s)\n", r.Score, r.Label)
	fmt.Fprintf(w, "Length:    %d characters\n", r.Length)
	fmt.Fprintf(w, "Classes:   %d/4\n", r.Classes)
	for _, f := range r.Factors {
		mark := " "
		if f.Satisfied {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %-10s %3d\n", mark, f.Name, f.Points)
	}
	fmt.Fprintf(w, "Estimate:  zxcvbn %d/4, crack time %s\n", r.Estimate.Score, r.Estimate.CrackTimeDisplay)

	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  ! %s\n", warning)
	}
}

func breachLine(b evaluate.BreachStatus) string {
	switch b.Outcome {
	case evaluate.Found:
		return printer.Sprintf("FOUND in breach corpus %d times. Never use this password again.", b.Count)
	case evaluate.NotFound:
		return "not found in the breach corpus"
	default:
		return fmt.Sprintf("could not determine (service error): %v", b.Err)
	}
}

func renderBreach(w io.Writer, b evaluate.BreachStatus) {
	fmt.Fprintf(w, "Breach:    %s\n", breachLine(b))
}

func renderVerdict(w io.Writer, v evaluate.Verdict) {
	renderStrength(w, v.Strength)
	renderBreach(w, v.Breach)
}
