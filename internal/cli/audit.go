// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/alvinbaena/pwdguard/internal/evaluate"
	"github.com/alvinbaena/pwdguard/pkg/strength"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
)

type auditEntry struct {
	line     int
	password string
}

type auditSummary struct {
	found    int
	notFound int
	unknown  int
	weak     int
	invalid  int
}

// auditResult is the outcome of one line. err is set when a hashed line is not a valid digest.
type auditResult struct {
	verdict evaluate.Verdict
	err     error
}

func readAuditFile(r io.Reader) ([]auditEntry, error) {
	var entries []auditEntry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		password := strings.TrimSuffix(scanner.Text(), "\r")
		if password == "" {
			continue
		}
		entries = append(entries, auditEntry{line: line, password: password})
	}
	return entries, scanner.Err()
}

func auditFile(ctx context.Context, evaluator *evaluate.Evaluator, fileName string, out io.Writer) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}

	defer func(file *os.File) {
		if err = file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing audit file")
		}
	}(file)

	entries, err := readAuditFile(file)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", fileName, err)
	}

	summary, err := audit(ctx, evaluator, entries, out)
	if err != nil {
		return err
	}

	if hashed {
		printer.Fprintf(out, "\n%d hashes audited: %d found, %d not found, %d unknown, %d invalid\n",
			len(entries), summary.found, summary.notFound, summary.unknown, summary.invalid)
	} else {
		printer.Fprintf(out, "\n%d passwords audited: %d found, %d not found, %d unknown, %d below Moderate strength\n",
			len(entries), summary.found, summary.notFound, summary.unknown, summary.weak)
	}
	if summary.unknown > 0 || summary.invalid > 0 {
		return errBreachUnknown
	}
	return nil
}

// audit evaluates entries on a bounded worker pool and renders them in file order. With hashed set every
// entry is a digest and only its breach status is checked.
func audit(ctx context.Context, evaluator *evaluate.Evaluator, entries []auditEntry, out io.Writer) (auditSummary, error) {
	workers := threads
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	// Bounded pool. ReqPerSeconds keeps a large audit from hammering the range API.
	pool, err := executor.New(executor.Config{
		ReqPerSeconds: rate,
		QueueSize:     2 * workers,
		NumWorkers:    workers,
	})
	if err != nil {
		return auditSummary{}, err
	}
	defer pool.Close()

	log.Info().Msgf("auditing %d passwords with %d workers", len(entries), workers)
	results := make([]auditResult, len(entries))
	for i := range entries {
		// each task writes its own slot, no locking needed
		if err = pool.Publish(func(i int) {
			results[i] = evaluateEntry(ctx, evaluator, entries[i].password)
		}, i); err != nil {
			return auditSummary{}, err
		}
	}
	pool.Wait()

	var s auditSummary
	for i, r := range results {
		line := entries[i].line
		if r.err != nil {
			s.invalid++
			fmt.Fprintf(out, "line %d: invalid hash: %v\n", line, r.err)
			continue
		}

		v := r.verdict
		switch v.Breach.Outcome {
		case evaluate.Found:
			s.found++
		case evaluate.NotFound:
			s.notFound++
		default:
			s.unknown++
		}
		if hashed {
			fmt.Fprintf(out, "line %d: %s\n", line, breachLine(v.Breach))
			continue
		}
		if v.Strength.Label < strength.Moderate {
			s.weak++
		}

		fmt.Fprintf(out, "line %d: %d/100 (%s), %s\n", line, v.Strength.Score, v.Strength.Label, breachLine(v.Breach))
	}

	return s, nil
}

func evaluateEntry(ctx context.Context, evaluator *evaluate.Evaluator, input string) auditResult {
	if !hashed {
		return auditResult{verdict: evaluator.Evaluate(ctx, input)}
	}

	status, err := evaluator.CheckHash(ctx, input)
	return auditResult{verdict: evaluate.Verdict{Breach: status}, err: err}
}
