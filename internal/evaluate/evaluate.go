// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package evaluate combines the strength score and the breach lookup of a password into one Verdict.
package evaluate

import (
	"context"
	"encoding/json"

	"github.com/alvinbaena/pwdguard/pkg/hibp"
	"github.com/alvinbaena/pwdguard/pkg/strength"
	"golang.org/x/sync/errgroup"
)

// Outcome is the breach status shown to the user. Unknown is never folded into NotFound.
type Outcome string

const (
	Found    Outcome = "found"
	NotFound Outcome = "not_found"
	Unknown  Outcome = "unknown"
)

// BreachStatus is the breach side of a Verdict.
type BreachStatus struct {
	Outcome Outcome `json:"status"`
	Count   uint64  `json:"count"`
	Err     error   `json:"-"`
}

func (b BreachStatus) MarshalJSON() ([]byte, error) {
	type status BreachStatus
	out := struct {
		status
		Error string `json:"error,omitempty"`
	}{status: status(b)}
	if b.Err != nil {
		out.Error = b.Err.Error()
	}
	return json.Marshal(out)
}

type Verdict struct {
	Strength strength.Report `json:"strength"`
	Breach   BreachStatus    `json:"breach"`
}

// Checker is the breach lookup used by the Evaluator. *hibp.Checker implements it.
type Checker interface {
	Check(ctx context.Context, password string) (hibp.Exposure, error)
	CheckDigest(ctx context.Context, d hibp.Digest) (hibp.Exposure, error)
	Mode() hibp.Mode
}

// Evaluator is stateless and safe for concurrent use.
type Evaluator struct {
	scorer  *strength.Scorer
	checker Checker
}

func New(scorer *strength.Scorer, checker Checker) *Evaluator {
	return &Evaluator{scorer: scorer, checker: checker}
}

// Evaluate scores password while its breach lookup is in flight and waits for both. A failed lookup only
// marks the breach status Unknown, the strength report is always returned.
func (e *Evaluator) Evaluate(ctx context.Context, password string) Verdict {
	var (
		g        errgroup.Group
		exposure hibp.Exposure
	)

	g.Go(func() (err error) {
		exposure, err = e.checker.Check(ctx, password)
		return err
	})
	report := e.scorer.Score(password)
	err := g.Wait()

	return Verdict{Strength: report, Breach: breachStatus(exposure, err)}
}

// CheckHash looks up a digest supplied by the caller. Parse errors are returned, lookup errors are an
// Unknown outcome.
func (e *Evaluator) CheckHash(ctx context.Context, hex string) (BreachStatus, error) {
	d, err := hibp.ParseDigest(e.checker.Mode(), hex)
	if err != nil {
		return BreachStatus{}, err
	}

	exposure, err := e.checker.CheckDigest(ctx, d)
	return breachStatus(exposure, err), nil
}

// Score only runs the strength scorer.
func (e *Evaluator) Score(password string) strength.Report {
	return e.scorer.Score(password)
}

func breachStatus(exposure hibp.Exposure, err error) BreachStatus {
	switch {
	case err != nil:
		return BreachStatus{Outcome: Unknown, Err: err}
	case exposure.Found:
		return BreachStatus{Outcome: Found, Count: exposure.Count}
	default:
		return BreachStatus{Outcome: NotFound}
	}
}
