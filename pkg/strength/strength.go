// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package strength scores passwords from their length and the character classes they use.
//
// Scoring is a structural heuristic: length earns up to LengthWeight points, reaching full credit at
// FullCreditLength code points, and each of the four character classes (lowercase, uppercase, digit,
// symbol) present earns ClassWeight points. The sum is clamped to [0,100] and mapped to a Band.
package strength

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/nbutton23/zxcvbn-go"
)

const (
	MinScore = 0
	MaxScore = 100

	// MaxEstimateLength is the number of leading code points handed to zxcvbn. Its matchers are
	// superlinear in the input length.
	MaxEstimateLength = 100
)

// Factor names reported in a Report.
const (
	FactorLength    = "length"
	FactorLowercase = "lowercase"
	FactorUppercase = "uppercase"
	FactorDigit     = "digit"
	FactorSymbol    = "symbol"
)

// Weights configures how many points each criterion contributes.
type Weights struct {
	// FullCreditLength is the length, in code points, that earns the whole LengthWeight.
	FullCreditLength int
	LengthWeight     int
	ClassWeight      int
}

// DefaultWeights gives 60 points for length (full credit at 16 characters) and 10 per character class.
var DefaultWeights = Weights{
	FullCreditLength: 16,
	LengthWeight:     60,
	ClassWeight:      10,
}

var ErrInvalidWeights = errors.New("invalid strength weights")

// Validate checks that every weight is positive and that a full-length password using the four classes
// adds up to exactly MaxScore.
func (w Weights) Validate() error {
	if w.FullCreditLength <= 0 || w.LengthWeight <= 0 || w.ClassWeight <= 0 {
		return fmt.Errorf("%w: weights must be positive", ErrInvalidWeights)
	}

	if total := w.LengthWeight + 4*w.ClassWeight; total != MaxScore {
		return fmt.Errorf("%w: maximum score is %d, want %d", ErrInvalidWeights, total, MaxScore)
	}

	return nil
}

// Factor is one criterion that contributes to the score.
type Factor struct {
	Name      string `json:"name"`
	Satisfied bool   `json:"satisfied"`
	Points    int    `json:"points"`
}

// Estimate is the zxcvbn estimate of the password, computed over its first MaxEstimateLength code points.
// It is informational and never changes the score.
type Estimate struct {
	Score            int     `json:"score"`
	Entropy          float64 `json:"entropy"`
	CrackTimeDisplay string  `json:"crackTimeDisplay"`
}

// Report is the result of scoring a password.
type Report struct {
	Score    int      `json:"score"`
	Label    Band     `json:"label"`
	Length   int      `json:"length"`
	Classes  int      `json:"classes"`
	Factors  []Factor `json:"factors"`
	Warnings []string `json:"warnings"`
	Estimate Estimate `json:"estimate"`
}

// Scorer scores passwords with a fixed set of weights. It holds no mutable state and is safe for concurrent use.
// The zero value scores with DefaultWeights.
type Scorer struct {
	weights Weights
}

var defaultScorer = &Scorer{}

// NewScorer creates a Scorer with the given weights.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	return &Scorer{weights: w}, nil
}

// Score scores password with DefaultWeights.
func Score(password string) Report {
	return defaultScorer.Score(password)
}

// Score returns the strength report of password. It is total: every string, including the empty one and
// invalid UTF-8, produces a report.
func (s *Scorer) Score(password string) Report {
	w := s.weights
	if w == (Weights{}) {
		w = DefaultWeights
	}

	length := utf8.RuneCountInString(password)
	c := classify(password)

	lengthPoints := min(length, w.FullCreditLength) * w.LengthWeight / w.FullCreditLength
	factors := []Factor{
		{Name: FactorLength, Satisfied: length >= w.FullCreditLength, Points: lengthPoints},
		w.classFactor(FactorLowercase, c.lower),
		w.classFactor(FactorUppercase, c.upper),
		w.classFactor(FactorDigit, c.digit),
		w.classFactor(FactorSymbol, c.symbol),
	}

	score := 0
	for _, f := range factors {
		score += f.Points
	}
	score = max(MinScore, min(score, MaxScore))

	return Report{
		Score:    score,
		Label:    BandFor(score),
		Length:   length,
		Classes:  c.count(),
		Factors:  factors,
		Warnings: warnings(password, length, c.count()),
		Estimate: estimate(password),
	}
}

func (w Weights) classFactor(name string, present bool) Factor {
	f := Factor{Name: name, Satisfied: present}
	if present {
		f.Points = w.ClassWeight
	}
	return f
}

type classes struct {
	lower, upper, digit, symbol bool
}

// classify marks the classes present in password. A symbol is any rune that is neither a letter nor a
// digit. Letters without case count toward no class.
func classify(password string) classes {
	var c classes
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsDigit(r):
			c.digit = true
		case !unicode.IsLetter(r):
			c.symbol = true
		}
	}
	return c
}

func (c classes) count() int {
	n := 0
	for _, present := range []bool{c.lower, c.upper, c.digit, c.symbol} {
		if present {
			n++
		}
	}
	return n
}

func estimate(password string) (e Estimate) {
	if password == "" {
		return Estimate{CrackTimeDisplay: "instant"}
	}

	// zxcvbn matchers index into the password; a panic there must not take the scorer with it.
	defer func() {
		if recover() != nil {
			e = Estimate{}
		}
	}()

	m := zxcvbn.PasswordStrength(truncate(password, MaxEstimateLength), nil)
	return Estimate{
		Score:            m.Score,
		Entropy:          m.Entropy,
		CrackTimeDisplay: m.CrackTimeDisplay,
	}
}

// truncate returns the first n code points of s.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
